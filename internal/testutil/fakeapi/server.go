// Package fakeapi runs an in-process ZenTasks API for tests.
package fakeapi

import (
	"errors"
	"net"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const secret = "fakeapi-secret"

// Task is the server-side task record.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DueDate     *string   `json:"dueDate,omitempty"`
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TaskStatus  string    `json:"taskStatus"`
	Quadrant    string    `json:"quadrant,omitempty"`
	IsUrgent    bool      `json:"isUrgent"`
	IsImportant bool      `json:"isImportant"`
}

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	password string
}

// Options tweak server behavior to mimic different API deployments.
type Options struct {
	// UpdateNoContent makes PUT /tasks/:id answer 204 without a body.
	UpdateNoContent bool
	// RegisterWithoutToken makes /register return only the user.
	RegisterWithoutToken bool
	// StaleQuadrant sends a wrong server-computed quadrant on every task.
	StaleQuadrant bool
	// TokenTTL sets token lifetime (default one hour).
	TokenTTL time.Duration
}

// Server is a fake ZenTasks API listening on a loopback port.
// Fields are ordered to minimize memory padding.
type Server struct {
	app        *fiber.App
	tasks      map[string]*Task
	users      map[string]*user
	hits       map[string]int
	requestIDs []string
	failures   []int
	opts       Options
	URL        string
	mu         sync.Mutex
}

// New starts a server and registers its shutdown with t.Cleanup.
func New(t testing.TB, opts Options) *Server {
	t.Helper()
	if opts.TokenTTL == 0 {
		opts.TokenTTL = time.Hour
	}
	s := &Server{
		tasks: make(map[string]*Task),
		users: make(map[string]*user),
		hits:  make(map[string]int),
		opts:  opts,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
	})
	s.routes()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("fakeapi: listen: %v", err)
	}
	s.URL = "http://" + ln.Addr().String()
	go func() { _ = s.app.Listener(ln) }()

	t.Cleanup(func() { _ = s.app.Shutdown() })
	return s
}

func (s *Server) routes() {
	v1 := s.app.Group("/v1", s.track)
	v1.Post("/login", s.login)
	v1.Post("/register", s.register)
	v1.Get("/auth/status", s.requireAuth, s.authStatus)

	tasks := v1.Group("/tasks", s.requireAuth)
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.createTask)
	tasks.Get("/:id", s.getTask)
	tasks.Put("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)
}

// AddUser registers an account directly and returns a signed token for it.
func (s *Server) AddUser(username, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{ID: uuid.NewString(), Username: username, Email: username + "@example.com", Role: "USER", password: password}
	s.users[username] = u
	token, _ := s.sign(u)
	return token
}

// RevokeUser deletes an account; its tokens are rejected from then on.
func (s *Server) RevokeUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
}

// Seed stores a task owned by username and returns its ID.
func (s *Server) Seed(username string, task Task) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[username]
	task.ID = uuid.NewString()
	if u != nil {
		task.UserID = u.ID
	}
	if task.TaskStatus == "" {
		task.TaskStatus = "CREATED"
	}
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now
	s.tasks[task.ID] = &task
	return task.ID
}

// FailNext makes the next len(statuses) requests fail with the given status codes.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// Hits returns how many requests were received for "METHOD /path".
// Item routes are counted as "METHOD /v1/tasks/:id".
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// RequestIDs returns the X-Request-ID header of every request received.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// TaskCount returns the number of stored tasks.
func (s *Server) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Server) track(c *fiber.Ctx) error {
	path := c.Path()
	if strings.HasPrefix(path, "/v1/tasks/") && len(path) > len("/v1/tasks/") {
		path = "/v1/tasks/:id"
	}
	path = strings.TrimSuffix(path, "/")

	s.mu.Lock()
	s.hits[c.Method()+" "+path]++
	s.requestIDs = append(s.requestIDs, c.Get("X-Request-ID"))
	var fail int
	if len(s.failures) > 0 {
		fail, s.failures = s.failures[0], s.failures[1:]
	}
	s.mu.Unlock()

	if fail != 0 {
		return errorJSON(c, fail, "injected failure")
	}
	return c.Next()
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *Server) sign(u *user) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	})
	return token.SignedString([]byte(secret))
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return errorJSON(c, fiber.StatusUnauthorized, "Missing authorization header")
	}
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid token")
	}
	if s.userByID(cl.Subject) == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "User not found")
	}
	c.Locals("userID", cl.Subject)
	return c.Next()
}

func (s *Server) userByID(id string) *user {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// authStatus answers with the account behind the token. Like the real API it
// omits the role.
func (s *Server) authStatus(c *fiber.Ctx) error {
	u := s.userByID(c.Locals("userID").(string))
	return c.JSON(fiber.Map{"id": u.ID, "username": u.Username, "email": u.Email})
}

func (s *Server) login(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	s.mu.Lock()
	u, ok := s.users[body.Username]
	s.mu.Unlock()
	if !ok || u.password != body.Password {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid username or password")
	}
	token, err := s.sign(u)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"user": u, "token": token})
}

func (s *Server) register(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	s.mu.Lock()
	if _, exists := s.users[body.Username]; exists {
		s.mu.Unlock()
		return errorJSON(c, fiber.StatusConflict, "Username already taken")
	}
	u := &user{ID: uuid.NewString(), Username: body.Username, Email: body.Email, Role: "USER", password: body.Password}
	s.users[u.Username] = u
	s.mu.Unlock()

	if s.opts.RegisterWithoutToken {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u})
	}
	token, err := s.sign(u)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u, "token": token})
}

func quadrantOf(urgent, important bool) string {
	switch {
	case urgent && important:
		return "DO_NOW"
	case important:
		return "SCHEDULE"
	case urgent:
		return "DELEGATE"
	default:
		return "ELIMINATE"
	}
}

// view returns a copy of t as it is sent on the wire.
func (s *Server) view(t *Task) Task {
	out := *t
	out.Quadrant = quadrantOf(t.IsUrgent, t.IsImportant)
	if s.opts.StaleQuadrant {
		out.Quadrant = quadrantOf(!t.IsUrgent, !t.IsImportant)
	}
	return out
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	owner, _ := c.Locals("userID").(string)
	status := c.Query("status")
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.UserID != owner {
			continue
		}
		// Only status and search are filtered server-side.
		if status != "" && t.TaskStatus != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		out = append(out, s.view(t))
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return c.JSON(out)
}

// owned looks up a task and checks ownership. Callers hold s.mu.
func (s *Server) owned(c *fiber.Ctx) (*Task, int) {
	owner, _ := c.Locals("userID").(string)
	t, ok := s.tasks[c.Params("id")]
	if !ok {
		return nil, fiber.StatusNotFound
	}
	if t.UserID != owner {
		return nil, fiber.StatusForbidden
	}
	return t, 0
}

func failMessage(status int) string {
	if status == fiber.StatusForbidden {
		return "You do not have permission to access this task"
	}
	return "Task not found"
}

func (s *Server) getTask(c *fiber.Ctx) error {
	s.mu.Lock()
	t, fail := s.owned(c)
	var out Task
	if t != nil {
		out = s.view(t)
	}
	s.mu.Unlock()
	if fail != 0 {
		return errorJSON(c, fail, failMessage(fail))
	}
	return c.JSON(out)
}

type taskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	IsUrgent    *bool   `json:"isUrgent"`
	IsImportant *bool   `json:"isImportant"`
	TaskStatus  *string `json:"taskStatus"`
}

func (s *Server) createTask(c *fiber.Ctx) error {
	owner, _ := c.Locals("userID").(string)
	var body taskBody
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Title == nil || len(*body.Title) < 3 {
		return errorJSON(c, fiber.StatusBadRequest, "Title must be between 3 and 300 characters")
	}
	now := time.Now().UTC()
	t := &Task{
		ID:          uuid.NewString(),
		UserID:      owner,
		Title:       *body.Title,
		DueDate:     body.DueDate,
		TaskStatus:  "CREATED",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if body.Description != nil {
		t.Description = *body.Description
	}
	if body.IsUrgent != nil {
		t.IsUrgent = *body.IsUrgent
	}
	if body.IsImportant != nil {
		t.IsImportant = *body.IsImportant
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	out := s.view(t)
	s.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	var body taskBody
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	t, fail := s.owned(c)
	if fail != 0 {
		s.mu.Unlock()
		return errorJSON(c, fail, failMessage(fail))
	}
	if body.Title != nil {
		t.Title = *body.Title
	}
	if body.Description != nil {
		t.Description = *body.Description
	}
	if body.DueDate != nil {
		t.DueDate = body.DueDate
	}
	if body.IsUrgent != nil {
		t.IsUrgent = *body.IsUrgent
	}
	if body.IsImportant != nil {
		t.IsImportant = *body.IsImportant
	}
	if body.TaskStatus != nil {
		t.TaskStatus = *body.TaskStatus
	}
	t.UpdatedAt = time.Now().UTC()
	out := s.view(t)
	s.mu.Unlock()

	if s.opts.UpdateNoContent {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(out)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	s.mu.Lock()
	t, fail := s.owned(c)
	if t != nil {
		delete(s.tasks, t.ID)
	}
	s.mu.Unlock()
	if fail != 0 {
		return errorJSON(c, fail, failMessage(fail))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
