package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
)

// flexID accepts both string and numeric identifiers.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

// timeLayouts are the date/time encodings the API is known to emit.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	domain.DateLayout,
}

// flexTime accepts RFC 3339 timestamps, zone-less local timestamps, and plain dates.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time: %w", err)
	}
	parsed, err := parseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// taskDTO is a task as the API serializes it. Older deployments send "status"
// instead of "taskStatus"; a server-sent "quadrant" is not decoded.
type taskDTO struct {
	DueDate     *flexTime `json:"dueDate"`
	CreatedAt   *flexTime `json:"createdAt"`
	UpdatedAt   *flexTime `json:"updatedAt"`
	ID          flexID    `json:"id"`
	UserID      flexID    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TaskStatus  string    `json:"taskStatus"`
	Status      string    `json:"status"`
	IsUrgent    bool      `json:"isUrgent"`
	IsImportant bool      `json:"isImportant"`
}

func (d *taskDTO) toDomain() *domain.Task {
	status := d.TaskStatus
	if status == "" {
		status = d.Status
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		st = domain.Status(strings.ToUpper(status))
	}
	t := &domain.Task{
		ID:          string(d.ID),
		Title:       d.Title,
		Description: d.Description,
		UserID:      string(d.UserID),
		Status:      st,
		IsUrgent:    d.IsUrgent,
		IsImportant: d.IsImportant,
	}
	if d.CreatedAt != nil {
		t.CreatedAt = d.CreatedAt.Time
	}
	if d.UpdatedAt != nil {
		t.UpdatedAt = d.UpdatedAt.Time
	}
	if d.DueDate != nil && !d.DueDate.IsZero() {
		due := d.DueDate.Time
		t.DueDate = &due
	}
	return t
}

// taskList accepts a bare array or a paged envelope.
type taskList []taskDTO

func (l *taskList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []taskDTO
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var env struct {
		Content []taskDTO `json:"content"`
		Tasks   []taskDTO `json:"tasks"`
		Data    []taskDTO `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch {
	case env.Content != nil:
		*l = env.Content
	case env.Tasks != nil:
		*l = env.Tasks
	default:
		*l = env.Data
	}
	return nil
}

func (l taskList) toDomain() []*domain.Task {
	out := make([]*domain.Task, 0, len(l))
	for i := range l {
		out = append(out, l[i].toDomain())
	}
	return out
}

// createTaskRequest is the POST /tasks body. Due dates are sent as calendar dates.
type createTaskRequest struct {
	DueDate     *string `json:"dueDate,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	IsUrgent    bool    `json:"isUrgent"`
	IsImportant bool    `json:"isImportant"`
}

func newCreateTaskRequest(in domain.NewTaskInput) createTaskRequest {
	return createTaskRequest{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		IsUrgent:    in.IsUrgent,
		IsImportant: in.IsImportant,
		DueDate:     formatDate(in.DueDate),
	}
}

// updateTaskRequest is the sparse PUT /tasks/:id body.
type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	IsUrgent    *bool   `json:"isUrgent,omitempty"`
	IsImportant *bool   `json:"isImportant,omitempty"`
	TaskStatus  *string `json:"taskStatus,omitempty"`
}

func newUpdateTaskRequest(p domain.TaskPatch) updateTaskRequest {
	req := updateTaskRequest{
		Title:       p.Title,
		Description: p.Description,
		DueDate:     formatDate(p.DueDate),
		IsUrgent:    p.IsUrgent,
		IsImportant: p.IsImportant,
	}
	if p.Status != nil {
		s := string(p.Status.Normalize())
		req.TaskStatus = &s
	}
	return req
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

// userDTO is a user as the API serializes it.
type userDTO struct {
	CreatedAt *flexTime `json:"createdAt"`
	ID        flexID    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

func (d *userDTO) toDomain() *domain.User {
	if d == nil {
		return nil
	}
	u := &domain.User{
		ID:       string(d.ID),
		Username: d.Username,
		Email:    d.Email,
		Role:     domain.UserRole(strings.ToUpper(d.Role)),
	}
	if d.CreatedAt != nil {
		u.CreatedAt = d.CreatedAt.Time
	}
	return u
}

// authResponse is the body returned by /login and /register.
type authResponse struct {
	User  *userDTO `json:"user"`
	Token string   `json:"token"`
}
