package apiclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/testutil/fakeapi"
)

func newTestClient(t *testing.T, srv *fakeapi.Server) *Client {
	t.Helper()
	c, err := New(srv.URL, WithRetryDelay(0), WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func loggedIn(t *testing.T, opts fakeapi.Options) (*fakeapi.Server, *Client) {
	t.Helper()
	srv := fakeapi.New(t, opts)
	token := srv.AddUser("alice", "secret123")
	c := newTestClient(t, srv).WithSession(&domain.Session{Token: token, User: &domain.User{Username: "alice"}})
	return srv, c
}

func TestNew_BaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "http://localhost:8080/v1", false},
		{"http://localhost:8080/", "http://localhost:8080/v1", false},
		{"https://api.example.com/v1", "https://api.example.com/v1", false},
		{"https://api.example.com/v1/", "https://api.example.com/v1", false},
		{"", "", true},
		{"ftp://example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := New(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}

	_, err := New("  ")
	assert.ErrorIs(t, err, domain.ErrNoAPIURL)
}

func TestClient_CreateThenListClassifiesDoNow(t *testing.T) {
	// Setup
	_, c := loggedIn(t, fakeapi.Options{})
	ctx := context.Background()

	// Execute
	created, err := c.Create(ctx, domain.NewTaskInput{
		Title:       "Pay bills",
		Description: "Electricity and water",
		IsUrgent:    true,
		IsImportant: true,
	})
	require.NoError(t, err)
	tasks, err := c.List(ctx, domain.TaskFilter{})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
	assert.Equal(t, domain.QuadrantDoNow, tasks[0].Quadrant())
	assert.Equal(t, domain.StatusCreated, tasks[0].Status)
}

func TestClient_UpdateMovesQuadrant(t *testing.T) {
	for _, noContent := range []bool{false, true} {
		t.Run(map[bool]string{false: "body", true: "no content"}[noContent], func(t *testing.T) {
			srv, c := loggedIn(t, fakeapi.Options{UpdateNoContent: noContent})
			id := srv.Seed("alice", fakeapi.Task{Title: "Plan trip", Description: "Summer", IsImportant: true})
			ctx := context.Background()

			before, err := c.Get(ctx, id)
			require.NoError(t, err)
			require.Equal(t, domain.QuadrantSchedule, before.Quadrant())

			important := false
			updated, err := c.Update(ctx, id, domain.TaskPatch{IsImportant: &important})

			require.NoError(t, err)
			assert.Equal(t, domain.QuadrantEliminate, updated.Quadrant())
			assert.Equal(t, "Plan trip", updated.Title, "omitted fields are untouched")
			if noContent {
				assert.Equal(t, 2, srv.Hits("GET /v1/tasks/:id"))
			}
		})
	}
}

func TestClient_DeleteThenGetIsNotFound(t *testing.T) {
	srv, c := loggedIn(t, fakeapi.Options{})
	id := srv.Seed("alice", fakeapi.Task{Title: "Old task", Description: "remove me"})
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, id))

	_, err := c.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Equal(t, http.StatusNotFound, domain.StatusCode(err))

	err = c.Delete(ctx, id)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound, "second delete fails")

	_, err = c.Update(ctx, id, domain.TaskPatch{Title: ptr("New title")})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestClient_ForeignTaskIsNotFound(t *testing.T) {
	srv, c := loggedIn(t, fakeapi.Options{})
	srv.AddUser("bob", "hunter22")
	id := srv.Seed("bob", fakeapi.Task{Title: "Bob's task", Description: "private"})

	_, err := c.Get(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "You do not have permission to access this task", httpErr.Message)
}

func TestClient_ListFilters(t *testing.T) {
	srv, c := loggedIn(t, fakeapi.Options{})
	srv.Seed("alice", fakeapi.Task{Title: "Pay bills", Description: "now", IsUrgent: true, IsImportant: true})
	srv.Seed("alice", fakeapi.Task{Title: "Read book", Description: "later", IsImportant: true})
	srv.Seed("alice", fakeapi.Task{Title: "Pay rent", Description: "done", IsUrgent: true, TaskStatus: "COMPLETED"})
	ctx := context.Background()

	urgent := true
	got, err := c.List(ctx, domain.TaskFilter{IsUrgent: &urgent})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	status := domain.StatusCompleted
	got, err = c.List(ctx, domain.TaskFilter{IsUrgent: &urgent, Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pay rent", got[0].Title)

	q := domain.QuadrantSchedule
	got, err = c.List(ctx, domain.TaskFilter{Quadrant: &q})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Read book", got[0].Title)

	got, err = c.List(ctx, domain.TaskFilter{Search: "nothing matches"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_IgnoresServerQuadrant(t *testing.T) {
	srv, c := loggedIn(t, fakeapi.Options{StaleQuadrant: true})
	srv.Seed("alice", fakeapi.Task{Title: "Delegate me", Description: "x", IsUrgent: true})

	tasks, err := c.List(context.Background(), domain.TaskFilter{})

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.QuadrantDelegate, tasks[0].Quadrant())
}

func TestClient_CreateValidatesBeforeNetwork(t *testing.T) {
	srv, c := loggedIn(t, fakeapi.Options{})

	_, err := c.Create(context.Background(), domain.NewTaskInput{Title: "", Description: "x"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Equal(t, 0, srv.Hits("POST /v1/tasks"))
	assert.Equal(t, 0, srv.TaskCount())
}

func TestClient_DueDateRoundTrip(t *testing.T) {
	_, c := loggedIn(t, fakeapi.Options{})
	due := time.Date(2030, 1, 15, 0, 0, 0, 0, time.Local)

	created, err := c.Create(context.Background(), domain.NewTaskInput{
		Title: "File taxes", Description: "Annual", DueDate: &due,
	})

	require.NoError(t, err)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2030-01-15", created.DueDate.Format(domain.DateLayout))
}

func TestClient_RequiresSession(t *testing.T) {
	srv := fakeapi.New(t, fakeapi.Options{})
	c := newTestClient(t, srv)

	_, err := c.List(context.Background(), domain.TaskFilter{})
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	_, err = c.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyID)
	assert.Equal(t, 0, srv.Hits("GET /v1/tasks"))
}

func TestClient_InvalidTokenIsUnauthorized(t *testing.T) {
	srv := fakeapi.New(t, fakeapi.Options{})
	c := newTestClient(t, srv).WithSession(&domain.Session{Token: "garbage"})

	_, err := c.List(context.Background(), domain.TaskFilter{})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, domain.StatusCode(err))
}

func TestClient_RetriesReadsOnly(t *testing.T) {
	srv, c := loggedIn(t, fakeapi.Options{})
	ctx := context.Background()

	// A single 503 on a read is retried.
	srv.FailNext(http.StatusServiceUnavailable)
	_, err := c.List(ctx, domain.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Hits("GET /v1/tasks"))

	// Two in a row exhaust the single retry.
	srv.FailNext(http.StatusServiceUnavailable, http.StatusServiceUnavailable)
	_, err = c.List(ctx, domain.TaskFilter{})
	assert.Equal(t, http.StatusServiceUnavailable, domain.StatusCode(err))

	// Mutations are never retried.
	srv.FailNext(http.StatusInternalServerError)
	_, err = c.Create(ctx, domain.NewTaskInput{Title: "Pay bills", Description: "now"})
	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "injected failure", httpErr.Message)
	assert.Equal(t, 1, srv.Hits("POST /v1/tasks"))
	assert.Equal(t, 0, srv.TaskCount())

	// 4xx is not retried.
	srv.FailNext(http.StatusBadRequest)
	_, err = c.List(ctx, domain.TaskFilter{})
	assert.Equal(t, http.StatusBadRequest, domain.StatusCode(err))
}

func TestClient_NetworkError(t *testing.T) {
	// Nothing listens on port 1, so the dial is refused.
	srv := fakeapi.New(t, fakeapi.Options{})
	token := srv.AddUser("alice", "secret123")
	c, err := New("http://127.0.0.1:1", WithRetryDelay(0), WithTimeout(time.Second))
	require.NoError(t, err)
	c = c.WithSession(&domain.Session{Token: token})

	_, err = c.List(context.Background(), domain.TaskFilter{})

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 0, netErr.StatusCode())
	assert.Equal(t, 0, domain.StatusCode(err))
}

func TestClient_SendsRequestID(t *testing.T) {
	srv, c := loggedIn(t, fakeapi.Options{})

	_, err := c.List(context.Background(), domain.TaskFilter{})
	require.NoError(t, err)

	ids := srv.RequestIDs()
	require.Len(t, ids, 1)
	_, err = uuid.Parse(ids[0])
	assert.NoError(t, err)
}

func TestClient_LoginAndRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("login", func(t *testing.T) {
		srv := fakeapi.New(t, fakeapi.Options{})
		srv.AddUser("alice", "secret123")
		c := newTestClient(t, srv)

		res, err := c.Login(ctx, domain.Credentials{Username: "alice", Password: "secret123"})

		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		require.NotNil(t, res.User)
		assert.Equal(t, "alice", res.User.Username)
		assert.Equal(t, domain.RoleUser, res.User.Role)

		s := domain.NewSession(res)
		exp, ok := s.ExpiresAt()
		require.True(t, ok)
		assert.True(t, exp.After(time.Now()))
	})

	t.Run("bad password", func(t *testing.T) {
		srv := fakeapi.New(t, fakeapi.Options{})
		srv.AddUser("alice", "secret123")
		c := newTestClient(t, srv)

		_, err := c.Login(ctx, domain.Credentials{Username: "alice", Password: "wrong"})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, err.Error(), "Invalid username or password")
	})

	t.Run("register returns token", func(t *testing.T) {
		srv := fakeapi.New(t, fakeapi.Options{})
		c := newTestClient(t, srv)

		res, err := c.Register(ctx, domain.Registration{Username: "carol", Email: "carol@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, 0, srv.Hits("POST /v1/login"))
	})

	t.Run("register falls back to login", func(t *testing.T) {
		srv := fakeapi.New(t, fakeapi.Options{RegisterWithoutToken: true})
		c := newTestClient(t, srv)

		res, err := c.Register(ctx, domain.Registration{Username: "carol", Email: "carol@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "carol", res.User.Username)
		assert.Equal(t, 1, srv.Hits("POST /v1/login"))
	})

	t.Run("register validates first", func(t *testing.T) {
		srv := fakeapi.New(t, fakeapi.Options{})
		c := newTestClient(t, srv)

		_, err := c.Register(ctx, domain.Registration{Username: "x", Email: "bad", Password: "short"})

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, 0, srv.Hits("POST /v1/register"))
	})
}

func TestClient_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the token's account", func(t *testing.T) {
		srv := fakeapi.New(t, fakeapi.Options{})
		token := srv.AddUser("alice", "secret123")
		c := newTestClient(t, srv)

		user, err := c.Status(ctx, &domain.Session{Token: token, User: &domain.User{Username: "stale"}})

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, 1, srv.Hits("GET /v1/auth/status"))
	})

	t.Run("revoked account is unauthorized", func(t *testing.T) {
		srv := fakeapi.New(t, fakeapi.Options{})
		token := srv.AddUser("alice", "secret123")
		srv.RevokeUser("alice")
		c := newTestClient(t, srv)

		_, err := c.Status(ctx, &domain.Session{Token: token})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, err.Error(), "auth status")
	})

	t.Run("no session", func(t *testing.T) {
		srv := fakeapi.New(t, fakeapi.Options{})
		c := newTestClient(t, srv)

		_, err := c.Status(ctx, nil)

		assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
		assert.Equal(t, 0, srv.Hits("GET /v1/auth/status"))
	})
}

func ptr[T any](v T) *T { return &v }
