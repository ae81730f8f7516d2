package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zentasks/zentasks/internal/domain"
)

const tasksPath = "/tasks"

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}

// List returns tasks matching filter. Set filter fields are sent as query parameters
// and re-applied locally, so the AND semantics hold whatever the server supports.
func (c *Client) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var out taskList
	_, err := c.send(ctx, request{
		method: http.MethodGet,
		path:   tasksPath,
		query:  filterQuery(filter),
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return filter.Apply(out.toDomain()), nil
}

// Get returns a task by ID.
func (c *Client) Get(ctx context.Context, id string) (*domain.Task, error) {
	if err := c.checkItem(id); err != nil {
		return nil, err
	}
	var out taskDTO
	_, err := c.send(ctx, request{
		method: http.MethodGet,
		path:   taskPath(id),
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, itemError("get task", id, err)
	}
	return out.toDomain(), nil
}

// Create validates the input and creates a task.
func (c *Client) Create(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var out taskDTO
	_, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   tasksPath,
		body:   newCreateTaskRequest(in),
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return out.toDomain(), nil
}

// Update sends a sparse patch. When the server answers without a body
// the task is fetched again so callers always get the updated state.
func (c *Client) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkItem(id); err != nil {
		return nil, err
	}
	var out *taskDTO
	status, err := c.send(ctx, request{
		method: http.MethodPut,
		path:   taskPath(id),
		body:   newUpdateTaskRequest(patch),
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, itemError("update task", id, err)
	}
	if status == http.StatusNoContent || out == nil {
		return c.Get(ctx, id)
	}
	return out.toDomain(), nil
}

// Delete removes a task. A second delete of the same ID fails with ErrTaskNotFound.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.checkItem(id); err != nil {
		return err
	}
	_, err := c.send(ctx, request{
		method: http.MethodDelete,
		path:   taskPath(id),
		auth:   true,
	})
	if err != nil {
		return itemError("delete task", id, err)
	}
	return nil
}

func (c *Client) requireSession() error {
	if !c.session.IsAuthenticated() {
		return domain.ErrNotLoggedIn
	}
	return nil
}

func (c *Client) checkItem(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrEmptyID
	}
	return c.requireSession()
}

// itemError wraps an item endpoint failure. The API answers 403 for tasks owned by
// someone else; callers see that as not found.
func itemError(op, id string, err error) error {
	if errors.Is(err, domain.ErrForbidden) {
		return fmt.Errorf("%s %s: %w: %w", op, id, domain.ErrTaskNotFound, err)
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}

func filterQuery(f domain.TaskFilter) url.Values {
	q := url.Values{}
	if f.Status != nil {
		q.Set("status", string(f.Status.Normalize()))
	}
	if f.Quadrant != nil {
		q.Set("quadrant", string(f.Quadrant.Normalize()))
	}
	if f.IsUrgent != nil {
		q.Set("isUrgent", strconv.FormatBool(*f.IsUrgent))
	}
	if f.IsImportant != nil {
		q.Set("isImportant", strconv.FormatBool(*f.IsImportant))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	return q
}
