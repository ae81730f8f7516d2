package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/infra/apiclient"
)

// Ensure sessionTasks implements domain.TaskRepository.
var _ domain.TaskRepository = (*sessionTasks)(nil)

// sessionTasks binds every request to the session currently in the store,
// so a login or logout takes effect without rebuilding the container.
type sessionTasks struct {
	client   *apiclient.Client
	sessions domain.SessionStore
}

func (s *sessionTasks) bound() (*apiclient.Client, error) {
	session, err := s.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.client.WithSession(session), nil
}

// scope names the account behind the stored session without exposing the token.
// It is empty when nobody is signed in or the session cannot be read.
func (s *sessionTasks) scope() string {
	session, err := s.sessions.Load()
	if err != nil || session == nil || session.Token == "" {
		return ""
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(session.Token)).String()
}

func (s *sessionTasks) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	c, err := s.bound()
	if err != nil {
		return nil, err
	}
	return c.List(ctx, filter)
}

func (s *sessionTasks) Get(ctx context.Context, id string) (*domain.Task, error) {
	c, err := s.bound()
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, id)
}

func (s *sessionTasks) Create(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	c, err := s.bound()
	if err != nil {
		return nil, err
	}
	return c.Create(ctx, in)
}

func (s *sessionTasks) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	c, err := s.bound()
	if err != nil {
		return nil, err
	}
	return c.Update(ctx, id, patch)
}

func (s *sessionTasks) Delete(ctx context.Context, id string) error {
	c, err := s.bound()
	if err != nil {
		return err
	}
	return c.Delete(ctx, id)
}
