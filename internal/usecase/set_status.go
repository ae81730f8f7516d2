package usecase

import (
	"context"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// SetStatusInput contains the parameters for changing a task's status.
type SetStatusInput struct {
	TaskID string
	Status domain.Status // Target status; aliases such as TODO are accepted
}

// SetStatus is the use case for changing a task's status.
// Any status may follow any other.
type SetStatus struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewSetStatus creates a new SetStatus use case.
func NewSetStatus(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *SetStatus {
	return &SetStatus{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute sets the status of the task.
func (uc *SetStatus) Execute(ctx context.Context, in SetStatusInput) (*EditTaskOutput, error) {
	if _, err := shared.RequireSession(uc.sessions, uc.clock.Now()); err != nil {
		return nil, err
	}
	status := in.Status.Normalize()
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	return updateTask(ctx, uc.tasks, in.TaskID, domain.TaskPatch{Status: &status})
}
