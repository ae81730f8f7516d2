package usecase

import (
	"context"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains the task details.
type ShowTaskOutput struct {
	Task *domain.Task
}

// ShowTask is the use case for displaying a single task.
type ShowTask struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *ShowTask {
	return &ShowTask{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute retrieves the task.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	if _, err := shared.RequireSession(uc.sessions, uc.clock.Now()); err != nil {
		return nil, err
	}
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &ShowTaskOutput{Task: task}, nil
}
