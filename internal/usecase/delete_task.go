package usecase

import (
	"context"
	"fmt"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	TaskID string // ID of the deleted task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *DeleteTask {
	return &DeleteTask{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute deletes the task. Deleting an unknown ID fails with ErrTaskNotFound.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	if _, err := shared.RequireSession(uc.sessions, uc.clock.Now()); err != nil {
		return nil, err
	}
	id, err := shared.NormalizeTaskID(in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete task %s: %w", id, err)
	}
	return &DeleteTaskOutput{TaskID: id}, nil
}
