package usecase

import (
	"context"
	"fmt"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// Only set fields in Patch are sent.
type EditTaskInput struct {
	Patch  domain.TaskPatch // Fields to change
	TaskID string           // Task ID to edit
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // The updated task
}

// EditTask is the use case for editing a task.
type EditTask struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *EditTask {
	return &EditTask{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute edits a task with the given parameters.
// Returns ErrNoFieldsToUpdate if the patch is empty.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	now := uc.clock.Now()
	if _, err := shared.RequireSession(uc.sessions, now); err != nil {
		return nil, err
	}
	if in.Patch.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if err := in.Patch.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateDueDate(in.Patch.DueDate, now); err != nil {
		return nil, err
	}
	return updateTask(ctx, uc.tasks, in.TaskID, in.Patch)
}

// updateTask sends a patch and wraps the result, shared by the edit-style use cases.
func updateTask(ctx context.Context, repo domain.TaskRepository, taskID string, patch domain.TaskPatch) (*EditTaskOutput, error) {
	id, err := shared.NormalizeTaskID(taskID)
	if err != nil {
		return nil, err
	}
	task, err := repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	return &EditTaskOutput{Task: task}, nil
}
