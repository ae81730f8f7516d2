package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// NewTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	DueDate     *time.Time // Optional due date (today or later)
	Title       string     // Task title (3..300 chars)
	Description string     // Task description (3..1000 chars)
	IsUrgent    bool
	IsImportant bool
}

// NewTaskOutput contains the result of creating a task.
type NewTaskOutput struct {
	Task *domain.Task // The created task with server-assigned fields
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *NewTask {
	return &NewTask{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute creates a new task. The quadrant follows from the two flags.
func (uc *NewTask) Execute(ctx context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	now := uc.clock.Now()
	if _, err := shared.RequireSession(uc.sessions, now); err != nil {
		return nil, err
	}

	input := domain.NewTaskInput{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		IsUrgent:    in.IsUrgent,
		IsImportant: in.IsImportant,
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateDueDate(in.DueDate, now); err != nil {
		return nil, err
	}

	task, err := uc.tasks.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &NewTaskOutput{Task: task}, nil
}
