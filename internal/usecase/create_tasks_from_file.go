package usecase

import (
	"context"
	"fmt"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// CreateTasksFromFileInput contains the parameters for creating tasks from a file.
type CreateTasksFromFileInput struct {
	Content string // Markdown with one or more frontmatter blocks
	DryRun  bool   // Parse and validate only
}

// CreateTasksFromFileOutput contains the result of creating tasks from a file.
type CreateTasksFromFileOutput struct {
	Drafts []domain.TaskDraft // Parsed drafts, in file order
	Tasks  []*domain.Task     // Created tasks (empty on dry run)
}

// CreateTasksFromFile is the use case for creating several tasks from a Markdown file.
// Every draft is validated before the first one is created.
type CreateTasksFromFile struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewCreateTasksFromFile creates a new CreateTasksFromFile use case.
func NewCreateTasksFromFile(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *CreateTasksFromFile {
	return &CreateTasksFromFile{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute parses the file and creates its tasks in order.
// On a create failure the tasks created so far are returned with the error.
func (uc *CreateTasksFromFile) Execute(ctx context.Context, in CreateTasksFromFileInput) (*CreateTasksFromFileOutput, error) {
	now := uc.clock.Now()
	if !in.DryRun {
		if _, err := shared.RequireSession(uc.sessions, now); err != nil {
			return nil, err
		}
	}

	drafts, err := domain.ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	inputs := make([]domain.NewTaskInput, 0, len(drafts))
	for i, d := range drafts {
		input := d.NewTaskInput()
		if err := input.Validate(); err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		if err := domain.ValidateDueDate(input.DueDate, now); err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		inputs = append(inputs, input)
	}

	out := &CreateTasksFromFileOutput{Drafts: drafts, Tasks: []*domain.Task{}}
	if in.DryRun {
		return out, nil
	}

	for i, input := range inputs {
		task, err := uc.tasks.Create(ctx, input)
		if err != nil {
			return out, fmt.Errorf("create task %d: %w", i+1, err)
		}
		out.Tasks = append(out.Tasks, task)
	}
	return out, nil
}
