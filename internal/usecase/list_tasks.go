package usecase

import (
	"context"
	"fmt"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Filter      domain.TaskFilter // Status/quadrant/flag/search constraints (ANDed)
	IncludeDone bool              // Include completed and cancelled tasks
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task // Tasks matching the filter; never nil
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *ListTasks {
	return &ListTasks{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute lists tasks matching the given input criteria.
// An explicit status filter always wins over IncludeDone.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if _, err := shared.RequireSession(uc.sessions, uc.clock.Now()); err != nil {
		return nil, err
	}

	tasks, err := uc.tasks.List(ctx, in.Filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if in.IncludeDone || in.Filter.Status != nil {
		return &ListTasksOutput{Tasks: nonNil(tasks)}, nil
	}
	open := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsDone() {
			open = append(open, t)
		}
	}
	return &ListTasksOutput{Tasks: open}, nil
}

func nonNil(tasks []*domain.Task) []*domain.Task {
	if tasks == nil {
		return []*domain.Task{}
	}
	return tasks
}
