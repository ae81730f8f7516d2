package usecase

import (
	"context"
	"fmt"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// ShowMatrixInput contains the parameters for the matrix view.
type ShowMatrixInput struct {
	Search      string // Optional substring filter on title or description
	IncludeDone bool   // Include completed and cancelled tasks
}

// ShowMatrixOutput holds tasks bucketed by quadrant.
type ShowMatrixOutput struct {
	Quadrants map[domain.Quadrant][]*domain.Task // Every quadrant present, possibly empty
	Total     int
}

// ShowMatrix is the use case for the Eisenhower matrix view.
// It groups the same list the list view shows, using the derived quadrant.
type ShowMatrix struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewShowMatrix creates a new ShowMatrix use case.
func NewShowMatrix(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *ShowMatrix {
	return &ShowMatrix{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute loads tasks and groups them by quadrant.
func (uc *ShowMatrix) Execute(ctx context.Context, in ShowMatrixInput) (*ShowMatrixOutput, error) {
	if _, err := shared.RequireSession(uc.sessions, uc.clock.Now()); err != nil {
		return nil, err
	}

	tasks, err := uc.tasks.List(ctx, domain.TaskFilter{Search: in.Search})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	visible := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if in.IncludeDone || !t.IsDone() {
			visible = append(visible, t)
		}
	}
	return &ShowMatrixOutput{
		Quadrants: domain.GroupByQuadrant(visible),
		Total:     len(visible),
	}, nil
}
