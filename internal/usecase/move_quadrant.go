package usecase

import (
	"context"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// MoveQuadrantInput contains the parameters for moving a task.
type MoveQuadrantInput struct {
	TaskID   string
	Quadrant domain.Quadrant // Target quadrant
}

// MoveQuadrant is the use case for moving a task to another quadrant.
// Both flags are sent in one request, so the task never passes through
// an intermediate quadrant.
type MoveQuadrant struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewMoveQuadrant creates a new MoveQuadrant use case.
func NewMoveQuadrant(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *MoveQuadrant {
	return &MoveQuadrant{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute moves the task.
func (uc *MoveQuadrant) Execute(ctx context.Context, in MoveQuadrantInput) (*EditTaskOutput, error) {
	if _, err := shared.RequireSession(uc.sessions, uc.clock.Now()); err != nil {
		return nil, err
	}
	q := in.Quadrant.Normalize()
	if !q.IsValid() {
		return nil, domain.ErrInvalidQuadrant
	}
	return updateTask(ctx, uc.tasks, in.TaskID, domain.MovePatch(q))
}
