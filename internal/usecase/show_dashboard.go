package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// ShowDashboardInput contains the parameters for the dashboard.
type ShowDashboardInput struct{}

// ShowDashboardOutput contains the dashboard groups.
type ShowDashboardOutput struct {
	Now       time.Time
	Dashboard domain.Dashboard
}

// ShowDashboard is the use case for the "what needs attention" summary.
type ShowDashboard struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewShowDashboard creates a new ShowDashboard use case.
func NewShowDashboard(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *ShowDashboard {
	return &ShowDashboard{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute builds the dashboard from all tasks.
func (uc *ShowDashboard) Execute(ctx context.Context, _ ShowDashboardInput) (*ShowDashboardOutput, error) {
	now := uc.clock.Now()
	if _, err := shared.RequireSession(uc.sessions, now); err != nil {
		return nil, err
	}

	tasks, err := uc.tasks.List(ctx, domain.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ShowDashboardOutput{
		Now:       now,
		Dashboard: domain.BuildDashboard(tasks, now),
	}, nil
}
