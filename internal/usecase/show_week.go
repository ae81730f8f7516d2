package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// ShowWeekInput contains the parameters for the weekly view.
type ShowWeekInput struct {
	Date   *time.Time // Any day in the week to show (nil = this week)
	Offset int        // Weeks to shift from Date (-1 = previous week)
}

// ShowWeekOutput contains one bucket per day, Monday first.
type ShowWeekOutput struct {
	Start time.Time
	Days  []domain.WeekDay
}

// ShowWeek is the use case for the weekly due-date view.
type ShowWeek struct {
	tasks    domain.TaskRepository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewShowWeek creates a new ShowWeek use case.
func NewShowWeek(tasks domain.TaskRepository, sessions domain.SessionStore, clock domain.Clock) *ShowWeek {
	return &ShowWeek{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute groups tasks by due date across the selected week.
func (uc *ShowWeek) Execute(ctx context.Context, in ShowWeekInput) (*ShowWeekOutput, error) {
	now := uc.clock.Now()
	if _, err := shared.RequireSession(uc.sessions, now); err != nil {
		return nil, err
	}

	day := now
	if in.Date != nil {
		day = in.Date.In(now.Location())
	}
	start := domain.WeekStart(day).AddDate(0, 0, 7*in.Offset)

	tasks, err := uc.tasks.List(ctx, domain.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ShowWeekOutput{
		Start: start,
		Days:  domain.BuildWeek(tasks, start),
	}, nil
}
