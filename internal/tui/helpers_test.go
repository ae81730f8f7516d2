package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/zentasks/zentasks/internal/app"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/infra/logging"
	"github.com/zentasks/zentasks/internal/testutil"
)

var testNow = time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)

// newTestModel returns a logged-in model backed by an in-memory repository.
func newTestModel(t *testing.T, tasks ...*domain.Task) (*Model, *testutil.MockTaskRepository) {
	t.Helper()
	repo := testutil.NewMockTaskRepository()
	for _, task := range tasks {
		repo.Add(task)
	}
	sessions := &testutil.MockSessionStore{Session: &domain.Session{
		User:  &domain.User{ID: "u-1", Username: "alice"},
		Token: "opaque-token",
	}}
	c := app.NewWithDeps(app.Config{}, repo, &testutil.MockAuthService{}, sessions,
		&testutil.MockClock{NowTime: testNow}, logging.Discard().Logger)

	m := New(c)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, repo
}

// drain runs cmd and feeds every resulting message back into the model.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 20, "command chain did not settle")
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

// press sends a key to the model and returns the resulting command.
func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// loaded returns a model whose initial load has completed.
func loaded(t *testing.T, tasks ...*domain.Task) (*Model, *testutil.MockTaskRepository) {
	t.Helper()
	m, repo := newTestModel(t, tasks...)
	drain(t, m, m.Init())
	return m, repo
}

func sampleTasks() []*domain.Task {
	return []*domain.Task{
		{ID: "t1", Title: "Fix outage", Description: "prod is down", IsUrgent: true, IsImportant: true},
		{ID: "t2", Title: "Write report", Description: "quarterly numbers", IsImportant: true},
		{ID: "t3", Title: "Answer email", Description: "from vendor", IsUrgent: true},
		{ID: "t4", Title: "Sort drawer", Description: "someday", Status: domain.StatusCompleted},
	}
}
