package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentasks/zentasks/internal/domain"
)

func TestMatrixCommand(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	seedTasks(env.repo)

	// Execute
	out, _, err := env.run("matrix")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Do Now (1)")
	assert.Contains(t, out, "Schedule (1)")
	assert.Contains(t, out, "Delegate (1)")
	assert.Contains(t, out, "Eliminate (0)")
	assert.Contains(t, out, "t1 Fix outage")
	assert.Contains(t, out, "t3 Answer email")
	assert.NotContains(t, out, "Sort drawer")
	assert.Contains(t, out, "3 task(s)\n")
}

func TestMatrixCommand_All(t *testing.T) {
	env := newTestEnv(t)
	seedTasks(env.repo)

	out, _, err := env.run("matrix", "--all")

	require.NoError(t, err)
	assert.Contains(t, out, "Eliminate (1)")
	assert.Contains(t, out, "t4 Sort drawer")
	assert.Contains(t, out, "4 task(s)\n")
}

func TestMatrixCommand_Search(t *testing.T) {
	env := newTestEnv(t)
	seedTasks(env.repo)

	out, _, err := env.run("matrix", "--search", "report")

	require.NoError(t, err)
	assert.Contains(t, out, "Schedule (1)")
	assert.Contains(t, out, "Do Now (0)")
	assert.Contains(t, out, "1 task(s)\n")
}

func TestMatrixCommand_JSON(t *testing.T) {
	env := newTestEnv(t)
	seedTasks(env.repo)

	out, _, err := env.run("matrix", "-o", "json")

	require.NoError(t, err)
	var view map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Len(t, view["DO_NOW"], 1)
	assert.Len(t, view["SCHEDULE"], 1)
	assert.Len(t, view["DELEGATE"], 1)
	assert.NotNil(t, view["ELIMINATE"])
	assert.Empty(t, view["ELIMINATE"])
	assert.Equal(t, "t2", view["SCHEDULE"][0]["id"])
}

func TestMatrixCommand_NotLoggedIn(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.Session = nil

	_, _, err := env.run("matrix")

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		n    int
	}{
		{"fits", "short", "short", 10},
		{"exact", "abcde", "abcde", 5},
		{"cut", "abcdefgh", "abcd…", 5},
		{"runes", "日本語のタスク", "日本…", 3},
		{"tiny limit", "abc", "abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}

func TestDashboardCommand(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	seedTasks(env.repo)

	// Execute
	out, _, err := env.run("dashboard")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Today is Wednesday, 2026-03-11\n")
	assert.Contains(t, out, "\nOverdue (1)\n  t1  DO_NOW     Fix outage  [2026-03-10 (overdue)]\n")
	assert.Contains(t, out, "\nDue today (1)\n  t2  SCHEDULE   Write report  [2026-03-11 (today)]\n")
	assert.Contains(t, out, "\nDo now (1)\n  t1  DO_NOW     Fix outage")
	assert.NotContains(t, out, "Answer email")
}

func TestDashboardCommand_Empty(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("dashboard")

	require.NoError(t, err)
	assert.Contains(t, out, "Overdue (0)\n  (none)\n")
	assert.Contains(t, out, "Due today (0)\n  (none)\n")
	assert.Contains(t, out, "Do now (0)\n  (none)\n")
}

func TestWeekCommand(t *testing.T) {
	t.Run("current week", func(t *testing.T) {
		// Setup
		env := newTestEnv(t)
		seedTasks(env.repo)

		// Execute
		out, _, err := env.run("week")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "Week of 2026-03-09 - 2026-03-15\n")
		assert.Contains(t, out, "\nMon 2026-03-09\n  -\n")
		assert.Regexp(t, `\nTue 2026-03-10\n  t1  DO_NOW\s+CREATED\s+Fix outage\n`, out)
		assert.Regexp(t, `\nWed 2026-03-11\n  t2  SCHEDULE\s+CREATED\s+Write report\n`, out)
		assert.Regexp(t, `\nFri 2026-03-13\n  t3  DELEGATE\s+CREATED\s+Answer email\n`, out)
		assert.Contains(t, out, "\nSun 2026-03-15\n  -\n")
	})

	t.Run("offset", func(t *testing.T) {
		env := newTestEnv(t)
		seedTasks(env.repo)

		out, _, err := env.run("week", "--offset", "1")

		require.NoError(t, err)
		assert.Contains(t, out, "Week of 2026-03-16 - 2026-03-22\n")
		assert.NotContains(t, out, "Fix outage")
	})

	t.Run("date argument", func(t *testing.T) {
		env := newTestEnv(t)

		out, _, err := env.run("week", "2026-04-01")

		require.NoError(t, err)
		assert.Contains(t, out, "Week of 2026-03-30 - 2026-04-05\n")
	})

	t.Run("invalid date", func(t *testing.T) {
		env := newTestEnv(t)

		_, _, err := env.run("week", "april")

		assert.Error(t, err)
	})
}
