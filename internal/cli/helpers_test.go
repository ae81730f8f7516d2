package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/zentasks/zentasks/internal/app"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/infra/logging"
	"github.com/zentasks/zentasks/internal/testutil"
)

var testNow = time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC) // a Wednesday

// testEnv bundles a container with the mocks behind it.
type testEnv struct {
	c        *app.Container
	repo     *testutil.MockTaskRepository
	auth     *testutil.MockAuthService
	sessions *testutil.MockSessionStore
	loader   *testutil.MockConfigLoader
	manager  *testutil.MockConfigManager
}

// newTestEnv returns a logged-in container backed by mocks.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo: testutil.NewMockTaskRepository(),
		auth: &testutil.MockAuthService{Result: &domain.AuthResult{
			User:  &domain.User{ID: "u-7", Username: "bob", Email: "bob@example.com"},
			Token: "tok-7",
		}},
		sessions: &testutil.MockSessionStore{Session: &domain.Session{
			User:  &domain.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: domain.RoleUser},
			Token: "opaque-token",
		}},
		loader:  testutil.NewMockConfigLoader(),
		manager: testutil.NewMockConfigManager(),
	}
	env.c = app.NewWithDeps(app.Config{}, env.repo, env.auth, env.sessions,
		&testutil.MockClock{NowTime: testNow}, logging.Discard().Logger)
	env.c.ConfigLoader = env.loader
	env.c.ConfigManager = env.manager
	return env
}

// run executes the root command with args and returns stdout and stderr.
func (e *testEnv) run(args ...string) (string, string, error) {
	return e.runWithInput("", args...)
}

func (e *testEnv) runWithInput(stdin string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(e.c, "test-version")
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedTasks(repo *testutil.MockTaskRepository) {
	repo.Add(&domain.Task{ID: "t1", Title: "Fix outage", Description: "prod is down", IsUrgent: true, IsImportant: true, DueDate: day(2026, 3, 10)})
	repo.Add(&domain.Task{ID: "t2", Title: "Write report", Description: "quarterly numbers", IsImportant: true, DueDate: day(2026, 3, 11)})
	repo.Add(&domain.Task{ID: "t3", Title: "Answer email", Description: "from vendor", IsUrgent: true, DueDate: day(2026, 3, 13)})
	repo.Add(&domain.Task{ID: "t4", Title: "Sort drawer", Description: "someday", Status: domain.StatusCompleted})
}
