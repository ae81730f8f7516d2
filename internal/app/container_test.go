package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/infra/cache"
	"github.com/zentasks/zentasks/internal/testutil/fakeapi"
	"github.com/zentasks/zentasks/internal/usecase"
)

// newTestContainer builds a real container against a fake API.
func newTestContainer(t *testing.T, projectConfig string) (*Container, *fakeapi.Server) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"ZENTASKS_API_URL", "ZENTASKS_LOG_LEVEL", "ZENTASKS_TIMEOUT"} {
		t.Setenv(key, "")
	}

	srv := fakeapi.New(t, fakeapi.Options{})
	projectDir := t.TempDir()
	content := "[api]\nurl = \"" + srv.URL + "\"\n" + projectConfig
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, domain.ProjectConfigFileName), []byte(content), 0o644))

	c, err := NewWithStateDir(projectDir, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestContainer_EndToEnd(t *testing.T) {
	// Setup
	c, srv := newTestContainer(t, "")
	srv.AddUser("alice", "password123")
	ctx := context.Background()

	// Execute: task calls before login fail locally
	_, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	_, err = c.LoginUseCase().Execute(ctx, usecase.LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	created, err := c.NewTaskUseCase().Execute(ctx, usecase.NewTaskInput{
		Title:       "Plan sprint",
		Description: "Pick stories",
		IsImportant: true,
	})
	require.NoError(t, err)

	list, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, domain.QuadrantSchedule, list.Tasks[0].Quadrant())

	_, err = c.MoveQuadrantUseCase().Execute(ctx, usecase.MoveQuadrantInput{TaskID: created.Task.ID, Quadrant: domain.QuadrantEliminate})
	require.NoError(t, err)

	// Assert: the list read after the mutation is fresh
	list, err = c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, domain.QuadrantEliminate, list.Tasks[0].Quadrant())

	_, err = c.LogoutUseCase().Execute(ctx, usecase.LogoutInput{})
	require.NoError(t, err)
	_, err = c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestContainer_CachesReads(t *testing.T) {
	c, srv := newTestContainer(t, "")
	srv.AddUser("bob", "password123")
	ctx := context.Background()
	_, err := c.LoginUseCase().Execute(ctx, usecase.LoginInput{Username: "bob", Password: "password123"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, srv.Hits("GET /v1/tasks"))
	require.IsType(t, &cache.TaskRepository{}, c.Tasks)
	assert.NotNil(t, c.Cache)
}

func TestContainer_CacheFollowsSessionAccount(t *testing.T) {
	// Setup: alice has a task, bob has none.
	c, srv := newTestContainer(t, "")
	srv.AddUser("alice", "password123")
	bobToken := srv.AddUser("bob", "password123")
	srv.Seed("alice", fakeapi.Task{Title: "Alice only", IsUrgent: true})
	ctx := context.Background()

	_, err := c.LoginUseCase().Execute(ctx, usecase.LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	list, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)

	// Execute: another process signs in as bob behind this container's back.
	require.NoError(t, c.Sessions.Save(&domain.Session{
		Token: bobToken,
		User:  &domain.User{ID: "bob", Username: "bob"},
	}))
	list, err = c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)
	assert.Equal(t, 2, srv.Hits("GET /v1/tasks"))
}

func TestContainer_WhoAmIAsksServer(t *testing.T) {
	// Setup
	c, srv := newTestContainer(t, "")
	srv.AddUser("alice", "password123")
	ctx := context.Background()
	_, err := c.LoginUseCase().Execute(ctx, usecase.LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	// Execute
	out, err := c.WhoAmIUseCase().Execute(ctx, usecase.WhoAmIInput{})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Verified)
	assert.Equal(t, "alice", out.User.Username)
	assert.Equal(t, domain.RoleUser, out.User.Role)
	assert.Equal(t, 1, srv.Hits("GET /v1/auth/status"))

	srv.RevokeUser("alice")
	_, err = c.WhoAmIUseCase().Execute(ctx, usecase.WhoAmIInput{})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestContainer_CacheDisabled(t *testing.T) {
	c, srv := newTestContainer(t, "\n[cache]\ndisabled = true\n")
	srv.AddUser("carol", "password123")
	ctx := context.Background()
	_, err := c.LoginUseCase().Execute(ctx, usecase.LoginInput{Username: "carol", Password: "password123"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, srv.Hits("GET /v1/tasks"))
	assert.Nil(t, c.Cache)
}

func TestContainer_InvalidAPIURL(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ZENTASKS_API_URL", "ftp://example.com")

	c, err := NewWithStateDir(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, err = c.LoginUseCase().Execute(context.Background(), usecase.LoginInput{Username: "dave", Password: "password123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")

	// Config commands still work.
	out, err := c.InitConfigUseCase().Execute(context.Background(), usecase.InitConfigInput{})
	require.NoError(t, err)
	assert.FileExists(t, out.Path)
}

func TestContainer_LogsToStateDir(t *testing.T) {
	c, srv := newTestContainer(t, "\n[log]\nlevel = \"debug\"\n")
	srv.AddUser("erin", "password123")

	_, err := c.LoginUseCase().Execute(context.Background(), usecase.LoginInput{Username: "erin", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	content, err := os.ReadFile(c.Config.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[apiclient]")
	assert.Equal(t, filepath.Join(c.Config.StateDir, "logs"), c.LogDir())
}
