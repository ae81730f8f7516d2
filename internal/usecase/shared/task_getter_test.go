package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/testutil"
)

func TestGetTask(t *testing.T) {
	t.Run("returns task when found", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()
		repo.Add(&domain.Task{ID: "42", Title: "Test task"})

		task, err := GetTask(context.Background(), repo, " 42 ")

		require.NoError(t, err)
		assert.Equal(t, "42", task.ID)
		assert.Equal(t, "Test task", task.Title)
	})

	t.Run("returns ErrTaskNotFound when missing", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()

		task, err := GetTask(context.Background(), repo, "999")

		assert.Nil(t, task)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("wraps repository error", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()
		repo.GetErr = errors.New("database error")

		task, err := GetTask(context.Background(), repo, "1")

		assert.Nil(t, task)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "get task")
		assert.Contains(t, err.Error(), "database error")
	})

	t.Run("rejects empty id without calling repository", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()

		_, err := GetTask(context.Background(), repo, "   ")

		assert.ErrorIs(t, err, domain.ErrEmptyID)
		assert.Equal(t, 0, repo.CallCount("Get"))
	})
}
