package shared

import (
	"context"
	"fmt"
	"strings"

	"github.com/zentasks/zentasks/internal/domain"
)

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if not found.
// This centralizes the common pattern of:
//
//	task, err := repo.Get(ctx, taskID)
//	if err != nil { return nil, fmt.Errorf("get task: %w", err) }
//	if task == nil { return nil, domain.ErrTaskNotFound }
func GetTask(ctx context.Context, repo domain.TaskRepository, taskID string) (*domain.Task, error) {
	taskID, err := NormalizeTaskID(taskID)
	if err != nil {
		return nil, err
	}
	task, err := repo.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// NormalizeTaskID trims the ID and rejects an empty one.
func NormalizeTaskID(taskID string) (string, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return "", domain.ErrEmptyID
	}
	return taskID, nil
}
