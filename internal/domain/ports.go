package domain

import (
	"context"
	"time"
)

// TaskRepository is the task data client: CRUD over the caller's task collection.
type TaskRepository interface {
	// List returns tasks matching the filter. An empty result is an empty slice, not an error.
	List(ctx context.Context, filter TaskFilter) ([]*Task, error)

	// Get returns a task by ID. Fails with ErrTaskNotFound if it does not exist
	// or belongs to someone else.
	Get(ctx context.Context, id string) (*Task, error)

	// Create creates a task and returns it with server-assigned fields.
	Create(ctx context.Context, in NewTaskInput) (*Task, error)

	// Update applies a sparse patch and returns the updated task.
	Update(ctx context.Context, id string, patch TaskPatch) (*Task, error)

	// Delete removes a task. Deleting an unknown ID fails with ErrTaskNotFound.
	Delete(ctx context.Context, id string) error
}

// AuthService talks to the authentication endpoints.
type AuthService interface {
	// Login exchanges credentials for a token.
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)

	// Register creates an account and returns a token for it.
	Register(ctx context.Context, reg Registration) (*AuthResult, error)

	// Status asks the server which account session's token belongs to.
	Status(ctx context.Context, session *Session) (*User, error)
}

// SessionStore persists the token and user between runs.
type SessionStore interface {
	// Load returns the stored session, or nil if none is stored.
	Load() (*Session, error)

	// Save stores the token and user together.
	Save(session *Session) error

	// Clear removes the token and user together.
	Clear() error
}

// CacheInvalidator discards cached reads.
type CacheInvalidator interface {
	// Clear drops every cached entry.
	Clear()
}

// ConfigLoader loads configuration from files and environment.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults, global, project, environment).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration file.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// GetProjectConfigInfo returns information about the project config file.
	GetProjectConfigInfo() ConfigInfo

	// InitGlobalConfig writes the default template to the global config path.
	InitGlobalConfig() error

	// InitProjectConfig writes the default template to the project config path.
	InitProjectConfig() error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
