// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockTaskRepository is an in-memory domain.TaskRepository that counts calls.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks map[string]*domain.Task
	// ListHook runs at the start of every List call, before the lock is taken.
	ListHook  func()
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
	Calls     map[string]int
	NextIDN   int
	mu        sync.Mutex
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:   make(map[string]*domain.Task),
		Calls:   make(map[string]int),
		NextIDN: 1,
	}
}

// Add stores a task directly, assigning an ID if it has none.
func (m *MockTaskRepository) Add(task *domain.Task) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task.ID == "" {
		task.ID = m.nextID()
	}
	if task.Status == "" {
		task.Status = domain.StatusCreated
	}
	m.Tasks[task.ID] = task.Clone()
	return task
}

// CallCount returns how many times method was called.
func (m *MockTaskRepository) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func (m *MockTaskRepository) nextID() string {
	id := fmt.Sprintf("task-%d", m.NextIDN)
	m.NextIDN++
	return id
}

// List returns tasks matching the filter, ordered by ID.
func (m *MockTaskRepository) List(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if m.ListHook != nil {
		m.ListHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["List"]++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if filter.Matches(t) {
			tasks = append(tasks, t.Clone())
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(_ context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["Get"]++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t.Clone(), nil
}

// Create validates and stores a new task.
func (m *MockTaskRepository) Create(_ context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["Create"]++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	now := time.Now()
	t := &domain.Task{
		ID:          m.nextID(),
		Title:       in.Title,
		Description: in.Description,
		IsUrgent:    in.IsUrgent,
		IsImportant: in.IsImportant,
		DueDate:     in.DueDate,
		Status:      domain.StatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.Tasks[t.ID] = t
	return t.Clone(), nil
}

// Update applies a patch to a stored task.
func (m *MockTaskRepository) Update(_ context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["Update"]++
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	updated := patch.ApplyTo(t)
	updated.UpdatedAt = time.Now()
	m.Tasks[id] = updated
	return updated.Clone(), nil
}

// Delete removes a task by ID.
func (m *MockTaskRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["Delete"]++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// MockAuthService is a test double for domain.AuthService.
type MockAuthService struct {
	Result      *domain.AuthResult
	StatusUser  *domain.User
	LoginErr    error
	RegisterErr error
	StatusErr   error
	LastCreds   domain.Credentials
	LastReg     domain.Registration
	StatusCalls int
}

// Login returns the configured result.
func (m *MockAuthService) Login(_ context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	m.LastCreds = creds
	if m.LoginErr != nil {
		return nil, m.LoginErr
	}
	return m.Result, nil
}

// Register returns the configured result.
func (m *MockAuthService) Register(_ context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	m.LastReg = reg
	if m.RegisterErr != nil {
		return nil, m.RegisterErr
	}
	return m.Result, nil
}

// Status returns StatusErr, then StatusUser, and otherwise echoes the session user.
func (m *MockAuthService) Status(_ context.Context, session *domain.Session) (*domain.User, error) {
	m.StatusCalls++
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}
	if m.StatusUser != nil {
		return m.StatusUser, nil
	}
	return session.User, nil
}

// MockSessionStore is an in-memory domain.SessionStore.
type MockSessionStore struct {
	Session    *domain.Session
	LoadErr    error
	SaveErr    error
	ClearErr   error
	ClearCalls int
}

// Load returns the stored session.
func (m *MockSessionStore) Load() (*domain.Session, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Session, nil
}

// Save stores the session.
func (m *MockSessionStore) Save(s *domain.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Session = s
	return nil
}

// Clear removes the session, even when it also reports an error.
func (m *MockSessionStore) Clear() error {
	m.ClearCalls++
	m.Session = nil
	return m.ClearErr
}

// MockCache is a test double for domain.CacheInvalidator.
type MockCache struct {
	ClearCalls int
}

// Clear records the call.
func (m *MockCache) Clear() {
	m.ClearCalls++
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
}

// NewMockConfigLoader creates a loader that returns the default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured global config.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.GlobalConfig, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	GlobalInfo    domain.ConfigInfo
	ProjectInfo   domain.ConfigInfo
	InitErr       error
	GlobalInited  bool
	ProjectInited bool
}

// NewMockConfigManager creates a manager with paths but no files.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		GlobalInfo:  domain.ConfigInfo{Path: "/home/test/.config/zentasks/config.toml"},
		ProjectInfo: domain.ConfigInfo{Path: "/work/.zentasks.toml"},
	}
}

// GetGlobalConfigInfo returns the configured info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalInfo
}

// GetProjectConfigInfo returns the configured info.
func (m *MockConfigManager) GetProjectConfigInfo() domain.ConfigInfo {
	return m.ProjectInfo
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.GlobalInited = true
	return nil
}

// InitProjectConfig records the call.
func (m *MockConfigManager) InitProjectConfig() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.ProjectInited = true
	return nil
}

// Ensure mocks implement the domain ports.
var (
	_ domain.Clock            = (*MockClock)(nil)
	_ domain.TaskRepository   = (*MockTaskRepository)(nil)
	_ domain.AuthService      = (*MockAuthService)(nil)
	_ domain.SessionStore     = (*MockSessionStore)(nil)
	_ domain.CacheInvalidator = (*MockCache)(nil)
	_ domain.ConfigLoader     = (*MockConfigLoader)(nil)
	_ domain.ConfigManager    = (*MockConfigManager)(nil)
)
