// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/infra/apiclient"
	"github.com/zentasks/zentasks/internal/infra/cache"
	"github.com/zentasks/zentasks/internal/infra/config"
	"github.com/zentasks/zentasks/internal/infra/logging"
	"github.com/zentasks/zentasks/internal/infra/sessionstore"
	"github.com/zentasks/zentasks/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	ProjectDir  string // Directory holding .zentasks.toml and .env
	StateDir    string // Directory for the session file and logs
	SessionPath string // Path to session.json
	LogPath     string // Path to the log file
}

// newConfig derives the paths from the project and state directories.
func newConfig(projectDir, stateDir string) Config {
	return Config{
		ProjectDir:  projectDir,
		StateDir:    stateDir,
		SessionPath: domain.SessionPath(stateDir),
		LogPath:     domain.LogPath(stateDir),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks         domain.TaskRepository
	Auth          domain.AuthService
	Sessions      domain.SessionStore
	Cache         domain.CacheInvalidator // nil when caching is disabled
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Logger    *slog.Logger
	AppConfig *domain.Config
	logFile   *logging.Logger

	// Configuration
	Config Config
}

// New creates a new Container for the given project directory.
// A broken config file or API URL does not fail construction; commands that
// need the API report the problem when they run.
func New(projectDir string) (*Container, error) {
	return NewWithStateDir(projectDir, config.DefaultStateDir())
}

// NewWithStateDir creates a new Container that keeps its session and logs in stateDir.
func NewWithStateDir(projectDir, stateDir string) (*Container, error) {
	cfg := newConfig(projectDir, stateDir)

	configLoader := config.NewLoader(cfg.ProjectDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		appConfig = domain.NewDefaultConfig()
		appConfig.Warnings = append(appConfig.Warnings, fmt.Sprintf("using default config: %v", err))
	}

	logPath := cfg.LogPath
	if appConfig.Log.File != "" {
		logPath = appConfig.Log.File
	}
	logFile, err := logging.New(logging.Options{
		Path:       logPath,
		Level:      logging.ParseLevel(appConfig.Log.Level),
		MaxSizeMB:  appConfig.Log.MaxSizeMB,
		MaxBackups: appConfig.Log.MaxBackups,
	})
	if err != nil {
		logFile = logging.Discard()
	}
	logger := logFile.With(logging.ComponentKey, "app")

	store := sessionstore.New(cfg.SessionPath)

	c := &Container{
		Sessions:      store,
		Clock:         domain.RealClock{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(cfg.ProjectDir),
		Logger:        logFile.Logger,
		AppConfig:     appConfig,
		logFile:       logFile,
		Config:        cfg,
	}

	client, err := apiclient.New(appConfig.API.URL,
		apiclient.WithTimeout(appConfig.API.Timeout),
		apiclient.WithRetries(appConfig.API.RetryCount()),
		apiclient.WithLogger(logFile.With(logging.ComponentKey, "apiclient")),
	)
	if err != nil {
		logger.Warn("api client unavailable", "url", appConfig.API.URL, "error", err)
		broken := unavailable{err: err}
		c.Tasks = broken
		c.Auth = broken
		return c, nil
	}

	c.Auth = client
	c.bindTasks(&sessionTasks{client: client, sessions: store}, appConfig.Cache)
	logger.Debug("container ready", "api", client.BaseURL(), "session", cfg.SessionPath)
	return c, nil
}

// bindTasks installs the task repository, wrapped in a cache unless disabled.
// Cached entries are scoped to the session token.
func (c *Container) bindTasks(tasks *sessionTasks, cacheCfg domain.CacheConfig) {
	if cacheCfg.Disabled {
		c.Tasks = tasks
		return
	}
	cached := cache.New(tasks,
		cache.WithScope(tasks.scope),
		cache.WithTTL(cacheCfg.TTL),
		cache.WithClock(c.Clock),
		cache.WithLogger(c.Logger.With(logging.ComponentKey, "cache")),
	)
	c.Tasks = cached
	c.Cache = cached
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// If tasks also implements domain.CacheInvalidator it is used as the cache.
func NewWithDeps(cfg Config, tasks domain.TaskRepository, auth domain.AuthService, sessions domain.SessionStore, clock domain.Clock, logger *slog.Logger) *Container {
	c := &Container{
		Tasks:     tasks,
		Auth:      auth,
		Sessions:  sessions,
		Clock:     clock,
		Logger:    logger,
		AppConfig: domain.NewDefaultConfig(),
		Config:    cfg,
	}
	if inv, ok := tasks.(domain.CacheInvalidator); ok {
		c.Cache = inv
	}
	return c
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.logFile == nil {
		return nil
	}
	return c.logFile.Close()
}

// ConfigWarnings returns the warnings produced while loading configuration.
func (c *Container) ConfigWarnings() []string {
	if c.AppConfig == nil {
		return nil
	}
	return c.AppConfig.Warnings
}

// LogDir returns the directory holding log files.
func (c *Container) LogDir() string {
	return filepath.Dir(c.Config.LogPath)
}

// UseCase factory methods

// LoginUseCase returns a new Login use case.
func (c *Container) LoginUseCase() *usecase.Login {
	return usecase.NewLogin(c.Auth, c.Sessions, c.Cache)
}

// RegisterUseCase returns a new Register use case.
func (c *Container) RegisterUseCase() *usecase.Register {
	return usecase.NewRegister(c.Auth, c.Sessions, c.Cache)
}

// LogoutUseCase returns a new Logout use case.
func (c *Container) LogoutUseCase() *usecase.Logout {
	return usecase.NewLogout(c.Sessions, c.Cache)
}

// WhoAmIUseCase returns a new WhoAmI use case.
func (c *Container) WhoAmIUseCase() *usecase.WhoAmI {
	return usecase.NewWhoAmI(c.Auth, c.Sessions, c.Clock)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Sessions, c.Clock)
}

// CreateTasksFromFileUseCase returns a new CreateTasksFromFile use case.
func (c *Container) CreateTasksFromFileUseCase() *usecase.CreateTasksFromFile {
	return usecase.NewCreateTasksFromFile(c.Tasks, c.Sessions, c.Clock)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks, c.Sessions, c.Clock)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Sessions, c.Clock)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Sessions, c.Clock)
}

// SetStatusUseCase returns a new SetStatus use case.
func (c *Container) SetStatusUseCase() *usecase.SetStatus {
	return usecase.NewSetStatus(c.Tasks, c.Sessions, c.Clock)
}

// MoveQuadrantUseCase returns a new MoveQuadrant use case.
func (c *Container) MoveQuadrantUseCase() *usecase.MoveQuadrant {
	return usecase.NewMoveQuadrant(c.Tasks, c.Sessions, c.Clock)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Sessions, c.Clock)
}

// ShowMatrixUseCase returns a new ShowMatrix use case.
func (c *Container) ShowMatrixUseCase() *usecase.ShowMatrix {
	return usecase.NewShowMatrix(c.Tasks, c.Sessions, c.Clock)
}

// ShowDashboardUseCase returns a new ShowDashboard use case.
func (c *Container) ShowDashboardUseCase() *usecase.ShowDashboard {
	return usecase.NewShowDashboard(c.Tasks, c.Sessions, c.Clock)
}

// ShowWeekUseCase returns a new ShowWeek use case.
func (c *Container) ShowWeekUseCase() *usecase.ShowWeek {
	return usecase.NewShowWeek(c.Tasks, c.Sessions, c.Clock)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// unavailable stands in for the API client when it could not be built.
// Every call returns the construction error.
type unavailable struct {
	err error
}

func (u unavailable) List(context.Context, domain.TaskFilter) ([]*domain.Task, error) {
	return nil, u.err
}

func (u unavailable) Get(context.Context, string) (*domain.Task, error) {
	return nil, u.err
}

func (u unavailable) Create(context.Context, domain.NewTaskInput) (*domain.Task, error) {
	return nil, u.err
}

func (u unavailable) Update(context.Context, string, domain.TaskPatch) (*domain.Task, error) {
	return nil, u.err
}

func (u unavailable) Delete(context.Context, string) error {
	return u.err
}

func (u unavailable) Login(context.Context, domain.Credentials) (*domain.AuthResult, error) {
	return nil, u.err
}

func (u unavailable) Register(context.Context, domain.Registration) (*domain.AuthResult, error) {
	return nil, u.err
}

func (u unavailable) Status(context.Context, *domain.Session) (*domain.User, error) {
	return nil, u.err
}
