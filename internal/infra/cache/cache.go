// Package cache provides a read-through cache in front of a domain.TaskRepository.
// Reads are cached for a stale time; every successful write invalidates the list
// entries and the written item. Entries belong to one scope (the signed-in
// account); a scope change drops them all.
package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Ensure TaskRepository implements the domain ports.
var (
	_ domain.TaskRepository   = (*TaskRepository)(nil)
	_ domain.CacheInvalidator = (*TaskRepository)(nil)
)

const (
	listPrefix = "tasks:"
	itemPrefix = "task:"
)

type entry struct {
	expires time.Time
	task    *domain.Task
	tasks   []*domain.Task
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits          int
	Misses        int
	Invalidations int
}

// TaskRepository decorates another repository with cache-aside reads.
// Fields are ordered to minimize memory padding.
type TaskRepository struct {
	next       domain.TaskRepository
	clock      domain.Clock
	logger     *slog.Logger
	scopeFn    func() string
	entries    map[string]entry
	flights    singleflight.Group
	scope      string
	stats      Stats
	ttl        time.Duration
	generation uint64 // bumped on every invalidation
	scoped     bool   // scope holds an observed value
	mu         sync.Mutex
}

// Option configures a TaskRepository.
type Option func(*TaskRepository)

// WithTTL sets how long entries stay fresh. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(r *TaskRepository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock sets the clock used for expiry.
func WithClock(clock domain.Clock) Option {
	return func(r *TaskRepository) {
		r.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *TaskRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithScope sets the function naming the account the cache currently serves.
// It is consulted on every read; when its value changes the cache is cleared
// before the read, so entries never cross accounts.
func WithScope(scope func() string) Option {
	return func(r *TaskRepository) {
		r.scopeFn = scope
	}
}

// New wraps next with a cache.
func New(next domain.TaskRepository, opts ...Option) *TaskRepository {
	r := &TaskRepository{
		next:    next,
		clock:   domain.RealClock{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		entries: make(map[string]entry),
		ttl:     domain.DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns cached tasks for filter, fetching on a miss.
func (r *TaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	key := listPrefix + filter.Key()
	if e, ok := r.lookup(key); ok {
		return domain.CloneTasks(e.tasks), nil
	}

	val, err := r.fetch(ctx, key, func(ctx context.Context, gen uint64) (any, error) {
		tasks, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		r.store(key, gen, entry{tasks: domain.CloneTasks(tasks)})
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	tasks, _ := val.([]*domain.Task)
	return domain.CloneTasks(tasks), nil
}

// Get returns a cached task, fetching on a miss. Errors are never cached.
func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	key := itemPrefix + id
	if e, ok := r.lookup(key); ok {
		return e.task.Clone(), nil
	}

	val, err := r.fetch(ctx, key, func(ctx context.Context, gen uint64) (any, error) {
		task, err := r.next.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		r.store(key, gen, entry{task: task.Clone()})
		return task, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			r.invalidate(id)
		}
		return nil, err
	}
	task, _ := val.(*domain.Task)
	return task.Clone(), nil
}

// Create creates a task and invalidates the cached lists.
func (r *TaskRepository) Create(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	task, err := r.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	r.invalidate(task.ID)
	return task, nil
}

// Update updates a task and invalidates the cached lists and item.
func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := r.next.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			r.invalidate(id)
		}
		return nil, err
	}
	r.invalidate(id)
	return task, nil
}

// Delete deletes a task and invalidates the cached lists and item.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	err := r.next.Delete(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrTaskNotFound) {
		return err
	}
	r.invalidate(id)
	return err
}

// Clear drops every entry.
func (r *TaskRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]entry)
	r.generation++
	r.stats.Invalidations++
	r.logger.Debug("cache cleared")
}

// Stats returns a snapshot of the counters.
func (r *TaskRepository) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// checkScope clears the cache when scope differs from the last one seen.
// Callers must hold r.mu.
func (r *TaskRepository) checkScope(scope string) {
	if r.scoped && scope == r.scope {
		return
	}
	if r.scoped {
		r.entries = make(map[string]entry)
		r.generation++
		r.stats.Invalidations++
		r.logger.Debug("cache cleared after account change")
	}
	r.scope, r.scoped = scope, true
}

func (r *TaskRepository) lookup(key string) (entry, bool) {
	// The scope is read outside the lock; it may touch the session file.
	var scope string
	if r.scopeFn != nil {
		scope = r.scopeFn()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scopeFn != nil {
		r.checkScope(scope)
	}
	e, ok := r.entries[key]
	if ok && r.clock.Now().Before(e.expires) {
		r.stats.Hits++
		return e, true
	}
	if ok {
		delete(r.entries, key)
	}
	r.stats.Misses++
	return entry{}, false
}

// fetch runs load once per key and generation. Callers arriving after an
// invalidation start a new flight instead of joining a stale one.
// The flight is detached from the caller's cancellation: a caller whose ctx ends
// returns ctx.Err() while the others keep waiting for the shared result.
func (r *TaskRepository) fetch(ctx context.Context, key string, load func(ctx context.Context, gen uint64) (any, error)) (any, error) {
	r.mu.Lock()
	gen := r.generation
	r.mu.Unlock()

	flightKey := key + "@" + strconv.FormatUint(gen, 10)
	flightCtx := context.WithoutCancel(ctx)
	ch := r.flights.DoChan(flightKey, func() (any, error) {
		return load(flightCtx, gen)
	})
	select {
	case res := <-ch:
		if res.Shared {
			r.logger.Debug("cache fetch shared", "key", key)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// store saves e unless an invalidation happened since the fetch started.
func (r *TaskRepository) store(key string, gen uint64, e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		r.logger.Debug("cache store skipped after invalidation", "key", key)
		return
	}
	e.expires = r.clock.Now().Add(r.ttl)
	r.entries[key] = e
}

// invalidate drops every list entry and the item entry for id.
func (r *TaskRepository) invalidate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.entries {
		if strings.HasPrefix(key, listPrefix) {
			delete(r.entries, key)
		}
	}
	delete(r.entries, itemPrefix+id)
	r.generation++
	r.stats.Invalidations++
	r.logger.Debug("cache invalidated", "task_id", id)
}
