package lookup

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/metrics"
)

// Kind is the entity kind a cache resolves.
type Kind string

const (
	KindUser   Kind = "users"
	KindCourse Kind = "courses"
)

// Source fetches the remote tier.
type Source[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context) ([]T, error)

func (f SourceFunc[T]) Fetch(ctx context.Context) ([]T, error) { return f(ctx) }

// Cache holds the three tiers for one entity kind.
type Cache[T any] struct {
	kind     Kind
	label    func(T) (int64, string)
	source   Source[T]
	snapshot repository.SnapshotRepository[T]
	logger   *zap.Logger

	mu        sync.RWMutex
	remote    Table
	persisted Table
	defaults  Table

	// fetchGen numbers fetches in start order; appliedGen is the newest one
	// whose result is in the remote tier.
	fetchGen   uint64
	appliedGen uint64
	saveMu     sync.Mutex

	flight singleflight.Group
}

// CacheOptions configures NewCache.
type CacheOptions[T any] struct {
	Kind     Kind
	Label    func(T) (int64, string)
	Source   Source[T]
	Snapshot repository.SnapshotRepository[T]
	Defaults []T
	Logger   *zap.Logger
}

// NewCache builds a cache. The persisted tier is read synchronously; the
// remote tier stays empty until Refresh succeeds.
func NewCache[T any](ctx context.Context, opts CacheOptions[T]) *Cache[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache[T]{
		kind:     opts.Kind,
		label:    opts.Label,
		source:   opts.Source,
		snapshot: opts.Snapshot,
		logger:   logger.With(zap.String("lookup", string(opts.Kind))),
		defaults: BuildTable(opts.Defaults, opts.Label),
	}

	if c.snapshot != nil {
		items, ok, err := c.snapshot.Load(ctx)
		switch {
		case err != nil:
			c.logger.Warn("read persisted lookup snapshot failed", zap.Error(err))
		case ok:
			c.persisted = BuildTable(items, c.label)
		}
	}

	return c
}

// Kind returns the entity kind.
func (c *Cache[T]) Kind() Kind { return c.kind }

// Resolve returns the display name for id, never failing.
func (c *Cache[T]) Resolve(id int64) string {
	c.mu.RLock()
	name, tier := ResolveTier(id, c.remote, c.persisted, c.defaults)
	c.mu.RUnlock()
	metrics.LookupResolutions.WithLabelValues(string(c.kind), string(tier)).Inc()
	return name
}

// Populated reports whether the remote tier has been filled.
func (c *Cache[T]) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.remote != nil
}

// Refresh fetches the remote tier. Concurrent calls share one fetch.
// On success the result is also written to the persisted snapshot; a failed
// snapshot write is logged only. On fetch failure the tiers are unchanged.
func (c *Cache[T]) Refresh(ctx context.Context) error {
	if c.source == nil {
		return nil
	}
	_, err, _ := c.flight.Do(string(c.kind), func() (interface{}, error) {
		return nil, c.fetch(ctx)
	})
	return err
}

// RefreshAfterWrite starts a fetch of its own instead of joining one already
// in flight, which may have read the source before the write.
func (c *Cache[T]) RefreshAfterWrite(ctx context.Context) error {
	c.flight.Forget(string(c.kind))
	return c.Refresh(ctx)
}

func (c *Cache[T]) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.fetchGen++
	gen := c.fetchGen
	c.mu.Unlock()

	items, err := c.source.Fetch(ctx)
	if err != nil {
		metrics.LookupRefreshes.WithLabelValues(string(c.kind), "error").Inc()
		c.logger.Warn("remote lookup fetch failed", zap.Error(err))
		return fmt.Errorf("refresh %s: %w", c.kind, err)
	}
	if items == nil {
		items = []T{}
	}

	table := BuildTable(items, c.label)
	c.mu.Lock()
	if gen < c.appliedGen {
		c.mu.Unlock()
		c.logger.Debug("dropped stale lookup fetch", zap.Uint64("generation", gen))
		return nil
	}
	c.remote = table
	c.appliedGen = gen
	c.mu.Unlock()
	metrics.LookupRefreshes.WithLabelValues(string(c.kind), "ok").Inc()

	if c.snapshot != nil {
		c.saveMu.Lock()
		c.mu.RLock()
		stale := gen < c.appliedGen
		c.mu.RUnlock()
		if !stale {
			if err := c.snapshot.Save(ctx, items); err != nil {
				c.logger.Warn("persist lookup snapshot failed", zap.Error(err))
			} else {
				c.mu.Lock()
				c.persisted = table
				c.mu.Unlock()
			}
		}
		c.saveMu.Unlock()
	}
	c.logger.Debug("remote lookup refreshed", zap.Int("entries", len(items)))
	return nil
}
