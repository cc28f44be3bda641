// Package querycache is a keyed cache of asynchronous fetch results with
// request coalescing, stale-while-revalidate refreshes and idle eviction.
package querycache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/league-catalog/internal/logging"
	"github.com/preston-bernstein/league-catalog/internal/metrics"
)

// ErrClosed is reported for keys queried after Close.
var ErrClosed = errors.New("querycache: closed")

// Fetcher produces the value for a key.
type Fetcher[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	status      Status
	data        V
	err         error
	fetchedAt   time.Time
	lastAccess  time.Time
	fetching    bool
	invalidated bool
}

// Cache holds one namespace of entries. The zero value is not usable; call New.
type Cache[V any] struct {
	name      string
	opts      Options
	logger    *slog.Logger
	metrics   *metrics.Recorder
	now       func() time.Time
	permanent func(error) bool

	group  singleflight.Group
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]*entry[V]
	subs    map[string]map[uint64]chan Result[V]
	nextSub uint64
	closed  bool

	janitor *janitor
}

// New builds a cache namespace. Fetches run on a context owned by the cache, so a
// caller giving up does not abort the fetch; Close cancels it.
func New[V any](name string, opts Options, options ...Option) *Cache[V] {
	s := settings{now: time.Now}
	for _, apply := range options {
		apply(&s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache[V]{
		name:      name,
		opts:      opts.withDefaults(),
		logger:    s.logger,
		metrics:   s.metrics,
		now:       s.now,
		permanent: s.permanent,
		ctx:       ctx,
		cancel:    cancel,
		entries:   make(map[string]*entry[V]),
		subs:      make(map[string]map[uint64]chan Result[V]),
	}
	if c.opts.JanitorInterval > 0 {
		c.janitor = newJanitor(c.opts.JanitorInterval, c.Sweep, c.logger)
		c.janitor.start()
	}
	return c
}

// Name returns the namespace used in logs and metrics.
func (c *Cache[V]) Name() string {
	return c.name
}

// Query returns the entry for key, fetching it when absent, evicted or stale.
//
// A cold key blocks until the fetch settles or ctx is done. A stale value is returned
// immediately while exactly one background refresh runs. Concurrent callers for the
// same key share one producer call. Producer errors are reported in Result.Err and
// an error entry is not refetched until it is invalidated, removed or evicted.
func (c *Cache[V]) Query(ctx context.Context, key string, fetch Fetcher[V], opts ...QueryOption) Result[V] {
	q := queryOptions{enabled: true}
	for _, apply := range opts {
		apply(&q)
	}

	now := c.now()
	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		if e, ok := c.entries[key]; ok {
			return c.snapshot(e, now)
		}
		return Result[V]{Status: StatusError, Err: ErrClosed}
	}

	e := c.lookup(key, now)
	if !q.enabled {
		r := Result[V]{Status: StatusIdle}
		if e != nil {
			r = c.snapshot(e, now)
		}
		c.mu.Unlock()
		c.recordLookup(metrics.OutcomeDisabled)
		return r
	}

	if e == nil {
		e = &entry[V]{status: StatusLoading}
		c.entries[key] = e
	}
	e.lastAccess = now

	switch {
	case e.status == StatusSuccess && !c.isStale(e, now):
		r := c.snapshot(e, now)
		c.mu.Unlock()
		c.recordLookup(metrics.OutcomeHit)
		return r
	case e.status == StatusSuccess:
		if !e.fetching {
			e.fetching = true
			c.publish(key, c.snapshot(e, now))
			c.group.DoChan(key, c.flight(key, fetch))
		}
		r := c.snapshot(e, now)
		c.mu.Unlock()
		c.recordLookup(metrics.OutcomeStale)
		return r
	case e.status == StatusError:
		r := c.snapshot(e, now)
		c.mu.Unlock()
		c.recordLookup(metrics.OutcomeError)
		return r
	}

	if !e.fetching {
		e.fetching = true
		c.publish(key, c.snapshot(e, now))
	}
	c.mu.Unlock()
	c.recordLookup(metrics.OutcomeMiss)

	select {
	case <-c.group.DoChan(key, c.flight(key, fetch)):
	case <-ctx.Done():
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return c.snapshot(e, c.now())
	}
	return Result[V]{Status: StatusIdle}
}

// flight returns the singleflight body for key. The flight forgets its key under c.mu
// while settling, so a caller that sees fetching=false always starts a new flight.
// The re-check keeps a flight started after its entry settled or was removed from
// calling the producer. A flight whose entry was removed meanwhile settles nothing.
func (c *Cache[V]) flight(key string, fetch Fetcher[V]) func() (any, error) {
	return func() (any, error) {
		c.mu.Lock()
		e, ok := c.entries[key]
		if !ok || !e.fetching {
			c.mu.Unlock()
			return nil, nil
		}
		c.mu.Unlock()

		start := time.Now()
		v, err := c.fetchWithRetry(c.ctx, key, fetch)
		elapsed := time.Since(start)

		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur == e {
			c.group.Forget(key)
			c.settle(key, e, v, err)
		}
		c.mu.Unlock()

		if c.metrics != nil {
			c.metrics.RecordCacheRefresh(c.name, elapsed, err)
		}
		attrs := []any{
			slog.String(logging.FieldNamespace, c.name),
			slog.String(logging.FieldCacheKey, key),
			slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
		}
		if err != nil {
			logging.Warn(c.logger, "cache fetch failed", append(attrs, "error", err)...)
		} else if c.logger != nil {
			c.logger.Debug("cache fetch completed", attrs...)
		}
		return nil, nil
	}
}

// settle must be called with c.mu held.
func (c *Cache[V]) settle(key string, e *entry[V], v V, err error) {
	e.fetching = false
	now := c.now()
	switch {
	case err == nil:
		e.status = StatusSuccess
		e.data = v
		e.err = nil
		e.fetchedAt = now
		e.invalidated = false
	case e.status == StatusSuccess:
		// Keep serving the previous value; the entry stays stale so the next access retries.
		e.err = err
	default:
		e.status = StatusError
		e.err = err
		e.fetchedAt = now
	}
	c.publish(key, c.snapshot(e, now))
}

// Peek returns the entry for key without fetching or refreshing its access time.
func (c *Cache[V]) Peek(key string) (Result[V], bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.expired(key, e, now) {
		return Result[V]{Status: StatusIdle}, false
	}
	return c.snapshot(e, now), true
}

// Invalidate marks a success entry stale so the next Query refreshes it in the
// background. An error entry is dropped so the next Query is a cold fetch.
func (c *Cache[V]) Invalidate(key string) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	switch {
	case e.status == StatusSuccess:
		e.invalidated = true
		c.publish(key, c.snapshot(e, now))
	case !e.fetching:
		delete(c.entries, key)
		c.publish(key, Result[V]{Status: StatusIdle})
	}
}

// Remove drops the entry for key. A fetch still in flight for it is discarded and
// the next Query starts a new one.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	c.group.Forget(key)
	c.publish(key, Result[V]{Status: StatusIdle})
}

// Sweep evicts every entry untouched for longer than EvictAfter and returns the count.
func (c *Cache[V]) Sweep() int {
	now := c.now()
	c.mu.Lock()
	evicted := 0
	for key, e := range c.entries {
		if c.expired(key, e, now) {
			delete(c.entries, key)
			evicted++
		}
	}
	c.mu.Unlock()

	if evicted > 0 && c.metrics != nil {
		c.metrics.RecordCacheEvictions(c.name, evicted)
	}
	return evicted
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the janitor, cancels in-flight fetches and closes subscriber channels.
// It is safe to call more than once.
func (c *Cache[V]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	c.closeSubscribers()
	c.mu.Unlock()

	if c.janitor != nil {
		c.janitor.stop()
	}
}

// lookup returns the live entry for key, evicting it first when expired.
// It must be called with c.mu held.
func (c *Cache[V]) lookup(key string, now time.Time) *entry[V] {
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.expired(key, e, now) {
		delete(c.entries, key)
		if c.metrics != nil {
			c.metrics.RecordCacheEvictions(c.name, 1)
		}
		return nil
	}
	return e
}

// expired must be called with c.mu held.
func (c *Cache[V]) expired(key string, e *entry[V], now time.Time) bool {
	if c.opts.EvictAfter <= 0 || e.fetching || len(c.subs[key]) > 0 {
		return false
	}
	return now.Sub(e.lastAccess) > c.opts.EvictAfter
}

func (c *Cache[V]) isStale(e *entry[V], now time.Time) bool {
	if e.invalidated {
		return true
	}
	return !now.Before(e.fetchedAt.Add(c.opts.StaleAfter))
}

// snapshot must be called with c.mu held.
func (c *Cache[V]) snapshot(e *entry[V], now time.Time) Result[V] {
	return Result[V]{
		Status:     e.status,
		Data:       e.data,
		Err:        e.err,
		FetchedAt:  e.fetchedAt,
		IsStale:    e.status == StatusSuccess && c.isStale(e, now),
		IsFetching: e.fetching,
	}
}

func (c *Cache[V]) recordLookup(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(c.name, outcome)
	}
}
