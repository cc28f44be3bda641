package querycache

import (
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/league-catalog/internal/metrics"
)

const defaultRetryBackoff = 200 * time.Millisecond

// Options are the per-namespace timing and retry settings.
type Options struct {
	// StaleAfter is how long a value counts as fresh. Zero means always stale.
	StaleAfter time.Duration
	// EvictAfter removes entries untouched for longer than this. Zero disables eviction.
	EvictAfter time.Duration
	// RetryAttempts is the total number of producer calls per fetch. Values below 1 mean 1.
	RetryAttempts int
	// RetryBackoff is the initial delay between attempts.
	RetryBackoff time.Duration
	// JanitorInterval enables the background sweep when positive.
	JanitorInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.StaleAfter < 0 {
		o.StaleAfter = 0
	}
	if o.EvictAfter < 0 {
		o.EvictAfter = 0
	}
	if o.RetryAttempts < 1 {
		o.RetryAttempts = 1
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = defaultRetryBackoff
	}
	return o
}

// Option configures collaborators of a Cache.
type Option func(*settings)

type settings struct {
	logger    *slog.Logger
	metrics   *metrics.Recorder
	now       func() time.Time
	permanent func(error) bool
}

// WithLogger sets the logger used for refresh and eviction events.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithMetrics records lookups, refreshes and evictions on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *settings) { s.metrics = r }
}

// WithClock replaces time.Now for staleness and eviction decisions.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPermanentError marks errors that must not be retried.
func WithPermanentError(fn func(error) bool) Option {
	return func(s *settings) { s.permanent = fn }
}

// QueryOption adjusts a single Query call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	enabled bool
}

// Enabled gates fetching. A disabled query returns the current entry, if any, and never fetches.
func Enabled(on bool) QueryOption {
	return func(q *queryOptions) { q.enabled = on }
}

// Key builds a composite key from a resource name and optional parameters.
func Key(resource string, params ...string) string {
	if len(params) == 0 {
		return resource
	}
	return resource + ":" + strings.Join(params, ":")
}
