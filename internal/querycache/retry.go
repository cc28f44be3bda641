package querycache

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/league-catalog/internal/logging"
)

// fetchWithRetry calls fetch up to RetryAttempts times with exponential backoff.
// Errors flagged permanent stop the loop immediately.
func (c *Cache[V]) fetchWithRetry(ctx context.Context, key string, fetch Fetcher[V]) (V, error) {
	if c.opts.RetryAttempts <= 1 {
		return fetch(ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.RetryBackoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.opts.RetryAttempts-1)), ctx)

	var (
		out     V
		attempt int
	)
	op := func() error {
		attempt++
		v, err := fetch(ctx)
		if err != nil {
			if c.permanent != nil && c.permanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = v
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logging.Warn(c.logger, "cache fetch failed, retrying",
			slog.String(logging.FieldNamespace, c.name),
			slog.String(logging.FieldCacheKey, key),
			slog.Int(logging.FieldAttempt, attempt),
			slog.Int64(logging.FieldDurationMS, wait.Milliseconds()),
			"error", err,
		)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		var zero V
		return zero, err
	}
	return out, nil
}
