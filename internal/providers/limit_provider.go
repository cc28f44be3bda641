package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
)

// rateLimitedProvider wraps a DataProvider and enforces a minimum interval between upstream calls.
type rateLimitedProvider struct {
	next     DataProvider
	interval time.Duration
	ticker   *time.Ticker
	logger   *slog.Logger
}

// NewRateLimitedProvider returns a DataProvider that admits one call per interval.
// Calls block until the next tick to avoid exceeding upstream quotas.
func NewRateLimitedProvider(next DataProvider, interval time.Duration, logger *slog.Logger) DataProvider {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

func (p *rateLimitedProvider) FetchLeagues(ctx context.Context) ([]leagues.League, error) {
	if err := p.wait(ctx, "leagues"); err != nil {
		return nil, err
	}
	return p.next.FetchLeagues(ctx)
}

func (p *rateLimitedProvider) FetchSeasonBadges(ctx context.Context, leagueID string) ([]leagues.SeasonBadge, error) {
	if err := p.wait(ctx, "season_badges"); err != nil {
		return nil, err
	}
	return p.next.FetchSeasonBadges(ctx, leagueID)
}

func (p *rateLimitedProvider) wait(ctx context.Context, op string) error {
	if p == nil || p.next == nil {
		if p != nil {
			logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		}
		return ErrProviderUnavailable
	}
	select {
	case <-ctx.Done():
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited fetch canceled", slog.String("op", op))
		return ctx.Err()
	case <-p.ticker.C:
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, "rate-limited", "rate-limited provider fetch", slog.String("op", op))
	return nil
}

// Close stops the underlying ticker.
func (p *rateLimitedProvider) Close() {
	if p != nil && p.ticker != nil {
		p.ticker.Stop()
	}
}
