package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
	"github.com/preston-bernstein/league-catalog/internal/logging"
	"github.com/preston-bernstein/league-catalog/internal/metrics"
)

// instrumentedProvider records latency/error metrics and logs for every upstream call.
// It never retries; retry policy belongs to the query cache.
type instrumentedProvider struct {
	inner    DataProvider
	logger   *slog.Logger
	metrics  *metrics.Recorder
	provider string
	now      func() time.Time
}

// NewInstrumentedProvider wraps inner with metrics and structured logging under the given provider name.
func NewInstrumentedProvider(inner DataProvider, logger *slog.Logger, recorder *metrics.Recorder, provider string) DataProvider {
	if provider == "" {
		provider = "provider"
	}
	return &instrumentedProvider{
		inner:    inner,
		logger:   logger,
		metrics:  recorder,
		provider: provider,
		now:      time.Now,
	}
}

func (p *instrumentedProvider) FetchLeagues(ctx context.Context) ([]leagues.League, error) {
	if p.inner == nil {
		return nil, ErrProviderUnavailable
	}
	start := p.now()
	out, err := p.inner.FetchLeagues(ctx)
	p.observe(ctx, "leagues", start, len(out), err)
	return out, err
}

func (p *instrumentedProvider) FetchSeasonBadges(ctx context.Context, leagueID string) ([]leagues.SeasonBadge, error) {
	if p.inner == nil {
		return nil, ErrProviderUnavailable
	}
	start := p.now()
	out, err := p.inner.FetchSeasonBadges(ctx, leagueID)
	p.observe(ctx, "season_badges", start, len(out), err, slog.String(logging.FieldLeagueID, leagueID))
	return out, err
}

// Close releases resources held by the wrapped provider, if any.
func (p *instrumentedProvider) Close() {
	if c, ok := p.inner.(interface{ Close() }); ok {
		c.Close()
	}
}

func (p *instrumentedProvider) observe(ctx context.Context, op string, start time.Time, count int, err error, args ...any) {
	elapsed := p.now().Sub(start)
	p.metrics.RecordProviderAttempt(p.provider, elapsed, err)

	logger := logging.FromContext(ctx, p.logger)
	args = append(args,
		slog.String("op", op),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	if err == nil {
		logWithProvider(ctx, logger, slog.LevelDebug, p.provider, "provider fetch complete", append(args, slog.Int(logging.FieldCount, count))...)
		return
	}

	if te, ok := AsTransportError(err); ok && te.RateLimited() {
		p.metrics.RecordRateLimit(p.provider, te.RetryAfter)
		args = append(args, slog.Int(logging.FieldStatusCode, te.StatusCode))
	}
	logWithProvider(ctx, logger, slog.LevelWarn, p.provider, "provider fetch failed", append(args, "error", err)...)
}
