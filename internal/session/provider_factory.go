package session

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/league-catalog/internal/config"
	"github.com/preston-bernstein/league-catalog/internal/metrics"
	"github.com/preston-bernstein/league-catalog/internal/providers"
	"github.com/preston-bernstein/league-catalog/internal/providers/fixture"
	"github.com/preston-bernstein/league-catalog/internal/providers/sportsdb"
)

const (
	providerSportsDB = "sportsdb"
	providerFixture  = "fixture"
)

// providerFactory assembles the provider with shared wrappers (rate limit + instrumentation).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providers.DataProvider {
	name, base := selectProvider(cfg, f.logger)
	return f.wrap(cfg, name, base)
}

func (f providerFactory) wrap(cfg config.Config, name string, base providers.DataProvider) providers.DataProvider {
	if cfg.SportsDB.MinInterval > 0 && name == providerSportsDB {
		base = providers.NewRateLimitedProvider(base, cfg.SportsDB.MinInterval, f.logger)
	}
	return providers.NewInstrumentedProvider(base, f.logger, f.metrics, name)
}

// selectProvider returns the configured provider and its normalized name.
// Unknown names fall back to TheSportsDB.
func selectProvider(cfg config.Config, logger *slog.Logger) (string, providers.DataProvider) {
	switch name := strings.ToLower(strings.TrimSpace(cfg.Provider)); name {
	case providerFixture:
		return providerFixture, fixture.New()
	case providerSportsDB, "":
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to sportsdb", slog.String("provider", cfg.Provider))
		}
	}
	return providerSportsDB, sportsdb.NewClient(sportsdb.Config{
		BaseURL: cfg.SportsDB.BaseURL,
		Timeout: cfg.SportsDB.Timeout,
	})
}
