// Package session owns one run of the catalog: it builds the provider, caches and
// service, runs the optional metrics listener, and tears everything down in order.
package session

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/preston-bernstein/league-catalog/internal/app/leagues"
	"github.com/preston-bernstein/league-catalog/internal/config"
	"github.com/preston-bernstein/league-catalog/internal/logging"
	"github.com/preston-bernstein/league-catalog/internal/metrics"
	"github.com/preston-bernstein/league-catalog/internal/providers"
	"github.com/preston-bernstein/league-catalog/internal/querycache"
)

// Session is the explicitly constructed runtime graph for one process run.
type Session struct {
	id            string
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	provider      providers.DataProvider
	service       *leagues.Service
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a session with the configured provider and telemetry.
func New(cfg config.Config, logger *slog.Logger) *Session {
	return newSessionWithMetrics(cfg, logger, nil, nil)
}

func newSessionWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.DataProvider, recorder *metrics.Recorder) *Session {
	id := uuid.NewString()
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With(slog.String(logging.FieldSession, id))

	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newProviderFactory(logger, recorder)
	if provider == nil {
		provider = factory.build(cfg)
	} else {
		provider = factory.wrap(cfg, cfg.Provider, provider)
	}

	svc := leagues.NewService(provider, serviceConfig(cfg.Cache), logger, querycache.WithMetrics(recorder))

	return &Session{
		id:            id,
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		provider:      provider,
		service:       svc,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

func serviceConfig(c config.CacheConfig) leagues.Config {
	return leagues.Config{
		Leagues: querycache.Options{
			StaleAfter:      c.Leagues.StaleAfter,
			EvictAfter:      c.Leagues.EvictAfter,
			RetryAttempts:   c.RetryAttempts,
			RetryBackoff:    c.RetryBackoff,
			JanitorInterval: c.JanitorInterval,
		},
		Badges: querycache.Options{
			StaleAfter:      c.Badges.StaleAfter,
			EvictAfter:      c.Badges.EvictAfter,
			RetryAttempts:   c.RetryAttempts,
			RetryBackoff:    c.RetryBackoff,
			JanitorInterval: c.JanitorInterval,
		},
	}
}

// ID returns the session id attached to every log line.
func (s *Session) ID() string { return s.id }

// Service exposes the league service.
func (s *Session) Service() *leagues.Service { return s.service }

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Metrics returns the session recorder.
func (s *Session) Metrics() *metrics.Recorder { return s.metrics }

// Run starts the metrics listener, calls fn with the service and shuts down once fn
// returns. The logger travels in the context passed to fn.
func (s *Session) Run(ctx context.Context, fn func(ctx context.Context, svc *leagues.Service) error) error {
	s.startMetrics()
	s.logger.Info("session started", slog.String(logging.FieldProvider, s.cfg.Provider))

	err := fn(logging.WithLogger(ctx, s.logger), s.service)
	if err != nil {
		s.logger.Error("session ended with error", "error", err)
	}

	s.gracefulShutdown()
	return err
}

func (s *Session) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Session) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.service.Close()

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	// Stop rate-limited providers to avoid ticker leaks when present.
	if c, ok := s.provider.(interface{ Close() }); ok {
		c.Close()
	}

	s.logger.Info("shutdown complete")
}
