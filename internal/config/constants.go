package config

import "time"

const (
	envConfigFile       = "CATALOG_CONFIG"
	envProvider         = "PROVIDER"
	envSportsDBBaseURL  = "SPORTSDB_BASE_URL"
	envSportsDBTimeout  = "SPORTSDB_TIMEOUT"
	envSportsDBInterval = "SPORTSDB_MIN_INTERVAL"
	envLeaguesStale     = "LEAGUES_STALE_AFTER"
	envLeaguesEvict     = "LEAGUES_EVICT_AFTER"
	envBadgesStale      = "BADGES_STALE_AFTER"
	envBadgesEvict      = "BADGES_EVICT_AFTER"
	envRetryAttempts    = "CACHE_RETRY_ATTEMPTS"
	envRetryBackoff     = "CACHE_RETRY_BACKOFF"
	envJanitorInterval  = "CACHE_JANITOR_INTERVAL"
	envMetricsPort      = "METRICS_PORT"
	envMetricsOn        = "METRICS_ENABLED"
	envOtelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService      = "OTEL_SERVICE_NAME"
	envOtelInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel         = "LOG_LEVEL"
	envLogFormat        = "LOG_FORMAT"
	envLogFile          = "LOG_FILE"

	defaultProvider        = "sportsdb"
	defaultSportsDBBaseURL = "https://www.thesportsdb.com/api/v1/json/3"
	// Upper bound on a single upstream call.
	defaultSportsDBTimeout  = 10 * time.Second
	defaultSportsDBInterval = time.Duration(0)

	defaultLeaguesStale = 5 * time.Minute
	defaultLeaguesEvict = 10 * time.Minute
	defaultBadgesStale  = 10 * time.Minute
	defaultBadgesEvict  = 30 * time.Minute

	// One attempt means the cache does not retry failed fetches.
	defaultRetryAttempts   = 1
	defaultRetryBackoff    = 200 * time.Millisecond
	defaultJanitorInterval = time.Minute

	defaultMetricsOn   = false
	defaultMetricsPort = "9090"
	defaultServiceName = "league-catalog"

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)
