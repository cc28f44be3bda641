package config

import "time"

// TTLConfig pairs the staleness and eviction windows of one cache namespace.
type TTLConfig struct {
	StaleAfter time.Duration
	EvictAfter time.Duration
}

// CacheConfig controls the query cache namespaces.
type CacheConfig struct {
	Leagues         TTLConfig
	Badges          TTLConfig
	RetryAttempts   int
	RetryBackoff    time.Duration
	JanitorInterval time.Duration
}

func loadCache(file cacheFile) CacheConfig {
	return CacheConfig{
		Leagues: TTLConfig{
			StaleAfter: durationEnvOrDefault(envLeaguesStale, file.Leagues.StaleAfter.duration(defaultLeaguesStale)),
			EvictAfter: durationEnvOrDefault(envLeaguesEvict, file.Leagues.EvictAfter.duration(defaultLeaguesEvict)),
		},
		Badges: TTLConfig{
			StaleAfter: durationEnvOrDefault(envBadgesStale, file.Badges.StaleAfter.duration(defaultBadgesStale)),
			EvictAfter: durationEnvOrDefault(envBadgesEvict, file.Badges.EvictAfter.duration(defaultBadgesEvict)),
		},
		RetryAttempts:   intEnvOrDefault(envRetryAttempts, file.RetryAttempts.or(defaultRetryAttempts)),
		RetryBackoff:    durationEnvOrDefault(envRetryBackoff, file.RetryBackoff.duration(defaultRetryBackoff)),
		JanitorInterval: durationEnvOrDefault(envJanitorInterval, file.JanitorInterval.duration(defaultJanitorInterval)),
	}
}
