package config

import "time"

// SportsDBConfig controls how we talk to TheSportsDB API.
type SportsDBConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MinInterval time.Duration
}

func loadSportsDB(file sportsDBFile) SportsDBConfig {
	return SportsDBConfig{
		BaseURL:     envOrDefault(envSportsDBBaseURL, file.BaseURL.or(defaultSportsDBBaseURL)),
		Timeout:     durationEnvOrDefault(envSportsDBTimeout, file.Timeout.duration(defaultSportsDBTimeout)),
		MinInterval: nonNegativeDurationEnvOrDefault(envSportsDBInterval, file.MinInterval.duration(defaultSportsDBInterval)),
	}
}
