package config

// Config holds runtime configuration for a catalog session.
type Config struct {
	Provider string
	SportsDB SportsDBConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string
	Format string
	// File receives logs while the terminal UI owns stdout. Empty means discard.
	File string
}

// Load reads configuration from an optional YAML file and environment variables.
// Environment variables win over the file; invalid values fall back to defaults.
func Load() Config {
	file := loadFile(envOrDefault(envConfigFile, ""))

	return Config{
		Provider: envOrDefault(envProvider, file.Provider.or(defaultProvider)),
		SportsDB: loadSportsDB(file.SportsDB),
		Cache:    loadCache(file.Cache),
		Metrics:  loadMetrics(file.Metrics),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, file.Log.Level.or(defaultLogLevel)),
			Format: envOrDefault(envLogFormat, file.Log.Format.or(defaultLogFormat)),
			File:   envOrDefault(envLogFile, file.Log.File.or("")),
		},
	}
}
