package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for the optional YAML file. Unset keys keep built-in defaults.
type fileConfig struct {
	Provider optional[string] `yaml:"provider"`
	SportsDB sportsDBFile     `yaml:"sportsdb"`
	Cache    cacheFile        `yaml:"cache"`
	Metrics  metricsFile      `yaml:"metrics"`
	Log      logFile          `yaml:"log"`
}

type sportsDBFile struct {
	BaseURL     optional[string] `yaml:"base_url"`
	Timeout     optionalDuration `yaml:"timeout"`
	MinInterval optionalDuration `yaml:"min_interval"`
}

type ttlFile struct {
	StaleAfter optionalDuration `yaml:"stale_after"`
	EvictAfter optionalDuration `yaml:"evict_after"`
}

type cacheFile struct {
	Leagues         ttlFile          `yaml:"leagues"`
	Badges          ttlFile          `yaml:"badges"`
	RetryAttempts   optional[int]    `yaml:"retry_attempts"`
	RetryBackoff    optionalDuration `yaml:"retry_backoff"`
	JanitorInterval optionalDuration `yaml:"janitor_interval"`
}

type metricsFile struct {
	Enabled      optional[bool]   `yaml:"enabled"`
	Port         optional[string] `yaml:"port"`
	OtlpEndpoint optional[string] `yaml:"otlp_endpoint"`
	ServiceName  optional[string] `yaml:"service_name"`
	OtlpInsecure optional[bool]   `yaml:"otlp_insecure"`
}

type logFile struct {
	Level  optional[string] `yaml:"level"`
	Format optional[string] `yaml:"format"`
	File   optional[string] `yaml:"file"`
}

// optional records whether a YAML key was present at all.
type optional[T any] struct {
	value T
	set   bool
}

func (o *optional[T]) UnmarshalYAML(node *yaml.Node) error {
	if err := node.Decode(&o.value); err != nil {
		return err
	}
	o.set = true
	return nil
}

func (o optional[T]) or(defaultValue T) T {
	if o.set {
		return o.value
	}
	return defaultValue
}

// optionalDuration holds a Go duration string such as "90s".
type optionalDuration struct {
	optional[string]
}

// duration returns the parsed value, or defaultValue when unset, invalid, or negative.
// Zero is accepted so files can disable intervals explicitly.
func (d optionalDuration) duration(defaultValue time.Duration) time.Duration {
	if !d.set {
		return defaultValue
	}
	parsed, err := time.ParseDuration(d.value)
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}

// loadFile reads path when set. A missing or malformed file yields an empty fileConfig.
func loadFile(path string) fileConfig {
	var cfg fileConfig
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fileConfig{}
	}
	return cfg
}
