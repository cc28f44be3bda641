package config

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

func loadMetrics(file metricsFile) MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, file.Enabled.or(defaultMetricsOn)),
		Port:         envOrDefault(envMetricsPort, file.Port.or(defaultMetricsPort)),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, file.OtlpEndpoint.or("")),
		ServiceName:  envOrDefault(envOtelService, file.ServiceName.or(defaultServiceName)),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, file.OtlpInsecure.or(true)),
	}
}
