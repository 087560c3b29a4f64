package config

import "time"

type TelemetryConfig struct {
	// SampleInterval is raised to the host's minimum CPU refresh interval
	// when shorter.
	SampleInterval time.Duration
	PushInterval   time.Duration
}

func NewTelemetryConfig() *TelemetryConfig {
	return &TelemetryConfig{
		SampleInterval: getMillisEnv("TELEMETRY_SAMPLE_INTERVAL_MS", 200*time.Millisecond),
		PushInterval:   getMillisEnv("TELEMETRY_PUSH_INTERVAL_MS", 100*time.Millisecond),
	}
}
