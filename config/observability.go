package config

import (
	"fmt"
	"strings"
)

const defaultObservabilityName = "qinventory"

// MetricsBackend selects which sink receives application metrics.
type MetricsBackend string

const (
	// MetricsBackendNone discards metrics.
	MetricsBackendNone MetricsBackend = "none"
	// MetricsBackendStatsd emits DogStatsD-style UDP packets.
	MetricsBackendStatsd MetricsBackend = "statsd"
	// MetricsBackendPrometheus exposes a /metrics endpoint.
	MetricsBackendPrometheus MetricsBackend = "prometheus"
)

// UnmarshalText implements encoding.TextUnmarshaler for MetricsBackend.
func (b *MetricsBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "", "none":
		*b = MetricsBackendNone
		return nil
	case "statsd", "prometheus":
		*b = MetricsBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid MetricsBackend: %q (valid options: none, statsd, prometheus)", v)
	}
}

// ObservabilityConfig groups configuration that controls metrics emission.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to StatsD or Prometheus.
type ObservabilityMetricsConfig struct {
	Backend       MetricsBackend `env:"OBSERVABILITY_METRICS_BACKEND"        envDefault:"none"`
	StatsdAddress string         `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string         `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"qinventory"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
	if c.Prefix == "" {
		c.Prefix = defaultObservabilityName
	}
	if c.Backend == "" {
		c.Backend = MetricsBackendNone
	}
	if c.Backend == MetricsBackendStatsd && c.StatsdAddress == "" {
		c.Backend = MetricsBackendNone
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Backend == MetricsBackendStatsd || c.Backend == MetricsBackendPrometheus
}
