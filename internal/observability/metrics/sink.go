// Package metrics defines the backend-neutral metric sink and the
// application-level emitters built on top of it.
package metrics

import (
	"strings"
	"time"
)

// Sink describes the minimal interface required to emit StatsD-style metrics.
// Implementations live in observability/statsd and observability/prom.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// NopSink discards everything. It is used when metrics are disabled.
type NopSink struct{}

func (NopSink) Count(string, int64, map[string]string)           {}
func (NopSink) Gauge(string, float64, map[string]string)         {}
func (NopSink) Timing(string, time.Duration, map[string]string) {}

// SanitizePrefix trims whitespace and surrounding dots from a metric prefix.
func SanitizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), ".")
}

// NormalizeName makes a dotted metric name safe for line protocols:
// spaces and slashes become underscores and empty segments are dropped.
func NormalizeName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	n = strings.NewReplacer(" ", "_", "/", "_").Replace(n)
	for strings.Contains(n, "..") {
		n = strings.ReplaceAll(n, "..", ".")
	}
	return strings.Trim(n, ".")
}

// JoinName prefixes a normalized metric name.
func JoinName(prefix, name string) string {
	normalized := NormalizeName(name)
	if normalized == "" {
		return ""
	}
	if prefix == "" {
		return normalized
	}
	return prefix + "." + normalized
}

// CloneTags copies a tag map, trimming keys and values and dropping empty keys.
// It returns nil for an empty input.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	return out
}
