// Package prom implements metrics.Sink on a Prometheus registry and serves it at /metrics.
package prom

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/target/q-inventory/internal/observability/metrics"
)

// Sink lazily registers one vector per metric name. The label set of a name
// is fixed by its first observation; later unknown labels are dropped and
// missing ones are reported as "".
type Sink struct {
	namespace string
	registry  *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

var _ metrics.Sink = (*Sink)(nil)

// NewSink creates a Sink backed by a fresh registry that also exports Go runtime metrics.
func NewSink(namespace string) *Sink {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Sink{
		namespace:  promName(metrics.SanitizePrefix(namespace)),
		registry:   reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labels:     make(map[string][]string),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (s *Sink) Registry() *prometheus.Registry { return s.registry }

// Handler serves the registry in the Prometheus exposition format.
func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

// Count adds value to a counter named <name>_total.
func (s *Sink) Count(name string, value int64, tags map[string]string) {
	if value < 0 {
		return
	}
	key := promName(metrics.NormalizeName(name)) + "_total"

	s.mu.Lock()
	defer s.mu.Unlock()
	vec, ok := s.counters[key]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: s.namespace,
			Name:      key,
			Help:      "Count of " + name + " events.",
		}, s.labelNames(key, tags))
		if !s.register(vec) {
			return
		}
		s.counters[key] = vec
	}
	vec.WithLabelValues(s.labelValues(key, tags)...).Add(float64(value))
}

// Gauge sets a gauge to value.
func (s *Sink) Gauge(name string, value float64, tags map[string]string) {
	key := promName(metrics.NormalizeName(name))

	s.mu.Lock()
	defer s.mu.Unlock()
	vec, ok := s.gauges[key]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: s.namespace,
			Name:      key,
			Help:      "Current value of " + name + ".",
		}, s.labelNames(key, tags))
		if !s.register(vec) {
			return
		}
		s.gauges[key] = vec
	}
	vec.WithLabelValues(s.labelValues(key, tags)...).Set(value)
}

// Timing observes value, in seconds, on a histogram named <name>_seconds.
func (s *Sink) Timing(name string, value time.Duration, tags map[string]string) {
	key := promName(metrics.NormalizeName(name)) + "_seconds"

	s.mu.Lock()
	defer s.mu.Unlock()
	vec, ok := s.histograms[key]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: s.namespace,
			Name:      key,
			Help:      "Duration of " + name + ".",
			Buckets:   prometheus.DefBuckets,
		}, s.labelNames(key, tags))
		if !s.register(vec) {
			return
		}
		s.histograms[key] = vec
	}
	vec.WithLabelValues(s.labelValues(key, tags)...).Observe(value.Seconds())
}

func (s *Sink) register(c prometheus.Collector) bool {
	return s.registry.Register(c) == nil
}

// labelNames fixes the label set for key on first use. Callers hold s.mu.
func (s *Sink) labelNames(key string, tags map[string]string) []string {
	if names, ok := s.labels[key]; ok {
		return names
	}
	names := make([]string, 0, len(tags))
	for k := range metrics.CloneTags(tags) {
		names = append(names, promName(k))
	}
	slices.Sort(names)
	names = slices.Compact(names)
	s.labels[key] = names
	return names
}

// labelValues orders tag values to match the label set of key. Callers hold s.mu.
func (s *Sink) labelValues(key string, tags map[string]string) []string {
	byName := make(map[string]string, len(tags))
	for k, v := range metrics.CloneTags(tags) {
		byName[promName(k)] = v
	}
	names := s.labels[key]
	values := make([]string, len(names))
	for i, n := range names {
		values[i] = byName[n]
	}
	return values
}

// promName maps a dotted StatsD name onto the Prometheus charset.
func promName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
