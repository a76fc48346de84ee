package service

import (
	"sync"
	"time"
)

type recordedMetric struct {
	kind  string
	name  string
	value float64
	tags  map[string]string
}

// recordingSink captures emitted metrics for assertions.
type recordingSink struct {
	mu      sync.Mutex
	metrics []recordedMetric
}

func (r *recordingSink) add(m recordedMetric) {
	r.mu.Lock()
	r.metrics = append(r.metrics, m)
	r.mu.Unlock()
}

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.add(recordedMetric{kind: "count", name: name, value: float64(value), tags: tags})
}

func (r *recordingSink) Gauge(name string, value float64, tags map[string]string) {
	r.add(recordedMetric{kind: "gauge", name: name, value: value, tags: tags})
}

func (r *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	r.add(recordedMetric{kind: "timing", name: name, value: float64(value), tags: tags})
}

func (r *recordingSink) last(kind, name string) (recordedMetric, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.metrics) - 1; i >= 0; i-- {
		if m := r.metrics[i]; m.kind == kind && m.name == name {
			return m, true
		}
	}
	return recordedMetric{}, false
}

func (r *recordingSink) lastGauge(name string) float64 {
	m, _ := r.last("gauge", name)
	return m.value
}

func (r *recordingSink) lastCountTag(name, tag string) string {
	m, _ := r.last("count", name)
	return m.tags[tag]
}
