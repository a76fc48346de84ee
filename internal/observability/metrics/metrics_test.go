package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	kind  string
	name  string
	value float64
	tags  map[string]string
}

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
	r.add(recordedMetric{kind: "timing", name: name, value: float64(value.Milliseconds()), tags: tags})
}

type quantityError struct{}

func (quantityError) Error() string { return "negative quantity" }

func TestEmitInventoryMutation(t *testing.T) {
	sink := &recordingSink{}

	EmitInventoryMutation(sink, MutationMetric{
		Op:       OpSetQuantity,
		Result:   ResultError,
		Duration: 3 * time.Millisecond,
		Err:      errors.Join(quantityError{}),
	})

	require.Len(t, sink.metrics, 2)
	assert.Equal(t, "inventory.mutation", sink.metrics[0].name)
	assert.Equal(t, OpSetQuantity, sink.metrics[0].tags["op"])
	assert.Equal(t, ResultError, sink.metrics[0].tags["result"])
	assert.NotEmpty(t, sink.metrics[0].tags["error_class"])
	assert.Equal(t, "timing", sink.metrics[1].kind)
	assert.Equal(t, "inventory.mutation.duration", sink.metrics[1].name)
}

func TestEmitInventoryMutation_SuccessWithoutDuration(t *testing.T) {
	sink := &recordingSink{}
	EmitInventoryMutation(sink, MutationMetric{Op: OpAdd, Result: ResultSuccess})

	require.Len(t, sink.metrics, 1)
	_, hasClass := sink.metrics[0].tags["error_class"]
	assert.False(t, hasClass)

	EmitInventoryMutation(nil, MutationMetric{Op: OpAdd})
}

func TestEmitCatalogGauges(t *testing.T) {
	sink := &recordingSink{}
	EmitCatalogGauges(sink, 7, 5)

	require.Len(t, sink.metrics, 2)
	assert.Equal(t, "inventory.items", sink.metrics[0].name)
	assert.InDelta(t, 7, sink.metrics[0].value, 0)
	assert.Equal(t, "inventory.critical_items", sink.metrics[1].name)
	assert.InDelta(t, 5, sink.metrics[1].value, 0)
}

func TestEmitLoginAndAccountCreated(t *testing.T) {
	sink := &recordingSink{}
	EmitLogin(sink, ResultError)
	EmitAccountCreated(sink, "user")

	require.Len(t, sink.metrics, 2)
	assert.Equal(t, map[string]string{"result": "error"}, sink.metrics[0].tags)
	assert.Equal(t, map[string]string{"role": "user"}, sink.metrics[1].tags)
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "metrics.app", SanitizePrefix("  metrics.app  "))
	assert.Equal(t, "foo", SanitizePrefix("..foo.."))
	assert.Equal(t, "item_adjust", NormalizeName(" item/adjust "))
	assert.Equal(t, "foo.bar", NormalizeName("foo..bar"))
	assert.Equal(t, "qinv.inventory.items", JoinName("qinv", "inventory.items"))
	assert.Equal(t, "inventory.items", JoinName("", "inventory.items"))
	assert.Empty(t, JoinName("qinv", "  "))
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))

	original := map[string]string{" env ": " prod ", "": "ignored"}
	cloned := CloneTags(original)
	assert.Equal(t, map[string]string{"env": "prod"}, cloned)

	cloned["env"] = "stage"
	assert.Equal(t, " prod ", original[" env "])
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	s.Count("x", 1, nil)
	s.Gauge("x", 1, nil)
	s.Timing("x", time.Second, nil)
}
