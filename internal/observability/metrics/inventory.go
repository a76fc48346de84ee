package metrics

import (
	"time"

	obserrors "github.com/target/q-inventory/internal/observability/errors"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Inventory operations used as the "op" tag.
const (
	OpAdjust      = "adjust"
	OpSetQuantity = "set_quantity"
	OpAdd         = "add"
	OpRemove      = "remove"
)

// MutationMetric captures one catalog mutation for metric emission.
type MutationMetric struct {
	Op       string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitInventoryMutation emits the standard counter and timing for a catalog mutation.
func EmitInventoryMutation(sink Sink, in MutationMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"op":     in.Op,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("inventory.mutation", 1, tags)
	if in.Duration > 0 {
		sink.Timing("inventory.mutation.duration", in.Duration, CloneTags(tags))
	}
}

// EmitCatalogGauges reports catalog size and how many items are at or below threshold.
func EmitCatalogGauges(sink Sink, total, critical int) {
	if sink == nil {
		return
	}
	sink.Gauge("inventory.items", float64(total), nil)
	sink.Gauge("inventory.critical_items", float64(critical), nil)
}

// EmitLogin counts login attempts by result.
func EmitLogin(sink Sink, result string) {
	if sink == nil {
		return
	}
	sink.Count("auth.login", 1, map[string]string{"result": result})
}

// EmitAccountCreated counts accounts created through the admin page.
func EmitAccountCreated(sink Sink, role string) {
	if sink == nil {
		return
	}
	sink.Count("auth.account_created", 1, map[string]string{"role": role})
}
