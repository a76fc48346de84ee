package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/target/q-inventory/internal/core"
	"github.com/target/q-inventory/internal/domain/model"
	apperrors "github.com/target/q-inventory/internal/errors"
	"github.com/target/q-inventory/internal/observability/metrics"
)

// InventoryServiceOptions groups dependencies for InventoryService.
type InventoryServiceOptions struct {
	Items   core.ItemRepository // Required
	Logger  *slog.Logger        // Optional
	Metrics metrics.Sink        // Optional
}

// InventoryService owns the catalog: listing, critical-stock derivation and mutations.
type InventoryService struct {
	items   core.ItemRepository
	logger  *slog.Logger
	metrics metrics.Sink
}

// NewInventoryService constructs a new InventoryService.
func NewInventoryService(opts InventoryServiceOptions) *InventoryService {
	if opts.Items == nil {
		panic("ItemRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &InventoryService{
		items:   opts.Items,
		logger:  logger.With("component", "inventory"),
		metrics: sink,
	}
}

// List returns the catalog in order.
func (s *InventoryService) List(ctx context.Context) ([]model.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Critical returns the items at or below their threshold, in catalog order.
func (s *InventoryService) Critical(ctx context.Context) ([]model.Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.CriticalItems(items), nil
}

// Get returns one item.
func (s *InventoryService) Get(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Adjust adds delta to the item's quantity, flooring at zero.
func (s *InventoryService) Adjust(ctx context.Context, id string, delta int) (*model.Item, error) {
	start := time.Now()
	updated, err := s.items.Update(ctx, id, func(it *model.Item) error {
		it.Quantity = model.ClampQuantity(it.Quantity, delta)
		return nil
	})
	s.observe(ctx, metrics.OpAdjust, start, err)
	if err != nil {
		return nil, fmt.Errorf("adjust item: %w", err)
	}
	return updated, nil
}

// SetQuantity overwrites the item's quantity. Negative values are rejected and leave the item unchanged.
func (s *InventoryService) SetQuantity(ctx context.Context, id string, quantity int) (*model.Item, error) {
	start := time.Now()
	if quantity < 0 {
		err := apperrors.ValidationField("quantity", "quantity cannot be negative")
		s.observe(ctx, metrics.OpSetQuantity, start, err)
		return nil, err
	}

	updated, err := s.items.Update(ctx, id, func(it *model.Item) error {
		it.Quantity = quantity
		return nil
	})
	s.observe(ctx, metrics.OpSetQuantity, start, err)
	if err != nil {
		return nil, fmt.Errorf("set quantity: %w", err)
	}
	return updated, nil
}

// Add appends a new item with zero stock.
func (s *InventoryService) Add(ctx context.Context, req model.CreateItemRequest) (*model.Item, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		verr := apperrors.ValidationField("name", err.Error())
		s.observe(ctx, metrics.OpAdd, start, verr)
		return nil, verr
	}

	item := model.Item{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Quantity:     0,
		LowThreshold: req.LowThreshold,
		Emoji:        req.Emoji,
	}
	err := s.items.Append(ctx, item)
	s.observe(ctx, metrics.OpAdd, start, err)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	s.logger.InfoContext(ctx, "item added", "id", item.ID, "name", item.Name)
	return &item, nil
}

// Remove deletes an item once the request is confirmed.
// A missing id is not an error and reports false.
func (s *InventoryService) Remove(ctx context.Context, req model.RemoveItemRequest) (bool, error) {
	start := time.Now()
	if !req.Confirmed {
		err := apperrors.Validation("deletion must be confirmed")
		s.observe(ctx, metrics.OpRemove, start, err)
		return false, err
	}

	deleted, err := s.items.Delete(ctx, req.ID)
	if err != nil {
		s.observe(ctx, metrics.OpRemove, start, err)
		return false, fmt.Errorf("remove item: %w", err)
	}
	if !deleted {
		metrics.EmitInventoryMutation(s.metrics, metrics.MutationMetric{Op: metrics.OpRemove, Result: metrics.ResultNoop})
		return false, nil
	}

	s.observe(ctx, metrics.OpRemove, start, nil)
	s.logger.InfoContext(ctx, "item removed", "id", req.ID)
	return true, nil
}

// Query evaluates a JMESPath expression against the catalog, e.g.
// "[?quantity <= low_threshold].name". Field names follow the JSON form of model.Item.
func (s *InventoryService) Query(ctx context.Context, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, apperrors.ValidationField("filter", "filter expression is required")
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, apperrors.ValidationField("filter", fmt.Sprintf("invalid filter: %v", err))
	}

	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := toJSONDocument(items)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode catalog")
	}

	out, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, apperrors.ValidationField("filter", fmt.Sprintf("evaluate filter: %v", err))
	}
	return out, nil
}

// observe records the mutation and refreshes catalog gauges after a successful write.
func (s *InventoryService) observe(ctx context.Context, op string, start time.Time, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmitInventoryMutation(s.metrics, metrics.MutationMetric{
		Op:       op,
		Result:   result,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return
	}

	items, listErr := s.items.List(ctx)
	if listErr != nil {
		s.logger.WarnContext(ctx, "refresh catalog gauges", "error", listErr)
		return
	}
	metrics.EmitCatalogGauges(s.metrics, len(items), len(model.CriticalItems(items)))
}

// toJSONDocument converts v into the generic map/slice form JMESPath walks.
func toJSONDocument(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
