package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/target/q-inventory/internal/domain/model"
	apperrors "github.com/target/q-inventory/internal/errors"
)

// EditState describes the item currently in the quantity editor.
type EditState struct {
	ItemID string
	Draft  int
}

// QuantityEditor is the single, process-wide quantity edit slot.
//
// At most one item is being edited at a time. Beginning an edit on another
// item silently abandons the previous draft. Save commits through
// InventoryService.SetQuantity and returns to viewing only when the write is
// accepted; a rejected value keeps the editor open.
type QuantityEditor struct {
	inventory *InventoryService

	mu      sync.Mutex
	current *EditState
}

// NewQuantityEditor creates an editor in the viewing state.
func NewQuantityEditor(inventory *InventoryService) *QuantityEditor {
	if inventory == nil {
		panic("InventoryService is required")
	}
	return &QuantityEditor{inventory: inventory}
}

// Begin starts editing id with its current quantity as the draft.
func (e *QuantityEditor) Begin(ctx context.Context, id string) (EditState, error) {
	it, err := e.inventory.Get(ctx, id)
	if err != nil {
		return EditState{}, err
	}

	state := EditState{ItemID: it.ID, Draft: it.Quantity}
	e.mu.Lock()
	e.current = &state
	e.mu.Unlock()
	return state, nil
}

// Current reports the active edit, if any.
func (e *QuantityEditor) Current() (EditState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return EditState{}, false
	}
	return *e.current, true
}

// Save commits value for id. The id must still be the item being edited when
// the editor lock is taken, so a concurrent Begin on another item rejects the
// save instead of redirecting it.
func (e *QuantityEditor) Save(ctx context.Context, id string, value int) (*model.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil || e.current.ItemID != id {
		return nil, apperrors.Validationf("item %s is not being edited", id)
	}

	e.current.Draft = value
	updated, err := e.inventory.SetQuantity(ctx, id, value)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// The item was removed while being edited.
			e.current = nil
		}
		return nil, fmt.Errorf("save edit: %w", err)
	}

	e.current = nil
	return updated, nil
}

// Cancel drops any draft and returns to viewing.
func (e *QuantityEditor) Cancel() {
	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()
}

// Forget cancels the edit if it targets id. Used when an item is deleted.
func (e *QuantityEditor) Forget(id string) {
	e.mu.Lock()
	if e.current != nil && e.current.ItemID == id {
		e.current = nil
	}
	e.mu.Unlock()
}
