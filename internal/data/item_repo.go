package data

import (
	"context"
	"slices"
	"sync"

	"github.com/target/q-inventory/internal/domain/model"
)

// ItemRepo keeps the catalog in process memory.
//
// Every write replaces the backing slice instead of editing it in place,
// so a snapshot handed out by List is never mutated afterwards.
type ItemRepo struct {
	mu    sync.RWMutex
	items []model.Item
}

// NewItemRepo creates a repository holding a copy of seed.
func NewItemRepo(seed []model.Item) *ItemRepo {
	return &ItemRepo{items: slices.Clone(seed)}
}

// List returns the catalog in insertion order.
func (r *ItemRepo) List(_ context.Context) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items), nil
}

// GetByID returns a copy of the item with the given id.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	it := r.items[i]
	return &it, nil
}

// Append adds item to the end of the catalog.
func (r *ItemRepo) Append(_ context.Context, item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(item.ID) >= 0 {
		return ErrItemIDExists
	}
	next := make([]model.Item, len(r.items), len(r.items)+1)
	copy(next, r.items)
	r.items = append(next, item)
	return nil
}

// Update runs fn against a copy of the item and stores the copy when fn succeeds.
func (r *ItemRepo) Update(_ context.Context, id string, fn func(*model.Item) error) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	updated := r.items[i]
	if err := fn(&updated); err != nil {
		return nil, err
	}
	updated.ID = id

	next := slices.Clone(r.items)
	next[i] = updated
	r.items = next
	return &updated, nil
}

// Delete removes the item and reports whether anything was removed.
func (r *ItemRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := make([]model.Item, 0, len(r.items)-1)
	next = append(next, r.items[:i]...)
	r.items = append(next, r.items[i+1:]...)
	return true, nil
}

func (r *ItemRepo) indexOf(id string) int {
	return slices.IndexFunc(r.items, func(it model.Item) bool { return it.ID == id })
}
