// Package testutil provides testing utilities and helpers for q-inventory.
package testutil

import (
	"github.com/google/uuid"
	"github.com/target/q-inventory/internal/domain/model"
)

// ItemBuilder provides a fluent interface for building catalog items in tests.
type ItemBuilder struct {
	item model.Item
}

// NewItem creates an ItemBuilder with a fresh id, quantity 10 and threshold 5.
func NewItem(name string) *ItemBuilder {
	return &ItemBuilder{
		item: model.Item{
			ID:           uuid.NewString(),
			Name:         name,
			Quantity:     10,
			LowThreshold: 5,
			Emoji:        model.DefaultIcon,
		},
	}
}

// WithID sets the item id.
func (b *ItemBuilder) WithID(id string) *ItemBuilder {
	b.item.ID = id
	return b
}

// WithQuantity sets the stock level.
func (b *ItemBuilder) WithQuantity(q int) *ItemBuilder {
	b.item.Quantity = q
	return b
}

// WithThreshold sets the low-stock threshold.
func (b *ItemBuilder) WithThreshold(n int) *ItemBuilder {
	b.item.LowThreshold = n
	return b
}

// WithEmoji sets the icon.
func (b *ItemBuilder) WithEmoji(e string) *ItemBuilder {
	b.item.Emoji = e
	return b
}

// Build returns the item.
func (b *ItemBuilder) Build() model.Item {
	return b.item
}
