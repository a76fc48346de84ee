//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxItemNameLen = 100

	// DefaultLowThreshold is the threshold the add form starts with.
	DefaultLowThreshold = 5
)

// Item is one catalog entry with its current stock level.
// Quantity is never negative.
type Item struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	LowThreshold int    `json:"low_threshold"`
	Emoji        string `json:"emoji"`
}

// IsCritical reports whether stock has fallen to or below the warning threshold.
func (i Item) IsCritical() bool {
	return i.Quantity <= i.LowThreshold
}

// CriticalItems returns the items that are at or below their threshold, in source order.
func CriticalItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.IsCritical() {
			out = append(out, it)
		}
	}
	return out
}

// ClampQuantity applies delta to q, floors the result at zero and saturates
// at math.MaxInt instead of wrapping.
func ClampQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	if delta < 0 && q < math.MinInt-delta {
		return 0
	}
	return max(0, q+delta)
}

// NormalizeThreshold maps any non-positive threshold onto 1.
func NormalizeThreshold(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// ParseThreshold converts raw form input into a threshold.
// Unparseable input is treated the same as zero.
func ParseThreshold(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return NormalizeThreshold(0)
	}
	return NormalizeThreshold(n)
}

// CreateItemRequest represents parameters to add an Item to the catalog.
type CreateItemRequest struct {
	Name         string `json:"name"`
	LowThreshold int    `json:"low_threshold"`
	Emoji        string `json:"emoji,omitempty"`
}

// Validate trims and normalizes the request in place.
func (r *CreateItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxItemNameLen {
		return errors.New("name cannot exceed 100 characters")
	}
	r.LowThreshold = NormalizeThreshold(r.LowThreshold)
	r.Emoji = strings.TrimSpace(r.Emoji)
	if r.Emoji == "" {
		r.Emoji = DefaultIcon
	}
	return nil
}

// RemoveItemRequest deletes an item once the caller has confirmed the prompt.
type RemoveItemRequest struct {
	ID        string `json:"id"`
	Confirmed bool   `json:"confirmed"`
}

// SetQuantityRequest overwrites an item's quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// AdjustQuantityRequest changes an item's quantity by Delta.
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}
