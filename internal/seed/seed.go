// Package seed provides the starting catalog and the bootstrap administrator.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/target/q-inventory/internal/domain/model"
	"github.com/target/q-inventory/internal/service"
)

// catalogNamespace derives stable item IDs for the seeded catalog so that
// bookmarked edit/delete links survive a restart.
var catalogNamespace = uuid.MustParse("5b0c6b0e-8f1a-4c7e-9d1e-2f7a3c1d9e40")

type seedItem struct {
	name      string
	quantity  int
	threshold int
	emoji     string
}

func defaultItems() []seedItem {
	return []seedItem{
		{name: "روغن", quantity: 4, threshold: 5, emoji: "🥫"},
		{name: "سیب‌زمینی", quantity: 8, threshold: 10, emoji: "🥔"},
		{name: "نان", quantity: 25, threshold: 15, emoji: "🥖"},
		{name: "مرغ", quantity: 2, threshold: 7, emoji: "🍗"},
		{name: "سس سیر", quantity: 3, threshold: 4, emoji: "🧄"},
		{name: "سس تند", quantity: 9, threshold: 5, emoji: "🌶️"},
		{name: "پودر ادویه", quantity: 1, threshold: 3, emoji: "🧂"},
	}
}

// Catalog returns the initial catalog in display order.
func Catalog() []model.Item {
	src := defaultItems()
	items := make([]model.Item, 0, len(src))
	for _, s := range src {
		items = append(items, model.Item{
			ID:           ItemID(s.name),
			Name:         s.name,
			Quantity:     s.quantity,
			LowThreshold: s.threshold,
			Emoji:        s.emoji,
		})
	}
	return items
}

// ItemID returns the stable ID assigned to a seeded item name.
func ItemID(name string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(name)).String()
}

// Deps bundles what Run needs.
type Deps struct {
	Identity *service.IdentityService
	Admin    service.BootstrapAdmin
	Logger   *slog.Logger
}

// Run ensures the bootstrap administrator exists.
func Run(ctx context.Context, d Deps) error {
	if d.Identity == nil {
		return errors.New("identity service is required")
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	acct, err := d.Identity.EnsureAdmin(ctx, d.Admin)
	if err != nil {
		logger.ErrorContext(ctx, "failed to ensure bootstrap admin", "username", d.Admin.Username, "error", err)
		return fmt.Errorf("ensure bootstrap admin: %w", err)
	}
	logger.InfoContext(ctx, "bootstrap admin ready", "username", acct.Username)
	return nil
}
