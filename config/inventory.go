package config

import "time"

// MinCalendarRefresh bounds how often the calendar clock may tick.
const MinCalendarRefresh = time.Second

// InventoryConfig controls catalog seeding and the calendar header.
type InventoryConfig struct {
	// SeedCatalog loads the starter catalog on boot. Disable to start empty.
	SeedCatalog bool `env:"INVENTORY_SEED_CATALOG" envDefault:"true"`

	// CalendarRefresh is the interval between Jalali date recomputations.
	CalendarRefresh time.Duration `env:"CALENDAR_REFRESH_INTERVAL" envDefault:"60s"`
}

// Sanitize applies guardrails to inventory configuration values.
func (c *InventoryConfig) Sanitize() {
	if c.CalendarRefresh < MinCalendarRefresh {
		c.CalendarRefresh = MinCalendarRefresh
	}
}
