package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/target/q-inventory/internal/domain/calendar"
)

const defaultCalendarRefresh = time.Minute

// CalendarClockOptions groups dependencies for CalendarClock.
type CalendarClockOptions struct {
	Interval time.Duration    // Optional: defaults to one minute
	Now      func() time.Time // Optional: defaults to time.Now
	Logger   *slog.Logger     // Optional
}

// CalendarClock keeps the Jalali date shown in the header current.
// It converts once on construction and again on every tick of Run.
type CalendarClock struct {
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.RWMutex
	current calendar.Date
}

// NewCalendarClock constructs a clock and computes the initial date.
func NewCalendarClock(opts CalendarClockOptions) *CalendarClock {
	if opts.Interval <= 0 {
		opts.Interval = defaultCalendarRefresh
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &CalendarClock{
		interval: opts.Interval,
		now:      opts.Now,
		logger:   opts.Logger.With("component", "calendar"),
	}
	c.Refresh()
	return c
}

// Current returns the most recently computed date.
func (c *CalendarClock) Current() calendar.Date {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Refresh recomputes the date from the clock and returns it.
func (c *CalendarClock) Refresh() calendar.Date {
	d := calendar.ToJalali(c.now())

	c.mu.Lock()
	changed := d != c.current
	c.current = d
	c.mu.Unlock()

	if changed {
		c.logger.Debug("calendar date updated", "date", d.String())
	}
	return d
}

// Run refreshes on every interval until ctx is canceled.
func (c *CalendarClock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Refresh()
		}
	}
}
