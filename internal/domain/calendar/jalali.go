// Package calendar converts Gregorian dates to the Jalali (Persian) calendar
// used for the date shown in the UI header.
//
// The conversion counts days from the Jalali epoch, estimates the year with
// the mean tropical year and then walks the month table. The leap rule is the
// simplified ((year-1) mod 33) mod 4 test, so dates within a day of Nowruz may
// differ from the astronomical calendar.
package calendar

import (
	"fmt"
	"math"
	"time"
)

const (
	// jalaliEpochJDN is the Julian Day Number of 1 Farvardin 1.
	jalaliEpochJDN = 1948321
	tropicalYear   = 365.2422
)

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

// weekdayNames starts on Saturday, the first day of the Persian week.
var weekdayNames = [7]string{
	"شنبه", "یک‌شنبه", "دوشنبه", "سه‌شنبه", "چهارشنبه", "پنج‌شنبه", "جمعه",
}

// Date is a Jalali calendar date ready for display.
type Date struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Weekday     int    `json:"weekday"` // 0 = Saturday
	WeekdayName string `json:"weekday_name"`
	MonthName   string `json:"month_name"`
	Formatted   string `json:"formatted"`
}

// String returns the numeric form, e.g. 1403/10/12.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// IsLeap reports whether the Jalali year has a 30-day Esfand.
func IsLeap(year int) bool {
	return mod(mod(year-1, 33), 4) == 0
}

// MonthLength returns the number of days in month (1-12) of year.
func MonthLength(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	case IsLeap(year):
		return 30
	default:
		return 29
	}
}

// YearLength returns 366 for leap years and 365 otherwise.
func YearLength(year int) int {
	if IsLeap(year) {
		return 366
	}
	return 365
}

// ToJalali converts the wall-clock date of t. The time zone of t is used as is.
func ToJalali(t time.Time) Date {
	y, m, d := t.Date()
	days := julianDayNumber(y, int(m), d) - jalaliEpochJDN

	year := int(math.Floor(float64(days)/tropicalYear)) + 1
	dayOfYear := days - int(math.Floor(float64(year-1)*tropicalYear)) + 1
	for dayOfYear > YearLength(year) {
		dayOfYear -= YearLength(year)
		year++
	}

	month := 1
	for month < 12 && dayOfYear > MonthLength(year, month) {
		dayOfYear -= MonthLength(year, month)
		month++
	}

	wd := (int(t.Weekday()) + 1) % 7
	out := Date{
		Year:        year,
		Month:       month,
		Day:         dayOfYear,
		Weekday:     wd,
		WeekdayName: weekdayNames[wd],
		MonthName:   MonthName(month),
	}
	out.Formatted = fmt.Sprintf("%s %d %s %d", out.WeekdayName, out.Day, out.MonthName, out.Year)
	return out
}

// MonthName returns the Persian name of month 1-12, or "" when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// julianDayNumber returns the JDN of a proleptic Gregorian date.
func julianDayNumber(y, m, d int) int {
	a := (14 - m) / 12
	yy := y + 4800 - a
	mm := m + 12*a - 3
	return d + (153*mm+2)/5 + 365*yy + floorDiv(yy, 4) - floorDiv(yy, 100) + floorDiv(yy, 400) - 32045
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
