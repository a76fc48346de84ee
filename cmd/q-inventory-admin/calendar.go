package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/target/q-inventory/internal/domain/calendar"
)

const dateLayout = "2006-01-02"

type calendarOptions struct {
	Date    time.Time
	RawJSON bool
}

func parseCalendarFlags(args []string, now func() time.Time) (calendarOptions, error) {
	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		raw  string
		opts calendarOptions
	)
	fs.StringVar(&raw, "date", "", "Gregorian date as YYYY-MM-DD (default: today)")
	fs.BoolVar(&opts.RawJSON, "json", false, "Print the conversion as JSON")

	if err := fs.Parse(args); err != nil {
		return calendarOptions{}, err
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		opts.Date = now()
		return opts, nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return calendarOptions{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", raw)
	}
	opts.Date = d
	return opts, nil
}

func runCalendar(cmdCtx *commandContext, args []string) error {
	opts, err := parseCalendarFlags(args, time.Now)
	if err != nil {
		return err
	}

	d := calendar.ToJalali(opts.Date)
	if opts.RawJSON {
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	if err := writef(cmdCtx.Out, "%s  ->  %s\n", opts.Date.Format(dateLayout), d.String()); err != nil {
		return err
	}
	return writeln(cmdCtx.Out, d.Formatted)
}
