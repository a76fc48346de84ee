// Package core holds the template helpers shared by every page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/target/q-inventory/internal/domain/calendar"
)

// Deps holds dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns the template.FuncMap used by the layout and pages.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl": deps.ContentTemplateFor,
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"faDigits":    FaDigits,
		"jalaliDate":  JalaliDate,
		"toJSON": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template execution; values already escaped.
		return template.HTML(buf.String()), nil
	}

	return funcs
}

var faDigitReplacer = strings.NewReplacer( //nolint:gochecknoglobals // immutable
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
)

// FaDigits renders ASCII digits in any value as Persian digits.
func FaDigits(v any) string {
	return faDigitReplacer.Replace(fmt.Sprint(v))
}

// JalaliDate formats a timestamp as a numeric Jalali date (e.g. 1403/10/12).
func JalaliDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return calendar.ToJalali(t.Local()).String()
}
