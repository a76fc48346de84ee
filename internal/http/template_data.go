package httpx

import (
	"net/http"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

const appTitle = "انبار کیو"

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a builder seeded with the layout fields for r.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Error"] = true
		b.data["ErrorMessage"] = msg
	}
	return b
}

// WithSuccess sets a confirmation message.
func (b *TemplateDataBuilder) WithSuccess(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["SuccessMessage"] = msg
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// basePageData constructs the common layout fields from the request and session.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	title := meta.Title
	if title == "" {
		title = appTitle
	} else {
		title = meta.Title + " | " + appTitle
	}
	data := map[string]any{
		"Title":           title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"IsAdmin":         false,
	}
	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}
	if s := GetSessionFromContext(r.Context()); s != nil {
		data["IsAuthenticated"] = true
		data["IsAdmin"] = s.IsAdmin()
		data["User"] = s
	}
	return data
}
