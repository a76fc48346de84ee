package httpx

// Page identifiers used by templates and navigation.
const (
	PageLogin      = "login"
	PageInventory  = "inventory"
	PageItemDelete = "item-delete"
	PagePassword   = "password"
	PageAccounts   = "accounts"
)

// Template directories for disk loading.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageLogin:      "login-content",
	PageInventory:  "inventory-content",
	PageItemDelete: "item-delete-content",
	PagePassword:   "password-content",
	PageAccounts:   "accounts-content",
}

// ContentTemplateFor returns the content template for a page, defaulting to the inventory.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "inventory-content"
}
