package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Route Errors (R001-R019)
	// ============================================

	"R001": {
		Category:   CategoryRoute,
		Message:    "Route bound to an abstract component",
		Suggestion: "Bind the route to a concrete component type instead of an interface",
	},
	"R002": {
		Category:   CategoryRoute,
		Message:    "Route not found",
		Suggestion: "Check the component type and URI of the referenced route",
	},
	"R003": {
		Category:   CategoryRoute,
		Message:    "Invalid route relationship",
		Suggestion: "Each route may have exactly one parent and may not be its own ancestor",
	},
	"R004": {
		Category:   CategoryRoute,
		Message:    "URI registered to multiple routes",
		Suggestion: "Remove one of the declarations or use OverrideRoute to replace it",
	},
	"R005": {
		Category:   CategoryParameter,
		Message:    "Invalid path-template parameter type",
		Suggestion: "Supported types: bool, datetime, decimal, double, float, guid, int, long, timeonly, dateonly, string",
	},
	"R006": {
		Category:   CategoryRoute,
		Message:    "Invalid routing profile",
		Suggestion: "Register a non-nil value implementing profile.Profile",
	},
	"R007": {
		Category: CategoryNavigation,
		Message:  "No URI specified for navigation",
	},
	"R008": {
		Category:   CategoryNavigation,
		Message:    "Component is not bound to exactly one URI",
		Suggestion: "Specify the URI explicitly with WithURI",
	},
	"R009": {
		Category:   CategoryNavigation,
		Message:    "Member is not a query parameter",
		Suggestion: "Tag the component field with `query:\"\"` to declare it as a query parameter",
	},
	"R010": {
		Category: CategoryRoute,
		Message:  "Route has no component",
	},
	"R011": {
		Category:   CategoryNavigation,
		Message:    "Invalid relative URI",
		Suggestion: "Use a relative URI without backslashes, NUL bytes or '..' above the root",
	},

	// ============================================
	// Config Errors (R020-R029)
	// ============================================

	"R020": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Suggestion: "Create routekit.json or point routekit at its directory with --dir",
	},
	"R021": {
		Category:   CategoryConfig,
		Message:    "Invalid config file",
		Suggestion: "Check that routekit.json is valid JSON",
	},
	"R022": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
	},

	// ============================================
	// Manifest Errors (R030-R039)
	// ============================================

	"R030": {
		Category:   CategoryManifest,
		Message:    "Invalid route manifest",
		Suggestion: "Check the manifest against the documented routes.yaml schema",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
