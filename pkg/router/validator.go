package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/route"
	"github.com/vango-dev/routekit/pkg/uri"
)

// Validator checks a flattened route set for conflicts.
type Validator struct {
	routes []*route.Route
	errors []error
}

// MultiValidationError wraps every problem found by a Validator.
type MultiValidationError struct {
	Errors []error
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *MultiValidationError) Unwrap() []error {
	return e.Errors
}

// NewValidator creates a validator over routes, which must already be
// flattened in declaration order.
func NewValidator(routes []*route.Route) *Validator {
	return &Validator{routes: routes}
}

// Validate checks all routes. It returns nil when the set is valid and
// a *MultiValidationError otherwise.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validateTemplates()
	v.validateDuplicateURIs()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// validateTemplates rejects unsupported "{name:type}" suffixes.
func (v *Validator) validateTemplates() {
	for _, r := range v.routes {
		if !r.IsTemplate() {
			continue
		}
		if _, err := r.Template(); err != nil {
			v.errors = append(v.errors, err)
		}
	}
}

// validateDuplicateURIs reports each URI declared by more than one
// route. URIs compare segment-wise ignoring case.
func (v *Validator) validateDuplicateURIs() {
	byURI := make(map[string][]*route.Route)
	var order []string
	for _, r := range v.routes {
		key := uriKey(r.URI())
		if _, seen := byURI[key]; !seen {
			order = append(order, key)
		}
		byURI[key] = append(byURI[key], r)
	}

	for _, key := range order {
		routes := byURI[key]
		if len(routes) <= 1 {
			continue
		}
		components := make([]component.Component, len(routes))
		for i, r := range routes {
			components[i] = r.Component()
		}
		v.errors = append(v.errors, &UriConflictError{
			URI:        routes[0].URI(),
			Components: components,
		})
	}
}

// uriKey is the lookup key of a declared route URI.
func uriKey(u string) string {
	return strings.ToLower(uri.JoinSegments(uri.SplitPath(u)))
}
