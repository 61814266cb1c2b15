package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/component"
)

// UriConflictError reports a URI bound to more than one route.
type UriConflictError struct {
	URI        string
	Components []component.Component
}

func (e *UriConflictError) Error() string {
	names := make([]string, len(e.Components))
	for i, c := range e.Components {
		names[i] = c.String()
	}
	return fmt.Sprintf("uri '%s' is registered by multiple routes: %s", e.URI, strings.Join(names, ", "))
}

// Coded returns the formatted form of the error.
func (e *UriConflictError) Coded() *errors.Error {
	return errors.New("R004").WithDetail(e.Error())
}

// NoURIError reports a navigation request without a destination.
type NoURIError struct{}

func (e *NoURIError) Error() string {
	return "no uri specified for navigation"
}

// Coded returns the formatted form of the error.
func (e *NoURIError) Coded() *errors.Error {
	return errors.New("R007")
}

// RouteCountError reports a component navigation whose component is
// not bound to exactly one route.
type RouteCountError struct {
	Component component.Component
	Count     int
}

func (e *RouteCountError) Error() string {
	return fmt.Sprintf("component %s is bound to %d routes, want exactly 1", e.Component, e.Count)
}

// Coded returns the formatted form of the error.
func (e *RouteCountError) Coded() *errors.Error {
	return errors.New("R008").WithDetail(e.Error())
}

// NotQueryParameterError reports a typed navigation parameter that the
// component does not declare as a query parameter.
type NotQueryParameterError struct {
	Component component.Component
	Field     string
}

func (e *NotQueryParameterError) Error() string {
	return fmt.Sprintf("field %s of component %s is not a query parameter", e.Field, e.Component)
}

// Coded returns the formatted form of the error.
func (e *NotQueryParameterError) Coded() *errors.Error {
	return errors.New("R009").WithDetail(e.Error())
}
