package route

import (
	"fmt"
	"strings"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/component"
)

// AbstractComponentError reports a route bound to a component that
// cannot be instantiated.
type AbstractComponentError struct {
	Component component.Component
}

func (e *AbstractComponentError) Error() string {
	return fmt.Sprintf("component %s is abstract and cannot be bound to a route", e.Component)
}

// Coded returns the formatted form of the error.
func (e *AbstractComponentError) Coded() *errors.Error {
	return errors.New("R001").WithDetail(e.Error())
}

// MissingComponentError reports a route built without a component.
type MissingComponentError struct {
	URI string
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("route '%s' has no component", e.URI)
}

// Coded returns the formatted form of the error.
func (e *MissingComponentError) Coded() *errors.Error {
	return errors.New("R010").WithDetail(e.Error())
}

// RelationshipError reports an inconsistent parent/child relationship:
// a route linked to two different parents, a reference that resolves to
// zero or several routes, or a cycle.
type RelationshipError struct {
	Child          *Route
	ExistingParent *Route
	NewParent      *Route

	// Ref is set when a pending reference could not be resolved.
	// Candidates is the number of routes the reference matched.
	Ref        *Ref
	Candidates int

	// Cycle lists the routes of a circular relationship, starting and
	// ending with the same route.
	Cycle []*Route

	Err error
}

func (e *RelationshipError) Error() string {
	switch {
	case len(e.Cycle) > 0:
		parts := make([]string, len(e.Cycle))
		for i, r := range e.Cycle {
			parts[i] = r.String()
		}
		return "circular route relationship: " + strings.Join(parts, " -> ")
	case e.Ref != nil && e.Candidates > 1:
		return fmt.Sprintf("reference to %s from route %s is ambiguous: %d routes match",
			e.Ref, e.Child, e.Candidates)
	case e.Ref != nil:
		msg := fmt.Sprintf("cannot resolve reference to %s from route %s", e.Ref, e.Child)
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	}
	return fmt.Sprintf("route %s already has parent %s and cannot be attached to %s",
		e.Child, e.ExistingParent, e.NewParent)
}

func (e *RelationshipError) Unwrap() error { return e.Err }

// Coded returns the formatted form of the error.
func (e *RelationshipError) Coded() *errors.Error {
	return errors.New("R003").WithDetail(e.Error())
}

// NotFoundError reports a reference to a route that does not exist.
type NotFoundError struct {
	Component component.Component
	URI       string
	ByURI     bool
}

func (e *NotFoundError) Error() string {
	if e.ByURI {
		return fmt.Sprintf("no route for component %s at '%s'", e.Component, e.URI)
	}
	return fmt.Sprintf("no route for component %s", e.Component)
}

// Coded returns the formatted form of the error.
func (e *NotFoundError) Coded() *errors.Error {
	return errors.New("R002").WithDetail(e.Error())
}
