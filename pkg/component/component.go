// Package component identifies the UI component types routes render.
//
// A Component is an opaque, comparable reference. Components backed by a
// Go type are obtained with TypeOf; components declared outside Go code
// (for example in a route manifest) are obtained with Named.
package component

import (
	"reflect"
	"strings"
)

// Component is a reference to a renderable component type.
// The zero value refers to no component.
type Component struct {
	name string
	rt   reflect.Type
}

// TypeOf returns the component reference for T.
func TypeOf[T any]() Component {
	return Of(reflect.TypeFor[T]())
}

// Of returns the component reference for rt. Pointer types are
// dereferenced so *Counter and Counter name the same component.
func Of(rt reflect.Type) Component {
	if rt == nil {
		return Component{}
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return Component{name: rt.String(), rt: rt}
}

// Named returns a component reference that is identified only by name.
// Named components are never abstract and declare no query parameters
// unless a ParameterSource supplies them.
func Named(name string) Component {
	return Component{name: name}
}

// Name returns the display name, e.g. "pages.Counter".
func (c Component) Name() string {
	return c.name
}

// ShortName returns the name without a package qualifier.
func (c Component) ShortName() string {
	if i := strings.LastIndexByte(c.name, '.'); i >= 0 {
		return c.name[i+1:]
	}
	return c.name
}

// Type returns the backing Go type, or nil for named components.
func (c Component) Type() reflect.Type {
	return c.rt
}

// IsZero reports whether c refers to no component.
func (c Component) IsZero() bool {
	return c.name == "" && c.rt == nil
}

// IsAbstract reports whether c cannot be instantiated.
// Interface types are abstract.
func (c Component) IsAbstract() bool {
	return c.rt != nil && c.rt.Kind() == reflect.Interface
}

// New allocates a zero value of the component type and returns a pointer
// to it. It returns nil for named and abstract components.
func (c Component) New() any {
	if c.rt == nil || c.IsAbstract() {
		return nil
	}
	return reflect.New(c.rt).Interface()
}

func (c Component) String() string {
	if c.IsZero() {
		return "<none>"
	}
	return c.name
}
