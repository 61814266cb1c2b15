package route

import (
	"reflect"
	"strings"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/metadata"
)

// Declaration is a route description supplied by a component itself
// rather than by a profile.
type Declaration struct {
	// Component is the declaring component.
	Component component.Component

	// Templates are the URIs the component is reachable at. Each distinct
	// template becomes one route.
	Templates []string

	// Parent, if set, is the component of the parent route.
	Parent component.Component

	// Children are the components of child routes.
	Children []component.Component

	// Metadata is merged into every route of the declaration.
	Metadata map[string]any
}

// Declarer is implemented by components that declare their own routes.
// RouteDeclaration is called on the zero value of the component type;
// Declaration.Component is filled in when left empty.
type Declarer interface {
	RouteDeclaration() Declaration
}

var declarerType = reflect.TypeFor[Declarer]()

// DeclarationOf returns the declaration of c if its type, or a pointer
// to it, implements Declarer.
func DeclarationOf(c component.Component) (Declaration, bool) {
	rt := c.Type()
	if rt == nil || c.IsAbstract() {
		return Declaration{}, false
	}

	var d Declarer
	switch {
	case rt.Implements(declarerType):
		d = reflect.Zero(rt).Interface().(Declarer)
	case reflect.PointerTo(rt).Implements(declarerType):
		d = reflect.New(rt).Interface().(Declarer)
	default:
		return Declaration{}, false
	}

	decl := d.RouteDeclaration()
	if decl.Component.IsZero() {
		decl.Component = c
	}
	return decl, true
}

// Routes synthesizes one route per distinct template. Every route carries
// the declaration metadata plus MetaFromPageDirective, a parent reference
// when Parent is set, and a child reference per entry of Children.
func (d Declaration) Routes() ([]*Route, error) {
	md := metadata.New(d.Metadata)
	md.Set(MetaFromPageDirective, true)

	var routes []*Route
	seen := make(map[string]bool, len(d.Templates))
	for _, tpl := range d.Templates {
		key := strings.ToLower(strings.Trim(tpl, "/"))
		if seen[key] {
			continue
		}
		seen[key] = true

		b := For(d.Component).WithURI(tpl).WithMetadata(md)
		if !d.Parent.IsZero() {
			b.WithParentRef(RefFor(d.Parent))
		}
		for _, c := range d.Children {
			b.WithChildRef(RefFor(c))
		}
		r, err := b.Build()
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}
