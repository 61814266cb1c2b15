package route

import (
	"strings"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/convert"
	"github.com/vango-dev/routekit/pkg/metadata"
	"github.com/vango-dev/routekit/pkg/uri"
)

// Well-known metadata keys.
const (
	// MetaFromPageDirective marks routes synthesized from a Declaration.
	MetaFromPageDirective = "from-page-directive"

	// MetaModule marks a route as the root of a module.
	MetaModule = "is-module"

	// MetaPermissions lists the permissions required to see a route.
	MetaPermissions = "permissions"

	// MetaTitle is the display title of a route.
	MetaTitle = "title"
)

// Route is a node in the route tree.
//
// Parent is a non-owning back-reference; Children owns the subtree.
// Routes are read-only once resolved, except for metadata.
type Route struct {
	uri       string
	component component.Component
	parent    *Route
	children  []*Route
	metadata  *metadata.Metadata

	// pending references, consumed by the resolver
	parentRef *Ref
	childRefs []Ref
}

// URI returns the route URI without a leading slash.
func (r *Route) URI() string { return r.uri }

// Component returns the component the route renders.
func (r *Route) Component() component.Component { return r.component }

// Parent returns the parent route, or nil for a top-level route.
func (r *Route) Parent() *Route { return r.parent }

// Children returns the child routes in declaration order.
func (r *Route) Children() []*Route {
	return append([]*Route(nil), r.children...)
}

// Metadata returns the route's metadata. It is never nil.
func (r *Route) Metadata() *metadata.Metadata {
	if r.metadata == nil {
		r.metadata = &metadata.Metadata{}
	}
	return r.metadata
}

// SetMetadataValue stores a metadata value on the route.
func (r *Route) SetMetadataValue(key string, v any) {
	r.Metadata().Set(key, v)
}

// ParentRef returns the unresolved parent reference, if any.
func (r *Route) ParentRef() (Ref, bool) {
	if r.parentRef == nil {
		return Ref{}, false
	}
	return *r.parentRef, true
}

// ChildRefs returns the unresolved child references.
func (r *Route) ChildRefs() []Ref {
	return append([]Ref(nil), r.childRefs...)
}

// Segments returns the URI split into path segments. Optional tokens
// such as "{tab?}" are kept whole.
func (r *Route) Segments() []string {
	return uri.SplitPath(r.uri)
}

// IsTemplate reports whether the URI contains "{token}" segments.
func (r *Route) IsTemplate() bool {
	for _, seg := range r.Segments() {
		if convert.IsTemplateSegment(seg) {
			return true
		}
	}
	return false
}

// Template parses the route URI as a path template.
func (r *Route) Template() (convert.Template, error) {
	return convert.ParseTemplate(r.uri)
}

// FromPageDirective reports whether the route was synthesized from a
// component Declaration.
func (r *Route) FromPageDirective() bool {
	return r.Metadata().Bool(MetaFromPageDirective, false)
}

// IsModule reports whether the route is marked as a module root.
func (r *Route) IsModule() bool {
	return r.Metadata().Bool(MetaModule, false)
}

// Root returns the top-level ancestor of r.
func (r *Route) Root() *Route {
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Ancestors returns the chain of parents, nearest first.
func (r *Route) Ancestors() []*Route {
	var out []*Route
	for p := r.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Walk visits r and its descendants depth-first in declaration order.
// Returning false from fn stops the walk.
func (r *Route) Walk(fn func(*Route) bool) bool {
	if !fn(r) {
		return false
	}
	for _, c := range r.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FindRoute returns the route in r's subtree bound to u. Static URIs
// matching u exactly (ignoring case) win over template URIs; among
// equal kinds the first in depth-first order wins.
func (r *Route) FindRoute(u string) *Route {
	segments := uri.ParseSegments(u)

	var templated *Route
	var exact *Route
	r.Walk(func(n *Route) bool {
		if uri.RoutesMatch(n.Segments(), segments) {
			exact = n
			return false
		}
		if templated == nil && n.IsTemplate() {
			if tpl, err := n.Template(); err == nil && tpl.Match(segments) {
				templated = n
			}
		}
		return true
	})

	if exact != nil {
		return exact
	}
	return templated
}

// FindRoutes returns every route in r's subtree bound to c.
func (r *Route) FindRoutes(c component.Component) []*Route {
	var out []*Route
	r.Walk(func(n *Route) bool {
		if n.component == c {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Is reports whether r is bound to c at u. URIs compare segment-wise
// ignoring case.
func (r *Route) Is(c component.Component, u string) bool {
	return r.component == c && uri.RoutesMatch(r.Segments(), uri.SplitPath(u))
}

func (r *Route) String() string {
	return r.component.String() + " /" + r.uri
}

// Ref is a deferred reference to another route by component, optionally
// disambiguated by URI.
type Ref struct {
	Component component.Component
	URI       string
	ByURI     bool
}

// RefTo returns a reference to the route bound to T.
func RefTo[T any]() Ref {
	return Ref{Component: component.TypeOf[T]()}
}

// RefFor returns a reference to the route bound to c.
func RefFor(c component.Component) Ref {
	return Ref{Component: c}
}

// At narrows the reference to the route at u.
func (ref Ref) At(u string) Ref {
	ref.URI = strings.TrimPrefix(u, "/")
	ref.ByURI = true
	return ref
}

func (ref Ref) String() string {
	if ref.ByURI {
		return ref.Component.String() + " at '" + ref.URI + "'"
	}
	return ref.Component.String()
}
