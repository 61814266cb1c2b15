package router

import (
	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/route"
	"github.com/vango-dev/routekit/pkg/uri"
)

// Table is a resolved route forest with lookup indices. A Table is
// read-only and safe for concurrent use, except for route metadata,
// whose writers must serialize themselves.
type Table struct {
	roots       []*route.Route
	all         []*route.Route
	byURI       map[string]*route.Route
	byComponent map[component.Component][]*route.Route
	tree        *matchNode
}

// newTable indexes the forest rooted at roots. Template errors must
// already have been reported by the Validator.
func newTable(roots []*route.Route) *Table {
	t := &Table{
		roots:       roots,
		byURI:       make(map[string]*route.Route),
		byComponent: make(map[component.Component][]*route.Route),
		tree:        newMatchNode(""),
	}
	for _, root := range roots {
		root.Walk(func(r *route.Route) bool {
			t.all = append(t.all, r)
			key := uriKey(r.URI())
			if _, ok := t.byURI[key]; !ok {
				t.byURI[key] = r
			}
			t.byComponent[r.Component()] = append(t.byComponent[r.Component()], r)
			if tpl, err := r.Template(); err == nil {
				t.tree.insert(r, tpl)
			}
			return true
		})
	}
	return t
}

// Roots returns the top-level routes in declaration order.
func (t *Table) Roots() []*route.Route {
	return append([]*route.Route(nil), t.roots...)
}

// All returns every route, depth-first in declaration order.
func (t *Table) All() []*route.Route {
	return append([]*route.Route(nil), t.all...)
}

// Len returns the total number of routes.
func (t *Table) Len() int {
	return len(t.all)
}

// Lookup returns the route declared at exactly u, ignoring case and
// surrounding slashes. Template tokens are compared literally.
func (t *Table) Lookup(u string) *route.Route {
	return t.byURI[uriKey(u)]
}

// Match returns the route a navigation to u renders. Any query string
// is ignored. Static segments win over typed tokens, which win over
// untyped tokens. Match returns nil when nothing matches.
func (t *Table) Match(u string) *route.Route {
	return t.tree.match(uri.ParseSegments(u))
}

// ByComponent returns the routes bound to c in declaration order.
func (t *Table) ByComponent(c component.Component) []*route.Route {
	return append([]*route.Route(nil), t.byComponent[c]...)
}

// Modules returns the routes marked as modules, depth-first.
func (t *Table) Modules() []*route.Route {
	var out []*route.Route
	for _, r := range t.all {
		if r.IsModule() {
			out = append(out, r)
		}
	}
	return out
}
