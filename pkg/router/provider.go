package router

import (
	"context"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/route"
)

// Location is the host's view of the current location.
type Location interface {
	// RelativeURI returns the current URI relative to the application
	// base, including any query string.
	RelativeURI() string

	// Subscribe registers fn to run after every location change. The
	// returned function removes the subscription.
	Subscribe(fn func(relativeURI string)) (unsubscribe func())
}

// Authorizer decides whether the current user may see a route.
type Authorizer interface {
	Authorize(ctx context.Context, r *route.Route) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, r *route.Route) bool

// Authorize calls f(ctx, r).
func (f AuthorizerFunc) Authorize(ctx context.Context, r *route.Route) bool {
	return f(ctx, r)
}

// Provider answers route queries over a resolved Table.
type Provider struct {
	table      *Table
	location   Location
	authorizer Authorizer
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithAuthorizer filters the authorized queries through a. Without an
// authorizer every route is authorized.
func WithAuthorizer(a Authorizer) ProviderOption {
	return func(p *Provider) {
		p.authorizer = a
	}
}

// NewProvider creates a provider. location may be nil, in which case
// the current-route queries report no route.
func NewProvider(table *Table, location Location, opts ...ProviderOption) *Provider {
	p := &Provider{table: table, location: location}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Table returns the underlying table.
func (p *Provider) Table() *Table {
	return p.table
}

// Routes returns the top-level routes.
func (p *Provider) Routes() []*route.Route {
	return p.table.Roots()
}

// AllRoutes returns every route, depth-first in declaration order.
func (p *Provider) AllRoutes() []*route.Route {
	return p.table.All()
}

// AuthorizedRoutes returns the top-level routes the authorizer accepts.
// Children of an accepted route are not filtered.
func (p *Provider) AuthorizedRoutes(ctx context.Context) []*route.Route {
	return p.filter(ctx, p.table.Roots())
}

// Modules returns the routes marked with the is-module metadata flag.
func (p *Provider) Modules() []*route.Route {
	return p.table.Modules()
}

// AuthorizedModules returns the modules the authorizer accepts.
func (p *Provider) AuthorizedModules(ctx context.Context) []*route.Route {
	return p.filter(ctx, p.table.Modules())
}

// Authorized reports whether r is authorized.
func (p *Provider) Authorized(ctx context.Context, r *route.Route) bool {
	if p.authorizer == nil {
		return true
	}
	return p.authorizer.Authorize(ctx, r)
}

func (p *Provider) filter(ctx context.Context, routes []*route.Route) []*route.Route {
	if p.authorizer == nil {
		return routes
	}
	out := routes[:0:0]
	for _, r := range routes {
		if p.authorizer.Authorize(ctx, r) {
			out = append(out, r)
		}
	}
	return out
}

// FindRoute returns the route a navigation to u renders, or nil.
func (p *Provider) FindRoute(u string) *route.Route {
	return p.table.Match(u)
}

// FindRoutes returns the routes bound to c.
func (p *Provider) FindRoutes(c component.Component) []*route.Route {
	return p.table.ByComponent(c)
}

// CurrentRoute returns the route of the current location, or nil.
func (p *Provider) CurrentRoute() *route.Route {
	if p.location == nil {
		return nil
	}
	return p.FindRoute(p.location.RelativeURI())
}

// CurrentModule returns the closest module at or above the current
// route, or nil.
func (p *Provider) CurrentModule() *route.Route {
	for r := p.CurrentRoute(); r != nil; r = r.Parent() {
		if r.IsModule() {
			return r
		}
	}
	return nil
}

// IsCurrentRoute reports whether r is the route of the current location.
func (p *Provider) IsCurrentRoute(r *route.Route) bool {
	return r != nil && p.CurrentRoute() == r
}
