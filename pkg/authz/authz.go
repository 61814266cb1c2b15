// Package authz provides router.Authorizer implementations.
//
// Expr evaluates a boolean expression per route:
//
//	a, err := authz.NewExpr(`meta.admin != true or "admin" in roles`)
//	provider := router.NewProvider(table, loc, router.WithAuthorizer(a))
//
//	ctx = authz.WithValues(ctx, map[string]any{"roles": user.Roles})
//	visible := provider.AuthorizedRoutes(ctx)
//
// The expression sees these variables:
//
//	meta         route metadata, by key
//	uri          route URI
//	component    component name
//	permissions  the route's "permissions" metadata as a list
//
// plus the values attached to the context with WithValues. Undefined
// variables evaluate to nil.
package authz

import (
	"context"
	"log/slog"
	"maps"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/route"
	"github.com/vango-dev/routekit/pkg/router"
)

type valuesKey struct{}

// WithValues returns a copy of ctx carrying values for Expr. Values
// attached earlier are kept unless overwritten.
func WithValues(ctx context.Context, values map[string]any) context.Context {
	merged := maps.Clone(ValuesFrom(ctx))
	if merged == nil {
		merged = make(map[string]any, len(values))
	}
	maps.Copy(merged, values)
	return context.WithValue(ctx, valuesKey{}, merged)
}

// ValuesFrom returns the values attached with WithValues.
func ValuesFrom(ctx context.Context) map[string]any {
	v, _ := ctx.Value(valuesKey{}).(map[string]any)
	return v
}

// Expr authorizes routes for which a compiled expression yields true.
type Expr struct {
	source  string
	program *vm.Program
	logger  *slog.Logger
}

// Option configures an Expr.
type Option func(*Expr)

// WithLogger sets the logger used to report evaluation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expr) {
		e.logger = logger
	}
}

// NewExpr compiles source. A malformed expression fails with a coded
// R022 error.
func NewExpr(source string, opts ...Option) (*Expr, error) {
	program, err := expr.Compile(source, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, errors.New("R022").
			WithDetailf("authorization expression %q: %v", source, err).
			Wrap(err)
	}
	e := &Expr{source: source, program: program}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default().With("component", "authz")
	}
	return e, nil
}

// String returns the expression source.
func (e *Expr) String() string {
	return e.source
}

// Authorize evaluates the expression for r. Evaluation errors deny.
func (e *Expr) Authorize(ctx context.Context, r *route.Route) bool {
	env := make(map[string]any)
	maps.Copy(env, ValuesFrom(ctx))
	env["meta"] = r.Metadata().Map()
	env["uri"] = r.URI()
	env["component"] = r.Component().Name()
	env["permissions"] = r.Metadata().Strings(route.MetaPermissions, nil)

	out, err := vm.Run(e.program, env)
	if err != nil {
		e.logger.Warn("authorization expression failed",
			"expr", e.source, "route", r.String(), "error", err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// Permissions authorizes a route when every permission listed in its
// "permissions" metadata is granted.
type Permissions struct {
	Granted func(ctx context.Context, permission string) bool
}

// Authorize implements router.Authorizer.
func (p Permissions) Authorize(ctx context.Context, r *route.Route) bool {
	for _, perm := range r.Metadata().Strings(route.MetaPermissions, nil) {
		if p.Granted == nil || !p.Granted(ctx, perm) {
			return false
		}
	}
	return true
}

// Grant returns a Granted function accepting a fixed set of
// permissions.
func Grant(permissions ...string) func(context.Context, string) bool {
	set := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return func(_ context.Context, permission string) bool {
		_, ok := set[permission]
		return ok
	}
}

// All authorizes a route when every authorizer does.
func All(authorizers ...router.Authorizer) router.Authorizer {
	return router.AuthorizerFunc(func(ctx context.Context, r *route.Route) bool {
		for _, a := range authorizers {
			if !a.Authorize(ctx, r) {
				return false
			}
		}
		return true
	})
}
