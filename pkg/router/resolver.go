package router

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/profile"
	"github.com/vango-dev/routekit/pkg/route"
)

// Resolver turns declarations and profiles into one validated Table.
//
// Resolution runs in this order:
//  1. routes synthesized from declarations are added, in order
//  2. each profile runs and its operations are replayed, in order
//  3. the route set is validated: templates and duplicate URIs
//  4. parent references, then child references, are linked
//  5. the forest is checked for cycles
//
// A nested parent set with route.Builder.WithChild wins over a parent
// reference on the same route. Any other attempt to give a route a
// second parent fails with *route.RelationshipError; linking the same
// pair twice is a no-op.
type Resolver struct {
	profiles     []profile.Profile
	declarations []route.Declaration
	components   []component.Component
	logger       *slog.Logger
	metrics      *Metrics
	tracer       trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProfiles registers profiles. They run in registration order.
func WithProfiles(profiles ...profile.Profile) Option {
	return func(r *Resolver) {
		r.profiles = append(r.profiles, profiles...)
	}
}

// WithDeclarations registers component declarations.
func WithDeclarations(decls ...route.Declaration) Option {
	return func(r *Resolver) {
		r.declarations = append(r.declarations, decls...)
	}
}

// WithComponents registers components implementing route.Declarer.
// Components that do not declare routes are skipped.
func WithComponents(components ...component.Component) Option {
	return func(r *Resolver) {
		r.components = append(r.components, components...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics records resolutions on m.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTracer sets the tracer. The default uses the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = tracer
	}
}

// NewResolver creates a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "resolver")
	}
	if r.tracer == nil {
		r.tracer = defaultTracer()
	}
	return r
}

// Resolve builds a new Table. Every call resolves from scratch; use a
// Cache to resolve once.
func (r *Resolver) Resolve(ctx context.Context) (*Table, error) {
	start := time.Now()
	_, span := startSpan(ctx, r.tracer, spanResolve,
		attribute.Int("routekit.profiles", len(r.profiles)),
		attribute.Int("routekit.declarations", len(r.declarations)+len(r.components)),
	)

	t, err := r.resolve()
	elapsed := time.Since(start)
	r.metrics.observeResolve(t, err, elapsed)

	if err != nil {
		endSpan(span, err)
		r.logger.Warn("route resolution failed", "error", err, "duration", elapsed)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("routekit.routes", t.Len()),
		attribute.Int("routekit.top_level", len(t.roots)),
	)
	endSpan(span, nil)
	r.logger.Info("routes resolved",
		"routes", t.Len(),
		"top_level", len(t.roots),
		"duration", elapsed,
	)
	return t, nil
}

func (r *Resolver) resolve() (*Table, error) {
	if err := profile.Validate(r.profiles); err != nil {
		return nil, err
	}

	set := profile.NewSet()
	for _, d := range r.allDeclarations() {
		routes, err := d.Routes()
		if err != nil {
			return nil, err
		}
		for _, rt := range routes {
			set.Add(rt)
		}
	}

	for _, p := range r.profiles {
		cfg := profile.NewConfiguration()
		p.Configure(cfg)
		if err := set.ApplyAll(cfg); err != nil {
			return nil, err
		}
	}

	all := flatten(set.Roots())
	if err := NewValidator(all).Validate(); err != nil {
		return nil, err
	}

	if err := r.link(all); err != nil {
		return nil, err
	}
	if err := detectCycles(all); err != nil {
		return nil, err
	}

	var roots []*route.Route
	for _, rt := range all {
		if rt.Parent() == nil {
			roots = append(roots, rt)
		}
	}
	return newTable(roots), nil
}

func (r *Resolver) allDeclarations() []route.Declaration {
	decls := append([]route.Declaration(nil), r.declarations...)
	for _, c := range r.components {
		d, ok := route.DeclarationOf(c)
		if !ok {
			r.logger.Debug("component declares no routes", "component", c.String())
			continue
		}
		decls = append(decls, d)
	}
	return decls
}

// link resolves the pending references of all and clears them.
func (r *Resolver) link(all []*route.Route) error {
	idx := newIndex(all)

	for _, child := range all {
		ref, ok := child.ParentRef()
		if !ok {
			continue
		}
		if child.Parent() != nil {
			r.logger.Debug("parent reference ignored, route is nested",
				"route", child.String(), "parent", child.Parent().String())
			continue
		}
		parent, err := idx.resolve(child, ref)
		if err != nil {
			return err
		}
		if err := r.attach(parent, child); err != nil {
			return err
		}
	}

	for _, parent := range all {
		for _, ref := range parent.ChildRefs() {
			child, err := idx.resolve(parent, ref)
			if err != nil {
				return err
			}
			if err := r.attach(parent, child); err != nil {
				return err
			}
		}
	}

	for _, rt := range all {
		route.ClearRefs(rt)
	}
	return nil
}

func (r *Resolver) attach(parent, child *route.Route) error {
	if parent == child {
		return &route.RelationshipError{Child: child, Cycle: []*route.Route{child, child}}
	}
	if err := route.Link(parent, child); err != nil {
		return err
	}
	r.logger.Debug("linked route", "parent", parent.String(), "child", child.String())
	return nil
}

// index resolves references against the working set.
type index struct {
	byURI       map[string]*route.Route
	byComponent map[component.Component][]*route.Route
}

// newIndex indexes all. URIs must be unique.
func newIndex(all []*route.Route) *index {
	idx := &index{
		byURI:       make(map[string]*route.Route, len(all)),
		byComponent: make(map[component.Component][]*route.Route),
	}
	for _, rt := range all {
		idx.byURI[uriKey(rt.URI())] = rt
		idx.byComponent[rt.Component()] = append(idx.byComponent[rt.Component()], rt)
	}
	return idx
}

// resolve finds the route ref points to. References by URI must hit a
// route bound to ref's component; references by component must match
// exactly one route.
func (idx *index) resolve(from *route.Route, ref route.Ref) (*route.Route, error) {
	fail := func(candidates int) error {
		return &route.RelationshipError{
			Child:      from,
			Ref:        &ref,
			Candidates: candidates,
			Err:        &route.NotFoundError{Component: ref.Component, URI: ref.URI, ByURI: ref.ByURI},
		}
	}

	if ref.ByURI {
		target := idx.byURI[uriKey(ref.URI)]
		if target == nil || (!ref.Component.IsZero() && target.Component() != ref.Component) {
			return nil, fail(0)
		}
		return target, nil
	}

	candidates := idx.byComponent[ref.Component]
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, fail(0)
	default:
		return nil, &route.RelationshipError{Child: from, Ref: &ref, Candidates: len(candidates)}
	}
}

// flatten lists every route below roots, depth-first. It must only be
// called before references are linked, while the set is still a forest.
func flatten(roots []*route.Route) []*route.Route {
	var all []*route.Route
	for _, root := range roots {
		root.Walk(func(rt *route.Route) bool {
			all = append(all, rt)
			return true
		})
	}
	return all
}

const (
	white = iota // unvisited
	gray         // on the current path
	black        // done
)

// detectCycles walks the child links of every route and fails with the
// first cycle found.
func detectCycles(all []*route.Route) error {
	color := make(map[*route.Route]int, len(all))
	var path []*route.Route

	var visit func(rt *route.Route) error
	visit = func(rt *route.Route) error {
		color[rt] = gray
		path = append(path, rt)
		for _, child := range rt.Children() {
			switch color[child] {
			case gray:
				start := 0
				for i, p := range path {
					if p == child {
						start = i
						break
					}
				}
				cycle := append(append([]*route.Route(nil), path[start:]...), child)
				return &route.RelationshipError{Child: child, Cycle: cycle}
			case white:
				if err := visit(child); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[rt] = black
		return nil
	}

	for _, rt := range all {
		if color[rt] != white {
			continue
		}
		if err := visit(rt); err != nil {
			return err
		}
	}
	return nil
}
