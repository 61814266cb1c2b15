package router

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/convert"
	"github.com/vango-dev/routekit/pkg/uri"
)

// NavigationOptions configures how the host navigates.
type NavigationOptions struct {
	// ForceLoad bypasses client-side routing and loads the page from
	// the server.
	ForceLoad bool

	// ReplaceHistoryEntry replaces the current history entry instead of
	// pushing a new one.
	ReplaceHistoryEntry bool
}

// NavigateOption is a functional option for navigation.
type NavigateOption func(*NavigationOptions)

// WithForceLoad loads the destination from the server.
func WithForceLoad() NavigateOption {
	return func(o *NavigationOptions) {
		o.ForceLoad = true
	}
}

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigationOptions) {
		o.ReplaceHistoryEntry = true
	}
}

// NavigationService performs the actual navigation in the host.
type NavigationService interface {
	NavigateTo(uri string, opts NavigationOptions)
}

// NavigationServiceFunc adapts a function to NavigationService.
type NavigationServiceFunc func(uri string, opts NavigationOptions)

// NavigateTo calls f(uri, opts).
func (f NavigationServiceFunc) NavigateTo(uri string, opts NavigationOptions) {
	f(uri, opts)
}

// Navigation describes a navigation request. Build one with To or
// ToComponent:
//
//	router.ToComponentOf[pages.Search]().
//	    WithParameter("Term", "shoes").
//	    WithOptions(router.WithReplace())
type Navigation struct {
	uri       string
	hasURI    bool
	component component.Component
	query     map[string]string
	fields    []fieldValue
	path      map[string]string
	options   NavigationOptions
}

type fieldValue struct {
	field string
	value string
}

// To describes a navigation to u.
func To(u string) *Navigation {
	return (&Navigation{}).WithURI(u)
}

// ToComponent describes a navigation to the route bound to c. Unless a
// URI is set, c must be bound to exactly one route.
func ToComponent(c component.Component) *Navigation {
	return &Navigation{component: c}
}

// ToComponentOf is ToComponent for the component type T.
func ToComponentOf[T any]() *Navigation {
	return ToComponent(component.TypeOf[T]())
}

// WithURI sets the destination URI.
func (nv *Navigation) WithURI(u string) *Navigation {
	nv.uri = strings.TrimLeft(u, "/")
	nv.hasURI = true
	return nv
}

// WithParameter sets the query parameter declared by field of the
// destination component. The query key is the declared query name.
// Nil values are ignored.
func (nv *Navigation) WithParameter(field string, value any) *Navigation {
	if s, ok := formatValue(value); ok {
		nv.fields = append(nv.fields, fieldValue{field: field, value: s})
	}
	return nv
}

// AddParameter sets the query parameter name. Nil values are ignored.
func (nv *Navigation) AddParameter(name string, value any) *Navigation {
	if s, ok := formatValue(value); ok {
		if nv.query == nil {
			nv.query = make(map[string]string)
		}
		nv.query[name] = s
	}
	return nv
}

// WithPathParameter substitutes value for the {name} token of the
// destination template.
func (nv *Navigation) WithPathParameter(name string, value any) *Navigation {
	if s, ok := formatValue(value); ok {
		if nv.path == nil {
			nv.path = make(map[string]string)
		}
		nv.path[name] = s
	}
	return nv
}

// WithOptions applies navigation options.
func (nv *Navigation) WithOptions(opts ...NavigateOption) *Navigation {
	for _, opt := range opts {
		opt(&nv.options)
	}
	return nv
}

// Navigator turns navigation requests into host navigations.
type Navigator struct {
	service  NavigationService
	provider *Provider
	params   component.ParameterSource
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithNavigatorParameterSource sets where query parameter declarations
// come from. The default reads `query` struct tags.
func WithNavigatorParameterSource(src component.ParameterSource) NavigatorOption {
	return func(n *Navigator) {
		n.params = src
	}
}

// WithNavigatorLogger sets the logger.
func WithNavigatorLogger(logger *slog.Logger) NavigatorOption {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithNavigatorMetrics records navigations on m.
func WithNavigatorMetrics(m *Metrics) NavigatorOption {
	return func(n *Navigator) {
		n.metrics = m
	}
}

// WithNavigatorTracer sets the tracer.
func WithNavigatorTracer(tracer trace.Tracer) NavigatorOption {
	return func(n *Navigator) {
		n.tracer = tracer
	}
}

// NewNavigator creates a navigator.
func NewNavigator(service NavigationService, provider *Provider, opts ...NavigatorOption) *Navigator {
	n := &Navigator{service: service, provider: provider}
	for _, opt := range opts {
		opt(n)
	}
	if n.params == nil {
		n.params = component.Tags
	}
	if n.logger == nil {
		n.logger = slog.Default().With("component", "navigator")
	}
	if n.tracer == nil {
		n.tracer = defaultTracer()
	}
	return n
}

// NavigateTo navigates to u.
func (n *Navigator) NavigateTo(ctx context.Context, u string, opts ...NavigateOption) error {
	return n.Navigate(ctx, To(u).WithOptions(opts...))
}

// Navigate performs nv.
func (n *Navigator) Navigate(ctx context.Context, nv *Navigation) (err error) {
	_, span := startSpan(ctx, n.tracer, spanNavigate)
	defer func() {
		n.metrics.observeNavigation(err)
		endSpan(span, err)
	}()

	target, err := n.URL(nv)
	if err != nil {
		n.logger.Warn("navigation rejected", "error", err)
		return err
	}

	span.SetAttributes(
		attribute.String("routekit.uri", target),
		attribute.Bool("routekit.force_load", nv.options.ForceLoad),
		attribute.Bool("routekit.replace", nv.options.ReplaceHistoryEntry),
	)
	n.logger.Debug("navigating", "uri", target)
	n.service.NavigateTo(target, nv.options)
	return nil
}

// URL returns the URI nv navigates to.
func (n *Navigator) URL(nv *Navigation) (string, error) {
	if nv == nil {
		return "", &NoURIError{}
	}

	u, hasURI := nv.uri, nv.hasURI
	if !hasURI && !nv.component.IsZero() {
		routes := n.provider.FindRoutes(nv.component)
		if len(routes) != 1 {
			return "", &RouteCountError{Component: nv.component, Count: len(routes)}
		}
		u, hasURI = routes[0].URI(), true
	}
	if !hasURI {
		return "", &NoURIError{}
	}

	if len(nv.path) > 0 {
		if tpl, err := convert.ParseTemplate(u); err == nil && tpl.HasParams() {
			u = tpl.Expand(nv.path)
		}
	}

	query := make(map[string]string, len(nv.query)+len(nv.fields))
	for k, v := range nv.query {
		query[k] = v
	}
	for _, fv := range nv.fields {
		p, ok := component.FindParameter(n.params, nv.component, fv.field)
		if !ok {
			return "", &NotQueryParameterError{Component: nv.component, Field: fv.field}
		}
		query[p.Name()] = fv.value
	}

	return uri.AddQueryParameters(u, query), nil
}

var timeType = reflect.TypeFor[time.Time]()

// formatValue renders a parameter value the way the converter parses
// it back. It reports false for nil values.
func formatValue(v any) (string, bool) {
	if r, ok := v.(*big.Rat); ok {
		if r == nil {
			return "", false
		}
		if r.IsInt() {
			return r.RatString(), true
		}
		return strings.TrimRight(r.FloatString(18), "0"), true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return "", false
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		// Pointer receivers such as *big.Int only format through the
		// pointer itself.
		if s, ok := v.(fmt.Stringer); ok && rv.Elem().Type() != timeType {
			return s.String(), true
		}
		return formatValue(rv.Elem().Interface())
	}

	switch x := v.(type) {
	case string:
		return x, true
	case time.Time:
		return x.Format(time.RFC3339Nano), true
	case fmt.Stringer:
		return x.String(), true
	}
	return fmt.Sprint(v), true
}
