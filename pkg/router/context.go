package router

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/convert"
	"github.com/vango-dev/routekit/pkg/route"
	"github.com/vango-dev/routekit/pkg/uri"
)

// Context is the immutable snapshot built for one navigation. A new
// Context replaces the previous one on every location change.
type Context struct {
	relativeURI   string
	normalizedURI string
	query         map[string]string
	route         *route.Route
	data          RouteData
}

// RelativeURI returns the navigated URI including its query string.
func (c *Context) RelativeURI() string { return c.relativeURI }

// NormalizedURI returns the navigated URI without its query string.
func (c *Context) NormalizedURI() string { return c.normalizedURI }

// Route returns the matched route, or nil when nothing matched.
func (c *Context) Route() *route.Route { return c.route }

// Found reports whether a route matched.
func (c *Context) Found() bool { return c.route != nil }

// QueryParameters returns a copy of the raw query parameters.
func (c *Context) QueryParameters() map[string]string {
	return maps.Clone(c.query)
}

// ComponentParameters returns a copy of the converted parameters of the
// matched component, keyed by field or token name.
func (c *Context) ComponentParameters() map[string]any {
	return c.data.Parameters()
}

// RouteData returns what the render layer needs to display the route.
func (c *Context) RouteData() RouteData { return c.data }

// RouteData is the render-ready component and parameter bag of a
// Context.
type RouteData struct {
	component  component.Component
	parameters map[string]any
}

// Component returns the component to render. It is zero when no route
// matched.
func (d RouteData) Component() component.Component { return d.component }

// Parameters returns a copy of the parameter bag.
func (d RouteData) Parameters() map[string]any {
	out := maps.Clone(d.parameters)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// Bind decodes the parameter bag into target, a pointer to a struct.
// Keys match field names ignoring case; untyped template values are
// weakly converted to the field type.
func (d RouteData) Bind(target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(d.parameters)
}

// Instantiate allocates the component and binds the parameter bag into
// it. It returns nil for a zero or abstract component.
func (d RouteData) Instantiate() (any, error) {
	v := d.component.New()
	if v == nil {
		return nil, nil
	}
	if err := d.Bind(v); err != nil {
		return nil, fmt.Errorf("bind parameters of %s: %w", d.component, err)
	}
	return v, nil
}

// ContextManager builds a Context on every location change.
//
// It has two states: idle, before the first update, and resolved. Each
// update runs synchronously and replaces the current Context before
// listeners are notified.
type ContextManager struct {
	provider  *Provider
	location  Location
	converter *convert.Converter
	params    component.ParameterSource
	logger    *slog.Logger
	metrics   *Metrics

	current atomic.Pointer[Context]

	mu        sync.Mutex
	listeners []func(*Context)
}

// ManagerOption configures a ContextManager.
type ManagerOption func(*ContextManager)

// WithConverter sets the converter used for query parameters. The
// default uses convert.DefaultOptions.
func WithConverter(c *convert.Converter) ManagerOption {
	return func(m *ContextManager) {
		m.converter = c
	}
}

// WithParameterSource sets where query parameter declarations come
// from. The default reads `query` struct tags.
func WithParameterSource(src component.ParameterSource) ManagerOption {
	return func(m *ContextManager) {
		m.params = src
	}
}

// WithManagerLogger sets the logger.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *ContextManager) {
		m.logger = logger
	}
}

// WithManagerMetrics records context updates on metrics.
func WithManagerMetrics(metrics *Metrics) ManagerOption {
	return func(m *ContextManager) {
		m.metrics = metrics
	}
}

// NewContextManager creates a context manager reading locations from
// location.
func NewContextManager(provider *Provider, location Location, opts ...ManagerOption) *ContextManager {
	m := &ContextManager{provider: provider, location: location}
	for _, opt := range opts {
		opt(m)
	}
	if m.converter == nil {
		m.converter = convert.New(convert.DefaultOptions())
	}
	if m.params == nil {
		m.params = component.Tags
	}
	if m.logger == nil {
		m.logger = slog.Default().With("component", "context")
	}
	return m
}

// Context returns the current context, or nil while idle.
func (m *ContextManager) Context() *Context {
	return m.current.Load()
}

// OnChange registers fn to run after every update.
func (m *ContextManager) OnChange(fn func(*Context)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Start updates the context now and after every location change. The
// returned function stops listening.
func (m *ContextManager) Start(ctx context.Context) (stop func(), err error) {
	if _, err := m.Update(ctx); err != nil {
		return nil, err
	}
	unsubscribe := m.location.Subscribe(func(string) {
		if _, err := m.Update(ctx); err != nil {
			m.logger.Error("router context update failed", "error", err)
		}
	})
	return unsubscribe, nil
}

// Update builds a Context for the current location and makes it
// current.
func (m *ContextManager) Update(ctx context.Context) (*Context, error) {
	c, err := m.Build(m.location.RelativeURI())
	if err != nil {
		return nil, err
	}
	m.current.Store(c)
	m.metrics.observeContext(c.Found())
	m.logger.Debug("router context updated", "uri", c.relativeURI, "matched", c.Found())

	m.mu.Lock()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
	return c, nil
}

// Build builds the Context for relativeURI without making it current.
// Routes synthesized from declarations bind their template tokens;
// other routes bind the query parameters their component declares.
func (m *ContextManager) Build(relativeURI string) (*Context, error) {
	c := &Context{
		relativeURI:   relativeURI,
		normalizedURI: uri.RemoveQueryParameters(relativeURI),
		query:         uri.ExtractQueryParameters(relativeURI),
	}

	r := m.provider.FindRoute(c.normalizedURI)
	if r == nil {
		c.data = RouteData{parameters: map[string]any{}}
		return c, nil
	}
	c.route = r

	var params map[string]any
	if r.FromPageDirective() {
		tpl, err := r.Template()
		if err != nil {
			return nil, err
		}
		params, err = tpl.Bind(uri.ParseSegments(c.normalizedURI))
		if err != nil {
			return nil, err
		}
	} else {
		params = m.converter.BindQuery(c.query, m.params.Parameters(r.Component()))
	}

	c.data = RouteData{component: r.Component(), parameters: params}
	return c, nil
}
