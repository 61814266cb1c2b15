package router

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors of the router.
type MetricsConfig struct {
	Namespace   string            // default "routekit"
	Subsystem   string            // default none
	ConstLabels prometheus.Labels // added to every collector
	Buckets     []float64         // resolve latency, default prometheus.DefBuckets
	Registry    prometheus.Registerer
}

// MetricsOption configures Metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of the resolver, the context
// manager and the navigator. A nil *Metrics records nothing.
//
// Metrics collected:
//   - routekit_resolutions_total: resolutions by result (ok, error)
//   - routekit_resolve_duration_seconds: resolution latency
//   - routekit_routes: routes in the last resolved table
//   - routekit_context_updates_total: context updates by matched (true, false)
//   - routekit_navigations_total: navigations by outcome (ok, error)
type Metrics struct {
	resolutions     *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	routes          prometheus.Gauge
	contextUpdates  *prometheus.CounterVec
	navigations     *prometheus.CounterVec
}

// NewMetrics registers the router collectors. Registering twice on the
// same registry panics, as with promauto.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := router.NewMetrics(router.WithRegistry(reg), router.WithNamespace("shop"))
//	res := router.NewResolver(router.WithProfiles(routes), router.WithMetrics(m))
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	f := promauto.With(cfg.Registry)
	base := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		}
	}
	counter := func(name, help, label string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts(base(name, help)), []string{label})
	}

	latency := base("resolve_duration_seconds", "Time spent resolving the route table.")
	return &Metrics{
		resolutions: counter("resolutions_total", "Route table resolutions by result.", "result"),
		resolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace:   latency.Namespace,
			Subsystem:   latency.Subsystem,
			Name:        latency.Name,
			Help:        latency.Help,
			ConstLabels: latency.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		routes:         f.NewGauge(prometheus.GaugeOpts(base("routes", "Routes in the last resolved table."))),
		contextUpdates: counter("context_updates_total", "Router context updates by whether a route matched.", "matched"),
		navigations:    counter("navigations_total", "Navigation requests by outcome.", "outcome"),
	}
}

func (m *Metrics) observeResolve(t *Table, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.resolveDuration.Observe(d.Seconds())
	if err != nil {
		m.resolutions.WithLabelValues("error").Inc()
		return
	}
	m.resolutions.WithLabelValues("ok").Inc()
	m.routes.Set(float64(t.Len()))
}

func (m *Metrics) observeContext(matched bool) {
	if m == nil {
		return
	}
	m.contextUpdates.WithLabelValues(strconv.FormatBool(matched)).Inc()
}

func (m *Metrics) observeNavigation(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.navigations.WithLabelValues("error").Inc()
		return
	}
	m.navigations.WithLabelValues("ok").Inc()
}
