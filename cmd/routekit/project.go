package main

import (
	"context"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/routekit/internal/config"
	"github.com/vango-dev/routekit/pkg/authz"
	"github.com/vango-dev/routekit/pkg/convert"
	"github.com/vango-dev/routekit/pkg/manifest"
	"github.com/vango-dev/routekit/pkg/router"
)

// project is a loaded configuration with its resolved route table.
type project struct {
	cfg          *config.Config
	manifestPath string
	manifest     *manifest.Manifest
	table        *router.Table
	provider     *router.Provider
	converter    *convert.Converter
	metrics      *router.Metrics
	registry     *prometheus.Registry
}

// loadProject reads routekit.json from flags.dir, falling back to
// defaults, then loads and resolves the manifest.
func loadProject(ctx context.Context, flags *globalFlags) (*project, error) {
	cfg, err := config.LoadOrDefault(flags.dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &project{cfg: cfg, manifestPath: cfg.ManifestPath()}
	if flags.manifest != "" {
		p.manifestPath = flags.manifest
		if !filepath.IsAbs(p.manifestPath) {
			p.manifestPath = filepath.Join(flags.dir, p.manifestPath)
		}
	}

	p.manifest, err = manifest.Load(p.manifestPath)
	if err != nil {
		return nil, err
	}
	opts, err := p.manifest.Options(nil)
	if err != nil {
		return nil, err
	}

	convOpts, err := cfg.ParseOptions()
	if err != nil {
		return nil, err
	}
	p.converter = convert.New(convOpts)

	p.registry = prometheus.NewRegistry()
	p.metrics = router.NewMetrics(
		router.WithNamespace(cfg.Metrics.Namespace),
		router.WithRegistry(p.registry),
	)
	opts = append(opts,
		router.WithMetrics(p.metrics),
		router.WithTracer(otel.Tracer(cfg.Tracing.TracerName)),
	)

	p.table, err = router.NewResolver(opts...).Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var provOpts []router.ProviderOption
	if cfg.Authorization.Expr != "" {
		a, err := authz.NewExpr(cfg.Authorization.Expr)
		if err != nil {
			return nil, err
		}
		provOpts = append(provOpts, router.WithAuthorizer(a))
	}
	p.provider = router.NewProvider(p.table, nil, provOpts...)
	return p, nil
}

// contextManager returns a manager that builds contexts with the
// configured cultures.
func (p *project) contextManager() *router.ContextManager {
	return router.NewContextManager(p.provider, nil,
		router.WithConverter(p.converter),
		router.WithManagerMetrics(p.metrics))
}
