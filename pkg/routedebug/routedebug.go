// Package routedebug serves a read-only JSON view of a resolved route
// table.
//
//	GET /routes                 route forest
//	GET /routes?authorized=1    forest filtered by the provider's authorizer
//	GET /routes/modules         module routes, flat
//	GET /routes/match?uri=...   route context for a relative URI
//
// Match resolves the uri.Normalize form of the path, keeping the query.
// URIs that fail uri.Normalize are rejected with a 400 and code R011.
//
// Mount it under any prefix:
//
//	r := chi.NewRouter()
//	r.Mount("/debug", routedebug.New(provider))
package routedebug

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/route"
	"github.com/vango-dev/routekit/pkg/router"
	"github.com/vango-dev/routekit/pkg/uri"
)

// Route is the JSON form of a route.
type Route struct {
	URI       string         `json:"uri"`
	Component string         `json:"component"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Children  []Route        `json:"children,omitempty"`
}

// Match is the JSON form of a route context.
type Match struct {
	URI        string            `json:"uri"`
	Normalized string            `json:"normalized"`
	Found      bool              `json:"found"`
	Route      *Route            `json:"route,omitempty"`
	Ancestors  []string          `json:"ancestors,omitempty"`
	Query      map[string]string `json:"query"`
	Parameters map[string]any    `json:"parameters"`
}

type handler struct {
	provider *router.Provider
	manager  *router.ContextManager
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*handler)

// WithContextManager sets the manager used to build match responses,
// so its converter and parameter source apply.
func WithContextManager(m *router.ContextManager) Option {
	return func(h *handler) {
		h.manager = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *handler) {
		h.logger = logger
	}
}

// New returns the debug handler for provider.
func New(provider *router.Provider, opts ...Option) http.Handler {
	h := &handler{provider: provider}
	for _, opt := range opts {
		opt(h)
	}
	if h.manager == nil {
		h.manager = router.NewContextManager(provider, nil)
	}
	if h.logger == nil {
		h.logger = slog.Default().With("component", "routedebug")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/routes", h.routes)
	r.Get("/routes/modules", h.modules)
	r.Get("/routes/match", h.match)
	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (h *handler) routes(w http.ResponseWriter, r *http.Request) {
	roots := h.provider.Routes()
	if authorized, _ := strconv.ParseBool(r.URL.Query().Get("authorized")); authorized {
		roots = h.provider.AuthorizedRoutes(r.Context())
	}
	out := make([]Route, 0, len(roots))
	for _, root := range roots {
		out = append(out, tree(root))
	}
	h.write(w, http.StatusOK, out)
}

func (h *handler) modules(w http.ResponseWriter, r *http.Request) {
	modules := h.provider.Modules()
	out := make([]Route, 0, len(modules))
	for _, m := range modules {
		out = append(out, node(m))
	}
	h.write(w, http.StatusOK, out)
}

func (h *handler) match(w http.ResponseWriter, r *http.Request) {
	u, ok := r.URL.Query()["uri"]
	if !ok {
		h.fail(w, http.StatusBadRequest, errors.New("R007").WithDetail("missing 'uri' query parameter"))
		return
	}

	path, err := uri.Normalize(u[0])
	if err != nil {
		h.fail(w, http.StatusBadRequest, errors.New("R011").WithDetailf("%q: %v", u[0], err).Wrap(err))
		return
	}
	if _, query, ok := strings.Cut(u[0], "?"); ok {
		path += "?" + query
	}

	c, err := h.manager.Build(path)
	if err != nil {
		h.fail(w, http.StatusUnprocessableEntity, errors.FromError(err, "R005"))
		return
	}

	out := Match{
		URI:        u[0],
		Normalized: c.NormalizedURI(),
		Found:      c.Found(),
		Query:      c.QueryParameters(),
		Parameters: c.ComponentParameters(),
	}
	if c.Found() {
		n := node(c.Route())
		out.Route = &n
		for _, a := range c.Route().Ancestors() {
			out.Ancestors = append(out.Ancestors, a.String())
		}
	}
	h.write(w, http.StatusOK, out)
}

func node(r *route.Route) Route {
	out := Route{URI: r.URI(), Component: r.Component().Name()}
	if md := r.Metadata().Map(); len(md) > 0 {
		out.Metadata = md
	}
	return out
}

func tree(r *route.Route) Route {
	out := node(r)
	for _, child := range r.Children() {
		out.Children = append(out.Children, tree(child))
	}
	return out
}

func (h *handler) write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		h.logger.Warn("encode response", "error", err)
	}
}

func (h *handler) fail(w http.ResponseWriter, status int, err *errors.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, err.FormatJSON()+"\n")
}
