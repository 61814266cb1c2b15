package route

import (
	"strings"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/convert"
	"github.com/vango-dev/routekit/pkg/metadata"
)

// Builder constructs a Route. Methods return the builder for chaining;
// the first error encountered is reported by Build.
type Builder struct {
	route *Route
	err   error
}

// New returns a builder for a route bound to T.
func New[T any]() *Builder {
	return For(component.TypeOf[T]())
}

// For returns a builder for a route bound to c. An abstract component
// fails the build with *AbstractComponentError.
func For(c component.Component) *Builder {
	b := &Builder{route: &Route{metadata: &metadata.Metadata{}}}
	return b.WithComponent(c)
}

// Edit returns a builder that modifies r in place.
func Edit(r *Route) *Builder {
	if r.metadata == nil {
		r.metadata = &metadata.Metadata{}
	}
	return &Builder{route: r}
}

// WithComponent binds the route to c, replacing any previous binding.
func (b *Builder) WithComponent(c component.Component) *Builder {
	if c.IsAbstract() {
		b.fail(&AbstractComponentError{Component: c})
	}
	b.route.component = c
	return b
}

// WithURI sets the route URI. A leading slash is trimmed.
func (b *Builder) WithURI(u string) *Builder {
	b.route.uri = strings.TrimPrefix(u, "/")
	return b
}

// WithMetadataValue stores a single metadata value.
func (b *Builder) WithMetadataValue(key string, v any) *Builder {
	b.route.metadata.Set(key, v)
	return b
}

// WithMetadata merges m into the route metadata. Keys in m win.
func (b *Builder) WithMetadata(m *metadata.Metadata) *Builder {
	b.route.metadata.Merge(m)
	return b
}

// WithChild declares a nested child route bound to c. configure may be
// nil. The child is linked immediately; a parent reference set on the
// child is then ignored.
func (b *Builder) WithChild(c component.Component, configure func(*Builder)) *Builder {
	cb := For(c)
	if configure != nil {
		configure(cb)
	}
	child, err := cb.Build()
	if err != nil {
		b.fail(err)
		return b
	}
	if err := Link(b.route, child); err != nil {
		b.fail(err)
	}
	return b
}

// WithChildRef records a child reference resolved after every
// declaration source has been collected.
func (b *Builder) WithChildRef(ref Ref) *Builder {
	b.route.childRefs = append(b.route.childRefs, ref)
	return b
}

// WithParentRef records a parent reference. It has no effect when the
// route is nested under a parent with WithChild.
func (b *Builder) WithParentRef(ref Ref) *Builder {
	b.route.parentRef = &ref
	return b
}

// Build returns the route.
func (b *Builder) Build() (*Route, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.route.component.IsZero() {
		return nil, &MissingComponentError{URI: b.route.uri}
	}
	if _, err := convert.ParseTemplate(b.route.uri); err != nil {
		return nil, err
	}
	return b.route, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
