package profile

import (
	"github.com/vango-dev/routekit/pkg/route"
)

// Set is the working set of declared routes that operations apply to.
type Set struct {
	roots []*route.Route
}

// NewSet returns a set holding roots.
func NewSet(roots ...*route.Route) *Set {
	return &Set{roots: append([]*route.Route(nil), roots...)}
}

// Roots returns the top-level routes in declaration order.
func (s *Set) Roots() []*route.Route {
	return append([]*route.Route(nil), s.roots...)
}

// Add appends r as a top-level route.
func (s *Set) Add(r *route.Route) {
	s.roots = append(s.roots, r)
}

// Find returns the first route, searching nested routes depth-first,
// that is bound to op.Target at op.URI.
func (s *Set) Find(op Operation) *route.Route {
	var found *route.Route
	for _, root := range s.roots {
		root.Walk(func(r *route.Route) bool {
			if r.Is(op.Target, op.URI) {
				found = r
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// Apply performs op. Edit, override and remove fail with
// *route.NotFoundError when no route matches.
func (s *Set) Apply(op Operation) error {
	if op.Kind == OpAdd {
		s.Add(op.Route)
		return nil
	}

	target := s.Find(op)
	if target == nil {
		return &route.NotFoundError{Component: op.Target, URI: op.URI, ByURI: true}
	}

	switch op.Kind {
	case OpEdit:
		return edit(target, op.Configure)
	case OpOverride:
		if err := route.Rebind(target, op.With); err != nil {
			return err
		}
		return edit(target, op.Configure)
	case OpRemove:
		s.remove(target)
	}
	return nil
}

// ApplyAll performs every operation of c in order.
func (s *Set) ApplyAll(c *Configuration) error {
	if err := c.Err(); err != nil {
		return err
	}
	for _, op := range c.ops {
		if err := s.Apply(op); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) remove(r *route.Route) {
	if r.Parent() != nil {
		route.Detach(r)
		return
	}
	for i, root := range s.roots {
		if root == r {
			s.roots = append(s.roots[:i:i], s.roots[i+1:]...)
			return
		}
	}
}

func edit(r *route.Route, configure func(*route.Builder)) error {
	if configure == nil {
		return nil
	}
	b := route.Edit(r)
	configure(b)
	_, err := b.Build()
	return err
}
