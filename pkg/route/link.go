package route

import "github.com/vango-dev/routekit/pkg/component"

// The functions in this file mutate route relationships. They are used
// while a route set is being assembled and must not be called on a
// resolved tree that other goroutines are reading.

// Link makes child a child of parent. Linking an already linked pair is
// a no-op; a child bound to another parent fails with
// *RelationshipError.
func Link(parent, child *Route) error {
	if child.parent == parent {
		return nil
	}
	if child.parent != nil {
		return &RelationshipError{Child: child, ExistingParent: child.parent, NewParent: parent}
	}
	child.parent = parent
	parent.children = append(parent.children, child)
	return nil
}

// Detach removes r from its parent's children.
func Detach(r *Route) {
	p := r.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == r {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	r.parent = nil
}

// Rebind changes the component r is bound to.
func Rebind(r *Route, c component.Component) error {
	if c.IsAbstract() {
		return &AbstractComponentError{Component: c}
	}
	if c.IsZero() {
		return &MissingComponentError{URI: r.uri}
	}
	r.component = c
	return nil
}

// ClearRefs drops the pending parent and child references of r.
func ClearRefs(r *Route) {
	r.parentRef = nil
	r.childRefs = nil
}
