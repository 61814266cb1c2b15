package profile

import (
	"strings"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/route"
)

// OpKind identifies a configuration operation.
type OpKind uint8

const (
	OpAdd OpKind = iota
	OpEdit
	OpOverride
	OpRemove
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpEdit:
		return "edit"
	case OpOverride:
		return "override"
	case OpRemove:
		return "remove"
	}
	return "unknown"
}

// Operation is one recorded configuration step.
type Operation struct {
	Kind OpKind

	// Route is the route added by OpAdd.
	Route *route.Route

	// Target and URI select the route changed by edit, override and remove.
	Target component.Component
	URI    string

	// With is the replacement component of OpOverride.
	With component.Component

	// Configure is applied to the target route of edit and override.
	Configure func(*route.Builder)
}

// Configuration collects the operations of one profile in order.
type Configuration struct {
	ops []Operation
	err error
}

// NewConfiguration returns an empty configuration.
func NewConfiguration() *Configuration {
	return &Configuration{}
}

// AddRoute builds a route bound to c and adds it.
func (c *Configuration) AddRoute(comp component.Component, configure func(*route.Builder)) *Configuration {
	b := route.For(comp)
	if configure != nil {
		configure(b)
	}
	r, err := b.Build()
	if err != nil {
		c.fail(err)
		return c
	}
	return c.Add(r)
}

// Add adds an already built route.
func (c *Configuration) Add(r *route.Route) *Configuration {
	c.ops = append(c.ops, Operation{Kind: OpAdd, Route: r})
	return c
}

// EditRoute applies configure to the route bound to comp at u. The
// component binding is kept.
func (c *Configuration) EditRoute(comp component.Component, u string, configure func(*route.Builder)) *Configuration {
	c.ops = append(c.ops, Operation{Kind: OpEdit, Target: comp, URI: trim(u), Configure: configure})
	return c
}

// OverrideRoute rebinds the route bound to comp at u to with, then
// applies configure, which may be nil. Metadata, children and
// references of the original route are kept.
func (c *Configuration) OverrideRoute(comp component.Component, u string, with component.Component, configure func(*route.Builder)) *Configuration {
	c.ops = append(c.ops, Operation{Kind: OpOverride, Target: comp, URI: trim(u), With: with, Configure: configure})
	return c
}

// RemoveRoute removes the route bound to comp at u, with its subtree.
func (c *Configuration) RemoveRoute(comp component.Component, u string) *Configuration {
	c.ops = append(c.ops, Operation{Kind: OpRemove, Target: comp, URI: trim(u)})
	return c
}

// Operations returns the recorded operations in order.
func (c *Configuration) Operations() []Operation {
	return append([]Operation(nil), c.ops...)
}

// Err returns the first error raised while building added routes.
func (c *Configuration) Err() error {
	return c.err
}

func (c *Configuration) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func trim(u string) string {
	return strings.TrimPrefix(u, "/")
}
