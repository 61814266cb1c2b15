package router

import (
	"context"
	"sync"
)

// Cache resolves a route table once and serves it for the rest of its
// lifetime. Concurrent first calls block until the single resolution
// finishes. A failed resolution is cached too.
type Cache struct {
	resolver *Resolver

	once  sync.Once
	table *Table
	err   error
}

// NewCache creates a cache over resolver.
func NewCache(resolver *Resolver) *Cache {
	return &Cache{resolver: resolver}
}

// Table returns the resolved table, resolving it on first use with the
// caller's ctx.
func (c *Cache) Table(ctx context.Context) (*Table, error) {
	c.once.Do(func() {
		c.table, c.err = c.resolver.Resolve(ctx)
	})
	return c.table, c.err
}

// MustTable is like Table but panics on error. It is meant for program
// startup, where a broken route configuration must stop the process.
func (c *Cache) MustTable(ctx context.Context) *Table {
	t, err := c.Table(ctx)
	if err != nil {
		panic(err)
	}
	return t
}
