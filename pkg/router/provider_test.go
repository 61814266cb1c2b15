package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/pkg/profile"
	"github.com/vango-dev/routekit/pkg/route"
)

// newModuleTable builds:
//
//	"" home
//	├── admin (module, permissions admin)
//	│   └── admin/orders/{id:int}
//	└── counter
//	shop (module)
func newModuleTable(t *testing.T) *Table {
	t.Helper()
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cHome, func(b *route.Builder) {
			b.WithChild(cOrders, func(b *route.Builder) {
				b.WithURI("admin").
					WithMetadataValue(route.MetaModule, true).
					WithMetadataValue(route.MetaPermissions, []string{"admin"}).
					WithChild(cOrder, func(b *route.Builder) { b.WithURI("admin/orders/{id:int}") })
			})
			b.WithChild(cCounter, func(b *route.Builder) { b.WithURI("counter") })
		})
		c.AddRoute(cSearch, func(b *route.Builder) {
			b.WithURI("shop").WithMetadataValue(route.MetaModule, true)
		})
	})
	table, err := NewResolver(WithProfiles(p)).Resolve(context.Background())
	require.NoError(t, err)
	return table
}

func TestProviderQueries(t *testing.T) {
	table := newModuleTable(t)
	p := NewProvider(table, newFakeLocation("admin/orders/12?tab=lines"))

	assert.Len(t, p.Routes(), 2)
	assert.Len(t, p.AllRoutes(), 5)
	assert.Same(t, table, p.Table())

	modules := p.Modules()
	require.Len(t, modules, 2)
	assert.Equal(t, "admin", modules[0].URI())
	assert.Equal(t, "shop", modules[1].URI())

	current := p.CurrentRoute()
	require.NotNil(t, current)
	assert.Equal(t, cOrder, current.Component())
	assert.True(t, p.IsCurrentRoute(current))
	assert.False(t, p.IsCurrentRoute(p.FindRoute("counter")))
	assert.False(t, p.IsCurrentRoute(nil))

	module := p.CurrentModule()
	require.NotNil(t, module)
	assert.Equal(t, "admin", module.URI())

	assert.Len(t, p.FindRoutes(cCounter), 1)
	assert.Nil(t, p.FindRoute("admin/orders/twelve"))
}

func TestProviderCurrentModuleOutsideModules(t *testing.T) {
	p := NewProvider(newModuleTable(t), newFakeLocation("counter"))
	assert.Nil(t, p.CurrentModule())
}

func TestProviderWithoutLocation(t *testing.T) {
	p := NewProvider(newModuleTable(t), nil)
	assert.Nil(t, p.CurrentRoute())
	assert.Nil(t, p.CurrentModule())
}

func TestProviderAuthorization(t *testing.T) {
	table := newModuleTable(t)

	t.Run("no authorizer", func(t *testing.T) {
		p := NewProvider(table, nil)
		assert.Len(t, p.AuthorizedRoutes(context.Background()), 2)
		assert.Len(t, p.AuthorizedModules(context.Background()), 2)
		assert.True(t, p.Authorized(context.Background(), table.Lookup("admin")))
	})

	t.Run("permission filter", func(t *testing.T) {
		denyAdmin := AuthorizerFunc(func(_ context.Context, r *route.Route) bool {
			return len(r.Metadata().Strings(route.MetaPermissions, nil)) == 0
		})
		p := NewProvider(table, nil, WithAuthorizer(denyAdmin))

		assert.Len(t, p.AuthorizedRoutes(context.Background()), 2)
		modules := p.AuthorizedModules(context.Background())
		require.Len(t, modules, 1)
		assert.Equal(t, "shop", modules[0].URI())
		assert.False(t, p.Authorized(context.Background(), table.Lookup("admin")))
		assert.Len(t, p.Modules(), 2, "unfiltered queries ignore the authorizer")
	})
}
