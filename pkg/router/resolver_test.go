package router

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/convert"
	"github.com/vango-dev/routekit/pkg/profile"
	"github.com/vango-dev/routekit/pkg/route"
)

type detail struct {
	ID int
}

func (detail) RouteDeclaration() route.Declaration {
	return route.Declaration{
		Templates: []string{"detail/{id:int}", "/detail/{id:int}"},
		Parent:    component.TypeOf[home](),
		Metadata:  map[string]any{route.MetaTitle: "Detail"},
	}
}

var (
	cHome    = component.TypeOf[home]()
	cCounter = component.TypeOf[counter]()
	cOrders  = component.TypeOf[orders]()
	cOrder   = component.TypeOf[order]()
	cDetail  = component.TypeOf[detail]()
)

func homeProfile() profile.Profile {
	return profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cHome, func(b *route.Builder) {
			b.WithChild(cCounter, func(b *route.Builder) {
				b.WithURI("counter").WithMetadataValue(route.MetaTitle, "Counter")
			})
		})
	})
}

func resolve(t *testing.T, opts ...Option) (*Table, error) {
	t.Helper()
	return NewResolver(opts...).Resolve(context.Background())
}

func TestResolveNestedProfile(t *testing.T) {
	table, err := resolve(t, WithProfiles(homeProfile()))
	require.NoError(t, err)

	roots := table.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, cHome, roots[0].Component())

	children := roots[0].Children()
	require.Len(t, children, 1)
	assert.Equal(t, cCounter, children[0].Component())
	assert.Same(t, roots[0], children[0].Parent())
	assert.Equal(t, 2, table.Len())
}

func TestResolveUniqueRoutesAreTopLevel(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cHome, nil)
		c.AddRoute(cOrders, func(b *route.Builder) { b.WithURI("orders") })
		c.AddRoute(cOrder, func(b *route.Builder) { b.WithURI("orders/{id:int}") })
	})

	table, err := resolve(t, WithProfiles(p))
	require.NoError(t, err)
	assert.Len(t, table.Roots(), 3)
	for _, r := range table.Roots() {
		assert.Nil(t, r.Parent())
	}
}

func TestResolveDuplicateURI(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cOrders, func(b *route.Builder) { b.WithURI("shared") })
		c.AddRoute(cOrder, func(b *route.Builder) { b.WithURI("/shared") })
	})

	_, err := resolve(t, WithProfiles(p))
	require.Error(t, err)

	var conflict *UriConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "shared", conflict.URI)
	assert.Equal(t, []component.Component{cOrders, cOrder}, conflict.Components)
	assert.Contains(t, err.Error(), "router.orders, router.order")
}

func TestResolveParentCycle(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cOrders, func(b *route.Builder) {
			b.WithURI("a").WithParentRef(route.RefFor(cOrder))
		})
		c.AddRoute(cOrder, func(b *route.Builder) {
			b.WithURI("b").WithParentRef(route.RefFor(cOrders))
		})
	})

	_, err := resolve(t, WithProfiles(p))
	var rel *route.RelationshipError
	require.ErrorAs(t, err, &rel)
	require.NotEmpty(t, rel.Cycle)
	assert.Same(t, rel.Cycle[0], rel.Cycle[len(rel.Cycle)-1])
	assert.Contains(t, err.Error(), "circular route relationship")
}

func TestResolveSelfReference(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cOrders, func(b *route.Builder) {
			b.WithURI("a").WithChildRef(route.RefFor(cOrders))
		})
	})

	_, err := resolve(t, WithProfiles(p))
	var rel *route.RelationshipError
	require.ErrorAs(t, err, &rel)
	assert.Len(t, rel.Cycle, 2)
}

func TestResolveParentRef(t *testing.T) {
	tests := []struct {
		name string
		ref  route.Ref
	}{
		{"by component", route.RefFor(cHome)},
		{"by uri", route.RefFor(cHome).At("/")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile.Func(func(c *profile.Configuration) {
				c.AddRoute(cOrders, func(b *route.Builder) {
					b.WithURI("orders").WithParentRef(tt.ref)
				})
				c.AddRoute(cHome, nil)
			})

			table, err := resolve(t, WithProfiles(p))
			require.NoError(t, err)

			roots := table.Roots()
			require.Len(t, roots, 1)
			assert.Equal(t, cHome, roots[0].Component())
			require.Len(t, roots[0].Children(), 1)
			assert.Equal(t, cOrders, roots[0].Children()[0].Component())

			_, pending := roots[0].Children()[0].ParentRef()
			assert.False(t, pending, "references are cleared after resolution")
		})
	}
}

func TestResolveNestedParentWinsOverRef(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cOrders, func(b *route.Builder) { b.WithURI("orders") })
		c.AddRoute(cHome, func(b *route.Builder) {
			b.WithChild(cCounter, func(b *route.Builder) {
				b.WithURI("counter").WithParentRef(route.RefFor(cOrders))
			})
		})
	})

	table, err := resolve(t, WithProfiles(p))
	require.NoError(t, err)

	r := table.Lookup("counter")
	require.NotNil(t, r)
	assert.Equal(t, cHome, r.Parent().Component())
	assert.Empty(t, table.Lookup("orders").Children())
}

func TestResolveChildRefConflict(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cHome, nil)
		c.AddRoute(cOrders, func(b *route.Builder) {
			b.WithURI("orders").WithParentRef(route.RefFor(cHome))
		})
		c.AddRoute(cOrder, func(b *route.Builder) {
			b.WithURI("order").WithChildRef(route.RefFor(cOrders))
		})
	})

	_, err := resolve(t, WithProfiles(p))
	var rel *route.RelationshipError
	require.ErrorAs(t, err, &rel)
	assert.Equal(t, cHome, rel.ExistingParent.Component())
	assert.Equal(t, cOrder, rel.NewParent.Component())
	assert.Equal(t, "R003", rel.Coded().Code)
}

func TestResolveRepeatedLinkIsNoop(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cHome, func(b *route.Builder) { b.WithChildRef(route.RefFor(cOrders)) })
		c.AddRoute(cOrders, func(b *route.Builder) {
			b.WithURI("orders").WithParentRef(route.RefFor(cHome))
		})
	})

	table, err := resolve(t, WithProfiles(p))
	require.NoError(t, err)
	require.Len(t, table.Roots(), 1)
	assert.Len(t, table.Roots()[0].Children(), 1)
}

func TestResolveAmbiguousRef(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cHome, func(b *route.Builder) { b.WithURI("one") })
		c.AddRoute(cHome, func(b *route.Builder) { b.WithURI("two") })
		c.AddRoute(cOrders, func(b *route.Builder) {
			b.WithURI("orders").WithParentRef(route.RefFor(cHome))
		})
	})

	_, err := resolve(t, WithProfiles(p))
	var rel *route.RelationshipError
	require.ErrorAs(t, err, &rel)
	assert.Equal(t, 2, rel.Candidates)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestResolveMissingRef(t *testing.T) {
	tests := []struct {
		name string
		ref  route.Ref
	}{
		{"unknown component", route.RefFor(cCounter)},
		{"unknown uri", route.RefFor(cHome).At("nowhere")},
		{"uri bound to other component", route.RefFor(cCounter).At("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile.Func(func(c *profile.Configuration) {
				c.AddRoute(cHome, nil)
				c.AddRoute(cOrders, func(b *route.Builder) {
					b.WithURI("orders").WithParentRef(tt.ref)
				})
			})

			_, err := resolve(t, WithProfiles(p))
			var rel *route.RelationshipError
			require.ErrorAs(t, err, &rel)

			var nf *route.NotFoundError
			assert.ErrorAs(t, err, &nf)
		})
	}
}

func TestResolveDeclarations(t *testing.T) {
	table, err := resolve(t,
		WithComponents(cDetail, cCounter),
		WithProfiles(profile.Func(func(c *profile.Configuration) { c.AddRoute(cHome, nil) })),
	)
	require.NoError(t, err)

	routes := table.ByComponent(cDetail)
	require.Len(t, routes, 1, "duplicate templates collapse into one route")

	r := routes[0]
	assert.Equal(t, "detail/{id:int}", r.URI())
	assert.True(t, r.FromPageDirective())
	assert.Equal(t, "Detail", r.Metadata().String(route.MetaTitle, ""))
	assert.Equal(t, cHome, r.Parent().Component())
}

func TestResolveProfileOperations(t *testing.T) {
	base := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cHome, func(b *route.Builder) {
			b.WithChild(cCounter, func(b *route.Builder) { b.WithURI("counter") })
		})
		c.AddRoute(cOrders, func(b *route.Builder) { b.WithURI("orders") })
	})
	overlay := profile.Func(func(c *profile.Configuration) {
		c.EditRoute(cHome, "", func(b *route.Builder) { b.WithMetadataValue(route.MetaModule, true) })
		c.OverrideRoute(cOrders, "/orders", cOrder, func(b *route.Builder) {
			b.WithMetadataValue(route.MetaTitle, "Orders")
		})
		c.RemoveRoute(cCounter, "counter")
	})

	table, err := resolve(t, WithProfiles(base, overlay))
	require.NoError(t, err)

	homeRoute := table.Lookup("")
	require.NotNil(t, homeRoute)
	assert.True(t, homeRoute.IsModule())
	assert.Empty(t, homeRoute.Children())

	ordersRoute := table.Lookup("orders")
	require.NotNil(t, ordersRoute)
	assert.Equal(t, cOrder, ordersRoute.Component())
	assert.Equal(t, "Orders", ordersRoute.Metadata().String(route.MetaTitle, ""))
	assert.Equal(t, 2, table.Len())
}

func TestResolveOperationTargetMissing(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cHome, nil)
		c.EditRoute(cHome, "elsewhere", nil)
	})

	_, err := resolve(t, WithProfiles(p))
	var nf *route.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "elsewhere", nf.URI)
}

func TestResolveInvalidProfile(t *testing.T) {
	var nilFunc profile.Func

	_, err := resolve(t, WithProfiles(homeProfile(), nilFunc))
	var invalid *profile.InvalidProfileError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Index)
}

func TestResolveInvalidTemplate(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		typ     string
		unnamed string
	}{
		{name: "unknown type", uri: "orders/{id:integer}", typ: "integer"},
		{name: "unknown optional type", uri: "orders/{id:foo?}", typ: "foo"},
		{name: "unnamed typed token", uri: "o/{:int}", unnamed: "{:int}"},
		{name: "empty token", uri: "o/{}", unnamed: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile.Func(func(c *profile.Configuration) {
				c.AddRoute(cOrder, func(b *route.Builder) { b.WithURI(tt.uri) })
			})

			_, err := resolve(t, WithProfiles(p))
			var invalid *convert.InvalidParameterTypeError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.typ, invalid.Type)
			assert.Equal(t, tt.unnamed, invalid.Token)
			assert.Equal(t, "R005", invalid.Coded().Code)
		})
	}
}

func TestResolveOptionalTemplate(t *testing.T) {
	p := profile.Func(func(c *profile.Configuration) {
		c.AddRoute(cOrder, func(b *route.Builder) { b.WithURI("orders/{id:int?}") })
	})

	table, err := resolve(t, WithProfiles(p))
	require.NoError(t, err)
	r := table.Lookup("orders/{id:int?}")
	require.NotNil(t, r)
	assert.Same(t, r, table.Match("orders"))
	assert.Same(t, r, table.Match("orders/7"))
	assert.Nil(t, table.Match("orders/seven"))
}

func TestResolveMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	_, err := resolve(t, WithProfiles(homeProfile()), WithMetrics(m))
	require.NoError(t, err)

	broken := profile.Func(func(c *profile.Configuration) { c.EditRoute(cHome, "x", nil) })
	_, err = resolve(t, WithProfiles(broken), WithMetrics(m))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.routes))
}

func TestCacheResolvesOnce(t *testing.T) {
	var calls atomic.Int32
	p := profile.Func(func(c *profile.Configuration) {
		calls.Add(1)
		c.AddRoute(cHome, nil)
	})
	cache := NewCache(NewResolver(WithProfiles(p)))

	var wg sync.WaitGroup
	tables := make([]*Table, 8)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i], _ = cache.Table(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, tbl := range tables {
		assert.Same(t, tables[0], tbl)
	}
}

func TestCacheKeepsError(t *testing.T) {
	var calls atomic.Int32
	p := profile.Func(func(c *profile.Configuration) {
		calls.Add(1)
		c.RemoveRoute(cHome, "")
	})
	cache := NewCache(NewResolver(WithProfiles(p)))

	_, err1 := cache.Table(context.Background())
	_, err2 := cache.Table(context.Background())
	require.Error(t, err1)
	assert.True(t, errors.Is(err2, err1))
	assert.Equal(t, int32(1), calls.Load())

	assert.Panics(t, func() { cache.MustTable(context.Background()) })
}
