// Package router resolves declared routes into a route table and answers
// navigation queries against it.
//
// The package provides:
//   - Resolver: merges component declarations and profiles into one
//     validated, cycle-free route forest
//   - Cache: resolves once per scope
//   - Provider: route lookups, modules and authorization filtering
//   - ContextManager: builds the immutable Context of each navigation
//   - Navigator: builds destination URIs and hands them to the host
//
// # Resolution
//
// Routes come from two sources. Components implementing route.Declarer
// contribute one route per declared URI template; profiles add, edit,
// override and remove routes imperatively:
//
//	res := router.NewResolver(
//	    router.WithComponents(component.TypeOf[pages.Detail]()),
//	    router.WithProfiles(profile.Func(func(c *profile.Configuration) {
//	        c.AddRoute(component.TypeOf[pages.Home](), func(b *route.Builder) {
//	            b.WithChild(component.TypeOf[pages.Counter](), func(b *route.Builder) {
//	                b.WithURI("counter").WithMetadataValue("title", "Counter")
//	            })
//	        })
//	    })),
//	)
//	table, err := router.NewCache(res).Table(ctx)
//
// Resolution errors are configuration mistakes. They are returned as
// typed errors (*UriConflictError, *route.RelationshipError,
// *route.NotFoundError, ...) and the application should refuse to start.
//
// # Matching
//
// Route URIs may contain template tokens:
//
//	orders/{id:int}      → id parsed as int
//	orders/{id}          → id passed through as a string
//	orders/{id}/{tab?}   → tab is optional
//
// Static segments win over typed tokens, typed tokens over untyped ones.
// Segments compare ignoring case.
//
// # Navigation
//
//	nav := router.NewNavigator(host, provider)
//	err := nav.Navigate(ctx, router.ToComponentOf[pages.Search]().
//	    WithParameter("Term", "shoes"))
package router
