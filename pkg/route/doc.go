// Package route defines the route tree: nodes binding a URI to a
// component, with parent/child links and metadata.
//
// Routes are built with a Builder:
//
//	home, err := route.New[pages.Home]().
//	    WithChild(component.TypeOf[pages.Counter](), func(b *route.Builder) {
//	        b.WithURI("counter").WithMetadataValue("title", "Counter")
//	    }).
//	    Build()
//
// Relationships that cross declaration sources are recorded as Refs and
// linked later by the resolver:
//
//	route.New[pages.Settings]().
//	    WithURI("settings").
//	    WithParentRef(route.RefTo[pages.Home]().At("")).
//	    Build()
//
// Components may also declare their own routes by implementing Declarer.
package route
