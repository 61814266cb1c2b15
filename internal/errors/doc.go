// Package errors provides structured, actionable configuration errors for routekit.
//
// Route tables are resolved once at startup and every problem found there is
// fatal. The errors in this package make those failures readable:
//   - A stable code (e.g., "R004") identifying the failure class
//   - A short message and a longer explanation
//   - An optional declaration source (manifest file, line, column)
//   - A suggestion on how to fix the declaration
//
// # Error Categories
//
//   - route: route declaration and hierarchy errors
//   - parameter: path-template and parameter binding errors
//   - navigation: outgoing navigation errors
//   - config: routekit.json errors
//   - manifest: route manifest errors
//
// # Usage
//
//	err := errors.New("R004").
//	    WithDetail("URI 'counter' is bound to Counter and LegacyCounter").
//	    WithSuggestion("Remove one of the declarations or override it")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R004: URI registered to multiple routes
//	//
//	//   URI 'counter' is bound to Counter and LegacyCounter
//	//
//	//   Hint: Remove one of the declarations or override it
package errors
