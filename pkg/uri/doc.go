// Package uri splits, joins and compares the relative URIs routes are
// declared with.
//
// Route URIs are stored without a leading slash. The root route has the
// empty URI. Comparisons are segment-wise and case-insensitive:
//
//	uri.RoutesMatch(uri.ParseSegments("Blog/Post"), uri.ParseSegments("/blog/post/"))
//	// true
//
// Query strings are accepted on input and percent-encoded on output:
//
//	uri.CombineSegments([]string{"search"}, map[string]string{"q": "hello world"})
//	// "search?q=hello+world"
package uri
