package uri

import (
	"net/url"
	"strings"
)

// ParseSegments strips any query string and splits the path on "/".
// Empty segments are discarded, so leading, trailing and repeated
// slashes are tolerated.
func ParseSegments(uri string) []string {
	return SplitPath(RemoveQueryParameters(uri))
}

// SplitPath splits path on "/" the way ParseSegments does, but keeps
// any "?" as part of its segment. Route templates use it, since
// "{tab?}" marks an optional token rather than a query string.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// RemoveQueryParameters returns uri up to the first "?".
func RemoveQueryParameters(uri string) string {
	path, _, _ := strings.Cut(uri, "?")
	return path
}

// ExtractQueryParameters parses the query string following the first "?".
// Pairs are separated by "&" and must contain exactly one "=" with a
// non-empty key and value; anything else is skipped. Keys and values
// are percent-decoded. Later duplicates overwrite earlier ones.
func ExtractQueryParameters(uri string) map[string]string {
	params := make(map[string]string)
	_, query, ok := strings.Cut(uri, "?")
	if !ok {
		return params
	}

	for _, pair := range strings.Split(query, "&") {
		if strings.Count(pair, "=") != 1 {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		if rawKey == "" || rawValue == "" {
			continue
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		params[key] = value
	}
	return params
}

// JoinSegments joins segments with "/".
func JoinSegments(segments []string) string {
	return strings.Join(segments, "/")
}

// CombineSegments joins segments with "/" and appends the encoded query
// parameters. Parameters are emitted in key order.
func CombineSegments(segments []string, query map[string]string) string {
	path := JoinSegments(segments)
	if len(query) == 0 {
		return path
	}
	return path + "?" + encode(query)
}

// AddQueryParameters appends query to uri, keeping any parameters uri
// already carries. Keys present in both take the value from query.
func AddQueryParameters(uri string, query map[string]string) string {
	if len(query) == 0 {
		return uri
	}
	merged := ExtractQueryParameters(uri)
	for k, v := range query {
		merged[k] = v
	}
	return RemoveQueryParameters(uri) + "?" + encode(merged)
}

func encode(query map[string]string) string {
	values := make(url.Values, len(query))
	for k, v := range query {
		values.Set(k, v)
	}
	return values.Encode()
}

// RoutesMatch reports whether two segment sequences have the same length
// and are pairwise equal ignoring case.
func RoutesMatch(left, right []string) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if !strings.EqualFold(left[i], right[i]) {
			return false
		}
	}
	return true
}
