package convert

import (
	"strings"

	"github.com/vango-dev/routekit/pkg/component"
)

// BindQuery converts the query values declared by params. Query keys are
// matched ignoring case against each parameter's name. Values that fail
// to convert are omitted. The result is keyed by field name.
func (c *Converter) BindQuery(query map[string]string, params []component.Parameter) map[string]any {
	values := make(map[string]any)
	if len(query) == 0 {
		return values
	}
	for _, p := range params {
		raw, ok := lookupFold(query, p.Name())
		if !ok {
			continue
		}
		if v, ok := c.Convert(raw, p.Type); ok {
			values[p.Field] = v
		}
	}
	return values
}

// lookupFold returns the value for key, preferring an exact match over a
// case-insensitive one.
func lookupFold(values map[string]string, key string) (string, bool) {
	if v, ok := values[key]; ok {
		return v, true
	}
	for k, v := range values {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
