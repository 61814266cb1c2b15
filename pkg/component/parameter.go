package component

import (
	"reflect"
	"strings"
	"sync"
)

// QueryTag is the struct tag that marks a component field as a query
// parameter. An empty tag value uses the field name.
//
//	type Search struct {
//	    Term  string `query:"q"`
//	    Page  *int   `query:""`
//	}
const QueryTag = "query"

// Parameter describes one query parameter a component accepts.
type Parameter struct {
	// Field is the Go field name, used as the key of parsed values.
	Field string

	// QueryName is the key matched against the query string.
	QueryName string

	// Type is the declared field type.
	Type reflect.Type
}

// Name returns the name matched against the query string.
func (p Parameter) Name() string {
	if p.QueryName != "" {
		return p.QueryName
	}
	return p.Field
}

// ParameterSource supplies the query parameters of a component.
type ParameterSource interface {
	Parameters(c Component) []Parameter
}

// ParameterSourceFunc adapts a function to ParameterSource.
type ParameterSourceFunc func(c Component) []Parameter

// Parameters calls f(c).
func (f ParameterSourceFunc) Parameters(c Component) []Parameter {
	return f(c)
}

// Tags reads parameter declarations from struct tags.
var Tags ParameterSource = tagSource{}

type tagSource struct{}

var tagCache sync.Map // reflect.Type -> []Parameter

func (tagSource) Parameters(c Component) []Parameter {
	rt := c.Type()
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := tagCache.Load(rt); ok {
		return cached.([]Parameter)
	}

	var params []Parameter
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup(QueryTag)
		if !ok || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		params = append(params, Parameter{
			Field:     f.Name,
			QueryName: name,
			Type:      f.Type,
		})
	}

	tagCache.Store(rt, params)
	return params
}

// FindParameter returns the parameter declared for field, if any.
func FindParameter(src ParameterSource, c Component, field string) (Parameter, bool) {
	for _, p := range src.Parameters(c) {
		if p.Field == field {
			return p, true
		}
	}
	return Parameter{}, false
}
