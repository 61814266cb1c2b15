package convert

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/uri"
)

// InvalidParameterTypeError reports a path-template token with an
// unsupported type suffix, or a value that does not parse as the
// declared type.
type InvalidParameterTypeError struct {
	Template  string
	Parameter string
	Type      string
	Value     string

	// Token is set instead of Parameter for a token without a name.
	Token string
}

func (e *InvalidParameterTypeError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("route %q: token %q has no parameter name", e.Template, e.Token)
	}
	if e.Value != "" {
		return fmt.Sprintf("route %q: value %q of parameter %q is not a valid %s",
			e.Template, e.Value, e.Parameter, e.Type)
	}
	return fmt.Sprintf("route %q: parameter %q has unsupported type %q",
		e.Template, e.Parameter, e.Type)
}

// Coded returns the formatted form of the error.
func (e *InvalidParameterTypeError) Coded() *errors.Error {
	return errors.New("R005").WithDetail(e.Error())
}

// Segment is one segment of a route template.
type Segment struct {
	// Literal is the static text of a non-parameter segment.
	Literal string

	// Param is the token name of a "{name}" segment.
	Param string

	// Kind is the declared type of a typed token.
	Kind Kind

	// Typed reports whether the token carries a ":type" suffix.
	Typed bool

	// Optional reports a trailing "?" on the token.
	Optional bool
}

// IsParam reports whether s is a "{token}" segment.
func (s Segment) IsParam() bool {
	return s.Param != ""
}

// Accepts reports whether the raw path segment seg fits s.
func (s Segment) Accepts(seg string) bool {
	if !s.IsParam() {
		return strings.EqualFold(s.Literal, seg)
	}
	if !s.Typed {
		return true
	}
	value, err := uri.DecodeSegment(seg)
	if err != nil {
		return false
	}
	_, ok := invariant.ConvertKind(value, s.Kind)
	return ok
}

// Template is a parsed route URI such as "orders/{id:int}/{tab?}".
type Template struct {
	raw      string
	segments []Segment
}

// IsTemplateSegment reports whether seg is a "{token}" segment.
func IsTemplateSegment(seg string) bool {
	return len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

// ParseTemplate parses a route URI. Type suffixes are matched ignoring
// case; an unknown suffix or a token without a name fails with
// *InvalidParameterTypeError.
func ParseTemplate(route string) (Template, error) {
	t := Template{raw: route}
	for _, seg := range uri.SplitPath(route) {
		if !IsTemplateSegment(seg) {
			t.segments = append(t.segments, Segment{Literal: seg})
			continue
		}

		token := seg[1 : len(seg)-1]
		s := Segment{}
		if strings.HasSuffix(token, "?") {
			s.Optional = true
			token = strings.TrimSuffix(token, "?")
		}
		name, suffix, typed := strings.Cut(token, ":")
		if name == "" {
			return Template{}, &InvalidParameterTypeError{Template: route, Token: seg}
		}
		s.Param = name
		if typed {
			kind, ok := ParseKind(suffix)
			if !ok {
				return Template{}, &InvalidParameterTypeError{
					Template:  route,
					Parameter: name,
					Type:      suffix,
				}
			}
			s.Kind = kind
			s.Typed = true
		}
		t.segments = append(t.segments, s)
	}
	return t, nil
}

// String returns the template as declared.
func (t Template) String() string {
	return t.raw
}

// Segments returns the parsed segments.
func (t Template) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}

// HasParams reports whether any segment is a token.
func (t Template) HasParams() bool {
	for _, s := range t.segments {
		if s.IsParam() {
			return true
		}
	}
	return false
}

// Match reports whether segments fit t. Literals compare ignoring case,
// tokens match any single segment, and typed tokens only match values
// that parse as their type. Trailing optional tokens may be absent.
func (t Template) Match(segments []string) bool {
	if len(segments) > len(t.segments) {
		return false
	}
	for i, s := range t.segments {
		if i >= len(segments) {
			if !s.Optional {
				return false
			}
			continue
		}
		if !s.Accepts(segments[i]) {
			return false
		}
	}
	return true
}

// Bind extracts token values from segments by position. Untyped tokens
// yield the decoded string; typed tokens are parsed with the Invariant
// culture. Absent optional tokens are omitted.
func (t Template) Bind(segments []string) (map[string]any, error) {
	values := make(map[string]any)
	for i, s := range t.segments {
		if !s.IsParam() || i >= len(segments) {
			continue
		}
		raw, err := uri.DecodeSegment(segments[i])
		if err != nil {
			raw = segments[i]
		}
		if !s.Typed {
			values[s.Param] = raw
			continue
		}
		v, ok := invariant.ConvertKind(raw, s.Kind)
		if !ok {
			return nil, &InvalidParameterTypeError{
				Template:  t.raw,
				Parameter: s.Param,
				Type:      s.Kind.String(),
				Value:     raw,
			}
		}
		values[s.Param] = v
	}
	return values, nil
}

// Expand substitutes values for the tokens of t. Tokens without a value
// are dropped when optional and kept verbatim otherwise.
func (t Template) Expand(values map[string]string) string {
	out := make([]string, 0, len(t.segments))
	for _, s := range t.segments {
		if !s.IsParam() {
			out = append(out, s.Literal)
			continue
		}
		v, ok := lookupFold(values, s.Param)
		switch {
		case ok:
			out = append(out, url.PathEscape(v))
		case s.Optional:
		default:
			out = append(out, "{"+s.Param+"}")
		}
	}
	return uri.JoinSegments(out)
}
