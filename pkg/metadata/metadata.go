package metadata

import (
	"maps"
	"slices"
)

// Metadata is a set of key/value pairs. Keys are unique and the last
// write wins. The zero value is ready to use; a nil *Metadata reads as
// empty.
//
// Metadata does no locking. Callers mutating a resolved route's
// metadata concurrently must serialize their own writes.
type Metadata struct {
	values map[string]Value
}

// New creates a metadata set holding the given pairs.
func New(pairs map[string]any) *Metadata {
	m := &Metadata{}
	for k, v := range pairs {
		m.Set(k, v)
	}
	return m
}

// Set stores v under key, replacing any previous value.
func (m *Metadata) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	m.values[key] = ValueOf(v)
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Metadata) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Remove deletes key and reports whether it was present.
func (m *Metadata) Remove(key string) bool {
	if !m.Has(key) {
		return false
	}
	delete(m.values, key)
	return true
}

// Len returns the number of keys.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.values)
}

// Keys returns the keys in sorted order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m.values))
}

// Merge copies every pair of other into m, overwriting on collision.
func (m *Metadata) Merge(other *Metadata) {
	if other == nil {
		return
	}
	for k, v := range other.values {
		if m.values == nil {
			m.values = make(map[string]Value, len(other.values))
		}
		m.values[k] = v
	}
}

// Clone returns an independent copy of m.
func (m *Metadata) Clone() *Metadata {
	c := &Metadata{}
	c.Merge(m)
	return c
}

// Map returns the pairs as plain Go values (see Value.Interface).
func (m *Metadata) Map() map[string]any {
	out := make(map[string]any, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.values {
		out[k] = v.Interface()
	}
	return out
}

// String returns the string under key, or def when absent or not a string.
func (m *Metadata) String(key, def string) string {
	if v, ok := m.Get(key); ok {
		if s, ok := v.AsString(); ok {
			return s
		}
	}
	return def
}

// Int returns the integer under key, or def when absent or not an integer.
func (m *Metadata) Int(key string, def int64) int64 {
	if v, ok := m.Get(key); ok {
		if i, ok := v.AsInt(); ok {
			return i
		}
	}
	return def
}

// Float returns the number under key, or def when absent or not a number.
func (m *Metadata) Float(key string, def float64) float64 {
	if v, ok := m.Get(key); ok {
		if f, ok := v.AsFloat(); ok {
			return f
		}
	}
	return def
}

// Bool returns the boolean under key, or def when absent or not a boolean.
func (m *Metadata) Bool(key string, def bool) bool {
	if v, ok := m.Get(key); ok {
		if b, ok := v.AsBool(); ok {
			return b
		}
	}
	return def
}

// Strings returns the string list under key, or def.
func (m *Metadata) Strings(key string, def []string) []string {
	if v, ok := m.Get(key); ok {
		if ss, ok := v.AsStrings(); ok {
			return ss
		}
	}
	return def
}

// Outcome is the result of a typed lookup.
type Outcome uint8

const (
	Found Outcome = iota
	Absent
	WrongType
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Absent:
		return "absent"
	}
	return "wrong type"
}

// Lookup returns the value under key as T. Numeric kinds convert to
// int, int64 and float64 targets; KindAny values are type-asserted.
func Lookup[T any](m *Metadata, key string) (T, Outcome) {
	var zero T
	v, ok := m.Get(key)
	if !ok {
		return zero, Absent
	}

	var out any
	switch any(zero).(type) {
	case string:
		s, ok := v.AsString()
		if !ok {
			return zero, WrongType
		}
		out = s
	case bool:
		b, ok := v.AsBool()
		if !ok {
			return zero, WrongType
		}
		out = b
	case int64:
		i, ok := v.AsInt()
		if !ok {
			return zero, WrongType
		}
		out = i
	case int:
		i, ok := v.AsInt()
		if !ok {
			return zero, WrongType
		}
		out = int(i)
	case float64:
		f, ok := v.AsFloat()
		if !ok {
			return zero, WrongType
		}
		out = f
	case []string:
		ss, ok := v.AsStrings()
		if !ok {
			return zero, WrongType
		}
		out = ss
	default:
		out = v.Interface()
	}

	t, ok := out.(T)
	if !ok {
		return zero, WrongType
	}
	return t, Found
}

// GetAs returns the value under key as T, or def when it is absent or
// of another type.
func GetAs[T any](m *Metadata, key string, def T) T {
	if v, o := Lookup[T](m, key); o == Found {
		return v
	}
	return def
}
