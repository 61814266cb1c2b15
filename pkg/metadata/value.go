// Package metadata stores the side-channel data attached to routes:
// titles, permissions, flags and anything else an application needs.
package metadata

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindStrings
	KindAny
)

var kindNames = [...]string{"null", "string", "int", "float", "bool", "strings", "any"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a metadata value. The zero value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	ss   []string
	a    any
}

// Constructors for each kind.
func String(s string) Value      { return Value{kind: KindString, s: s} }
func Int(i int64) Value          { return Value{kind: KindInt, i: i} }
func Float(f float64) Value      { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Strings(ss ...string) Value { return Value{kind: KindStrings, ss: append([]string(nil), ss...)} }
func Any(v any) Value            { return Value{kind: KindAny, a: v} }

// ValueOf wraps v in the narrowest matching kind. Signed and unsigned
// integers become KindInt, float32 becomes KindFloat.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return Any(x)
		}
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case []string:
		return Strings(x...)
	case []any:
		ss := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return Any(v)
			}
			ss = append(ss, s)
		}
		return Strings(ss...)
	default:
		return Any(v)
	}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the number held by v. Integers are widened.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsStrings returns a copy of the string list held by v.
// A single string is returned as a one-element list.
func (v Value) AsStrings() ([]string, bool) {
	switch v.kind {
	case KindStrings:
		return append([]string(nil), v.ss...), true
	case KindString:
		return []string{v.s}, true
	}
	return nil, false
}

// Interface returns v as a plain Go value: string, int64, float64,
// bool, []string, the wrapped value for KindAny, or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindStrings:
		return append([]string(nil), v.ss...)
	case KindAny:
		return v.a
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindStrings:
		return fmt.Sprint(v.ss)
	}
	return fmt.Sprint(v.a)
}
