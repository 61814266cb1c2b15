package convert

import (
	"math/big"
	"reflect"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Kind is a convertible primitive type.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindGUID
	KindTimeOnly
	KindDateOnly
	KindDateTime
	KindInt
	KindDouble
	KindLong
	KindDecimal
	KindFloat
)

var kindNames = map[Kind]string{
	KindString:   "string",
	KindBool:     "bool",
	KindGUID:     "guid",
	KindTimeOnly: "timeonly",
	KindDateOnly: "dateonly",
	KindDateTime: "datetime",
	KindInt:      "int",
	KindDouble:   "double",
	KindLong:     "long",
	KindDecimal:  "decimal",
	KindFloat:    "float",
}

var (
	stringType  = reflect.TypeFor[string]()
	boolType    = reflect.TypeFor[bool]()
	uuidType    = reflect.TypeFor[uuid.UUID]()
	civilTime   = reflect.TypeFor[civil.Time]()
	civilDate   = reflect.TypeFor[civil.Date]()
	timeType    = reflect.TypeFor[time.Time]()
	intType     = reflect.TypeFor[int]()
	int32Type   = reflect.TypeFor[int32]()
	float64Type = reflect.TypeFor[float64]()
	int64Type   = reflect.TypeFor[int64]()
	ratType     = reflect.TypeFor[*big.Rat]()
	float32Type = reflect.TypeFor[float32]()
)

// kindTypes lists the Go types each kind converts to. The first entry
// is the kind's canonical type.
var kindTypes = map[Kind][]reflect.Type{
	KindString:   {stringType},
	KindBool:     {boolType},
	KindGUID:     {uuidType},
	KindTimeOnly: {civilTime},
	KindDateOnly: {civilDate},
	KindDateTime: {timeType},
	KindInt:      {intType, int32Type},
	KindDouble:   {float64Type},
	KindLong:     {int64Type},
	KindDecimal:  {ratType},
	KindFloat:    {float32Type},
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Type returns the canonical Go type for k.
func (k Kind) Type() reflect.Type {
	if types, ok := kindTypes[k]; ok {
		return types[0]
	}
	return nil
}

// NullableType returns the nullable Go type for k. Decimals are already
// pointers and are returned unchanged.
func (k Kind) NullableType() reflect.Type {
	t := k.Type()
	if t == nil || t == ratType {
		return t
	}
	return reflect.PointerTo(t)
}

// ParseKind looks up a kind by its template name, ignoring case.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// KindOf returns the kind t converts as and whether t is the nullable
// (pointer) variant.
func KindOf(t reflect.Type) (kind Kind, nullable bool, ok bool) {
	if t == nil {
		return 0, false, false
	}
	if t.Kind() == reflect.Pointer && t != ratType {
		t = t.Elem()
		nullable = true
	} else if t == ratType {
		nullable = true
	}
	for _, c := range precedence {
		for _, kt := range kindTypes[c.kind] {
			if kt == t {
				return c.kind, nullable, true
			}
		}
	}
	return 0, false, false
}
