package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_SetAndOverwrite(t *testing.T) {
	m := &Metadata{}
	m.Set("k", 33)

	assert.Equal(t, int64(33), m.Int("k", 0))
	assert.Equal(t, int64(7), m.Int("missing", 7))

	m.Set("k", 56)
	assert.Equal(t, int64(56), m.Int("k", 0))
	assert.Equal(t, 56, GetAs(m, "k", 0))
}

func TestMetadata_TypedDefaults(t *testing.T) {
	m := New(map[string]any{
		"title":   "Counter",
		"visible": true,
		"weight":  1.5,
		"roles":   []string{"admin", "staff"},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", m.String("title", ""), "Counter"},
		{"string wrong type", m.String("visible", "def"), "def"},
		{"bool", m.Bool("visible", false), true},
		{"bool absent", m.Bool("hidden", true), true},
		{"float", m.Float("weight", 0), 1.5},
		{"strings", m.Strings("roles", nil), []string{"admin", "staff"}},
		{"string as strings", m.Strings("title", nil), []string{"Counter"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLookup(t *testing.T) {
	m := New(map[string]any{"k": 33, "title": "Home"})

	v, o := Lookup[int](m, "k")
	assert.Equal(t, Found, o)
	assert.Equal(t, 33, v)

	_, o = Lookup[string](m, "k")
	assert.Equal(t, WrongType, o)

	_, o = Lookup[bool](m, "missing")
	assert.Equal(t, Absent, o)

	f, o := Lookup[float64](m, "k")
	assert.Equal(t, Found, o)
	assert.InDelta(t, 33.0, f, 0)

	assert.Equal(t, "Home", GetAs(m, "title", ""))
	assert.Equal(t, "fallback", GetAs(m, "k", "fallback"))
}

type policy struct{ Name string }

func TestLookup_Any(t *testing.T) {
	m := &Metadata{}
	m.Set("policy", policy{Name: "strict"})

	p, o := Lookup[policy](m, "policy")
	require.Equal(t, Found, o)
	assert.Equal(t, "strict", p.Name)

	_, o = Lookup[*policy](m, "policy")
	assert.Equal(t, WrongType, o)
}

func TestMetadata_RemoveHas(t *testing.T) {
	m := New(map[string]any{"a": 1})

	assert.True(t, m.Has("a"))
	assert.True(t, m.Remove("a"))
	assert.False(t, m.Has("a"))
	assert.False(t, m.Remove("a"))
	assert.Equal(t, 0, m.Len())
}

func TestMetadata_Merge(t *testing.T) {
	m := New(map[string]any{"title": "Old", "keep": true})
	m.Merge(New(map[string]any{"title": "New", "extra": "x"}))

	assert.Equal(t, "New", m.String("title", ""))
	assert.True(t, m.Bool("keep", false))
	assert.Equal(t, "x", m.String("extra", ""))
	assert.Equal(t, []string{"extra", "keep", "title"}, m.Keys())

	m.Merge(nil)
	assert.Equal(t, 3, m.Len())
}

func TestMetadata_Clone(t *testing.T) {
	m := New(map[string]any{"a": "1"})
	c := m.Clone()
	c.Set("a", "2")

	assert.Equal(t, "1", m.String("a", ""))
	assert.Equal(t, "2", c.String("a", ""))
}

func TestMetadata_Nil(t *testing.T) {
	var m *Metadata

	assert.False(t, m.Has("a"))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "def", m.String("a", "def"))
	assert.Empty(t, m.Map())
	assert.Nil(t, m.Keys())
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		kind Kind
	}{
		{nil, KindNull},
		{"s", KindString},
		{int8(1), KindInt},
		{uint32(1), KindInt},
		{float32(1.5), KindFloat},
		{true, KindBool},
		{[]string{"a"}, KindStrings},
		{[]any{"a", "b"}, KindStrings},
		{[]any{"a", 1}, KindAny},
		{map[string]int{}, KindAny},
		{Int(4), KindInt},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, ValueOf(tt.in).Kind())
		})
	}
}

func TestMetadata_Map(t *testing.T) {
	m := New(map[string]any{"n": 2, "s": "x", "b": false})
	assert.Equal(t, map[string]any{"n": int64(2), "s": "x", "b": false}, m.Map())
}
