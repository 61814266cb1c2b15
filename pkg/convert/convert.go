package convert

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Options configures a Converter.
type Options struct {
	// NumericCulture parses int, long, double, float and decimal values.
	NumericCulture Culture

	// DateTimeCulture parses datetime, dateonly and timeonly values.
	DateTimeCulture Culture

	// Location is the zone of date-times that carry no offset.
	// Nil means UTC.
	Location *time.Location
}

// DefaultOptions returns en-US cultures in UTC.
func DefaultOptions() Options {
	enUS := CultureFor(cultures[0].Tag)
	return Options{
		NumericCulture:  enUS,
		DateTimeCulture: enUS,
		Location:        time.UTC,
	}
}

// InvariantOptions returns Invariant cultures in UTC.
func InvariantOptions() Options {
	return Options{
		NumericCulture:  Invariant,
		DateTimeCulture: Invariant,
		Location:        time.UTC,
	}
}

// Converter parses raw strings into typed values.
// A Converter is immutable and safe for concurrent use.
type Converter struct {
	numeric  Culture
	dateTime Culture
	loc      *time.Location
}

// New creates a Converter. Zero cultures become Invariant.
func New(opts Options) *Converter {
	c := &Converter{
		numeric:  opts.NumericCulture,
		dateTime: opts.DateTimeCulture,
		loc:      opts.Location,
	}
	if c.numeric.IsZero() {
		c.numeric = Invariant
	}
	if c.dateTime.IsZero() {
		c.dateTime = Invariant
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	return c
}

var invariant = New(InvariantOptions())

// Options returns the options c was created with.
func (c *Converter) Options() Options {
	return Options{NumericCulture: c.numeric, DateTimeCulture: c.dateTime, Location: c.loc}
}

type parser struct {
	kind  Kind
	parse func(c *Converter, raw string) (any, bool)
}

// precedence is the order in which target types are tried.
var precedence = []parser{
	{KindString, func(_ *Converter, raw string) (any, bool) { return raw, true }},
	{KindBool, (*Converter).parseBool},
	{KindGUID, (*Converter).parseGUID},
	{KindTimeOnly, (*Converter).parseTimeOnly},
	{KindDateOnly, (*Converter).parseDateOnly},
	{KindDateTime, (*Converter).parseDateTime},
	{KindInt, (*Converter).parseInt},
	{KindDouble, (*Converter).parseDouble},
	{KindLong, (*Converter).parseLong},
	{KindDecimal, (*Converter).parseDecimal},
	{KindFloat, (*Converter).parseFloat},
}

// Convert parses raw as a value of type t. It reports false when t is
// not a supported type or raw does not parse as t.
func (c *Converter) Convert(raw string, t reflect.Type) (any, bool) {
	kind, nullable, ok := KindOf(t)
	if !ok {
		return nil, false
	}
	v, ok := c.ConvertKind(raw, kind)
	if !ok {
		return nil, false
	}

	base := t
	if nullable && t != ratType {
		base = t.Elem()
	}
	rv := reflect.ValueOf(v).Convert(base)
	if base != t {
		p := reflect.New(base)
		p.Elem().Set(rv)
		return p.Interface(), true
	}
	return rv.Interface(), true
}

// ConvertKind parses raw as kind, returning the kind's canonical type.
func (c *Converter) ConvertKind(raw string, kind Kind) (any, bool) {
	for _, p := range precedence {
		if p.kind == kind {
			return p.parse(c, raw)
		}
	}
	return nil, false
}

func (c *Converter) parseBool(raw string) (any, bool) {
	switch s := strings.TrimSpace(raw); {
	case strings.EqualFold(s, "true"):
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	}
	return nil, false
}

func (c *Converter) parseGUID(raw string) (any, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	return id, true
}

func (c *Converter) parseTimeOnly(raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	if t, err := civil.ParseTime(s); err == nil {
		return t, true
	}
	for _, layout := range c.dateTime.timeLayouts() {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.TimeOf(t), true
		}
	}
	return nil, false
}

func (c *Converter) parseDateOnly(raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	if d, err := civil.ParseDate(s); err == nil {
		return d, true
	}
	for _, layout := range c.dateTime.dateLayouts() {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}
	return nil, false
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

func (c *Converter) parseDateTime(raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, true
		}
	}
	for _, dl := range c.dateTime.dateLayouts() {
		if t, err := time.ParseInLocation(dl, s, c.loc); err == nil {
			return t, true
		}
		for _, tl := range c.dateTime.timeLayouts() {
			if t, err := time.ParseInLocation(dl+" "+tl, s, c.loc); err == nil {
				return t, true
			}
		}
	}
	return nil, false
}

func (c *Converter) parseInt(raw string) (any, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return nil, false
	}
	return int(n), true
}

func (c *Converter) parseLong(raw string) (any, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, false
	}
	return n, true
}

func (c *Converter) parseDouble(raw string) (any, bool) {
	f, err := strconv.ParseFloat(c.numeric.normalizeNumber(raw), 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func (c *Converter) parseFloat(raw string) (any, bool) {
	f, err := strconv.ParseFloat(c.numeric.normalizeNumber(raw), 32)
	if err != nil {
		return nil, false
	}
	return float32(f), true
}

func (c *Converter) parseDecimal(raw string) (any, bool) {
	s := c.numeric.normalizeNumber(raw)
	if s == "" || strings.ContainsAny(s, "/eE") {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, false
	}
	return r, true
}
