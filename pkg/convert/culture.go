package convert

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DateOrder is the order of day, month and year in a short date.
type DateOrder uint8

const (
	MonthDayYear DateOrder = iota
	DayMonthYear
	YearMonthDay
)

// Culture holds the locale conventions used to parse numbers and dates.
type Culture struct {
	// Tag is the language tag the culture was requested with.
	Tag language.Tag

	// DecimalSeparator separates the integer and fractional digits.
	DecimalSeparator rune

	// GroupSeparators are digit-grouping characters, ignored when parsing.
	GroupSeparators []rune

	// DateOrder orders the fields of a short date.
	DateOrder DateOrder

	// DateSeparator separates the fields of a short date.
	DateSeparator string

	// TwelveHour accepts "3:04 PM" style times.
	TwelveHour bool
}

// Invariant is the culture-neutral convention: "." decimals, ","
// grouping, month/day/year dates.
var Invariant = Culture{
	Tag:              language.Und,
	DecimalSeparator: '.',
	GroupSeparators:  []rune{','},
	DateOrder:        MonthDayYear,
	DateSeparator:    "/",
}

const (
	nbsp       = '\u00a0'
	narrowNbsp = '\u202f'
)

// cultures is the table of known conventions. Tags not listed resolve to
// their closest match with language.Matcher.
var cultures = []Culture{
	{Tag: language.AmericanEnglish, DecimalSeparator: '.', GroupSeparators: []rune{','}, DateOrder: MonthDayYear, DateSeparator: "/", TwelveHour: true},
	{Tag: language.BritishEnglish, DecimalSeparator: '.', GroupSeparators: []rune{','}, DateOrder: DayMonthYear, DateSeparator: "/"},
	{Tag: language.MustParse("de-DE"), DecimalSeparator: ',', GroupSeparators: []rune{'.'}, DateOrder: DayMonthYear, DateSeparator: "."},
	{Tag: language.MustParse("fr-FR"), DecimalSeparator: ',', GroupSeparators: []rune{' ', nbsp, narrowNbsp}, DateOrder: DayMonthYear, DateSeparator: "/"},
	{Tag: language.MustParse("es-ES"), DecimalSeparator: ',', GroupSeparators: []rune{'.'}, DateOrder: DayMonthYear, DateSeparator: "/"},
	{Tag: language.MustParse("it-IT"), DecimalSeparator: ',', GroupSeparators: []rune{'.'}, DateOrder: DayMonthYear, DateSeparator: "/"},
	{Tag: language.MustParse("nl-NL"), DecimalSeparator: ',', GroupSeparators: []rune{'.'}, DateOrder: DayMonthYear, DateSeparator: "-"},
	{Tag: language.MustParse("pt-BR"), DecimalSeparator: ',', GroupSeparators: []rune{'.'}, DateOrder: DayMonthYear, DateSeparator: "/"},
	{Tag: language.MustParse("ru-RU"), DecimalSeparator: ',', GroupSeparators: []rune{' ', nbsp}, DateOrder: DayMonthYear, DateSeparator: "."},
	{Tag: language.MustParse("sv-SE"), DecimalSeparator: ',', GroupSeparators: []rune{' ', nbsp}, DateOrder: YearMonthDay, DateSeparator: "-"},
	{Tag: language.MustParse("ja-JP"), DecimalSeparator: '.', GroupSeparators: []rune{','}, DateOrder: YearMonthDay, DateSeparator: "/"},
	{Tag: language.MustParse("zh-CN"), DecimalSeparator: '.', GroupSeparators: []rune{','}, DateOrder: YearMonthDay, DateSeparator: "/"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(cultures))
	for i, c := range cultures {
		tags[i] = c.Tag
	}
	return language.NewMatcher(tags)
}()

// ParseCulture resolves a BCP-47 tag to a Culture. The empty string and
// "invariant" select Invariant. Unknown but well-formed tags fall back to
// the closest known culture.
func ParseCulture(s string) (Culture, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "invariant") {
		return Invariant, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Culture{}, fmt.Errorf("invalid culture %q: %w", s, err)
	}
	return CultureFor(tag), nil
}

// CultureFor returns the culture closest to tag.
func CultureFor(tag language.Tag) Culture {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		c := Invariant
		c.Tag = tag
		return c
	}
	c := cultures[idx]
	c.Tag = tag
	return c
}

// IsZero reports whether c is the zero Culture.
func (c Culture) IsZero() bool {
	return c.DecimalSeparator == 0
}

func (c Culture) String() string {
	if c.Tag == language.Und {
		return "invariant"
	}
	return c.Tag.String()
}

// normalizeNumber rewrites s into the form strconv expects: group
// separators removed and the decimal separator replaced by ".".
func (c Culture) normalizeNumber(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == c.DecimalSeparator:
			b.WriteByte('.')
		case c.isGroupSeparator(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c Culture) isGroupSeparator(r rune) bool {
	for _, g := range c.GroupSeparators {
		if r == g {
			return true
		}
	}
	return false
}

// dateLayouts returns the short-date layouts of c.
func (c Culture) dateLayouts() []string {
	sep := c.DateSeparator
	if sep == "" {
		sep = "/"
	}
	switch c.DateOrder {
	case DayMonthYear:
		return []string{"2" + sep + "1" + sep + "2006"}
	case YearMonthDay:
		return []string{"2006" + sep + "1" + sep + "2"}
	}
	return []string{"1" + sep + "2" + sep + "2006"}
}

// timeLayouts returns the time-of-day layouts of c.
func (c Culture) timeLayouts() []string {
	layouts := []string{"15:04:05.999999999", "15:04"}
	if c.TwelveHour {
		layouts = append(layouts, "3:04:05 PM", "3:04 PM")
	}
	return layouts
}
