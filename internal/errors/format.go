package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
	ansiBold  = "\033[1m"
)

var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() { colorEnabled = false }

// EnableColors enables ANSI color output.
func EnableColors() { colorEnabled = true }

func paint(codes, text string) string {
	if !colorEnabled || text == "" {
		return text
	}
	return codes + text + ansiReset
}

// detailWidth is the column at which Format wraps the detail text.
const detailWidth = 72

// Format renders the error for a terminal:
//
//	ERROR R030: Invalid route manifest
//
//	  routes.yaml:5:9
//	      4 │     children:
//	  →   5 │       - component: Counter
//	        │         ^
//
//	  unknown component "Counter"
//
//	  Hint: ...
func (e *Error) Format() string {
	var b strings.Builder
	b.WriteByte('\n')

	head := "ERROR"
	if e.Code != "" {
		head += " " + e.Code
	}
	fmt.Fprintf(&b, "%s %s\n\n", paint(ansiRed+ansiBold, head+":"), paint(ansiBold, e.Message))

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n", paint(ansiCyan, e.Location.String()))
		e.writeExcerpt(&b)
		b.WriteByte('\n')
	}

	if e.Detail != "" {
		for _, line := range wrap(e.Detail, detailWidth) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteByte('\n')
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(ansiGray, "Caused by: "), e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(ansiCyan, "Hint: "), e.Suggestion)
	}
	return b.String()
}

// writeExcerpt writes the context lines around the location, marking
// the offending line and column.
func (e *Error) writeExcerpt(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}
	first := excerptStart(e.Location.Line)
	bar := paint(ansiGray, "│")
	for i, text := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d %s %s\n", n, bar, text)
			continue
		}
		fmt.Fprintf(b, "  %s%4d %s %s\n", paint(ansiRed, "→ "), n, bar, text)
		if col := e.Location.Column; col > 0 {
			fmt.Fprintf(b, "         %s %s%s\n", bar, strings.Repeat(" ", col-1), paint(ansiRed, "^"))
		}
	}
}

// FormatCompact renders the error on one line:
// "file:line: CODE: message (detail)".
func (e *Error) FormatCompact() string {
	var parts []string
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	s := strings.Join(append(parts, e.Message), ": ")
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	return s
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Cause      string        `json:"cause,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// FormatJSON renders the error as a single JSON object.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	if l := e.Location; l != nil {
		out.Location = &jsonLocation{File: l.File, Line: l.Line, Column: l.Column}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// wrap splits text into lines no longer than width where word breaks
// allow it.
func wrap(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w: coded errors in the Format layout, anything
// else as a plain ERROR line.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	if e := FromError(err, ""); e.Code != "" {
		io.WriteString(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(ansiRed+ansiBold, "ERROR:"), err.Error())
}
