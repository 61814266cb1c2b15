package errors

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "route error",
			code:    "R004",
			wantMsg: "URI registered to multiple routes",
			wantCat: CategoryRoute,
		},
		{
			name:    "parameter error",
			code:    "R005",
			wantMsg: "Invalid path-template parameter type",
			wantCat: CategoryParameter,
		},
		{
			name:    "config error",
			code:    "R021",
			wantMsg: "Invalid config file",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRoute, "route %q not found", "counter")
	if err.Message != `route "counter" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `route "counter" not found`)
	}
	if err.Category != CategoryRoute {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRoute)
	}
}

func TestError_Error(t *testing.T) {
	err := New("R007")
	if got, want := err.Error(), "R007: No URI specified for navigation"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = New("R002").WithDetail("no route for Counter at 'counter'")
	if got, want := err.Error(), "R002: Route not found: no route for Counter at 'counter'"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Without code
	err2 := &Error{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "routes.yaml")
	content := `routes:
  - component: Home
    uri: ""
    children:
      - component: Counter
        uri: counter
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("R030").WithLocation(tmpFile, 5, 9)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile {
		t.Errorf("Location.File = %q, want %q", err.Location.File, tmpFile)
	}
	if err.Location.Line != 5 {
		t.Errorf("Location.Line = %d, want %d", err.Location.Line, 5)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}
}

func TestError_Wrap(t *testing.T) {
	inner := stderrors.New("boom")
	outer := New("R021").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

type codedError struct{}

func (codedError) Error() string { return "coded" }

func (codedError) Coded() *Error { return New("R003").WithDetail("cycle") }

func TestFromError(t *testing.T) {
	if FromError(nil, "R001") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("R001")
	if FromError(e, "R002") != e {
		t.Error("FromError should return *Error as-is")
	}

	if got := FromError(codedError{}, "R002"); got.Code != "R003" {
		t.Errorf("FromError(Coder).Code = %q, want %q", got.Code, "R003")
	}

	stdErr := stderrors.New("plain")
	if got := FromError(stdErr, "R021"); got.Wrapped != stdErr || got.Code != "R021" {
		t.Errorf("FromError(plain) = %+v, want wrapped under R021", got)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{name: "nil location", loc: nil, want: ""},
		{name: "with column", loc: &Location{File: "routes.yaml", Line: 10, Column: 5}, want: "routes.yaml:10:5"},
		{name: "without column", loc: &Location{File: "routes.yaml", Line: 10}, want: "routes.yaml:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R004").
		WithDetail("URI 'counter' is bound to Counter and LegacyCounter")

	formatted := err.Format()

	for _, want := range []string{"R004", "URI registered to multiple routes", "LegacyCounter", "Hint:"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() should contain %q, got:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("R002").WithDetail("Counter at 'counter'")
	err.Location = &Location{File: "routes.yaml", Line: 3}

	want := "routes.yaml:3: R002: Route not found (Counter at 'counter')"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("R005").WithDetail("unsupported type 'uint'")
	got := err.FormatJSON()

	for _, want := range []string{`"code":"R005"`, `"category":"parameter"`, `"detail":"unsupported type 'uint'"`} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatJSON() = %s, missing %s", got, want)
		}
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() returned no codes")
	}
	if codes[0] != "R001" {
		t.Errorf("codes[0] = %q, want %q", codes[0], "R001")
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Errorf("GetTemplate(%q) not found", code)
		}
		if tmpl.Message == "" {
			t.Errorf("code %s has empty message", code)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("R901", ErrorTemplate{Category: CategoryRoute, Message: "custom"})
	defer delete(registry, "R901")

	if got := New("R901").Message; got != "custom" {
		t.Errorf("Message = %q, want %q", got, "custom")
	}
}

func TestFormat_Excerpt(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "routes.yaml")
	content := "routes:\n  - component: Home\n    uri: \"\"\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("R030").WithLocation(tmpFile, 2, 5).WithDetail(`unknown component "Home"`)
	if len(err.Context) != 3 {
		t.Fatalf("len(Context) = %d, want 3", len(err.Context))
	}

	formatted := err.Format()
	for _, want := range []string{
		"       1 │ routes:\n",
		"  →    2 │   - component: Home\n",
		"         │     ^\n",
		`unknown component "Home"`,
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() should contain %q, got:\n%s", want, formatted)
		}
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf strings.Builder
	Fprint(&buf, New("R007"))
	if !strings.Contains(buf.String(), "ERROR R007: No URI specified for navigation") {
		t.Errorf("Fprint(coded) = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("accepts 1 arg(s), received 0"))
	if got, want := buf.String(), "\nERROR: accepts 1 arg(s), received 0\n\n"; got != want {
		t.Errorf("Fprint(plain) = %q, want %q", got, want)
	}
}
