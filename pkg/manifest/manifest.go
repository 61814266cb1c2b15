// Package manifest loads routes declared in a YAML file.
//
// A manifest mirrors what a profile and component declarations express
// in code:
//
//	routes:
//	  - component: pages.Home
//	    uri: ""
//	    metadata:
//	      title: Home
//	    children:
//	      - component: pages.Counter
//	        uri: counter
//	        metadata: {title: Counter}
//	  - component: pages.Settings
//	    uri: settings
//	    parent: {component: pages.Home}
//
//	declarations:
//	  - component: pages.Detail
//	    templates: ["detail/{id:int}"]
//	    parent: pages.Home
//
//	edits:
//	  - {component: pages.Home, uri: "", metadata: {is-module: true}}
//	overrides:
//	  - {component: pages.Settings, uri: settings, with: pages.NewSettings}
//	removals:
//	  - {component: pages.Legacy, uri: legacy}
//
// Component names are resolved through a Registry. With a nil Registry
// every name becomes a component.Named reference.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/metadata"
	"github.com/vango-dev/routekit/pkg/profile"
	"github.com/vango-dev/routekit/pkg/route"
	"github.com/vango-dev/routekit/pkg/router"
)

// Manifest is a parsed route manifest.
type Manifest struct {
	Routes       []RouteSpec       `yaml:"routes"`
	Declarations []DeclarationSpec `yaml:"declarations"`
	Edits        []EditSpec        `yaml:"edits"`
	Overrides    []OverrideSpec    `yaml:"overrides"`
	Removals     []TargetSpec      `yaml:"removals"`

	file string
}

// RouteSpec declares a route and its nested children.
type RouteSpec struct {
	Component string         `yaml:"component"`
	URI       string         `yaml:"uri"`
	Metadata  map[string]any `yaml:"metadata"`
	Children  []RouteSpec    `yaml:"children"`
	Parent    *RefSpec       `yaml:"parent"`
	ChildRefs []RefSpec      `yaml:"childRefs"`
	Line      int            `yaml:"-"`
}

// RefSpec is a reference to another route. A nil URI references by
// component only.
type RefSpec struct {
	Component string  `yaml:"component"`
	URI       *string `yaml:"uri"`
	Line      int     `yaml:"-"`
}

// DeclarationSpec is a component declaration.
type DeclarationSpec struct {
	Component string         `yaml:"component"`
	Templates []string       `yaml:"templates"`
	Parent    string         `yaml:"parent"`
	Children  []string       `yaml:"children"`
	Metadata  map[string]any `yaml:"metadata"`
	Line      int            `yaml:"-"`
}

// TargetSpec selects an existing route.
type TargetSpec struct {
	Component string `yaml:"component"`
	URI       string `yaml:"uri"`
	Line      int    `yaml:"-"`
}

// EditSpec layers metadata onto an existing route.
type EditSpec struct {
	Component string         `yaml:"component"`
	URI       string         `yaml:"uri"`
	Metadata  map[string]any `yaml:"metadata"`
	Line      int            `yaml:"-"`
}

// OverrideSpec rebinds an existing route to another component.
type OverrideSpec struct {
	Component string         `yaml:"component"`
	URI       string         `yaml:"uri"`
	With      string         `yaml:"with"`
	Metadata  map[string]any `yaml:"metadata"`
	Line      int            `yaml:"-"`
}

func (s *RouteSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain RouteSpec
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line = n.Line
	return nil
}

func (s *RefSpec) UnmarshalYAML(n *yaml.Node) error {
	// "parent: pages.Home" is shorthand for {component: pages.Home}.
	if n.Kind == yaml.ScalarNode {
		s.Component = n.Value
		s.Line = n.Line
		return nil
	}
	type plain RefSpec
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line = n.Line
	return nil
}

func (s *DeclarationSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain DeclarationSpec
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line = n.Line
	return nil
}

func (s *TargetSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain TargetSpec
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line = n.Line
	return nil
}

func (s *EditSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain EditSpec
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line = n.Line
	return nil
}

func (s *OverrideSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain OverrideSpec
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line = n.Line
	return nil
}

// Error reports an invalid manifest entry.
type Error struct {
	File   string
	Line   int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if loc == "" {
		return "manifest: " + e.Reason
	}
	return loc + ": " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Coded returns the formatted form of the error.
func (e *Error) Coded() *errors.Error {
	ce := errors.New("R030").WithDetail(e.Reason)
	if e.File != "" && e.Line > 0 {
		ce = ce.WithLocation(e.File, e.Line, 0)
	}
	if e.Err != nil {
		ce = ce.Wrap(e.Err)
	}
	return ce
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{File: path, Reason: "cannot read manifest", Err: err}
	}
	return Parse(data, path)
}

// Parse parses a manifest. file is used in error locations only.
// Unknown top-level keys are rejected.
func Parse(data []byte, file string) (*Manifest, error) {
	m := &Manifest{file: file}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && err != io.EOF {
		return nil, &Error{File: file, Line: yamlLine(err), Reason: err.Error(), Err: err}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// yamlLine extracts the first line number from a yaml error, or 0.
func yamlLine(err error) int {
	var line int
	msg := err.Error()
	for i := 0; i+5 < len(msg); i++ {
		if msg[i:i+5] == "line " {
			fmt.Sscanf(msg[i+5:], "%d", &line)
			return line
		}
	}
	return 0
}

func (m *Manifest) fail(line int, format string, args ...any) error {
	return &Error{File: m.file, Line: line, Reason: fmt.Sprintf(format, args...)}
}

// validate checks that every entry names its components.
func (m *Manifest) validate() error {
	var checkRoute func(rs RouteSpec) error
	checkRoute = func(rs RouteSpec) error {
		if rs.Component == "" {
			return m.fail(rs.Line, "route %q has no component", rs.URI)
		}
		if rs.Parent != nil && rs.Parent.Component == "" {
			return m.fail(rs.Parent.Line, "parent reference has no component")
		}
		for _, ref := range rs.ChildRefs {
			if ref.Component == "" {
				return m.fail(ref.Line, "child reference has no component")
			}
		}
		for _, child := range rs.Children {
			if err := checkRoute(child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, rs := range m.Routes {
		if err := checkRoute(rs); err != nil {
			return err
		}
	}
	for _, d := range m.Declarations {
		if d.Component == "" {
			return m.fail(d.Line, "declaration has no component")
		}
		if len(d.Templates) == 0 {
			return m.fail(d.Line, "declaration of %s has no templates", d.Component)
		}
	}
	for _, e := range m.Edits {
		if e.Component == "" {
			return m.fail(e.Line, "edit has no component")
		}
	}
	for _, o := range m.Overrides {
		if o.Component == "" || o.With == "" {
			return m.fail(o.Line, "override needs both component and with")
		}
	}
	for _, r := range m.Removals {
		if r.Component == "" {
			return m.fail(r.Line, "removal has no component")
		}
	}
	return nil
}

// Registry maps manifest names to components.
type Registry struct {
	byName    map[string]component.Component
	ambiguous map[string]bool
	named     bool
}

// NewRegistry creates a registry holding components. Each component is
// reachable by its full name and, when unambiguous, its short name.
func NewRegistry(components ...component.Component) *Registry {
	r := &Registry{
		byName:    make(map[string]component.Component),
		ambiguous: make(map[string]bool),
	}
	for _, c := range components {
		r.Register(c)
	}
	return r
}

// Register adds c.
func (r *Registry) Register(c component.Component) {
	r.byName[c.Name()] = c
	short := c.ShortName()
	if short == c.Name() || r.ambiguous[short] {
		return
	}
	if existing, ok := r.byName[short]; ok && existing != c {
		delete(r.byName, short)
		r.ambiguous[short] = true
		return
	}
	r.byName[short] = c
}

// AllowNamed makes unknown names resolve to component.Named instead of
// failing.
func (r *Registry) AllowNamed() *Registry {
	r.named = true
	return r
}

// Lookup resolves name.
func (r *Registry) Lookup(name string) (component.Component, bool) {
	if r == nil {
		return component.Named(name), true
	}
	if c, ok := r.byName[name]; ok {
		return c, true
	}
	if r.named {
		return component.Named(name), true
	}
	return component.Component{}, false
}

// resolver resolves names for one conversion and remembers the first
// failure.
type resolver struct {
	m   *Manifest
	reg *Registry
	err error
}

func (rs *resolver) component(name string, line int) component.Component {
	c, ok := rs.reg.Lookup(name)
	if !ok && rs.err == nil {
		rs.err = rs.m.fail(line, "unknown component %q", name)
	}
	return c
}

func (rs *resolver) ref(spec RefSpec) route.Ref {
	ref := route.RefFor(rs.component(spec.Component, spec.Line))
	if spec.URI != nil {
		ref = ref.At(*spec.URI)
	}
	return ref
}

// checkRoute resolves every component name of spec.
func (rs *resolver) checkRoute(spec RouteSpec) {
	rs.component(spec.Component, spec.Line)
	if spec.Parent != nil {
		rs.ref(*spec.Parent)
	}
	for _, ref := range spec.ChildRefs {
		rs.ref(ref)
	}
	for _, child := range spec.Children {
		rs.checkRoute(child)
	}
}

func (rs *resolver) configure(b *route.Builder, spec RouteSpec) {
	b.WithURI(spec.URI)
	if len(spec.Metadata) > 0 {
		b.WithMetadata(metadata.New(spec.Metadata))
	}
	if spec.Parent != nil {
		b.WithParentRef(rs.ref(*spec.Parent))
	}
	for _, ref := range spec.ChildRefs {
		b.WithChildRef(rs.ref(ref))
	}
	for _, child := range spec.Children {
		child := child
		b.WithChild(rs.component(child.Component, child.Line), func(cb *route.Builder) {
			rs.configure(cb, child)
		})
	}
}

// Profile returns a profile replaying the routes, edits, overrides and
// removals of m, in that order. Unknown component names fail here
// rather than during resolution.
func (m *Manifest) Profile(reg *Registry) (profile.Profile, error) {
	rs := &resolver{m: m, reg: reg}
	for _, spec := range m.Routes {
		rs.checkRoute(spec)
	}
	for _, e := range m.Edits {
		rs.component(e.Component, e.Line)
	}
	for _, o := range m.Overrides {
		rs.component(o.Component, o.Line)
		rs.component(o.With, o.Line)
	}
	for _, r := range m.Removals {
		rs.component(r.Component, r.Line)
	}
	if rs.err != nil {
		return nil, rs.err
	}

	return profile.Func(func(c *profile.Configuration) {
		for _, spec := range m.Routes {
			spec := spec
			c.AddRoute(rs.component(spec.Component, spec.Line), func(b *route.Builder) {
				rs.configure(b, spec)
			})
		}
		for _, e := range m.Edits {
			c.EditRoute(rs.component(e.Component, e.Line), e.URI, withMetadata(e.Metadata))
		}
		for _, o := range m.Overrides {
			c.OverrideRoute(rs.component(o.Component, o.Line), o.URI,
				rs.component(o.With, o.Line), withMetadata(o.Metadata))
		}
		for _, r := range m.Removals {
			c.RemoveRoute(rs.component(r.Component, r.Line), r.URI)
		}
	}), nil
}

func withMetadata(md map[string]any) func(*route.Builder) {
	if len(md) == 0 {
		return nil
	}
	return func(b *route.Builder) {
		b.WithMetadata(metadata.New(md))
	}
}

// RouteDeclarations converts the declarations of m.
func (m *Manifest) RouteDeclarations(reg *Registry) ([]route.Declaration, error) {
	rs := &resolver{m: m, reg: reg}
	decls := make([]route.Declaration, 0, len(m.Declarations))
	for _, d := range m.Declarations {
		decl := route.Declaration{
			Component: rs.component(d.Component, d.Line),
			Templates: d.Templates,
			Metadata:  d.Metadata,
		}
		if d.Parent != "" {
			decl.Parent = rs.component(d.Parent, d.Line)
		}
		for _, child := range d.Children {
			decl.Children = append(decl.Children, rs.component(child, d.Line))
		}
		decls = append(decls, decl)
	}
	if rs.err != nil {
		return nil, rs.err
	}
	return decls, nil
}

// Options returns resolver options registering everything m declares.
func (m *Manifest) Options(reg *Registry) ([]router.Option, error) {
	decls, err := m.RouteDeclarations(reg)
	if err != nil {
		return nil, err
	}
	p, err := m.Profile(reg)
	if err != nil {
		return nil, err
	}
	return []router.Option{router.WithDeclarations(decls...), router.WithProfiles(p)}, nil
}
