package route

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/pkg/component"
	"github.com/vango-dev/routekit/pkg/convert"
	"github.com/vango-dev/routekit/pkg/metadata"
)

type (
	parentPage struct{}
	childPage  struct{}
	orderPage  struct{}
	abstract   interface{ Render() }
)

func TestBuilder_Basic(t *testing.T) {
	r, err := New[parentPage]().
		WithURI("/parent").
		WithMetadataValue("k", 33).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "parent", r.URI())
	assert.Equal(t, component.TypeOf[parentPage](), r.Component())
	assert.Nil(t, r.Parent())
	assert.Empty(t, r.Children())
	assert.Equal(t, int64(33), r.Metadata().Int("k", 0))
}

func TestBuilder_Metadata(t *testing.T) {
	r, err := New[parentPage]().
		WithMetadataValue("k", 33).
		WithMetadata(metadata.New(map[string]any{"k": 56, "title": "Parent"})).
		Build()
	require.NoError(t, err)

	assert.Equal(t, int64(56), r.Metadata().Int("k", 0))
	assert.Equal(t, int64(7), r.Metadata().Int("missing", 7))
	assert.Equal(t, "Parent", r.Metadata().String(MetaTitle, ""))

	r.SetMetadataValue("k", 1)
	assert.Equal(t, 1, metadata.GetAs(r.Metadata(), "k", 0))
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("abstract component", func(t *testing.T) {
		_, err := New[abstract]().Build()
		var absErr *AbstractComponentError
		require.True(t, errors.As(err, &absErr))
		assert.Equal(t, component.TypeOf[abstract](), absErr.Component)
		assert.Equal(t, "R001", absErr.Coded().Code)
	})

	t.Run("missing component", func(t *testing.T) {
		_, err := For(component.Component{}).WithURI("x").Build()
		var missing *MissingComponentError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "R010", missing.Coded().Code)
	})

	t.Run("abstract child", func(t *testing.T) {
		_, err := New[parentPage]().
			WithChild(component.TypeOf[abstract](), nil).
			Build()
		var absErr *AbstractComponentError
		assert.True(t, errors.As(err, &absErr))
	})

	t.Run("invalid template type", func(t *testing.T) {
		_, err := New[orderPage]().WithURI("orders/{id:uint}").Build()
		var typeErr *convert.InvalidParameterTypeError
		assert.True(t, errors.As(err, &typeErr))
	})

	t.Run("invalid optional template type", func(t *testing.T) {
		_, err := New[orderPage]().WithURI("orders/{id:foo?}").Build()
		var typeErr *convert.InvalidParameterTypeError
		require.True(t, errors.As(err, &typeErr))
		assert.Equal(t, "foo", typeErr.Type)
	})
}

func TestBuilder_WithChild(t *testing.T) {
	parent, err := New[parentPage]().
		WithURI("parent").
		WithChild(component.TypeOf[childPage](), func(b *Builder) {
			b.WithURI("child")
		}).
		Build()
	require.NoError(t, err)

	require.Len(t, parent.Children(), 1)
	child := parent.Children()[0]
	assert.Same(t, parent, child.Parent())
	assert.Same(t, child, parent.FindRoute("child"))
	assert.Same(t, parent, parent.FindRoute("/Parent/"))
	assert.Nil(t, parent.FindRoute("missing"))
}

func TestBuilder_Refs(t *testing.T) {
	r, err := New[childPage]().
		WithURI("child").
		WithParentRef(RefTo[parentPage]().At("/parent")).
		WithChildRef(RefTo[orderPage]()).
		Build()
	require.NoError(t, err)

	ref, ok := r.ParentRef()
	require.True(t, ok)
	assert.Equal(t, Ref{Component: component.TypeOf[parentPage](), URI: "parent", ByURI: true}, ref)
	assert.Equal(t, []Ref{{Component: component.TypeOf[orderPage]()}}, r.ChildRefs())

	ClearRefs(r)
	_, ok = r.ParentRef()
	assert.False(t, ok)
	assert.Empty(t, r.ChildRefs())
}

func TestRoute_FindRoute_Templates(t *testing.T) {
	root, err := New[parentPage]().
		WithChild(component.TypeOf[orderPage](), func(b *Builder) { b.WithURI("orders/{id:int}") }).
		WithChild(component.TypeOf[childPage](), func(b *Builder) { b.WithURI("orders/new") }).
		Build()
	require.NoError(t, err)

	assert.Equal(t, component.TypeOf[orderPage](), root.FindRoute("orders/5").Component())
	assert.Equal(t, component.TypeOf[childPage](), root.FindRoute("orders/new").Component())
	assert.Nil(t, root.FindRoute("orders/abc"))
	assert.Same(t, root, root.FindRoute(""))
}

func TestRoute_OptionalTokenSegments(t *testing.T) {
	r, err := New[orderPage]().WithURI("items/{id:int}/{slug?}").Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"items", "{id:int}", "{slug?}"}, r.Segments())
	assert.True(t, r.IsTemplate())
	assert.Same(t, r, r.FindRoute("items/42"))
	assert.Same(t, r, r.FindRoute("items/42/blue-chair?x=1"))
	assert.True(t, r.Is(component.TypeOf[orderPage](), "/items/{id:int}/{slug?}"))
}

func TestRoute_Walk(t *testing.T) {
	root, err := New[parentPage]().
		WithChild(component.TypeOf[childPage](), func(b *Builder) {
			b.WithURI("a").WithChild(component.TypeOf[orderPage](), func(b *Builder) { b.WithURI("a/b") })
		}).
		WithChild(component.TypeOf[orderPage](), func(b *Builder) { b.WithURI("c") }).
		Build()
	require.NoError(t, err)

	var visited []string
	root.Walk(func(r *Route) bool {
		visited = append(visited, r.URI())
		return true
	})
	assert.Equal(t, []string{"", "a", "a/b", "c"}, visited)

	assert.Len(t, root.FindRoutes(component.TypeOf[orderPage]()), 2)

	deep := root.FindRoute("a/b")
	require.NotNil(t, deep)
	assert.Same(t, root, deep.Root())
	assert.Len(t, deep.Ancestors(), 2)
}

func TestLink(t *testing.T) {
	p1, _ := New[parentPage]().WithURI("p1").Build()
	p2, _ := New[parentPage]().WithURI("p2").Build()
	c, _ := New[childPage]().WithURI("c").Build()

	require.NoError(t, Link(p1, c))
	require.NoError(t, Link(p1, c), "re-linking the same pair is a no-op")
	assert.Len(t, p1.Children(), 1)

	err := Link(p2, c)
	var relErr *RelationshipError
	require.True(t, errors.As(err, &relErr))
	assert.Same(t, p1, relErr.ExistingParent)
	assert.Equal(t, "R003", relErr.Coded().Code)

	Detach(c)
	assert.Nil(t, c.Parent())
	assert.Empty(t, p1.Children())
	require.NoError(t, Link(p2, c))
}

func TestRebind(t *testing.T) {
	r, _ := New[parentPage]().Build()

	require.NoError(t, Rebind(r, component.TypeOf[childPage]()))
	assert.Equal(t, component.TypeOf[childPage](), r.Component())

	var absErr *AbstractComponentError
	assert.True(t, errors.As(Rebind(r, component.TypeOf[abstract]()), &absErr))
}

func TestRoute_Is(t *testing.T) {
	r, _ := New[parentPage]().WithURI("Parent").Build()

	assert.True(t, r.Is(component.TypeOf[parentPage](), "/parent"))
	assert.False(t, r.Is(component.TypeOf[childPage](), "parent"))
	assert.False(t, r.Is(component.TypeOf[parentPage](), "other"))
}

func TestEdit(t *testing.T) {
	r, _ := New[parentPage]().WithURI("p").WithMetadataValue("a", 1).Build()

	edited, err := Edit(r).WithMetadataValue("b", 2).Build()
	require.NoError(t, err)
	assert.Same(t, r, edited)
	assert.True(t, r.Metadata().Has("a"))
	assert.True(t, r.Metadata().Has("b"))
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Component: component.Named("Home"), URI: "x", ByURI: true}
	assert.Equal(t, "no route for component Home at 'x'", err.Error())
	assert.Equal(t, "R002", err.Coded().Code)
}
