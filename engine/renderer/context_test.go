package renderer_test

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/nullgl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSource = `#version 330 core
in vec3 a_position;
in vec4 i_color;
void main() {}
`

func setup(t *testing.T, maxAttributes int) (*renderer.RenderContext, *nullgl.Backend, *metadata.Program) {
	t.Helper()
	backend := nullgl.New(3)
	ctx, err := renderer.NewRenderContext(backend, maxAttributes)
	require.NoError(t, err)
	program, err := backend.CreateProgram("test", metadata.ProgramSources{Vertex: vertexSource, Fragment: "void main() {}"})
	require.NoError(t, err)
	return ctx, backend, program
}

func TestNewRenderContextErrors(t *testing.T) {
	_, err := renderer.NewRenderContext(nil, 16)
	assert.ErrorIs(t, err, core.ErrNilResource)

	_, err = renderer.NewRenderContext(nullgl.New(1), 0)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	ctx, err := renderer.NewRenderContext(nullgl.New(9), 16)
	require.NoError(t, err)
	assert.Equal(t, metadata.ContextID(9), ctx.ID())
	assert.Equal(t, 16, ctx.MaxAttributes())
}

func TestBindingIsCached(t *testing.T) {
	ctx, backend, program := setup(t, 16)
	vertices := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3), 3)

	first, err := ctx.Binding(program, []*metadata.VertexBuffer{vertices}, nil)
	require.NoError(t, err)
	second, err := ctx.Binding(program, []*metadata.VertexBuffer{vertices}, nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, ctx.BindingCount())
	assert.Equal(t, 1, backend.Bindings())
	assert.Equal(t, 1, first.Layout.Slots())

	snapshot := ctx.Metrics().Snapshot()
	assert.Equal(t, uint64(1), snapshot.BindingHits)
	assert.Equal(t, uint64(1), snapshot.BindingMisses)
}

func TestBindingPerBufferSet(t *testing.T) {
	ctx, backend, program := setup(t, 16)
	vertices := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3), 3)
	colors := metadata.NewVertexBuffer(metadata.NewVertexFormat().Color(4), 3)

	plain, err := ctx.Binding(program, []*metadata.VertexBuffer{vertices}, nil)
	require.NoError(t, err)
	instanced, err := ctx.Binding(program, []*metadata.VertexBuffer{vertices}, []*metadata.VertexBuffer{colors})
	require.NoError(t, err)

	assert.NotEqual(t, plain.Handle, instanced.Handle)
	assert.Equal(t, 2, instanced.Layout.Slots())
	assert.Equal(t, 2, backend.Bindings())
}

func TestBindingBudgetFailsBeforeBackend(t *testing.T) {
	ctx, backend, program := setup(t, 1)
	vertices := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3), 3)
	colors := metadata.NewVertexBuffer(metadata.NewVertexFormat().Color(4), 3)

	_, err := ctx.Binding(program, []*metadata.VertexBuffer{vertices}, []*metadata.VertexBuffer{colors})
	assert.ErrorIs(t, err, core.ErrAttributeBudgetExceeded)
	assert.Equal(t, 0, backend.Bindings())
	assert.Equal(t, 0, ctx.BindingCount())
}

func TestBindingNilArguments(t *testing.T) {
	ctx, _, program := setup(t, 16)
	_, err := ctx.Binding(nil, nil, nil)
	assert.ErrorIs(t, err, core.ErrNilResource)
	_, err = ctx.Binding(program, []*metadata.VertexBuffer{nil}, nil)
	assert.ErrorIs(t, err, core.ErrNilResource)
}

func TestDestroy(t *testing.T) {
	ctx, backend, program := setup(t, 16)
	vertices := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3), 3)
	_, err := ctx.Binding(program, []*metadata.VertexBuffer{vertices}, nil)
	require.NoError(t, err)

	require.NoError(t, ctx.Destroy())
	assert.True(t, ctx.Destroyed())
	assert.Equal(t, 0, backend.Bindings())
	assert.Equal(t, 0, ctx.BindingCount())

	_, err = ctx.Binding(program, []*metadata.VertexBuffer{vertices}, nil)
	assert.ErrorIs(t, err, core.ErrContextDestroyed)
	assert.ErrorIs(t, ctx.ApplyState(metadata.DefaultDrawStyle()), core.ErrContextDestroyed)

	// destroying twice is a no-op
	assert.NoError(t, ctx.Destroy())
}

func TestApplyStateSkipsUnchanged(t *testing.T) {
	ctx, backend, _ := setup(t, 16)
	style := metadata.DefaultDrawStyle()
	require.NoError(t, ctx.ApplyState(style))
	require.NoError(t, ctx.ApplyState(style))
	style.DepthWrite = true
	require.NoError(t, ctx.ApplyState(style))

	states := backend.States()
	require.Len(t, states, 2)
	assert.Equal(t, renderer.StateAll, states[0].Changes)
	assert.Equal(t, renderer.StateDepthWrite, states[1].Changes)
}

type failingBackend struct {
	*nullgl.Backend
	fail bool
}

func (b *failingBackend) ApplyState(style metadata.DrawStyle, changes renderer.StateChange) error {
	if b.fail {
		return errors.New("lost context")
	}
	return b.Backend.ApplyState(style, changes)
}

func TestApplyStateResetsAfterFailure(t *testing.T) {
	backend := &failingBackend{Backend: nullgl.New(1)}
	ctx, err := renderer.NewRenderContext(backend, 16)
	require.NoError(t, err)

	style := metadata.DefaultDrawStyle()
	require.NoError(t, ctx.ApplyState(style))

	backend.fail = true
	style.DepthWrite = true
	assert.Error(t, ctx.ApplyState(style))

	backend.fail = false
	require.NoError(t, ctx.ApplyState(style))
	states := backend.States()
	require.Len(t, states, 2)
	assert.Equal(t, renderer.StateAll, states[1].Changes)
}

func TestLayoutTranslator(t *testing.T) {
	ctx, backend, program := setup(t, 16)
	vertices := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3), 3)

	ctx.SetLayoutTranslator(func(layout *renderer.BindingLayout) (interface{}, error) {
		return nil, errors.New("no pipeline for this layout")
	})
	_, err := ctx.Binding(program, []*metadata.VertexBuffer{vertices}, nil)
	require.Error(t, err)
	assert.Equal(t, 0, backend.Bindings())
	assert.Equal(t, 0, ctx.BindingCount())

	ctx.SetLayoutTranslator(func(layout *renderer.BindingLayout) (interface{}, error) {
		return layout.Slots(), nil
	})
	binding, err := ctx.Binding(program, []*metadata.VertexBuffer{vertices}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, binding.InternalData)
}
