package systems

import (
	"testing"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/math"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/nullgl"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShadeStyleSystem(t *testing.T) (*ShadeStyleSystem, *nullgl.Backend) {
	t.Helper()
	backend := nullgl.New(1)
	ctx, err := renderer.NewRenderContext(backend, core.DefaultMaxVertexAttributes)
	require.NoError(t, err)
	ss, err := NewShadeStyleSystem(&ShadeStyleSystemConfig{GLSLVersion: "330 core", MaxPrograms: 8}, ctx)
	require.NoError(t, err)
	return ss, backend
}

func positions() []*metadata.VertexFormat {
	return []*metadata.VertexFormat{metadata.NewVertexFormat().Position(3)}
}

func TestNewShadeStyleSystemErrors(t *testing.T) {
	ctx, err := renderer.NewRenderContext(nullgl.New(1), 16)
	require.NoError(t, err)

	_, err = NewShadeStyleSystem(nil, ctx)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	_, err = NewShadeStyleSystem(&ShadeStyleSystemConfig{MaxPrograms: 1}, nil)
	assert.ErrorIs(t, err, core.ErrNilResource)
	_, err = NewShadeStyleSystem(&ShadeStyleSystemConfig{}, ctx)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestDefaultProgramIsCached(t *testing.T) {
	ss, backend := newShadeStyleSystem(t)

	first, err := ss.Program(nil, positions(), nil)
	require.NoError(t, err)
	second, err := ss.Program(nil, positions(), nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, backend.Programs())
	assert.Contains(t, first.Sources.Vertex, "in vec3 a_position;")

	snapshot := ss.context.Metrics().Snapshot()
	assert.Equal(t, uint64(1), snapshot.ProgramHits)
	assert.Equal(t, uint64(1), snapshot.ProgramMisses)
}

func TestCleanStyleReusesProgram(t *testing.T) {
	ss, backend := newShadeStyleSystem(t)
	style := shadestyle.New()
	require.NoError(t, style.Parameter("radius", 5.0))
	style.SetFragmentTransform("x_fill.a *= p_radius;")

	program, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)
	assert.False(t, style.Dirty())
	assert.Contains(t, program.Sources.Fragment, "uniform float p_radius;")

	// same tag, value updates do not need a new program
	require.NoError(t, style.Parameter("radius", 5.0))
	require.NoError(t, style.Parameter("radius", 7.5))
	assert.False(t, style.Dirty())

	again, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)
	assert.Same(t, program, again)
	assert.Equal(t, 1, backend.Programs())
}

func TestDirtyStyleRegenerates(t *testing.T) {
	ss, _ := newShadeStyleSystem(t)
	style := shadestyle.New()
	require.NoError(t, style.Parameter("radius", 5.0))

	first, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)

	require.NoError(t, style.Parameter("radius", math.NewVector3(1, 2, 3)))
	assert.True(t, style.Dirty())

	second, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Contains(t, second.Sources.Fragment, "uniform vec3 p_radius;")
	assert.False(t, style.Dirty())
	assert.Equal(t, 2, ss.ProgramCount())
}

func TestRegenerationFailureKeepsStyleDirty(t *testing.T) {
	ss, _ := newShadeStyleSystem(t)
	style := shadestyle.New()
	style.SetFragmentTransform("#error broken")

	_, err := ss.Program(style, positions(), nil)
	assert.ErrorIs(t, err, core.ErrProgramGeneration)
	assert.True(t, style.Dirty())

	// every draw retries until the source is fixed
	_, err = ss.Program(style, positions(), nil)
	assert.ErrorIs(t, err, core.ErrProgramGeneration)

	style.SetFragmentTransform("x_fill.rgb = vec3(1.0);")
	program, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)
	assert.NotNil(t, program)
	assert.False(t, style.Dirty())

	snapshot := ss.context.Metrics().Snapshot()
	assert.Equal(t, uint64(2), snapshot.RegenerationFailures)
	assert.Equal(t, uint64(1), snapshot.Regenerations)
}

func TestGeneratorErrorsAreProgramErrors(t *testing.T) {
	ss, _ := newShadeStyleSystem(t)
	style := shadestyle.New()
	style.Output("color", metadata.ShadeStyleOutput{Attachment: 0, Format: metadata.ColorFormatRGBa, Type: metadata.ColorTypeFloat32})

	// o_color collides with the default output
	_, err := ss.Program(style, positions(), nil)
	assert.ErrorIs(t, err, core.ErrProgramGeneration)
	assert.True(t, style.Dirty())
}

func TestIdenticalStylesShareProgram(t *testing.T) {
	ss, backend := newShadeStyleSystem(t)
	a := shadestyle.New()
	a.SetFragmentTransform("x_fill.rgb = vec3(1.0);")
	b := a.Clone()

	pa, err := ss.Program(a, positions(), nil)
	require.NoError(t, err)
	pb, err := ss.Program(b, positions(), nil)
	require.NoError(t, err)

	assert.Same(t, pa, pb)
	assert.Equal(t, 1, backend.Programs())
	assert.False(t, b.Dirty())
}

func TestProgramPerFormatShape(t *testing.T) {
	ss, _ := newShadeStyleSystem(t)
	style := shadestyle.New()

	flat, err := ss.Program(style, []*metadata.VertexFormat{metadata.NewVertexFormat().Position(2)}, nil)
	require.NoError(t, err)
	solid, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)

	assert.NotSame(t, flat, solid)
	assert.Contains(t, flat.Sources.Vertex, "in vec2 a_position;")
	assert.Contains(t, solid.Sources.Vertex, "in vec3 a_position;")

	again, err := ss.Program(style, []*metadata.VertexFormat{metadata.NewVertexFormat().Position(2)}, nil)
	require.NoError(t, err)
	assert.Same(t, flat, again)
}

func TestStyleAttributesAreInstanceInputs(t *testing.T) {
	ss, _ := newShadeStyleSystem(t)
	offsets := metadata.NewVertexBuffer(metadata.NewVertexFormat().Attribute("offset", metadata.VertexElementVector2Float32, 1), 4)
	style := shadestyle.New()
	require.NoError(t, style.Attributes(offsets))
	style.SetVertexTransform("x_position.xy += i_offset;")

	program, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)
	assert.Contains(t, program.Sources.Vertex, "in vec2 i_offset;")
	assert.Len(t, InstanceFormats(style, nil), 1)
	assert.Nil(t, InstanceFormats(nil, nil))
}

func TestProgramNilFormat(t *testing.T) {
	ss, _ := newShadeStyleSystem(t)
	_, err := ss.Program(nil, []*metadata.VertexFormat{nil}, nil)
	assert.ErrorIs(t, err, core.ErrNilResource)
}

func TestShutdownDestroysPrograms(t *testing.T) {
	ss, backend := newShadeStyleSystem(t)
	style := shadestyle.New()
	_, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)
	_, err = ss.Program(nil, []*metadata.VertexFormat{metadata.NewVertexFormat().Position(2)}, nil)
	require.NoError(t, err)

	require.NoError(t, ss.Shutdown())
	assert.Equal(t, 0, backend.Programs())
	assert.Len(t, backend.DestroyedPrograms(), 2)
	assert.Equal(t, 0, ss.ProgramCount())
}

func TestProgramAfterContextDestroyed(t *testing.T) {
	ss, _ := newShadeStyleSystem(t)
	require.NoError(t, ss.context.Destroy())
	_, err := ss.Program(nil, positions(), nil)
	assert.ErrorIs(t, err, core.ErrContextDestroyed)
}

func TestForget(t *testing.T) {
	ss, backend := newShadeStyleSystem(t)
	style := shadestyle.New()
	first, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)

	ss.Forget(style)
	second, err := ss.Program(style, positions(), nil)
	require.NoError(t, err)

	// the program is found again by its source
	assert.Same(t, first, second)
	assert.Equal(t, 1, backend.Programs())
}

func TestProgramsAreKeyedBySourceText(t *testing.T) {
	ss, backend := newShadeStyleSystem(t)
	a := metadata.ProgramSources{Vertex: "in vec3 a_position;\nvoid main() {}", Fragment: "void main() {}"}
	b := metadata.ProgramSources{Vertex: "in vec3 a_position;\nvoid main() { }", Fragment: "void main() {}"}

	first, err := ss.link(a, "shape")
	require.NoError(t, err)
	again, err := ss.link(metadata.ProgramSources{Vertex: a.Vertex, Fragment: a.Fragment}, "shape")
	require.NoError(t, err)
	assert.Same(t, first, again)

	// one changed character is a different program
	other, err := ss.link(b, "shape")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, b, other.Sources)
	assert.Equal(t, 2, backend.Programs())
}
