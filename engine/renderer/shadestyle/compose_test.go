package shadestyle

import (
	"testing"

	"github.com/spaghettifunk/anima-hal/engine/math"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlusIsolatesTransforms(t *testing.T) {
	a := New()
	a.SetFragmentTransform("vec3 c = vec3(1.0); x_fill.rgb = c;")
	b := New()
	b.SetFragmentTransform("vec3 c = vec3(0.5); x_fill.rgb *= c;")

	c := a.Plus(b)
	src, ok := c.FragmentTransform()
	require.True(t, ok)
	assert.Equal(t, "{vec3 c = vec3(1.0); x_fill.rgb = c;}\n{vec3 c = vec3(0.5); x_fill.rgb *= c;}", src)

	_, ok = c.VertexTransform()
	assert.False(t, ok)
}

func TestPlusKeepsSingleTransform(t *testing.T) {
	a := New()
	a.SetVertexTransform("x_position.x += 1.0;")
	c := a.Plus(New())
	src, ok := c.VertexTransform()
	require.True(t, ok)
	assert.Equal(t, "x_position.x += 1.0;", src)

	c = New().Plus(a)
	src, _ = c.VertexTransform()
	assert.Equal(t, "x_position.x += 1.0;", src)
}

func TestIsolate(t *testing.T) {
	assert.Equal(t, "{a;}", isolate("a;"))
	assert.Equal(t, "{a;}", isolate("{a;}"))
	assert.Equal(t, "{{a;} {b;}}", isolate("{a;} {b;}"))
	assert.Equal(t, "{{a; {b;}}}", isolate("{{a; {b;}}}"))
	assert.Equal(t, "{}", isolate(""))
}

func TestPlusJoinsPreambles(t *testing.T) {
	a := New()
	a.SetFragmentPreamble("float f() { return 1.0; }")
	b := New()
	b.SetVertexPreamble("float g() { return 2.0; }")

	c := a.Plus(b)
	fp, ok := c.FragmentPreamble()
	require.True(t, ok)
	assert.Equal(t, "float f() { return 1.0; }\n", fp)
	vp, ok := c.VertexPreamble()
	require.True(t, ok)
	assert.Equal(t, "\nfloat g() { return 2.0; }", vp)
}

func TestPlusMergesWithOtherWinning(t *testing.T) {
	a := New()
	require.NoError(t, a.Parameter("radius", 1.0))
	require.NoError(t, a.Parameter("color", math.ColorBlack))
	a.Output("normal", metadata.NewShadeStyleOutput(1))
	vbA := metadata.NewVertexBuffer(metadata.NewVertexFormat().Attribute("offset", metadata.VertexElementVector2Float32, 1), 4)
	require.NoError(t, a.Attributes(vbA))

	b := New()
	require.NoError(t, b.Parameter("radius", math.Vector2{X: 2, Y: 2}))
	b.Output("normal", metadata.NewShadeStyleOutput(2))
	b.Output("depth", metadata.NewShadeStyleOutput(3))
	vbB := metadata.NewVertexBuffer(metadata.NewVertexFormat().Attribute("scale", metadata.VertexElementFloat32, 1), 4)
	require.NoError(t, b.Attributes(vbB))

	c := a.Plus(b)
	assert.Equal(t, map[string]string{"radius": TagVector2, "color": TagColorRGBa}, c.Parameters())
	v, _ := c.ParameterValue("radius")
	assert.Equal(t, math.Vector2{X: 2, Y: 2}, v.Interface())
	outputs := c.Outputs()
	assert.Equal(t, 2, outputs["normal"].Attachment)
	assert.Equal(t, 3, outputs["depth"].Attachment)
	assert.Equal(t, []*metadata.VertexBuffer{vbA, vbB}, c.AttributeBuffers())

	// operands are untouched
	assert.Equal(t, map[string]string{"radius": TagFloat, "color": TagColorRGBa}, a.Parameters())
	assert.Len(t, a.AttributeBuffers(), 1)
}

func TestPlusDropsGeometryBuffersAndSuppression(t *testing.T) {
	a := New()
	a.SetGeometryTransform("emit();")
	a.SetGeometryPreamble("layout(points) in;")
	a.SetSuppressDefaultOutput(true)
	require.NoError(t, a.Buffer("counters", metadata.NewAtomicCounterBuffer(1)))

	c := a.Plus(New())
	_, ok := c.GeometryTransform()
	assert.False(t, ok)
	_, ok = c.GeometryPreamble()
	assert.False(t, ok)
	assert.False(t, c.SuppressDefaultOutput())
	assert.Empty(t, c.Buffers())
	assert.True(t, c.Dirty())
}

func TestPlusNil(t *testing.T) {
	a := New()
	require.NoError(t, a.Parameter("radius", 1.0))
	c := a.Plus(nil)
	assert.Equal(t, a.Parameters(), c.Parameters())
}

func TestCompose(t *testing.T) {
	assert.NotNil(t, Compose())
	assert.True(t, Compose(nil, nil).Dirty())

	a := New()
	a.SetFragmentTransform("a;")
	a.SetSuppressDefaultOutput(true)
	single := Compose(nil, a)
	assert.NotSame(t, a, single)
	assert.True(t, single.SuppressDefaultOutput(), "a single style is cloned, not merged")

	b := New()
	b.SetFragmentTransform("b;")
	d := New()
	d.SetFragmentTransform("d;")
	src, _ := Compose(a, nil, b, d).FragmentTransform()
	assert.Equal(t, "{{a;}\n{b;}}\n{d;}", src)
}
