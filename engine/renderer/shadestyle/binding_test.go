package shadestyle

import (
	"testing"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/math"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingRoundTrip(t *testing.T) {
	s := New()
	radius := NewBinding[float64](s, "radius")
	assert.Equal(t, "radius", radius.Name())

	_, err := radius.Get()
	assert.ErrorIs(t, err, core.ErrParameterNotFound)

	require.NoError(t, radius.Set(5))
	r, err := radius.Get()
	require.NoError(t, err)
	assert.Equal(t, 5.0, r)
	tag, _ := s.ParameterType("radius")
	assert.Equal(t, TagFloat, tag)
}

func TestGetConvertsScalars(t *testing.T) {
	s := New()
	require.NoError(t, s.Parameter("count", 3))
	require.NoError(t, s.Parameter("scale", 0.5))

	c32, err := Get[int32](s, "count")
	require.NoError(t, err)
	assert.Equal(t, int32(3), c32)

	f32, err := Get[float32](s, "scale")
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), f32)

	_, err = Get[float64](s, "count")
	assert.ErrorIs(t, err, core.ErrParameterType)
}

func TestGetStructuredValues(t *testing.T) {
	s := New()
	require.NoError(t, s.Parameter("position", polar{1, 2}))
	require.NoError(t, s.Parameter("weights", []float32{1, 2}))
	cb := metadata.NewColorBuffer(2, 2, metadata.ColorFormatRGBa, metadata.ColorTypeUint8)
	require.NoError(t, s.Parameter("image", cb))

	p, err := Get[polar](s, "position")
	require.NoError(t, err)
	assert.Equal(t, polar{1, 2}, p)

	v, err := Get[math.Vector4](s, "position")
	require.NoError(t, err)
	assert.Equal(t, math.Vector4{X: 1, Y: 2, W: 1}, v)

	w, err := Get[[]float32](s, "weights")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, w)

	tex, err := Get[metadata.Texture](s, "image")
	require.NoError(t, err)
	assert.Same(t, cb, tex)

	_, err = Get[math.Matrix44](s, "weights")
	assert.ErrorIs(t, err, core.ErrParameterType)
}

func TestBindingSetRejectsUnsupported(t *testing.T) {
	s := New()
	names := NewBinding[string](s, "names")
	assert.ErrorIs(t, names.Set("x"), core.ErrUnsupportedType)
	_, ok := s.ParameterValue("names")
	assert.False(t, ok)
}
