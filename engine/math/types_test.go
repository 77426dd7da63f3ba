package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix44MulIdentity(t *testing.T) {
	m := NewMatrix44Translation(NewVector3(1, 2, 3))
	assert.Equal(t, m, m.Mul(NewMatrix44Identity()))
	assert.Equal(t, m, NewMatrix44Identity().Mul(m))
}

func TestMatrix44Translation(t *testing.T) {
	m := NewMatrix44Translation(NewVector3(1, 2, 3)).Mul(NewMatrix44Scale(NewVector3(2, 2, 2)))
	assert.Equal(t, 2.0, m.At(0, 0))
	assert.Equal(t, 1.0, m.At(3, 0))
	assert.Equal(t, 3.0, m.At(3, 2))
	assert.Equal(t, m, m.Transposed().Transposed())
}

func TestMatrix33(t *testing.T) {
	m := NewMatrix33FromColumns(NewVector3(1, 2, 3), NewVector3(4, 5, 6), NewVector3(7, 8, 9))
	assert.Equal(t, NewVector3(4, 5, 6), m.Column(1))
	assert.Equal(t, 4.0, m.At(1, 0))
	assert.Equal(t, 15.0, m.Trace())
	assert.Equal(t, 2.0, m.Transposed().At(1, 0))
	assert.Equal(t, m, m.Mul(NewMatrix33Identity()))

	m44 := m.Matrix44()
	assert.Equal(t, 8.0, m44.At(2, 1))
	assert.Equal(t, 1.0, m44.At(3, 3))
}

func TestToF32KeepsColumnOrder(t *testing.T) {
	m := NewMatrix44Translation(NewVector3(5, 6, 7))
	f := m.ToF32()
	assert.Equal(t, float32(5), f[12])
	assert.Equal(t, float32(7), f[14])
	assert.Equal(t, [4]float32{1, 0.5, 0.25, 1}, [4]float32(NewColorRGBa(1, 0.5, 0.25, 1).ToF32()))
}

func TestColorConversions(t *testing.T) {
	c := NewColorRGBa(0.5, 0.0, 1.0, 0.3)
	back := c.ToLinear().ToSRGB()
	assert.InDelta(t, c.R, back.R, 1e-4)
	assert.InDelta(t, c.G, back.G, 1e-4)
	assert.InDelta(t, c.B, back.B, 1e-4)
	assert.Equal(t, c.A, back.A)
	assert.Less(t, c.ToLinear().R, c.R)

	assert.Equal(t, 1.0, c.Opacify(4).A)
	assert.Equal(t, Vector4{0.5, 0, 1, 0.3}, c.Vector4())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 3, Clamp(7, 0, 3))
	assert.Equal(t, -1.0, Clamp(-4.0, -1.0, 1.0))
	assert.Equal(t, "b", Clamp("b", "a", "c"))
}

func TestSaturated(t *testing.T) {
	c := NewColorRGBa(1.5, -0.25, 0.5, 2).Saturated()
	assert.Equal(t, NewColorRGBa(1, 0, 0.5, 1), c)
}
