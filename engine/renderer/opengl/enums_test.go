package opengl

import (
	"testing"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionAtLeast(t *testing.T) {
	v := Version{Major: 4, Minor: 1}
	assert.True(t, v.AtLeast(3, 3))
	assert.True(t, v.AtLeast(4, 1))
	assert.False(t, v.AtLeast(4, 3))
	assert.Equal(t, "4.1", v.String())
}

func TestRequireGatesFeatures(t *testing.T) {
	b := &Backend{version: Version{Major: 4, Minor: 1}}
	assert.ErrorIs(t, b.require(4, 3, "shader storage buffers"), core.ErrUnsupportedFeature)
	assert.NoError(t, b.require(3, 3, "vertex arrays"))

	b.shutdown = true
	assert.ErrorIs(t, b.alive(), core.ErrContextDestroyed)
}

func TestComponentAndIndexTypes(t *testing.T) {
	assert.Equal(t, uint32(gl.UNSIGNED_BYTE), componentType(metadata.ComponentUint8))
	assert.Equal(t, uint32(gl.SHORT), componentType(metadata.ComponentInt16))
	assert.Equal(t, uint32(gl.INT), componentType(metadata.ComponentInt32))
	assert.Equal(t, uint32(gl.FLOAT), componentType(metadata.ComponentFloat32))

	assert.Equal(t, uint32(gl.UNSIGNED_SHORT), indexType(metadata.IndexTypeUint16))
	assert.Equal(t, uint32(gl.UNSIGNED_INT), indexType(metadata.IndexTypeUint32))
}

func TestPrimitives(t *testing.T) {
	assert.Equal(t, uint32(gl.TRIANGLES), primitive(metadata.DrawPrimitiveTriangles))
	assert.Equal(t, uint32(gl.TRIANGLE_FAN), primitive(metadata.DrawPrimitiveTriangleFan))
	assert.Equal(t, uint32(gl.LINE_LOOP), primitive(metadata.DrawPrimitiveLineLoop))
	assert.Equal(t, uint32(gl.POINTS), primitive(metadata.DrawPrimitivePoints))
}

func TestBlendModes(t *testing.T) {
	over := blend(metadata.BlendModeOver)
	assert.True(t, over.enabled)
	assert.Equal(t, uint32(gl.ONE), over.srcRGB)
	assert.Equal(t, uint32(gl.ONE_MINUS_SRC_ALPHA), over.dstRGB)

	subtract := blend(metadata.BlendModeSubtract)
	assert.Equal(t, uint32(gl.FUNC_REVERSE_SUBTRACT), subtract.equationRGB)
	assert.Equal(t, uint32(gl.FUNC_ADD), subtract.equationAlpha)

	assert.False(t, blend(metadata.BlendModeReplace).enabled)
}

func TestDepthAndCull(t *testing.T) {
	assert.Equal(t, uint32(gl.ALWAYS), depthFunc(metadata.DepthTestAlways))
	assert.Equal(t, uint32(gl.LEQUAL), depthFunc(metadata.DepthTestLessOrEqual))

	_, ok := cullFace(metadata.FaceCullModeNone)
	assert.False(t, ok)
	face, ok := cullFace(metadata.FaceCullModeBack)
	assert.True(t, ok)
	assert.Equal(t, uint32(gl.BACK), face)
}

func TestInternalFormat(t *testing.T) {
	format, err := internalFormat(metadata.ColorFormatRGBa, metadata.ColorTypeFloat32, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.RGBA32F), format)

	format, err = internalFormat(metadata.ColorFormatR, metadata.ColorTypeUint8Int, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.R8UI), format)

	format, err = internalFormat(metadata.ColorFormatSRGBa, metadata.ColorTypeUint8, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.SRGB8_ALPHA8), format)

	_, err = internalFormat(metadata.ColorFormatRGB, metadata.ColorTypeFloat16, true)
	assert.ErrorIs(t, err, core.ErrUnsupportedImageBinding)
	_, err = internalFormat(metadata.ColorFormatSRGBa, metadata.ColorTypeUint8, true)
	assert.ErrorIs(t, err, core.ErrUnsupportedImageBinding)
}

func TestTextureTargets(t *testing.T) {
	assert.Equal(t, uint32(gl.TEXTURE_2D), textureTarget(metadata.TextureKindColorBuffer))
	assert.Equal(t, uint32(gl.TEXTURE_2D), textureTarget(metadata.TextureKindDepthBuffer))
	assert.Equal(t, uint32(gl.TEXTURE_CUBE_MAP_ARRAY), textureTarget(metadata.TextureKindArrayCubemap))
	assert.Equal(t, uint32(gl.READ_ONLY), imageAccess(metadata.ImageAccessRead))
}

func TestScissorFlipsY(t *testing.T) {
	x, y, w, h := scissor(metadata.Rectangle{X: 10, Y: 20, Width: 100, Height: 50}, 600)
	assert.Equal(t, []int32{10, 530, 100, 50}, []int32{x, y, w, h})
}
