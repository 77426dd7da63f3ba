package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

func componentType(c metadata.ComponentType) uint32 {
	switch c {
	case metadata.ComponentUint8:
		return gl.UNSIGNED_BYTE
	case metadata.ComponentInt8:
		return gl.BYTE
	case metadata.ComponentUint16:
		return gl.UNSIGNED_SHORT
	case metadata.ComponentInt16:
		return gl.SHORT
	case metadata.ComponentUint32:
		return gl.UNSIGNED_INT
	case metadata.ComponentInt32:
		return gl.INT
	}
	return gl.FLOAT
}

func primitive(p metadata.DrawPrimitive) uint32 {
	switch p {
	case metadata.DrawPrimitiveTriangleStrip:
		return gl.TRIANGLE_STRIP
	case metadata.DrawPrimitiveTriangleFan:
		return gl.TRIANGLE_FAN
	case metadata.DrawPrimitivePoints:
		return gl.POINTS
	case metadata.DrawPrimitiveLines:
		return gl.LINES
	case metadata.DrawPrimitiveLineStrip:
		return gl.LINE_STRIP
	case metadata.DrawPrimitiveLineLoop:
		return gl.LINE_LOOP
	}
	return gl.TRIANGLES
}

func indexType(t metadata.IndexType) uint32 {
	if t == metadata.IndexTypeUint16 {
		return gl.UNSIGNED_SHORT
	}
	return gl.UNSIGNED_INT
}

func depthFunc(pass metadata.DepthTestPass) uint32 {
	switch pass {
	case metadata.DepthTestLess:
		return gl.LESS
	case metadata.DepthTestLessOrEqual:
		return gl.LEQUAL
	case metadata.DepthTestEqual:
		return gl.EQUAL
	case metadata.DepthTestGreaterOrEqual:
		return gl.GEQUAL
	case metadata.DepthTestGreater:
		return gl.GREATER
	case metadata.DepthTestNever:
		return gl.NEVER
	}
	return gl.ALWAYS
}

// cullFace returns false when culling is disabled.
func cullFace(mode metadata.FaceCullMode) (uint32, bool) {
	switch mode {
	case metadata.FaceCullModeFront:
		return gl.FRONT, true
	case metadata.FaceCullModeBack:
		return gl.BACK, true
	case metadata.FaceCullModeFrontAndBack:
		return gl.FRONT_AND_BACK, true
	}
	return 0, false
}

// blendSetup is the blend equation and factors of a blend mode, colors are
// premultiplied.
type blendSetup struct {
	enabled            bool
	equationRGB        uint32
	equationAlpha      uint32
	srcRGB, dstRGB     uint32
	srcAlpha, dstAlpha uint32
}

func blend(mode metadata.BlendMode) blendSetup {
	same := func(src, dst uint32) blendSetup {
		return blendSetup{
			enabled:       true,
			equationRGB:   gl.FUNC_ADD,
			equationAlpha: gl.FUNC_ADD,
			srcRGB:        src,
			dstRGB:        dst,
			srcAlpha:      src,
			dstAlpha:      dst,
		}
	}
	switch mode {
	case metadata.BlendModeBlend:
		return same(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case metadata.BlendModeAdd:
		return same(gl.ONE, gl.ONE)
	case metadata.BlendModeSubtract:
		return blendSetup{
			enabled:       true,
			equationRGB:   gl.FUNC_REVERSE_SUBTRACT,
			equationAlpha: gl.FUNC_ADD,
			srcRGB:        gl.SRC_ALPHA,
			dstRGB:        gl.ONE,
			srcAlpha:      gl.ONE,
			dstAlpha:      gl.ONE,
		}
	case metadata.BlendModeMultiply:
		return same(gl.DST_COLOR, gl.ONE_MINUS_SRC_ALPHA)
	case metadata.BlendModeReplace:
		return blendSetup{}
	}
	return same(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
}

func textureTarget(kind metadata.TextureKind) uint32 {
	switch kind {
	case metadata.TextureKindCubemap:
		return gl.TEXTURE_CUBE_MAP
	case metadata.TextureKindArrayTexture:
		return gl.TEXTURE_2D_ARRAY
	case metadata.TextureKindArrayCubemap:
		return gl.TEXTURE_CUBE_MAP_ARRAY
	case metadata.TextureKindVolumeTexture:
		return gl.TEXTURE_3D
	case metadata.TextureKindBufferTexture:
		return gl.TEXTURE_BUFFER
	}
	return gl.TEXTURE_2D
}

func imageAccess(access metadata.ImageAccess) uint32 {
	switch access {
	case metadata.ImageAccessRead:
		return gl.READ_ONLY
	case metadata.ImageAccessWrite:
		return gl.WRITE_ONLY
	}
	return gl.READ_WRITE
}

var internalFormats = map[metadata.ColorType][4]uint32{
	metadata.ColorTypeUint8:     {gl.R8, gl.RG8, gl.RGB8, gl.RGBA8},
	metadata.ColorTypeUint8Int:  {gl.R8UI, gl.RG8UI, gl.RGB8UI, gl.RGBA8UI},
	metadata.ColorTypeSint8Int:  {gl.R8I, gl.RG8I, gl.RGB8I, gl.RGBA8I},
	metadata.ColorTypeUint16:    {gl.R16, gl.RG16, gl.RGB16, gl.RGBA16},
	metadata.ColorTypeUint16Int: {gl.R16UI, gl.RG16UI, gl.RGB16UI, gl.RGBA16UI},
	metadata.ColorTypeSint16Int: {gl.R16I, gl.RG16I, gl.RGB16I, gl.RGBA16I},
	metadata.ColorTypeUint32Int: {gl.R32UI, gl.RG32UI, gl.RGB32UI, gl.RGBA32UI},
	metadata.ColorTypeSint32Int: {gl.R32I, gl.RG32I, gl.RGB32I, gl.RGBA32I},
	metadata.ColorTypeFloat16:   {gl.R16F, gl.RG16F, gl.RGB16F, gl.RGBA16F},
	metadata.ColorTypeFloat32:   {gl.R32F, gl.RG32F, gl.RGB32F, gl.RGBA32F},
}

// internalFormat returns the sized format of a texture. Image units only
// accept one, two and four channel formats.
func internalFormat(format metadata.ColorFormat, colorType metadata.ColorType, image bool) (uint32, error) {
	formats, ok := internalFormats[colorType]
	if !ok {
		return 0, fmt.Errorf("%w: color type %s", core.ErrUnsupportedImageBinding, colorType)
	}
	switch format {
	case metadata.ColorFormatSRGB, metadata.ColorFormatSRGBa:
		if image || colorType != metadata.ColorTypeUint8 {
			return 0, fmt.Errorf("%w: %s %s", core.ErrUnsupportedImageBinding, format, colorType)
		}
		if format == metadata.ColorFormatSRGB {
			return gl.SRGB8, nil
		}
		return gl.SRGB8_ALPHA8, nil
	}
	channels := format.ComponentCount()
	if image && channels == 3 {
		return 0, fmt.Errorf("%w: three channel images (%s %s)", core.ErrUnsupportedImageBinding, format, colorType)
	}
	return formats[channels-1], nil
}
