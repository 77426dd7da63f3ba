package shadestyle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// Type tags. Arrays are "<element>,<count>", images are
// "<kind>,<format>,<type>,<access>" and sampled textures take a _UINT or
// _SINT suffix for integer channel data.
const (
	TagBoolean    = "boolean"
	TagInt        = "int"
	TagFloat      = "float"
	TagVector2    = "Vector2"
	TagVector3    = "Vector3"
	TagVector4    = "Vector4"
	TagIntVector2 = "IntVector2"
	TagIntVector3 = "IntVector3"
	TagIntVector4 = "IntVector4"
	TagMatrix33   = "Matrix33"
	TagMatrix44   = "Matrix44"
	TagColorRGBa  = "ColorRGBa"

	TagColorBuffer   = "ColorBuffer"
	TagDepthBuffer   = "DepthBuffer"
	TagCubemap       = "Cubemap"
	TagArrayTexture  = "ArrayTexture"
	TagArrayCubemap  = "ArrayCubemap"
	TagVolumeTexture = "VolumeTexture"
	TagBufferTexture = "BufferTexture"

	TagImage2D        = "Image2D"
	TagImage2DArray   = "Image2DArray"
	TagImageCube      = "ImageCube"
	TagImageCubeArray = "ImageCubeArray"
	TagImage3D        = "Image3D"
	TagImageBuffer    = "ImageBuffer"

	SuffixUnsigned = "_UINT"
	SuffixSigned   = "_SINT"
)

func samplingSuffix(t metadata.ColorType) string {
	switch t.Sampling() {
	case metadata.ColorSamplingUnsignedInteger:
		return SuffixUnsigned
	case metadata.ColorSamplingSignedInteger:
		return SuffixSigned
	}
	return ""
}

// textureValue reports ok when value is one of the sampled texture kinds.
func textureValue(value interface{}) (Value, bool, error) {
	var (
		tex   metadata.Texture
		base  string
		isNil bool
	)
	switch x := value.(type) {
	case *metadata.ColorBuffer:
		tex, base, isNil = x, TagColorBuffer, x == nil
	case *metadata.DepthBuffer:
		if x == nil {
			return Value{}, true, fmt.Errorf("%w: *metadata.DepthBuffer", core.ErrNilResource)
		}
		return Value{kind: KindTexture, tag: TagDepthBuffer, raw: x, data: metadata.Texture(x)}, true, nil
	case *metadata.Cubemap:
		tex, base, isNil = x, TagCubemap, x == nil
	case *metadata.ArrayTexture:
		tex, base, isNil = x, TagArrayTexture, x == nil
	case *metadata.ArrayCubemap:
		tex, base, isNil = x, TagArrayCubemap, x == nil
	case *metadata.VolumeTexture:
		tex, base, isNil = x, TagVolumeTexture, x == nil
	case *metadata.BufferTexture:
		tex, base, isNil = x, TagBufferTexture, x == nil
	default:
		return Value{}, false, nil
	}
	if isNil {
		return Value{}, true, fmt.Errorf("%w: %T", core.ErrNilResource, value)
	}
	tag := base + samplingSuffix(tex.Info().Type)
	return Value{kind: KindTexture, tag: tag, raw: value, data: tex}, true, nil
}

func imageTag(binding metadata.ImageBinding) (string, error) {
	var (
		kind string
		info *metadata.TextureInfo
	)
	switch b := binding.(type) {
	case metadata.ColorBufferImageBinding:
		kind = TagImage2D
		if b.ColorBuffer != nil {
			info = b.ColorBuffer.Info()
		}
	case metadata.ArrayTextureImageBinding:
		kind = TagImage2DArray
		if b.ArrayTexture != nil {
			info = b.ArrayTexture.Info()
		}
	case metadata.CubemapImageBinding:
		kind = TagImageCube
		if b.Cubemap != nil {
			info = b.Cubemap.Info()
		}
	case metadata.ArrayCubemapImageBinding:
		kind = TagImageCubeArray
		if b.ArrayCubemap != nil {
			info = b.ArrayCubemap.Info()
		}
	case metadata.VolumeTextureImageBinding:
		kind = TagImage3D
		if b.VolumeTexture != nil {
			info = b.VolumeTexture.Info()
		}
	case metadata.BufferTextureImageBinding:
		kind = TagImageBuffer
		if b.BufferTexture != nil {
			info = b.BufferTexture.Info()
		}
	default:
		return "", fmt.Errorf("%w: %T", core.ErrUnsupportedImageBinding, binding)
	}
	if info == nil {
		return "", fmt.Errorf("%w: %s binding without texture", core.ErrNilResource, kind)
	}
	return strings.Join([]string{kind, info.Format.String(), info.Type.String(), binding.ImageAccess().String()}, ","), nil
}

// TypeTag is a parsed type tag.
type TypeTag struct {
	// Base is the tag without sampling suffix and array count.
	Base     string
	Sampling metadata.ColorSampling
	// ArrayCount is zero for non-array tags.
	ArrayCount int
	// Image fields are set for image tags only.
	ImageFormat string
	ImageType   string
	ImageAccess string
}

func (t TypeTag) IsArray() bool { return t.ArrayCount > 0 }
func (t TypeTag) IsImage() bool { return t.ImageFormat != "" }

func (t TypeTag) IsTexture() bool {
	switch t.Base {
	case TagColorBuffer, TagDepthBuffer, TagCubemap, TagArrayTexture, TagArrayCubemap, TagVolumeTexture, TagBufferTexture:
		return true
	}
	return false
}

// ParseTypeTag splits a tag produced by ValueOf. Array tags written with a
// space after the comma are accepted as well.
func ParseTypeTag(tag string) (TypeTag, error) {
	parts := strings.Split(tag, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 1:
		return parseBase(parts[0])
	case 2:
		t, err := parseBase(parts[0])
		if err != nil {
			return TypeTag{}, err
		}
		if t.IsTexture() {
			return TypeTag{}, fmt.Errorf("%w: texture arrays are not supported `%s`", core.ErrUnsupportedType, tag)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			return TypeTag{}, fmt.Errorf("%w: invalid array count in `%s`", core.ErrUnsupportedType, tag)
		}
		t.ArrayCount = n
		return t, nil
	case 4:
		switch parts[0] {
		case TagImage2D, TagImage2DArray, TagImageCube, TagImageCubeArray, TagImage3D, TagImageBuffer:
		default:
			return TypeTag{}, fmt.Errorf("%w: `%s`", core.ErrUnsupportedImageBinding, tag)
		}
		return TypeTag{Base: parts[0], ImageFormat: parts[1], ImageType: parts[2], ImageAccess: parts[3]}, nil
	}
	return TypeTag{}, fmt.Errorf("%w: malformed tag `%s`", core.ErrUnsupportedType, tag)
}

func parseBase(s string) (TypeTag, error) {
	t := TypeTag{Base: s, Sampling: metadata.ColorSamplingNormalized}
	if b, ok := strings.CutSuffix(s, SuffixUnsigned); ok {
		t.Base, t.Sampling = b, metadata.ColorSamplingUnsignedInteger
	} else if b, ok := strings.CutSuffix(s, SuffixSigned); ok {
		t.Base, t.Sampling = b, metadata.ColorSamplingSignedInteger
	}
	if t.Sampling != metadata.ColorSamplingNormalized && (!t.IsTexture() || t.Base == TagDepthBuffer) {
		return TypeTag{}, fmt.Errorf("%w: `%s`", core.ErrUnsupportedType, s)
	}
	switch t.Base {
	case TagBoolean, TagInt, TagFloat, TagVector2, TagVector3, TagVector4,
		TagIntVector2, TagIntVector3, TagIntVector4, TagMatrix33, TagMatrix44, TagColorRGBa:
		return t, nil
	}
	if t.IsTexture() {
		return t, nil
	}
	return TypeTag{}, fmt.Errorf("%w: `%s`", core.ErrUnsupportedType, s)
}
