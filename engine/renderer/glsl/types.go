package glsl

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

var valueTypes = map[string]string{
	shadestyle.TagBoolean:    "bool",
	shadestyle.TagInt:        "int",
	shadestyle.TagFloat:      "float",
	shadestyle.TagVector2:    "vec2",
	shadestyle.TagVector3:    "vec3",
	shadestyle.TagVector4:    "vec4",
	shadestyle.TagIntVector2: "ivec2",
	shadestyle.TagIntVector3: "ivec3",
	shadestyle.TagIntVector4: "ivec4",
	shadestyle.TagMatrix33:   "mat3",
	shadestyle.TagMatrix44:   "mat4",
	shadestyle.TagColorRGBa:  "vec4",
}

var samplerTypes = map[string]string{
	shadestyle.TagColorBuffer:   "sampler2D",
	shadestyle.TagDepthBuffer:   "sampler2D",
	shadestyle.TagCubemap:       "samplerCube",
	shadestyle.TagArrayTexture:  "sampler2DArray",
	shadestyle.TagArrayCubemap:  "samplerCubeArray",
	shadestyle.TagVolumeTexture: "sampler3D",
	shadestyle.TagBufferTexture: "samplerBuffer",
}

var imageTypes = map[string]string{
	shadestyle.TagImage2D:        "image2D",
	shadestyle.TagImage2DArray:   "image2DArray",
	shadestyle.TagImageCube:      "imageCube",
	shadestyle.TagImageCubeArray: "imageCubeArray",
	shadestyle.TagImage3D:        "image3D",
	shadestyle.TagImageBuffer:    "imageBuffer",
}

// image format qualifiers are channels + storage suffix, e.g. rgba32f
var imageChannels = map[string]string{
	metadata.ColorFormatR.String():    "r",
	metadata.ColorFormatRG.String():   "rg",
	metadata.ColorFormatRGBa.String(): "rgba",
}

var imageStorage = map[string]string{
	metadata.ColorTypeUint8.String():     "8",
	metadata.ColorTypeUint16.String():    "16",
	metadata.ColorTypeFloat16.String():   "16f",
	metadata.ColorTypeFloat32.String():   "32f",
	metadata.ColorTypeUint8Int.String():  "8ui",
	metadata.ColorTypeUint16Int.String(): "16ui",
	metadata.ColorTypeUint32Int.String(): "32ui",
	metadata.ColorTypeSint8Int.String():  "8i",
	metadata.ColorTypeSint16Int.String(): "16i",
	metadata.ColorTypeSint32Int.String(): "32i",
}

func samplingPrefix(s metadata.ColorSampling) string {
	switch s {
	case metadata.ColorSamplingUnsignedInteger:
		return "u"
	case metadata.ColorSamplingSignedInteger:
		return "i"
	}
	return ""
}

// UniformDeclaration returns the declaration of the uniform p_<name> for a
// parameter type tag.
func UniformDeclaration(name, tag string) (string, error) {
	t, err := shadestyle.ParseTypeTag(tag)
	if err != nil {
		return "", fmt.Errorf("%w: parameter `%s`: %w", core.ErrProgramGeneration, name, err)
	}
	uniform := "p_" + name

	if t.IsImage() {
		channels, ok := imageChannels[t.ImageFormat]
		storage, ok2 := imageStorage[t.ImageType]
		if !ok || !ok2 {
			return "", fmt.Errorf("%w: parameter `%s`: no image format for %s %s", core.ErrProgramGeneration, name, t.ImageFormat, t.ImageType)
		}
		prefix := ""
		switch {
		case strings.HasPrefix(t.ImageType, "UINT") && strings.HasSuffix(t.ImageType, "_INT"):
			prefix = "u"
		case strings.HasPrefix(t.ImageType, "SINT"):
			prefix = "i"
		}
		access := ""
		switch t.ImageAccess {
		case metadata.ImageAccessRead.String():
			access = "readonly "
		case metadata.ImageAccessWrite.String():
			access = "writeonly "
		}
		return fmt.Sprintf("layout(%s%s) %suniform %s%s %s;", channels, storage, access, prefix, imageTypes[t.Base], uniform), nil
	}

	if t.IsTexture() {
		return fmt.Sprintf("uniform %s%s %s;", samplingPrefix(t.Sampling), samplerTypes[t.Base], uniform), nil
	}

	glslType, ok := valueTypes[t.Base]
	if !ok {
		return "", fmt.Errorf("%w: parameter `%s`: unknown type %s", core.ErrProgramGeneration, name, t.Base)
	}
	if t.IsArray() {
		return fmt.Sprintf("uniform %s %s[%d];", glslType, uniform, t.ArrayCount), nil
	}
	return fmt.Sprintf("uniform %s %s;", glslType, uniform), nil
}

// AttributeType maps a vertex element to the type of its shader input.
// Integer elements keep their integer type, they are bound without
// normalization.
func AttributeType(t metadata.VertexElementType) (string, error) {
	switch t {
	case metadata.VertexElementFloat32:
		return "float", nil
	case metadata.VertexElementMatrix22Float32:
		return "mat2", nil
	case metadata.VertexElementMatrix33Float32:
		return "mat3", nil
	case metadata.VertexElementMatrix44Float32:
		return "mat4", nil
	}
	if !t.IsScalarOrVector() {
		return "", fmt.Errorf("%w: %s", core.ErrUnsupportedAttributeType, t)
	}
	base := "float"
	prefix := ""
	switch t.Component() {
	case metadata.ComponentUint8, metadata.ComponentUint16, metadata.ComponentUint32:
		base, prefix = "uint", "u"
	case metadata.ComponentInt8, metadata.ComponentInt16, metadata.ComponentInt32:
		base, prefix = "int", "i"
	}
	n := t.ComponentCount()
	if n == 1 {
		return base, nil
	}
	return fmt.Sprintf("%svec%d", prefix, n), nil
}

var memberTypes = map[metadata.BufferMemberType]string{
	metadata.BufferMemberBoolean:        "bool",
	metadata.BufferMemberInt:            "int",
	metadata.BufferMemberUint:           "uint",
	metadata.BufferMemberFloat:          "float",
	metadata.BufferMemberDouble:         "double",
	metadata.BufferMemberVector2Boolean: "bvec2",
	metadata.BufferMemberVector2Int:     "ivec2",
	metadata.BufferMemberVector2Uint:    "uvec2",
	metadata.BufferMemberVector2Float:   "vec2",
	metadata.BufferMemberVector2Double:  "dvec2",
	metadata.BufferMemberVector3Boolean: "bvec3",
	metadata.BufferMemberVector3Int:     "ivec3",
	metadata.BufferMemberVector3Uint:    "uvec3",
	metadata.BufferMemberVector3Float:   "vec3",
	metadata.BufferMemberVector3Double:  "dvec3",
	metadata.BufferMemberVector4Boolean: "bvec4",
	metadata.BufferMemberVector4Int:     "ivec4",
	metadata.BufferMemberVector4Uint:    "uvec4",
	metadata.BufferMemberVector4Float:   "vec4",
	metadata.BufferMemberVector4Double:  "dvec4",
	metadata.BufferMemberMatrix22Float:  "mat2",
	metadata.BufferMemberMatrix33Float:  "mat3",
	metadata.BufferMemberMatrix44Float:  "mat4",
}

func memberDeclaration(m metadata.ShaderStorageMember) (string, error) {
	glslType := memberTypes[m.Type]
	if m.Type == metadata.BufferMemberStruct {
		glslType = m.Struct.TypeName
	}
	if glslType == "" {
		return "", fmt.Errorf("%w: member `%s` has unknown type %s", core.ErrProgramGeneration, m.Name, m.Type)
	}
	if m.ArraySize > 1 {
		return fmt.Sprintf("%s %s[%d];", glslType, m.Name, m.ArraySize), nil
	}
	return fmt.Sprintf("%s %s;", glslType, m.Name), nil
}

// OutputType is the fragment output type for an attachment layout.
func OutputType(o metadata.ShadeStyleOutput) string {
	base, prefix := "float", ""
	switch o.Type.Sampling() {
	case metadata.ColorSamplingUnsignedInteger:
		base, prefix = "uint", "u"
	case metadata.ColorSamplingSignedInteger:
		base, prefix = "int", "i"
	}
	n := o.Format.ComponentCount()
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%svec%d", prefix, n)
}
