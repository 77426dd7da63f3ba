package glsl

import (
	"testing"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/math"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadFormat() *metadata.VertexFormat {
	return metadata.NewVertexFormat().Position(3).TextureCoordinate(2).Padding(4)
}

func generate(t *testing.T, style *shadestyle.ShadeStyle, version string, vertex, instance []*metadata.VertexFormat) metadata.ProgramSources {
	t.Helper()
	s, err := StructureFromStyle(style, vertex, instance)
	require.NoError(t, err)
	sources, err := NewGenerator(version).Generate(s)
	require.NoError(t, err)
	return sources
}

func TestUniformDeclaration(t *testing.T) {
	tests := []struct {
		tag  string
		decl string
	}{
		{"boolean", "uniform bool p_x;"},
		{"int", "uniform int p_x;"},
		{"float", "uniform float p_x;"},
		{"Vector3", "uniform vec3 p_x;"},
		{"IntVector2", "uniform ivec2 p_x;"},
		{"Matrix33", "uniform mat3 p_x;"},
		{"ColorRGBa", "uniform vec4 p_x;"},
		{"float,3", "uniform float p_x[3];"},
		{"Matrix44,4", "uniform mat4 p_x[4];"},
		{"ColorBuffer", "uniform sampler2D p_x;"},
		{"ColorBuffer_UINT", "uniform usampler2D p_x;"},
		{"Cubemap_SINT", "uniform isamplerCube p_x;"},
		{"DepthBuffer", "uniform sampler2D p_x;"},
		{"ArrayCubemap", "uniform samplerCubeArray p_x;"},
		{"VolumeTexture", "uniform sampler3D p_x;"},
		{"BufferTexture_UINT", "uniform usamplerBuffer p_x;"},
		{"Image2D,RGBa,FLOAT32,READ_WRITE", "layout(rgba32f) uniform image2D p_x;"},
		{"Image3D,R,UINT8_INT,READ", "layout(r8ui) readonly uniform uimage3D p_x;"},
		{"ImageBuffer,RG,SINT16_INT,WRITE", "layout(rg16i) writeonly uniform iimageBuffer p_x;"},
		{"ImageCube,RGBa,UINT8,READ", "layout(rgba8) readonly uniform imageCube p_x;"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			decl, err := UniformDeclaration("x", tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.decl, decl)
		})
	}
}

func TestUniformDeclarationErrors(t *testing.T) {
	for _, tag := range []string{"double", "Image2D,RGB,FLOAT32,READ", "Image2D,sRGBa,UINT8,READ", ""} {
		_, err := UniformDeclaration("x", tag)
		assert.ErrorIs(t, err, core.ErrProgramGeneration, tag)
	}
}

func TestAttributeType(t *testing.T) {
	tests := map[metadata.VertexElementType]string{
		metadata.VertexElementFloat32:         "float",
		metadata.VertexElementVector3Float32:  "vec3",
		metadata.VertexElementVector4Uint8:    "uvec4",
		metadata.VertexElementInt16:           "int",
		metadata.VertexElementVector2Int32:    "ivec2",
		metadata.VertexElementMatrix44Float32: "mat4",
		metadata.VertexElementMatrix33Float32: "mat3",
	}
	for elementType, want := range tests {
		got, err := AttributeType(elementType)
		require.NoError(t, err)
		assert.Equal(t, want, got, elementType.String())
	}
	_, err := AttributeType(metadata.VertexElementType(999))
	assert.ErrorIs(t, err, core.ErrUnsupportedAttributeType)
}

func TestStructureFromStyle(t *testing.T) {
	style := shadestyle.New()
	require.NoError(t, style.Parameter("radius", 1.0))
	require.NoError(t, style.Parameter("color", math.ColorWhite))
	require.NoError(t, style.Buffer("counters", metadata.NewAtomicCounterBuffer(2)))
	format := metadata.NewShaderStorageFormat()
	require.NoError(t, format.AddMember("time", metadata.BufferMemberFloat, 1))
	require.NoError(t, style.Buffer("state", metadata.NewShaderStorageBuffer(format)))
	require.NoError(t, style.Buffer("extra", metadata.NewShaderStorageBuffer(format)))
	style.Output("normal", metadata.NewShadeStyleOutput(1))

	instance := metadata.NewVertexFormat().Attribute("offset", metadata.VertexElementVector2Float32, 1)
	s, err := StructureFromStyle(style, []*metadata.VertexFormat{quadFormat(), quadFormat()}, []*metadata.VertexFormat{instance})
	require.NoError(t, err)

	assert.Equal(t, []Uniform{{"color", "ColorRGBa"}, {"radius", "float"}}, s.Uniforms)
	assert.Equal(t, []Attribute{
		{Name: "a_position", Type: metadata.VertexElementVector3Float32, ArraySize: 1},
		{Name: "a_texCoord0", Type: metadata.VertexElementVector2Float32, ArraySize: 1},
	}, s.VertexAttributes, "padding and repeated names are skipped")
	assert.Equal(t, []Attribute{{Name: "i_offset", Type: metadata.VertexElementVector2Float32, ArraySize: 1}}, s.InstanceAttributes)
	require.Len(t, s.Buffers, 3)
	assert.Equal(t, Buffer{Name: "counters", Binding: 0, Counters: 2}, s.Buffers[0])
	assert.Equal(t, "extra", s.Buffers[1].Name)
	assert.Equal(t, 0, s.Buffers[1].Binding)
	assert.Equal(t, 1, s.Buffers[2].Binding)
	assert.False(t, s.Geometry)

	_, err = StructureFromStyle(nil, []*metadata.VertexFormat{nil}, nil)
	assert.ErrorIs(t, err, core.ErrNilResource)
}

func TestGenerateDefaultProgram(t *testing.T) {
	sources := generate(t, nil, "", []*metadata.VertexFormat{quadFormat()}, nil)

	assert.Contains(t, sources.Vertex, "#version 330 core\n")
	assert.Contains(t, sources.Vertex, "in vec3 a_position;")
	assert.Contains(t, sources.Vertex, "in vec2 a_texCoord0;")
	assert.NotContains(t, sources.Vertex, "a__")
	assert.Contains(t, sources.Vertex, "vec3 x_position = vec3(a_position);")
	assert.Contains(t, sources.Vertex, "va_texCoord0 = a_texCoord0;")
	assert.Contains(t, sources.Vertex, "gl_Position = x_projection * vec4(x_position, 1.0);")
	assert.Contains(t, sources.Fragment, "layout(location = 0) out vec4 o_color;")
	assert.Contains(t, sources.Fragment, "o_color = x_fill;")
	assert.Contains(t, sources.Fragment, "vec2 va_texCoord0;")
	assert.False(t, sources.HasGeometry())
}

func TestGenerateStyle(t *testing.T) {
	style := shadestyle.New()
	require.NoError(t, style.Parameter("tint", math.ColorWhite))
	require.NoError(t, style.Parameter("bones", make([]math.Matrix44, 2)))
	style.SetVertexPreamble("float wave(float x) { return sin(x); }")
	style.SetVertexTransform("x_position.y += wave(x_position.x);")
	style.SetFragmentTransform("x_fill *= p_tint;\nx_fill.a = 1.0;")
	instance := metadata.NewVertexFormat().Attribute("id", metadata.VertexElementUint32, 1)

	sources := generate(t, style, "330 core", []*metadata.VertexFormat{quadFormat()}, []*metadata.VertexFormat{instance})

	for _, stage := range []string{sources.Vertex, sources.Fragment} {
		assert.Contains(t, stage, "uniform vec4 p_tint;")
		assert.Contains(t, stage, "uniform mat4 p_bones[2];")
	}
	assert.Contains(t, sources.Vertex, "float wave(float x) { return sin(x); }\nvoid main() {")
	assert.Contains(t, sources.Vertex, "        x_position.y += wave(x_position.x);\n")
	assert.Contains(t, sources.Vertex, "in uint i_id;")
	assert.Contains(t, sources.Vertex, "flat uint vi_id;")
	assert.Contains(t, sources.Fragment, "        x_fill *= p_tint;\n        x_fill.a = 1.0;\n")
	assert.NotContains(t, sources.Vertex, "#extension")
}

func TestGenerateIsDeterministic(t *testing.T) {
	build := func() *shadestyle.ShadeStyle {
		style := shadestyle.New()
		for _, name := range []string{"d", "a", "c", "b"} {
			require.NoError(t, style.Parameter(name, 1.0))
			style.Output(name, metadata.NewShadeStyleOutput(len(style.OutputNames())+1))
		}
		return style
	}
	a := generate(t, build(), "", []*metadata.VertexFormat{quadFormat()}, nil)
	b := generate(t, build(), "", []*metadata.VertexFormat{quadFormat()}, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestGenerateBuffers(t *testing.T) {
	format := metadata.NewShaderStorageFormat()
	require.NoError(t, format.AddMember("time", metadata.BufferMemberFloat, 1))
	require.NoError(t, format.AddStruct("Particle", "particles", 8, func(p *metadata.ShaderStorageStruct) error {
		if err := p.AddMember("position", metadata.BufferMemberVector3Float, 1); err != nil {
			return err
		}
		return p.AddStruct("Life", "life", 1, func(l *metadata.ShaderStorageStruct) error {
			return l.AddMember("age", metadata.BufferMemberFloat, 1)
		})
	}))

	style := shadestyle.New()
	require.NoError(t, style.Buffer("system", metadata.NewShaderStorageBuffer(format)))
	require.NoError(t, style.Buffer("counters", metadata.NewAtomicCounterBuffer(3)))
	require.NoError(t, style.Buffer("hits", metadata.NewAtomicCounterBuffer(1)))

	sources := generate(t, style, "330 core", []*metadata.VertexFormat{quadFormat()}, nil)
	v := sources.Vertex
	assert.Contains(t, v, "#extension GL_ARB_shader_storage_buffer_object : require")
	assert.Contains(t, v, "#extension GL_ARB_shader_atomic_counters : require")
	assert.Contains(t, v, "struct Life {\n    float age;\n};\nstruct Particle {\n    vec3 position;\n    Life life;\n};")
	assert.Contains(t, v, "layout(std430, binding = 0) buffer B_system {\n    float time;\n    Particle particles[8];\n} b_system;")
	assert.Contains(t, v, "layout(binding = 0, offset = 0) uniform atomic_uint b_counters[3];")
	assert.Contains(t, v, "layout(binding = 1, offset = 0) uniform atomic_uint b_hits;")

	sources = generate(t, style, "430 core", []*metadata.VertexFormat{quadFormat()}, nil)
	assert.NotContains(t, sources.Vertex, "#extension")
}

func TestGenerateOutputs(t *testing.T) {
	style := shadestyle.New()
	style.Output("normal", metadata.ShadeStyleOutput{Attachment: 1, Format: metadata.ColorFormatRGB, Type: metadata.ColorTypeFloat16})
	style.Output("id", metadata.ShadeStyleOutput{Attachment: 2, Format: metadata.ColorFormatR, Type: metadata.ColorTypeUint32Int})
	sources := generate(t, style, "", nil, nil)
	assert.Contains(t, sources.Fragment, "layout(location = 1) out vec3 o_normal;")
	assert.Contains(t, sources.Fragment, "layout(location = 2) out uint o_id;")
	assert.Contains(t, sources.Fragment, "o_color = x_fill;")

	style.SetSuppressDefaultOutput(true)
	sources = generate(t, style, "", nil, nil)
	assert.NotContains(t, sources.Fragment, "o_color")
}

func TestGenerateOutputConflicts(t *testing.T) {
	style := shadestyle.New()
	style.Output("albedo", metadata.NewShadeStyleOutput(0))
	s, err := StructureFromStyle(style, nil, nil)
	require.NoError(t, err)
	_, err = NewGenerator("").Generate(s)
	assert.ErrorIs(t, err, core.ErrProgramGeneration)

	style.SetSuppressDefaultOutput(true)
	style.Output("depth", metadata.NewShadeStyleOutput(0))
	s, err = StructureFromStyle(style, nil, nil)
	require.NoError(t, err)
	_, err = NewGenerator("").Generate(s)
	assert.ErrorIs(t, err, core.ErrProgramGeneration)
}

func TestGenerateGeometry(t *testing.T) {
	style := shadestyle.New()
	style.SetGeometryTransform("for (int i = 0; i < 3; ++i) { gl_Position = gl_in[i].gl_Position; v_position = x_in[i].v_position; EmitVertex(); }")
	sources := generate(t, style, "", []*metadata.VertexFormat{quadFormat()}, nil)
	require.True(t, sources.HasGeometry())
	assert.Contains(t, sources.Geometry, "layout(triangles) in;")
	assert.Contains(t, sources.Geometry, "} x_in[];")

	style = shadestyle.New()
	style.SetGeometryPreamble("layout(points) in;\nlayout(points, max_vertices = 1) out;")
	sources = generate(t, style, "", []*metadata.VertexFormat{quadFormat()}, nil)
	require.True(t, sources.HasGeometry())
	assert.NotContains(t, sources.Geometry, "layout(triangles) in;")
	assert.Contains(t, sources.Geometry, "va_texCoord0 = x_in[i].va_texCoord0;")
	assert.Contains(t, sources.Geometry, "EndPrimitive();")
}

func TestGenerateErrors(t *testing.T) {
	_, err := NewGenerator("").Generate(nil)
	assert.ErrorIs(t, err, core.ErrProgramGeneration)

	_, err = NewGenerator("core").Generate(&Structure{})
	assert.ErrorIs(t, err, core.ErrProgramGeneration)

	_, err = NewGenerator("").Generate(&Structure{Uniforms: []Uniform{{Name: "x", Tag: "Quaternion"}}})
	assert.ErrorIs(t, err, core.ErrProgramGeneration)
}
