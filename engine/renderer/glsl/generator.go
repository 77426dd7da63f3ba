package glsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

const DefaultVersion = "330 core"

// DefaultOutput is written from x_fill to attachment 0 unless the style
// suppresses it.
const DefaultOutput = "o_color"

// Generator emits the stages of a program for a Structure.
//
// Snippets see these variables:
//
//	vertex transform:   vec3 x_position, mat4 x_projection, inputs a_* and i_*
//	fragment transform: vec4 x_fill, varyings va_*, vi_* and v_position
//	geometry transform: x_in[] holding the vertex varyings
//
// Uniforms are named p_<name>, outputs o_<name> and buffers b_<name>.
type Generator struct {
	Version string
}

func NewGenerator(version string) *Generator {
	if version == "" {
		version = DefaultVersion
	}
	return &Generator{Version: version}
}

type varying struct {
	name      string
	glslType  string
	arraySize int
	flat      bool
}

func (v varying) declaration() string {
	var sb strings.Builder
	if v.flat {
		sb.WriteString("flat ")
	}
	sb.WriteString(v.glslType)
	sb.WriteByte(' ')
	sb.WriteString(v.name)
	if v.arraySize > 1 {
		fmt.Fprintf(&sb, "[%d]", v.arraySize)
	}
	sb.WriteByte(';')
	return sb.String()
}

// interface shared by all stages of one program
type shared struct {
	header     string
	uniforms   []string
	structs    []string
	buffers    []string
	varyings   []varying
	attributes []string
	copies     []string
}

// Generate produces the program sources. Failures wrap
// core.ErrProgramGeneration.
func (g *Generator) Generate(s *Structure) (metadata.ProgramSources, error) {
	if s == nil {
		return metadata.ProgramSources{}, fmt.Errorf("%w: nil structure", core.ErrProgramGeneration)
	}
	version, err := g.versionNumber()
	if err != nil {
		return metadata.ProgramSources{}, err
	}
	sh, err := g.shared(s, version)
	if err != nil {
		return metadata.ProgramSources{}, err
	}
	fragment, err := g.fragment(s, sh)
	if err != nil {
		return metadata.ProgramSources{}, err
	}
	sources := metadata.ProgramSources{
		Vertex:   g.vertex(s, sh),
		Fragment: fragment,
	}
	if s.Geometry {
		sources.Geometry = g.geometry(s, sh)
	}
	return sources, nil
}

func (g *Generator) versionNumber() (int, error) {
	fields := strings.Fields(g.Version)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty GLSL version", core.ErrProgramGeneration)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid GLSL version %q", core.ErrProgramGeneration, g.Version)
	}
	return n, nil
}

func (g *Generator) shared(s *Structure, version int) (*shared, error) {
	sh := &shared{}
	var usesImages, usesCubeArrays bool

	for _, u := range s.Uniforms {
		decl, err := UniformDeclaration(u.Name, u.Tag)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(decl, "layout(") {
			usesImages = true
		}
		if strings.Contains(decl, "CubeArray") {
			usesCubeArrays = true
		}
		sh.uniforms = append(sh.uniforms, decl)
	}

	var usesStorage, usesCounters bool
	declared := make(map[string]bool)
	for _, b := range s.Buffers {
		if b.Format == nil {
			usesCounters = true
			if b.Counters > 1 {
				sh.buffers = append(sh.buffers, fmt.Sprintf("layout(binding = %d, offset = 0) uniform atomic_uint b_%s[%d];", b.Binding, b.Name, b.Counters))
			} else {
				sh.buffers = append(sh.buffers, fmt.Sprintf("layout(binding = %d, offset = 0) uniform atomic_uint b_%s;", b.Binding, b.Name))
			}
			continue
		}
		usesStorage = true
		structs, err := structDeclarations(b.Format.Items(), declared)
		if err != nil {
			return nil, fmt.Errorf("buffer `%s`: %w", b.Name, err)
		}
		sh.structs = append(sh.structs, structs...)
		members, err := memberDeclarations(b.Format.Items())
		if err != nil {
			return nil, fmt.Errorf("buffer `%s`: %w", b.Name, err)
		}
		block := fmt.Sprintf("layout(std430, binding = %d) buffer B_%s {\n%s} b_%s;", b.Binding, b.Name, members, b.Name)
		sh.buffers = append(sh.buffers, block)
	}

	var header strings.Builder
	fmt.Fprintf(&header, "#version %s\n", g.Version)
	if version < 430 {
		if usesStorage {
			header.WriteString("#extension GL_ARB_shader_storage_buffer_object : require\n")
		}
		if usesImages {
			header.WriteString("#extension GL_ARB_shader_image_load_store : require\n")
		}
		if usesCounters {
			header.WriteString("#extension GL_ARB_shader_atomic_counters : require\n")
		}
		if usesStorage || usesImages || usesCounters {
			header.WriteString("#extension GL_ARB_shading_language_420pack : require\n")
		}
	}
	if version < 400 && usesCubeArrays {
		header.WriteString("#extension GL_ARB_texture_cube_map_array : require\n")
	}
	sh.header = header.String()

	sh.varyings = append(sh.varyings, varying{name: "v_position", glslType: "vec3"})
	for _, list := range [][]Attribute{s.VertexAttributes, s.InstanceAttributes} {
		for _, a := range list {
			glslType, err := AttributeType(a.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: attribute `%s`: %w", core.ErrProgramGeneration, a.Name, err)
			}
			decl := fmt.Sprintf("in %s %s;", glslType, a.Name)
			if a.ArraySize > 1 {
				decl = fmt.Sprintf("in %s %s[%d];", glslType, a.Name, a.ArraySize)
			}
			sh.attributes = append(sh.attributes, decl)
			v := varying{name: "v" + a.Name, glslType: glslType, arraySize: a.ArraySize, flat: a.Type.IsInteger()}
			sh.varyings = append(sh.varyings, v)
			sh.copies = append(sh.copies, fmt.Sprintf("%s = %s;", v.name, a.Name))
		}
	}
	return sh, nil
}

// structDeclarations returns the struct types used by members, inner types
// first. Types already declared are skipped.
func structDeclarations(members []metadata.ShaderStorageMember, declared map[string]bool) ([]string, error) {
	var out []string
	for _, m := range members {
		if m.Type != metadata.BufferMemberStruct || declared[m.Struct.TypeName] {
			continue
		}
		inner, err := structDeclarations(m.Struct.Items(), declared)
		if err != nil {
			return nil, err
		}
		out = append(out, inner...)
		body, err := memberDeclarations(m.Struct.Items())
		if err != nil {
			return nil, err
		}
		declared[m.Struct.TypeName] = true
		out = append(out, fmt.Sprintf("struct %s {\n%s};", m.Struct.TypeName, body))
	}
	return out, nil
}

func memberDeclarations(members []metadata.ShaderStorageMember) (string, error) {
	var sb strings.Builder
	for _, m := range members {
		decl, err := memberDeclaration(m)
		if err != nil {
			return "", err
		}
		sb.WriteString("    ")
		sb.WriteString(decl)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (g *Generator) writeCommon(w *writer, sh *shared) {
	w.out.WriteString(sh.header)
	w.writeLine("")
	for _, decl := range sh.uniforms {
		w.writeLine("%s", decl)
	}
	for _, decl := range sh.structs {
		w.writeSnippet(decl)
	}
	for _, decl := range sh.buffers {
		w.writeSnippet(decl)
	}
	if len(sh.uniforms)+len(sh.structs)+len(sh.buffers) > 0 {
		w.writeLine("")
	}
}

func (g *Generator) writeVaryings(w *writer, sh *shared, qualifier, instance string) {
	w.writeLine("%s Varyings {", qualifier)
	w.indent++
	for _, v := range sh.varyings {
		w.writeLine("%s", v.declaration())
	}
	w.indent--
	if instance != "" {
		w.writeLine("} %s;", instance)
	} else {
		w.writeLine("};")
	}
}

func (g *Generator) vertex(s *Structure, sh *shared) string {
	w := &writer{}
	g.writeCommon(w, sh)
	for _, decl := range sh.attributes {
		w.writeLine("%s", decl)
	}
	g.writeVaryings(w, sh, "out", "")
	w.writeLine("")
	w.writeSnippet(s.VertexPreamble)
	w.writeLine("void main() {")
	w.indent++
	w.writeLine("vec3 x_position = %s;", positionInit(s))
	w.writeLine("mat4 x_projection = mat4(1.0);")
	w.writeLine("{")
	w.indent++
	w.writeSnippet(s.VertexTransform)
	w.indent--
	w.writeLine("}")
	w.writeLine("v_position = x_position;")
	for _, c := range sh.copies {
		w.writeLine("%s", c)
	}
	w.writeLine("gl_Position = x_projection * vec4(x_position, 1.0);")
	w.indent--
	w.writeLine("}")
	return w.String()
}

func positionInit(s *Structure) string {
	a, ok := s.attribute("position")
	if !ok || !a.Type.IsScalarOrVector() || a.ArraySize > 1 {
		return "vec3(0.0)"
	}
	switch a.Type.ComponentCount() {
	case 1:
		return "vec3(a_position, 0.0, 0.0)"
	case 2:
		return "vec3(a_position, 0.0)"
	}
	return "vec3(a_position)"
}

func (g *Generator) geometry(s *Structure, sh *shared) string {
	w := &writer{}
	g.writeCommon(w, sh)
	if !s.HasGeometryPreamble {
		w.writeLine("layout(triangles) in;")
		w.writeLine("layout(triangle_strip, max_vertices = 3) out;")
	}
	g.writeVaryings(w, sh, "in", "x_in[]")
	g.writeVaryings(w, sh, "out", "")
	w.writeLine("")
	w.writeSnippet(s.GeometryPreamble)
	w.writeLine("void main() {")
	w.indent++
	if s.GeometryTransform != "" {
		w.writeSnippet(s.GeometryTransform)
	} else {
		w.writeLine("for (int i = 0; i < gl_in.length(); ++i) {")
		w.indent++
		w.writeLine("gl_Position = gl_in[i].gl_Position;")
		for _, v := range sh.varyings {
			w.writeLine("%s = x_in[i].%s;", v.name, v.name)
		}
		w.writeLine("EmitVertex();")
		w.indent--
		w.writeLine("}")
		w.writeLine("EndPrimitive();")
	}
	w.indent--
	w.writeLine("}")
	return w.String()
}

func (g *Generator) fragment(s *Structure, sh *shared) (string, error) {
	w := &writer{}
	g.writeCommon(w, sh)
	g.writeVaryings(w, sh, "in", "")

	locations := make(map[int]string)
	if !s.SuppressDefaultOutput {
		locations[0] = DefaultOutput
		w.writeLine("layout(location = 0) out vec4 %s;", DefaultOutput)
	}
	for _, o := range s.Outputs {
		name := "o_" + o.Name
		if other, taken := locations[o.Attachment]; taken {
			return "", fmt.Errorf("%w: output `%s` uses attachment %d of %s", core.ErrProgramGeneration, name, o.Attachment, other)
		}
		if name == DefaultOutput && !s.SuppressDefaultOutput {
			return "", fmt.Errorf("%w: output `%s` shadows the default output", core.ErrProgramGeneration, name)
		}
		locations[o.Attachment] = name
		w.writeLine("layout(location = %d) out %s %s;", o.Attachment, OutputType(o.ShadeStyleOutput), name)
	}
	w.writeLine("")
	w.writeSnippet(s.FragmentPreamble)
	w.writeLine("void main() {")
	w.indent++
	w.writeLine("vec4 x_fill = vec4(1.0);")
	w.writeLine("{")
	w.indent++
	w.writeSnippet(s.FragmentTransform)
	w.indent--
	w.writeLine("}")
	if !s.SuppressDefaultOutput {
		w.writeLine("%s = x_fill;", DefaultOutput)
	}
	w.indent--
	w.writeLine("}")
	return w.String(), nil
}
