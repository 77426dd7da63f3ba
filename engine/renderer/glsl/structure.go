package glsl

import (
	"fmt"
	"slices"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

// Attribute prefixes of per vertex and per instance shader inputs.
const (
	VertexAttributePrefix   = "a_"
	InstanceAttributePrefix = "i_"
)

type Uniform struct {
	Name string
	Tag  string
}

type Attribute struct {
	// Name carries the a_ or i_ prefix.
	Name      string
	Type      metadata.VertexElementType
	ArraySize int
}

type Output struct {
	Name string
	metadata.ShadeStyleOutput
}

// Buffer is a storage block or an atomic counter array. Format is nil for
// counters.
type Buffer struct {
	Name     string
	Binding  int
	Format   *metadata.ShaderStorageFormat
	Counters int
}

// Structure is the shader interface of a style drawn with a set of vertex
// and instance formats. Everything is sorted so equal shapes produce equal
// structures.
type Structure struct {
	Uniforms           []Uniform
	VertexAttributes   []Attribute
	InstanceAttributes []Attribute
	Outputs            []Output
	Buffers            []Buffer

	VertexPreamble    string
	GeometryPreamble  string
	FragmentPreamble  string
	VertexTransform   string
	GeometryTransform string
	FragmentTransform string

	// Geometry is set when the style carries a geometry snippet.
	Geometry              bool
	HasGeometryPreamble   bool
	SuppressDefaultOutput bool
}

// StructureFromStyle derives the shader interface. A nil style yields the
// default structure for the formats.
func StructureFromStyle(style *shadestyle.ShadeStyle, vertexFormats, instanceFormats []*metadata.VertexFormat) (*Structure, error) {
	s := &Structure{}
	var err error
	if s.VertexAttributes, err = attributes(vertexFormats, VertexAttributePrefix); err != nil {
		return nil, err
	}
	if s.InstanceAttributes, err = attributes(instanceFormats, InstanceAttributePrefix); err != nil {
		return nil, err
	}
	if style == nil {
		return s, nil
	}

	for _, name := range style.ParameterNames() {
		tag, _ := style.ParameterType(name)
		s.Uniforms = append(s.Uniforms, Uniform{Name: name, Tag: tag})
	}

	outputs := style.Outputs()
	for _, name := range style.OutputNames() {
		s.Outputs = append(s.Outputs, Output{Name: name, ShadeStyleOutput: outputs[name]})
	}

	bindings := BufferBindings(style)
	for _, name := range style.BufferNames() {
		b, _ := style.BufferValue(name)
		buffer := Buffer{Name: name, Binding: bindings[name]}
		switch x := b.(type) {
		case *metadata.ShaderStorageBuffer:
			buffer.Format = x.Format
		case *metadata.AtomicCounterBuffer:
			buffer.Counters = x.CounterCount
		default:
			return nil, fmt.Errorf("%w: buffer `%s` has unsupported type %T", core.ErrProgramGeneration, name, b)
		}
		s.Buffers = append(s.Buffers, buffer)
	}

	var geometryTransform, geometryPreamble bool
	s.VertexPreamble, _ = style.VertexPreamble()
	s.FragmentPreamble, _ = style.FragmentPreamble()
	s.VertexTransform, _ = style.VertexTransform()
	s.FragmentTransform, _ = style.FragmentTransform()
	s.GeometryPreamble, geometryPreamble = style.GeometryPreamble()
	s.GeometryTransform, geometryTransform = style.GeometryTransform()
	s.Geometry = geometryPreamble || geometryTransform
	s.HasGeometryPreamble = geometryPreamble
	s.SuppressDefaultOutput = style.SuppressDefaultOutput()
	return s, nil
}

// BufferBindings assigns binding points to the buffers of a style. Storage
// buffers and atomic counter buffers are numbered separately in name order.
// Generated sources and backends must agree on these.
func BufferBindings(style *shadestyle.ShadeStyle) map[string]int {
	out := make(map[string]int)
	storage, counters := 0, 0
	for _, name := range style.BufferNames() {
		b, _ := style.BufferValue(name)
		if _, ok := b.(*metadata.AtomicCounterBuffer); ok {
			out[name] = counters
			counters++
			continue
		}
		out[name] = storage
		storage++
	}
	return out
}

// attributes lists the bindable elements of formats in order. The first
// buffer declaring a name wins.
func attributes(formats []*metadata.VertexFormat, prefix string) ([]Attribute, error) {
	var out []Attribute
	seen := make(map[string]bool)
	for i, format := range formats {
		if format == nil {
			return nil, fmt.Errorf("%w: vertex format %d", core.ErrNilResource, i)
		}
		for _, item := range format.Items {
			if item.Attribute == metadata.PaddingAttribute || seen[item.Attribute] {
				continue
			}
			seen[item.Attribute] = true
			out = append(out, Attribute{Name: prefix + item.Attribute, Type: item.Type, ArraySize: item.ArraySize})
		}
	}
	return out, nil
}

// HasAttribute reports whether a vertex attribute (without prefix) is present.
func (s *Structure) HasAttribute(name string) bool {
	return slices.ContainsFunc(s.VertexAttributes, func(a Attribute) bool {
		return a.Name == VertexAttributePrefix+name
	})
}

func (s *Structure) attribute(name string) (Attribute, bool) {
	i := slices.IndexFunc(s.VertexAttributes, func(a Attribute) bool {
		return a.Name == VertexAttributePrefix+name
	})
	if i < 0 {
		return Attribute{}, false
	}
	return s.VertexAttributes[i], true
}
