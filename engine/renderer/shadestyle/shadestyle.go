package shadestyle

import (
	"fmt"
	"slices"

	"github.com/spaghettifunk/anima-hal/engine/containers"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// ShadeStyle describes custom shading for a draw: source snippets injected
// into the generated stages, typed parameters, storage buffers, outputs and
// extra attribute buffers.
//
// A style is dirty while its generated program may no longer match its
// interface. Assigning a snippet or the default output switch marks it
// dirty, so do changing or removing a parameter type or an output. Adding a
// new parameter or output name does not. Only the program manager marks a
// style clean, after it generated a program for it.
//
// A style is not safe for concurrent use. Buffers and textures it references
// are borrowed, the style never destroys them.
type ShadeStyle struct {
	vertexPreamble    *string
	geometryPreamble  *string
	fragmentPreamble  *string
	vertexTransform   *string
	geometryTransform *string
	fragmentTransform *string

	parameterValues map[string]Value
	parameters      *containers.ObservableMap[string, string]

	bufferValues map[string]metadata.StructuredBuffer
	buffers      map[string]string

	outputs    *containers.ObservableMap[string, metadata.ShadeStyleOutput]
	attributes []*metadata.VertexBuffer

	suppressDefaultOutput bool
	dirty                 bool
}

// New returns an empty style. It starts dirty since no program was generated
// for it yet.
func New() *ShadeStyle {
	s := &ShadeStyle{
		parameterValues: make(map[string]Value),
		bufferValues:    make(map[string]metadata.StructuredBuffer),
		buffers:         make(map[string]string),
		dirty:           true,
	}
	s.parameters = containers.NewObservableMap[string, string](s.markDirty)
	s.outputs = containers.NewObservableMap[string, metadata.ShadeStyleOutput](s.markDirty)
	return s
}

func (s *ShadeStyle) markDirty() {
	s.dirty = true
}

// Dirty reports whether the style changed since its program was generated.
func (s *ShadeStyle) Dirty() bool {
	return s.dirty
}

// MarkClean is called by the program manager after a successful generation.
func (s *ShadeStyle) MarkClean() {
	s.dirty = false
}

func optional(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func (s *ShadeStyle) VertexPreamble() (string, bool)    { return optional(s.vertexPreamble) }
func (s *ShadeStyle) GeometryPreamble() (string, bool)  { return optional(s.geometryPreamble) }
func (s *ShadeStyle) FragmentPreamble() (string, bool)  { return optional(s.fragmentPreamble) }
func (s *ShadeStyle) VertexTransform() (string, bool)   { return optional(s.vertexTransform) }
func (s *ShadeStyle) GeometryTransform() (string, bool) { return optional(s.geometryTransform) }
func (s *ShadeStyle) FragmentTransform() (string, bool) { return optional(s.fragmentTransform) }

func (s *ShadeStyle) assign(field **string, source *string) {
	s.dirty = true
	*field = source
}

func (s *ShadeStyle) SetVertexPreamble(source string)    { s.assign(&s.vertexPreamble, &source) }
func (s *ShadeStyle) SetGeometryPreamble(source string)  { s.assign(&s.geometryPreamble, &source) }
func (s *ShadeStyle) SetFragmentPreamble(source string)  { s.assign(&s.fragmentPreamble, &source) }
func (s *ShadeStyle) SetVertexTransform(source string)   { s.assign(&s.vertexTransform, &source) }
func (s *ShadeStyle) SetGeometryTransform(source string) { s.assign(&s.geometryTransform, &source) }
func (s *ShadeStyle) SetFragmentTransform(source string) { s.assign(&s.fragmentTransform, &source) }

func (s *ShadeStyle) ClearVertexPreamble()    { s.assign(&s.vertexPreamble, nil) }
func (s *ShadeStyle) ClearGeometryPreamble()  { s.assign(&s.geometryPreamble, nil) }
func (s *ShadeStyle) ClearFragmentPreamble()  { s.assign(&s.fragmentPreamble, nil) }
func (s *ShadeStyle) ClearVertexTransform()   { s.assign(&s.vertexTransform, nil) }
func (s *ShadeStyle) ClearGeometryTransform() { s.assign(&s.geometryTransform, nil) }
func (s *ShadeStyle) ClearFragmentTransform() { s.assign(&s.fragmentTransform, nil) }

func (s *ShadeStyle) SuppressDefaultOutput() bool {
	return s.suppressDefaultOutput
}

// SetSuppressDefaultOutput omits the implicit output on attachment 0.
func (s *ShadeStyle) SetSuppressDefaultOutput(suppress bool) {
	s.dirty = true
	s.suppressDefaultOutput = suppress
}

// Parameter binds a uniform. The value is classified first; when that fails
// the style is left untouched.
func (s *ShadeStyle) Parameter(name string, value interface{}) error {
	v, err := ValueOf(value)
	if err != nil {
		return fmt.Errorf("parameter `%s`: %w", name, err)
	}
	s.parameterValues[name] = v
	s.parameters.Put(name, v.TypeTag())
	return nil
}

// RemoveParameter drops a uniform. It always marks the style dirty.
func (s *ShadeStyle) RemoveParameter(name string) {
	delete(s.parameterValues, name)
	s.parameters.Remove(name)
}

func (s *ShadeStyle) ParameterValue(name string) (Value, bool) {
	v, ok := s.parameterValues[name]
	return v, ok
}

func (s *ShadeStyle) ParameterType(name string) (string, bool) {
	return s.parameters.Get(name)
}

// ParameterNames returns the parameter names in ascending order.
func (s *ShadeStyle) ParameterNames() []string {
	return s.parameters.Keys()
}

// Parameters returns a copy of the name to type tag map.
func (s *ShadeStyle) Parameters() map[string]string {
	return s.parameters.Snapshot()
}

// Buffer binds a storage buffer or an atomic counter buffer by block name.
func (s *ShadeStyle) Buffer(name string, buffer metadata.StructuredBuffer) error {
	switch b := buffer.(type) {
	case nil:
		return fmt.Errorf("buffer `%s`: %w", name, core.ErrNilResource)
	case *metadata.ShaderStorageBuffer:
		if b == nil || b.Format == nil {
			return fmt.Errorf("buffer `%s`: %w", name, core.ErrNilResource)
		}
	case *metadata.AtomicCounterBuffer:
		if b == nil {
			return fmt.Errorf("buffer `%s`: %w", name, core.ErrNilResource)
		}
	}
	s.bufferValues[name] = buffer
	s.buffers[name] = buffer.FormatIdentity()
	return nil
}

func (s *ShadeStyle) RemoveBuffer(name string) {
	delete(s.bufferValues, name)
	delete(s.buffers, name)
}

func (s *ShadeStyle) BufferValue(name string) (metadata.StructuredBuffer, bool) {
	b, ok := s.bufferValues[name]
	return b, ok
}

// Buffers returns a copy of the name to format identity map.
func (s *ShadeStyle) Buffers() map[string]string {
	out := make(map[string]string, len(s.buffers))
	for k, v := range s.buffers {
		out[k] = v
	}
	return out
}

// BufferNames returns the buffer names in ascending order.
func (s *ShadeStyle) BufferNames() []string {
	names := make([]string, 0, len(s.buffers))
	for k := range s.buffers {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func (s *ShadeStyle) Output(name string, output metadata.ShadeStyleOutput) {
	s.outputs.Put(name, output)
}

func (s *ShadeStyle) RemoveOutput(name string) {
	s.outputs.Remove(name)
}

func (s *ShadeStyle) OutputNames() []string {
	return s.outputs.Keys()
}

// Outputs returns a copy of the declared outputs.
func (s *ShadeStyle) Outputs() map[string]metadata.ShadeStyleOutput {
	return s.outputs.Snapshot()
}

// Attributes adds a buffer of per instance attributes.
func (s *ShadeStyle) Attributes(buffer *metadata.VertexBuffer) error {
	if buffer == nil || buffer.Format == nil {
		return fmt.Errorf("attributes: %w", core.ErrNilResource)
	}
	s.attributes = append(s.attributes, buffer)
	return nil
}

func (s *ShadeStyle) AttributeBuffers() []*metadata.VertexBuffer {
	out := make([]*metadata.VertexBuffer, len(s.attributes))
	copy(out, s.attributes)
	return out
}

// Clone copies every field into a new dirty style.
func (s *ShadeStyle) Clone() *ShadeStyle {
	c := New()
	c.vertexPreamble = s.vertexPreamble
	c.geometryPreamble = s.geometryPreamble
	c.fragmentPreamble = s.fragmentPreamble
	c.vertexTransform = s.vertexTransform
	c.geometryTransform = s.geometryTransform
	c.fragmentTransform = s.fragmentTransform
	c.suppressDefaultOutput = s.suppressDefaultOutput

	for k, v := range s.parameterValues {
		c.parameterValues[k] = v
	}
	c.parameters = s.parameters.Clone(c.markDirty)
	c.outputs = s.outputs.Clone(c.markDirty)
	for k, v := range s.bufferValues {
		c.bufferValues[k] = v
	}
	for k, v := range s.buffers {
		c.buffers[k] = v
	}
	c.attributes = s.AttributeBuffers()
	return c
}
