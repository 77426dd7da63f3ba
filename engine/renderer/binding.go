package renderer

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/glsl"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// BindingKey identifies a binding object: the context, the program and the
// ordered vertex and instance buffers with the shape of their formats.
type BindingKey struct {
	Context metadata.ContextID
	Program uint32
	Buffers string
}

func NewBindingKey(context metadata.ContextID, program *metadata.Program, vertexBuffers, instanceBuffers []*metadata.VertexBuffer) BindingKey {
	var sb strings.Builder
	sb.WriteString("v")
	for _, vb := range vertexBuffers {
		sb.WriteByte('|')
		sb.WriteString(vb.Identity())
	}
	sb.WriteString("/i")
	for _, ib := range instanceBuffers {
		sb.WriteByte('|')
		sb.WriteString(ib.Identity())
	}
	return BindingKey{Context: context, Program: program.ID, Buffers: sb.String()}
}

func (k BindingKey) String() string {
	return fmt.Sprintf("%d:%d:%s", k.Context, k.Program, k.Buffers)
}

// AttributeBinding binds one attribute slot to a range of a buffer. Matrices
// and arrays take one slot per column and element.
type AttributeBinding struct {
	// Buffer indexes BindingLayout.Buffers.
	Buffer     int
	Name       string
	Location   int
	Components int
	Component  metadata.ComponentType
	// Integer slots are read without conversion to float.
	Integer bool
	Stride  int
	Offset  int
	Divisor int
}

type BindingLayout struct {
	Buffers    []*metadata.VertexBuffer
	Attributes []AttributeBinding
}

// Slots is the number of attribute slots the layout uses.
func (l *BindingLayout) Slots() int {
	return len(l.Attributes)
}

// AttributeResolver returns the location of a program input, -1 when the
// program does not use it.
type AttributeResolver func(name string) int

// BuildBindingLayout maps the elements of the buffers to the inputs of a
// program. Elements the program does not use are skipped. Vertex buffers
// advance per vertex with the a_ prefix, instance buffers per instance with
// the i_ prefix. The total slot count over all buffers is checked against
// maxAttributes before anything is handed to a backend.
func BuildBindingLayout(resolve AttributeResolver, vertexBuffers, instanceBuffers []*metadata.VertexBuffer, maxAttributes int) (*BindingLayout, error) {
	layout := &BindingLayout{}
	add := func(buffer *metadata.VertexBuffer, prefix string, divisor int) error {
		if buffer == nil || buffer.Format == nil {
			return fmt.Errorf("%w: vertex buffer", core.ErrNilResource)
		}
		index := len(layout.Buffers)
		layout.Buffers = append(layout.Buffers, buffer)
		stride := buffer.Format.Size()
		for _, item := range buffer.Format.Items {
			if item.Attribute == metadata.PaddingAttribute {
				continue
			}
			name := prefix + item.Attribute
			location := resolve(name)
			if location < 0 {
				continue
			}
			slot := AttributeBinding{
				Buffer:    index,
				Name:      name,
				Component: item.Type.Component(),
				Integer:   item.Type.IsInteger(),
				Stride:    stride,
				Divisor:   divisor,
			}
			switch {
			case item.Type.IsScalarOrVector():
				for i := 0; i < item.ArraySize; i++ {
					slot.Location = location + i
					slot.Components = item.Type.ComponentCount()
					slot.Offset = item.Offset + i*item.Type.SizeInBytes()
					layout.Attributes = append(layout.Attributes, slot)
				}
			case item.Type == metadata.VertexElementMatrix44Float32 || item.Type == metadata.VertexElementMatrix33Float32:
				columns := 4
				if item.Type == metadata.VertexElementMatrix33Float32 {
					columns = 3
				}
				for i := 0; i < item.ArraySize; i++ {
					for column := 0; column < columns; column++ {
						slot.Location = location + column + i*columns
						slot.Components = columns
						slot.Offset = item.Offset + column*columns*4 + i*item.Type.SizeInBytes()
						layout.Attributes = append(layout.Attributes, slot)
					}
				}
			default:
				return fmt.Errorf("attribute `%s`: %w: %s", name, core.ErrUnsupportedAttributeType, item.Type)
			}
		}
		return nil
	}
	for _, vb := range vertexBuffers {
		if err := add(vb, glsl.VertexAttributePrefix, 0); err != nil {
			return nil, err
		}
	}
	for _, ib := range instanceBuffers {
		if err := add(ib, glsl.InstanceAttributePrefix, 1); err != nil {
			return nil, err
		}
	}
	if layout.Slots() > maxAttributes {
		return nil, fmt.Errorf("%w: %d slots (limit is %d)", core.ErrAttributeBudgetExceeded, layout.Slots(), maxAttributes)
	}
	return layout, nil
}

// Binding is a cached binding object (a vertex array object in GL).
type Binding struct {
	Key    BindingKey
	Layout *BindingLayout
	Handle uint32
	// Set by the layout translator of the context, nil without one.
	InternalData interface{}
}
