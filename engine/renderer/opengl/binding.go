package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// CreateBinding records the attribute layout in a new vertex array object.
// Every buffer of the layout must be uploaded.
func (b *Backend) CreateBinding(program *metadata.Program, layout *renderer.BindingLayout) (uint32, error) {
	if err := b.alive(); err != nil {
		return 0, err
	}
	if _, err := b.info(program); err != nil {
		return 0, err
	}
	if layout == nil {
		return 0, fmt.Errorf("%w: binding layout", core.ErrNilResource)
	}
	for _, buffer := range layout.Buffers {
		if buffer.Handle == 0 {
			return 0, fmt.Errorf("%w: vertex buffer %s was never uploaded", core.ErrNilResource, buffer.Name)
		}
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	for _, a := range layout.Attributes {
		gl.BindBuffer(gl.ARRAY_BUFFER, layout.Buffers[a.Buffer].Handle)
		location := uint32(a.Location)
		gl.EnableVertexAttribArray(location)
		if a.Integer {
			gl.VertexAttribIPointerWithOffset(location, int32(a.Components), componentType(a.Component), int32(a.Stride), uintptr(a.Offset))
		} else {
			gl.VertexAttribPointerWithOffset(location, int32(a.Components), componentType(a.Component), false, int32(a.Stride), uintptr(a.Offset))
		}
		gl.VertexAttribDivisor(location, uint32(a.Divisor))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := glError("create binding"); err != nil {
		gl.DeleteVertexArrays(1, &vao)
		return 0, err
	}
	return vao, nil
}

func (b *Backend) DestroyBinding(handle uint32) error {
	if handle == 0 {
		return fmt.Errorf("%w: binding 0", core.ErrNilResource)
	}
	gl.DeleteVertexArrays(1, &handle)
	return nil
}

// Draw issues the draw call with the binding and program already applied.
func (b *Backend) Draw(call renderer.DrawCall) error {
	if err := b.alive(); err != nil {
		return err
	}
	if call.Binding == nil || call.Binding.Handle == 0 {
		return fmt.Errorf("%w: binding", core.ErrNilResource)
	}
	if call.InstanceOffset > 0 {
		if err := b.require(4, 2, "instance offsets"); err != nil {
			return err
		}
	}
	mode := primitive(call.Primitive)

	gl.BindVertexArray(call.Binding.Handle)
	defer gl.BindVertexArray(0)

	if call.IndexBuffer != nil {
		ib := call.IndexBuffer
		if ib.Handle == 0 {
			return fmt.Errorf("%w: index buffer %s was never uploaded", core.ErrNilResource, ib.Name)
		}
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.Handle)
		offset := uintptr(call.Offset * ib.Type.SizeInBytes())
		kind := indexType(ib.Type)
		switch {
		case call.Instances == 0:
			gl.DrawElementsWithOffset(mode, int32(call.Count), kind, offset)
		case call.InstanceOffset == 0:
			gl.DrawElementsInstanced(mode, int32(call.Count), kind, gl.PtrOffset(int(offset)), int32(call.Instances))
		default:
			gl.DrawElementsInstancedBaseInstance(mode, int32(call.Count), kind, gl.PtrOffset(int(offset)), int32(call.Instances), uint32(call.InstanceOffset))
		}
	} else {
		switch {
		case call.Instances == 0:
			gl.DrawArrays(mode, int32(call.Offset), int32(call.Count))
		case call.InstanceOffset == 0:
			gl.DrawArraysInstanced(mode, int32(call.Offset), int32(call.Count), int32(call.Instances))
		default:
			gl.DrawArraysInstancedBaseInstance(mode, int32(call.Offset), int32(call.Count), int32(call.Instances), uint32(call.InstanceOffset))
		}
	}
	return glError("draw")
}
