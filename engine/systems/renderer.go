package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

// RendererSystem submits draw calls of a single render context. A draw either
// reaches the backend completely or not at all: the program and the binding
// object are resolved before any state is applied.
type RendererSystem struct {
	context     *renderer.RenderContext
	shadeStyles *ShadeStyleSystem

	// The number of draw calls submitted since the last BeginFrame.
	DrawCalls uint64
	// The number of frames rendered so far.
	FrameNumber uint64
}

func NewRendererSystem(ctx *renderer.RenderContext, shadeStyles *ShadeStyleSystem) (*RendererSystem, error) {
	if ctx == nil || shadeStyles == nil {
		err := fmt.Errorf("%w: NewRendererSystem - render context and shade style system are required", core.ErrNilResource)
		core.LogError(err.Error())
		return nil, err
	}
	return &RendererSystem{
		context:     ctx,
		shadeStyles: shadeStyles,
	}, nil
}

func (r *RendererSystem) Context() *renderer.RenderContext { return r.context }

func (r *RendererSystem) BeginFrame() {
	r.DrawCalls = 0
}

func (r *RendererSystem) EndFrame() {
	r.FrameNumber++
}

/**
 * @brief Draws count vertices of the vertex buffers starting at offset.
 *
 * @param state The fixed function state of the draw.
 * @param style The shade style, nil for the default program.
 */
func (r *RendererSystem) DrawVertexBuffer(state metadata.DrawStyle, style *shadestyle.ShadeStyle, primitive metadata.DrawPrimitive, vertexBuffers []*metadata.VertexBuffer, offset, count int) error {
	return r.draw(state, style, renderer.DrawCall{
		Primitive: primitive,
		Offset:    offset,
		Count:     count,
	}, vertexBuffers, nil)
}

/**
 * @brief Draws count indices of indexBuffer starting at offset.
 */
func (r *RendererSystem) DrawIndexedVertexBuffer(state metadata.DrawStyle, style *shadestyle.ShadeStyle, primitive metadata.DrawPrimitive, indexBuffer *metadata.IndexBuffer, vertexBuffers []*metadata.VertexBuffer, offset, count int) error {
	if indexBuffer == nil {
		return fmt.Errorf("%w: index buffer", core.ErrNilResource)
	}
	if offset+count > indexBuffer.IndexCount {
		return fmt.Errorf("%w: %d indices from %d exceed the %d of %s", core.ErrInvalidDrawRange, count, offset, indexBuffer.IndexCount, indexBuffer.Name)
	}
	return r.draw(state, style, renderer.DrawCall{
		Primitive:   primitive,
		IndexBuffer: indexBuffer,
		Offset:      offset,
		Count:       count,
	}, vertexBuffers, nil)
}

/**
 * @brief Draws instances copies of the geometry. Instance buffers advance
 * once per instance; the attribute buffers of style are bound after them.
 *
 * @param indexBuffer Optional, nil for non indexed geometry.
 */
func (r *RendererSystem) DrawInstances(state metadata.DrawStyle, style *shadestyle.ShadeStyle, primitive metadata.DrawPrimitive, indexBuffer *metadata.IndexBuffer, vertexBuffers, instanceBuffers []*metadata.VertexBuffer, offset, count, instanceOffset, instances int) error {
	if instances < 0 || instanceOffset < 0 {
		return fmt.Errorf("%w: %d instances from %d", core.ErrInvalidDrawRange, instances, instanceOffset)
	}
	return r.draw(state, style, renderer.DrawCall{
		Primitive:      primitive,
		IndexBuffer:    indexBuffer,
		Offset:         offset,
		Count:          count,
		Instances:      instances,
		InstanceOffset: instanceOffset,
	}, vertexBuffers, instanceBuffers)
}

func (r *RendererSystem) draw(state metadata.DrawStyle, style *shadestyle.ShadeStyle, call renderer.DrawCall, vertexBuffers, instanceBuffers []*metadata.VertexBuffer) error {
	if call.Offset < 0 || call.Count < 0 {
		return fmt.Errorf("%w: %d elements from %d", core.ErrInvalidDrawRange, call.Count, call.Offset)
	}
	vertexFormats, err := formatsOf(vertexBuffers)
	if err != nil {
		return err
	}
	if style != nil {
		instanceBuffers = append(append([]*metadata.VertexBuffer(nil), instanceBuffers...), style.AttributeBuffers()...)
	}
	// style attributes are already part of instanceBuffers
	instanceFormats, err := formatsOf(instanceBuffers)
	if err != nil {
		return err
	}

	if err := checkRange(call, vertexBuffers, instanceBuffers); err != nil {
		return err
	}

	program, err := r.shadeStyles.programFor(style, vertexFormats, instanceFormats)
	if err != nil {
		return err
	}
	binding, err := r.context.Binding(program, vertexBuffers, instanceBuffers)
	if err != nil {
		return err
	}

	if err := r.context.ApplyState(state); err != nil {
		core.LogError("[context=%d] failed to apply draw state: %s", r.context.ID(), err.Error())
		return err
	}
	if err := r.context.Backend().ApplyStyle(program, style); err != nil {
		core.LogError("[context=%d] failed to apply style to program %s: %s", r.context.ID(), program.Name, err.Error())
		return err
	}
	call.Program = program
	call.Binding = binding
	if err := r.context.Backend().Draw(call); err != nil {
		core.LogError("[context=%d] draw failed: %s", r.context.ID(), err.Error())
		return err
	}
	r.DrawCalls++
	return nil
}

func formatsOf(buffers []*metadata.VertexBuffer) ([]*metadata.VertexFormat, error) {
	formats := make([]*metadata.VertexFormat, len(buffers))
	for i, buffer := range buffers {
		if buffer == nil || buffer.Format == nil {
			return nil, fmt.Errorf("%w: vertex buffer", core.ErrNilResource)
		}
		formats[i] = buffer.Format
	}
	return formats, nil
}

// checkRange rejects draws reading past the end of a buffer. Vertex buffers
// bound to an indexed draw are not checked, the indices address them.
func checkRange(call renderer.DrawCall, vertexBuffers, instanceBuffers []*metadata.VertexBuffer) error {
	if call.IndexBuffer == nil {
		for _, vb := range vertexBuffers {
			if call.Offset+call.Count > vb.VertexCount {
				return fmt.Errorf("%w: %d vertices from %d exceed the %d of %s", core.ErrInvalidDrawRange, call.Count, call.Offset, vb.VertexCount, vb.Name)
			}
		}
	}
	for _, ib := range instanceBuffers {
		if call.InstanceOffset+call.Instances > ib.VertexCount {
			return fmt.Errorf("%w: %d instances from %d exceed the %d of %s", core.ErrInvalidDrawRange, call.Instances, call.InstanceOffset, ib.VertexCount, ib.Name)
		}
	}
	return nil
}
