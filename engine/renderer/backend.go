package renderer

import (
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

type RendererType uint8

const (
	OpenGL RendererType = iota
	Null
)

// DrawCall describes one draw of a bound program. Index buffer is nil for
// non indexed draws, Instances is zero for non instanced draws.
type DrawCall struct {
	Program        *metadata.Program
	Binding        *Binding
	Primitive      metadata.DrawPrimitive
	IndexBuffer    *metadata.IndexBuffer
	Offset         int
	Count          int
	Instances      int
	InstanceOffset int
}

// Backend is the graphics API of a single context. Every method is called
// from the thread owning the context.
type Backend interface {
	ContextID() metadata.ContextID
	Type() RendererType

	CreateProgram(name string, sources metadata.ProgramSources) (*metadata.Program, error)
	DestroyProgram(program *metadata.Program) error
	// AttributeLocation returns -1 for inputs the program does not use.
	AttributeLocation(program *metadata.Program, name string) int

	UploadVertexBuffer(buffer *metadata.VertexBuffer, data []byte) error
	UploadIndexBuffer(buffer *metadata.IndexBuffer, data []byte) error
	UploadStorageBuffer(buffer *metadata.ShaderStorageBuffer, data []byte) error
	DestroyBuffer(handle uint32) error

	CreateBinding(program *metadata.Program, layout *BindingLayout) (uint32, error)
	DestroyBinding(handle uint32) error

	ApplyState(style metadata.DrawStyle, changes StateChange) error
	// ApplyStyle binds the program and uploads the parameters and buffers of
	// style. style is nil for the default program.
	ApplyStyle(program *metadata.Program, style *shadestyle.ShadeStyle) error
	Draw(call DrawCall) error

	Shutdown() error
}
