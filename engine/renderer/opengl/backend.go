package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// Version is the version of the current GL context.
type Version struct {
	Major, Minor int
}

func (v Version) AtLeast(major, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

/**
 * @brief Backend drives the GL context current on the calling thread. Every
 * method must be called from that thread.
 */
type Backend struct {
	id       metadata.ContextID
	version  Version
	programs map[uint32]*programInfo
	// height of the default framebuffer, scissor rectangles are flipped with it
	height   int32
	shutdown bool
}

// New loads the GL entry points of the current context.
func New(id metadata.ContextID) (*Backend, error) {
	if err := gl.Init(); err != nil {
		err = fmt.Errorf("failed to initialize OpenGL: %w", err)
		core.LogError(err.Error())
		return nil, err
	}
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	version := Version{Major: int(major), Minor: int(minor)}
	if !version.AtLeast(3, 3) {
		err := fmt.Errorf("%w: OpenGL %s, at least 3.3 is required", core.ErrUnsupportedFeature, version)
		core.LogError(err.Error())
		return nil, err
	}
	core.LogInfo("OpenGL %s (%s, %s)", version, gl.GoStr(gl.GetString(gl.RENDERER)), gl.GoStr(gl.GetString(gl.VERSION)))

	return &Backend{
		id:       id,
		version:  version,
		programs: make(map[uint32]*programInfo),
	}, nil
}

func (b *Backend) ContextID() metadata.ContextID { return b.id }
func (b *Backend) Type() renderer.RendererType   { return renderer.OpenGL }
func (b *Backend) Version() Version              { return b.version }

// Resize updates the viewport to the framebuffer size in pixels.
func (b *Backend) Resize(width, height int) {
	b.height = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *Backend) Clear(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *Backend) require(major, minor int, feature string) error {
	if !b.version.AtLeast(major, minor) {
		return fmt.Errorf("%w: %s requires OpenGL %d.%d, context is %s", core.ErrUnsupportedFeature, feature, major, minor, b.version)
	}
	return nil
}

func (b *Backend) alive() error {
	if b.shutdown {
		return fmt.Errorf("context %d: %w", b.id, core.ErrContextDestroyed)
	}
	return nil
}

// glError reports the pending GL error, if any.
func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%04x", op, code)
	}
	return nil
}

func (b *Backend) upload(target uint32, handle *uint32, data []byte, usage uint32) error {
	if err := b.alive(); err != nil {
		return err
	}
	if *handle == 0 {
		gl.GenBuffers(1, handle)
	}
	gl.BindBuffer(target, *handle)
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
	} else {
		gl.BufferData(target, len(data), gl.Ptr(data), usage)
	}
	gl.BindBuffer(target, 0)
	return glError("buffer upload")
}

func (b *Backend) UploadVertexBuffer(buffer *metadata.VertexBuffer, data []byte) error {
	if buffer == nil {
		return fmt.Errorf("%w: vertex buffer", core.ErrNilResource)
	}
	return b.upload(gl.ARRAY_BUFFER, &buffer.Handle, data, gl.STATIC_DRAW)
}

func (b *Backend) UploadIndexBuffer(buffer *metadata.IndexBuffer, data []byte) error {
	if buffer == nil {
		return fmt.Errorf("%w: index buffer", core.ErrNilResource)
	}
	// the element array binding belongs to the bound vertex array
	gl.BindVertexArray(0)
	return b.upload(gl.ELEMENT_ARRAY_BUFFER, &buffer.Handle, data, gl.STATIC_DRAW)
}

func (b *Backend) UploadStorageBuffer(buffer *metadata.ShaderStorageBuffer, data []byte) error {
	if buffer == nil || buffer.Format == nil {
		return fmt.Errorf("%w: storage buffer", core.ErrNilResource)
	}
	if err := b.require(4, 3, "shader storage buffers"); err != nil {
		return err
	}
	if len(data) > buffer.Format.Size() {
		return fmt.Errorf("storage buffer %s: %d bytes do not fit in %d", buffer.Name, len(data), buffer.Format.Size())
	}
	return b.upload(gl.SHADER_STORAGE_BUFFER, &buffer.Handle, data, gl.DYNAMIC_DRAW)
}

func (b *Backend) DestroyBuffer(handle uint32) error {
	if handle == 0 {
		return fmt.Errorf("%w: buffer 0", core.ErrNilResource)
	}
	gl.DeleteBuffers(1, &handle)
	return nil
}

// Shutdown releases the programs still owned by the backend.
func (b *Backend) Shutdown() error {
	if b.shutdown {
		return nil
	}
	for handle := range b.programs {
		gl.DeleteProgram(handle)
	}
	b.programs = make(map[uint32]*programInfo)
	b.shutdown = true
	core.LogDebug("OpenGL backend of context %d shut down", b.id)
	return nil
}
