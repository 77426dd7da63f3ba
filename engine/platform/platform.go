package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

var startTime float64 = 0

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Platform owns the window and the GL context made current on it.
type Platform struct {
	Window    *glfw.Window
	contextID metadata.ContextID
	hasID     bool
}

func New() (*Platform, error) {
	return &Platform{
		Window: nil,
	}, nil
}

/**
 * @brief Opens the window and creates a core profile GL context of at least
 * version major.minor. The context is current on the calling thread afterwards.
 */
func (p *Platform) Startup(applicationName string, width, height uint32, major, minor int) error {
	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, major)
	glfw.WindowHint(glfw.ContextVersionMinor, minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		glfw.Terminate()
		core.LogFatal("failed to create window: %s", err)
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	p.Window = window

	p.contextID = metadata.ContextID(core.IdentifierAquireNewID(p))
	p.hasID = true

	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetCloseCallback(closeCallback)
	p.Window.SetFramebufferSizeCallback(framebufferSizeCallback)
	p.Window.Show()

	startTime = glfw.GetTime()
	core.LogInfo("created window `%s` with a GL %d.%d core context (id %d)", applicationName, major, minor, p.contextID)

	return nil
}

// ContextID identifies the GL context of the window among all live contexts.
func (p *Platform) ContextID() metadata.ContextID {
	return p.contextID
}

// FramebufferSize returns the size in pixels, which differs from the window
// size on high-DPI displays.
func (p *Platform) FramebufferSize() (int, int) {
	if p.Window == nil {
		return 0, 0
	}
	return p.Window.GetFramebufferSize()
}

func (p *Platform) Shutdown() error {
	var err error
	if p.hasID {
		err = core.IdentifierReleaseID(uint32(p.contextID))
		p.hasID = false
	}
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return err
}

// PumpMessages polls window events and reports whether the window is still open.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return p.Window != nil && !p.Window.ShouldClose()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

// GetAbsoluteTime returns the seconds since Startup.
func (p *Platform) GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	var context core.EventContext
	context.Data.U32[0] = uint32(key)
	switch action {
	case glfw.Press, glfw.Repeat:
		if key == glfw.KeyEscape {
			core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
			return
		}
		core.EventFire(core.EVENT_CODE_KEY_PRESSED, nil, context)
	case glfw.Release:
		core.EventFire(core.EVENT_CODE_KEY_RELEASED, nil, context)
	}
}

func closeCallback(w *glfw.Window) {
	core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
}

func framebufferSizeCallback(w *glfw.Window, width, height int) {
	var context core.EventContext
	context.Data.U32[0] = uint32(width)
	context.Data.U32[1] = uint32(height)
	core.EventFire(core.EVENT_CODE_RESIZED, nil, context)
}
