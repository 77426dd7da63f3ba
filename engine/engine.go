package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/anima-hal/engine/assets"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/platform"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/nullgl"
	"github.com/spaghettifunk/anima-hal/engine/renderer/opengl"
	"github.com/spaghettifunk/anima-hal/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// frames between two metrics log lines
const metricsLogInterval = 300

// resizer is implemented by backends drawing to a window.
type resizer interface {
	Resize(width, height int)
}

type clearer interface {
	Clear(r, g, b, a float32)
}

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	settings      *core.Config
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	backend       renderer.Backend
	systemManager *systems.SystemManager
	styleWatcher  *assets.StyleWatcher
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
	// headless context id, released on shutdown
	nullContext uint32
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("%w: game and application config are required", core.ErrNilResource)
	}
	settings := g.ApplicationConfig.Settings
	if settings == nil {
		settings = core.DefaultConfig()
	}
	if err := settings.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	level := g.ApplicationConfig.LogLevel
	if level == "" {
		level = core.LogLevel(settings.Log.Level)
	}
	core.SetLogLevel(level)

	p, err := platform.New()
	if err != nil {
		return nil, err
	}

	width, height := g.ApplicationConfig.StartWidth, g.ApplicationConfig.StartHeight
	if width == 0 || height == 0 {
		width, height = settings.Application.Width, settings.Application.Height
	}

	return &Engine{
		currentStage: EngineStageBootComplete,
		gameInstance: g,
		settings:     settings,
		clock:        core.NewClock(),
		platform:     p,
		width:        width,
		height:       height,
		lastTime:     0,
	}, nil
}

func (e *Engine) windowed() bool {
	return e.settings.Renderer.Backend == core.BackendOpenGL
}

func (e *Engine) createBackend() (renderer.Backend, error) {
	if !e.windowed() {
		e.nullContext = core.IdentifierAquireNewID(e)
		core.LogInfo("running headless with the null backend (context %d)", e.nullContext)
		return nullgl.New(metadata.ContextID(e.nullContext)), nil
	}
	name := e.gameInstance.ApplicationConfig.Name
	if name == "" {
		name = e.settings.Application.Name
	}
	if err := e.platform.Startup(name, e.width, e.height, 3, 3); err != nil {
		return nil, err
	}
	backend, err := opengl.New(e.platform.ContextID())
	if err != nil {
		return nil, err
	}
	width, height := e.platform.FramebufferSize()
	backend.Resize(width, height)
	return backend, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	// initialize events
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_KEY_RELEASED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	backend, err := e.createBackend()
	if err != nil {
		return err
	}
	e.backend = backend

	sm, err := systems.NewSystemManager(e.settings, backend)
	if err != nil {
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm

	if e.settings.Assets.Watch {
		watcher, err := assets.NewStyleWatcher(e.settings.Assets.Directory, e.settings.Assets.ReloadQueueSize)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		e.styleWatcher = watcher
		e.gameInstance.StyleWatcher = watcher
	}

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}

	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}
	e.isRunning.Store(true)
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()
	rendererSystem := e.systemManager.Renderer()

	for e.isRunning.Load() {
		if e.windowed() && !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)

		// styles are only mutated on this thread
		if e.styleWatcher != nil {
			if changed := e.styleWatcher.Apply(); changed > 0 {
				var context core.EventContext
				context.Data.U32[0] = uint32(changed)
				core.EventFire(core.EVENT_CODE_STYLE_RELOADED, e, context)
			}
		}

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err.Error())
			e.isRunning.Store(false)
			return err
		}

		if c, ok := e.backend.(clearer); ok {
			bg := e.gameInstance.ApplicationConfig.ClearColor.Saturated()
			c.Clear(float32(bg.R), float32(bg.G), float32(bg.B), float32(bg.A))
		}
		rendererSystem.BeginFrame()
		// Call the game's render routine.
		if err := e.gameInstance.FnRender(rendererSystem, delta); err != nil {
			core.LogError("game render failed, shutting down: %s", err.Error())
			e.isRunning.Store(false)
			return err
		}
		rendererSystem.EndFrame()

		if e.windowed() {
			e.platform.SwapBuffers()
		}

		e.clock.Update()
		core.MetricsUpdate(e.clock.Elapsed() - currentTime)
		if rendererSystem.FrameNumber%metricsLogInterval == 0 {
			fps, frameMS := core.MetricsFrame()
			cache := e.systemManager.Context().Metrics().Snapshot()
			core.LogDebug("fps %.1f (%.2f ms), programs %d hits %d misses %d, bindings %d hits %d misses",
				fps, frameMS, e.systemManager.ShadeStyles().ProgramCount(), cache.ProgramHits, cache.ProgramMisses,
				e.systemManager.Context().BindingCount(), cache.BindingHits, cache.BindingMisses)
		}

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

// Stop asks the main loop to exit after the current frame. Safe to call from
// any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.styleWatcher != nil {
		if err := e.styleWatcher.Close(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			return err
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if e.windowed() {
		if err := e.platform.Shutdown(); err != nil {
			return err
		}
	} else if e.backend != nil {
		if err := core.IdentifierReleaseID(e.nullContext); err != nil {
			return err
		}
	}
	if err := core.EventShutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	keyCode := context.Data.U32[0]
	if code == core.EVENT_CODE_KEY_PRESSED {
		core.LogDebug("key %d pressed in window.", keyCode)
	} else {
		core.LogDebug("key %d released in window.", keyCode)
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	width := context.Data.U32[0]
	height := context.Data.U32[1]

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if r, ok := e.backend.(resizer); ok {
		r.Resize(int(width), int(height))
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return true
}
