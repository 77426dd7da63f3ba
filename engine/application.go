package engine

import (
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/math"
)

type ApplicationConfig struct {
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	// Engine settings. The defaults are used when nil.
	Settings *core.Config
	// Color of the framebuffer before each frame, clamped to [0, 1].
	ClearColor math.ColorRGBa
}
