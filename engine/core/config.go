package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	BackendOpenGL = "opengl"
	BackendNull   = "null"

	// DefaultMaxVertexAttributes is the attribute slot budget of a single
	// binding object.
	DefaultMaxVertexAttributes = 16
	// attribute slots any GL 3.3 driver is required to expose
	maxSupportedVertexAttributes = 32
)

type ApplicationSection struct {
	Name   string `toml:"name"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type LogSection struct {
	Level string `toml:"level"`
}

type RendererSection struct {
	Backend             string `toml:"backend"`
	GLSLVersion         string `toml:"glsl_version"`
	MaxVertexAttributes int    `toml:"max_vertex_attributes"`
	Debug               bool   `toml:"debug"`
	// Keep the Vulkan vertex input state of every binding.
	VulkanVertexInput bool `toml:"vulkan_vertex_input"`
}

type ShadeStyleSection struct {
	// MaxPrograms is a soft limit: exceeding it only logs a warning.
	MaxPrograms int `toml:"max_programs"`
	// Workers generating sources when programs are prewarmed.
	PrewarmWorkers int `toml:"prewarm_workers"`
}

type AssetsSection struct {
	Watch           bool   `toml:"watch"`
	Directory       string `toml:"directory"`
	ReloadQueueSize int    `toml:"reload_queue_size"`
}

type Config struct {
	Application ApplicationSection `toml:"application"`
	Log         LogSection         `toml:"log"`
	Renderer    RendererSection    `toml:"renderer"`
	ShadeStyle  ShadeStyleSection  `toml:"shadestyle"`
	Assets      AssetsSection      `toml:"assets"`
}

func DefaultConfig() *Config {
	return &Config{
		Application: ApplicationSection{
			Name:   "anima-hal",
			Width:  1280,
			Height: 720,
		},
		Log: LogSection{
			Level: string(LogLevelInfo),
		},
		Renderer: RendererSection{
			Backend:             BackendOpenGL,
			GLSLVersion:         "330 core",
			MaxVertexAttributes: DefaultMaxVertexAttributes,
		},
		ShadeStyle: ShadeStyleSection{
			MaxPrograms:    256,
			PrewarmWorkers: 4,
		},
		Assets: AssetsSection{
			Watch:           false,
			Directory:       "assets/styles",
			ReloadQueueSize: 64,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. Keys missing from the
// file keep their default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file `%s`: %w", path, err)
		LogError(err.Error())
		return nil, err
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		err = fmt.Errorf("failed to parse config: %w", err)
		LogError(err.Error())
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	switch c.Renderer.Backend {
	case BackendOpenGL, BackendNull:
	default:
		return fmt.Errorf("%w: unknown renderer backend `%s`", ErrInvalidConfig, c.Renderer.Backend)
	}
	if c.Renderer.MaxVertexAttributes <= 0 || c.Renderer.MaxVertexAttributes > maxSupportedVertexAttributes {
		return fmt.Errorf("%w: max_vertex_attributes must be in [1, %d], got %d", ErrInvalidConfig, maxSupportedVertexAttributes, c.Renderer.MaxVertexAttributes)
	}
	if c.Renderer.GLSLVersion == "" {
		return fmt.Errorf("%w: glsl_version must not be empty", ErrInvalidConfig)
	}
	if c.ShadeStyle.PrewarmWorkers <= 0 {
		return fmt.Errorf("%w: prewarm_workers must be positive, got %d", ErrInvalidConfig, c.ShadeStyle.PrewarmWorkers)
	}
	if c.Assets.Watch && c.Assets.ReloadQueueSize <= 0 {
		return fmt.Errorf("%w: reload_queue_size must be positive when watching assets", ErrInvalidConfig)
	}
	return nil
}

// Encode writes the configuration back as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
