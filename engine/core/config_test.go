package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultMaxVertexAttributes, cfg.Renderer.MaxVertexAttributes)
	assert.Equal(t, BackendOpenGL, cfg.Renderer.Backend)
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[log]
level = "debug"

[renderer]
backend = "null"
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, BackendNull, cfg.Renderer.Backend)
	assert.Equal(t, "330 core", cfg.Renderer.GLSLVersion)
	assert.Equal(t, DefaultMaxVertexAttributes, cfg.Renderer.MaxVertexAttributes)
}

func TestParseConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"backend", "[renderer]\nbackend = \"metal\"\n"},
		{"budget zero", "[renderer]\nmax_vertex_attributes = 0\n"},
		{"budget too large", "[renderer]\nmax_vertex_attributes = 99\n"},
		{"log level", "[log]\nlevel = \"chatty\"\n"},
		{"queue", "[assets]\nwatch = true\nreload_queue_size = 0\n"},
		{"workers", "[shadestyle]\nprewarm_workers = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParseConfigSyntaxError(t *testing.T) {
	_, err := ParseConfig([]byte("[renderer\n"))
	assert.Error(t, err)
}

func TestLoadConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Renderer.MaxVertexAttributes = 8
	data, err := cfg.Encode()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hal.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel(" WARNING ")
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, lvl)

	lvl, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, lvl)

	_, err = ParseLogLevel("trace")
	assert.Error(t, err)
}
