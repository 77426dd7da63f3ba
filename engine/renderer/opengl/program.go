package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// programInfo caches the uniform and attribute locations of a linked program.
type programInfo struct {
	handle     uint32
	uniforms   map[string]int32
	attributes map[string]int32
}

func (p *programInfo) uniform(name string) int32 {
	if location, ok := p.uniforms[name]; ok {
		return location
	}
	location := gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))
	p.uniforms[name] = location
	return location
}

func (p *programInfo) attribute(name string) int32 {
	if location, ok := p.attributes[name]; ok {
		return location
	}
	location := gl.GetAttribLocation(p.handle, gl.Str(name+"\x00"))
	p.attributes[name] = location
	return location
}

func compileShader(stage metadata.ShaderStage, source string) (uint32, error) {
	var shaderType uint32
	switch stage {
	case metadata.ShaderStageVertex:
		shaderType = gl.VERTEX_SHADER
	case metadata.ShaderStageGeometry:
		shaderType = gl.GEOMETRY_SHADER
	case metadata.ShaderStageFragment:
		shaderType = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unknown shader stage %d", stage)
	}

	shader := gl.CreateShader(shaderType)
	sources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, sources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", stage, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// CreateProgram compiles and links the sources. Compile and link logs are
// returned wrapped in core.ErrProgramGeneration.
func (b *Backend) CreateProgram(name string, sources metadata.ProgramSources) (*metadata.Program, error) {
	if err := b.alive(); err != nil {
		return nil, err
	}
	stages := []struct {
		stage  metadata.ShaderStage
		source string
	}{
		{metadata.ShaderStageVertex, sources.Vertex},
		{metadata.ShaderStageGeometry, sources.Geometry},
		{metadata.ShaderStageFragment, sources.Fragment},
	}

	var shaders []uint32
	defer func() {
		for _, shader := range shaders {
			gl.DeleteShader(shader)
		}
	}()
	for _, s := range stages {
		if s.source == "" {
			if s.stage == metadata.ShaderStageGeometry {
				continue
			}
			return nil, fmt.Errorf("%w: program %s has no %s stage", core.ErrProgramGeneration, name, s.stage)
		}
		shader, err := compileShader(s.stage, s.source)
		if err != nil {
			return nil, fmt.Errorf("%w: program %s: %s", core.ErrProgramGeneration, name, err.Error())
		}
		shaders = append(shaders, shader)
	}

	handle := gl.CreateProgram()
	for _, shader := range shaders {
		gl.AttachShader(handle, shader)
	}
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(log))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("%w: failed to link program %s: %s", core.ErrProgramGeneration, name, strings.TrimRight(log, "\x00"))
	}
	for _, shader := range shaders {
		gl.DetachShader(handle, shader)
	}

	program := metadata.NewProgram(b.id, name, sources)
	program.Handle = handle
	info := &programInfo{
		handle:     handle,
		uniforms:   make(map[string]int32),
		attributes: make(map[string]int32),
	}
	program.InternalData = info
	b.programs[handle] = info
	core.LogDebug("linked program %s (handle %d)", program.Name, handle)
	return program, nil
}

func (b *Backend) info(program *metadata.Program) (*programInfo, error) {
	if program == nil {
		return nil, fmt.Errorf("%w: program", core.ErrNilResource)
	}
	info, ok := b.programs[program.Handle]
	if !ok {
		return nil, fmt.Errorf("%w: program %s is not linked in context %d", core.ErrNilResource, program.Name, b.id)
	}
	return info, nil
}

func (b *Backend) DestroyProgram(program *metadata.Program) error {
	if _, err := b.info(program); err != nil {
		return err
	}
	gl.DeleteProgram(program.Handle)
	delete(b.programs, program.Handle)
	program.InternalData = nil
	return nil
}

func (b *Backend) AttributeLocation(program *metadata.Program, name string) int {
	info, err := b.info(program)
	if err != nil {
		return -1
	}
	return int(info.attribute(name))
}
