package systems

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/glsl"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

/** @brief Configuration for the shade style system. */
type ShadeStyleSystemConfig struct {
	/** @brief The GLSL version line of generated programs, e.g. "330 core". */
	GLSLVersion string
	/** @brief Soft limit on linked programs. Exceeding it only logs a warning. */
	MaxPrograms int
}

// programKey compares the full source text, equal hashes of different
// sources never share a program.
type programKey struct {
	sources metadata.ProgramSources
	shape   string
}

// ShadeStyleSystem turns styles into linked programs for a single render
// context. Programs are shared between styles that generate the same source
// for the same vertex layout.
type ShadeStyleSystem struct {
	Config    *ShadeStyleSystemConfig
	context   *renderer.RenderContext
	generator *glsl.Generator

	// programs by generated source and format shape
	programs map[programKey]*metadata.Program
	// the program each style last resolved to, per format shape
	styles map[*shadestyle.ShadeStyle]map[string]*metadata.Program
	// programs of draws without a style
	defaults map[string]*metadata.Program
}

func NewShadeStyleSystem(config *ShadeStyleSystemConfig, ctx *renderer.RenderContext) (*ShadeStyleSystem, error) {
	if config == nil {
		err := fmt.Errorf("%w: NewShadeStyleSystem - config is nil", core.ErrInvalidConfig)
		core.LogError(err.Error())
		return nil, err
	}
	if ctx == nil {
		err := fmt.Errorf("%w: NewShadeStyleSystem - render context", core.ErrNilResource)
		core.LogError(err.Error())
		return nil, err
	}
	if config.MaxPrograms <= 0 {
		err := fmt.Errorf("%w: NewShadeStyleSystem - config.MaxPrograms must be greater than 0", core.ErrInvalidConfig)
		core.LogError(err.Error())
		return nil, err
	}
	return &ShadeStyleSystem{
		Config:    config,
		context:   ctx,
		generator: glsl.NewGenerator(config.GLSLVersion),
		programs:  make(map[programKey]*metadata.Program),
		styles:    make(map[*shadestyle.ShadeStyle]map[string]*metadata.Program),
		defaults:  make(map[string]*metadata.Program),
	}, nil
}

// formatShape encodes the attribute layout a program is generated for.
func formatShape(vertexFormats, instanceFormats []*metadata.VertexFormat) string {
	var sb strings.Builder
	sb.WriteString("v")
	for _, f := range vertexFormats {
		sb.WriteByte('|')
		sb.WriteString(f.Key())
	}
	sb.WriteString("/i")
	for _, f := range instanceFormats {
		sb.WriteByte('|')
		sb.WriteString(f.Key())
	}
	return sb.String()
}

// InstanceFormats returns the instance formats a draw with style uses: the
// formats of the draw followed by those of the style's attribute buffers.
func InstanceFormats(style *shadestyle.ShadeStyle, instanceFormats []*metadata.VertexFormat) []*metadata.VertexFormat {
	if style == nil {
		return instanceFormats
	}
	attributes := style.AttributeBuffers()
	if len(attributes) == 0 {
		return instanceFormats
	}
	out := make([]*metadata.VertexFormat, 0, len(instanceFormats)+len(attributes))
	out = append(out, instanceFormats...)
	for _, buffer := range attributes {
		out = append(out, buffer.Format)
	}
	return out
}

/**
 * @brief Returns the program drawing geometry of the given formats with style.
 *
 * A nil style selects the default program. A clean style reuses the program
 * it resolved to for the same formats. A dirty style drops its cached
 * programs and is regenerated; the style is marked clean only when
 * generation and linking succeed, otherwise it stays dirty and the error
 * wraps core.ErrProgramGeneration.
 */
func (s *ShadeStyleSystem) Program(style *shadestyle.ShadeStyle, vertexFormats, instanceFormats []*metadata.VertexFormat) (*metadata.Program, error) {
	for _, list := range [][]*metadata.VertexFormat{vertexFormats, instanceFormats} {
		for _, f := range list {
			if f == nil {
				return nil, fmt.Errorf("%w: vertex format", core.ErrNilResource)
			}
		}
	}
	return s.programFor(style, vertexFormats, InstanceFormats(style, instanceFormats))
}

// programFor expects instanceFormats to already include the formats of the
// style's attribute buffers.
func (s *ShadeStyleSystem) programFor(style *shadestyle.ShadeStyle, vertexFormats, instanceFormats []*metadata.VertexFormat) (*metadata.Program, error) {
	shape := formatShape(vertexFormats, instanceFormats)

	var program *metadata.Program
	err := s.context.Pool().SafeCall(renderer.ProgramManagement, func() error {
		if s.context.Destroyed() {
			return fmt.Errorf("context %d: %w", s.context.ID(), core.ErrContextDestroyed)
		}
		metrics := s.context.Metrics()

		cache := s.cacheFor(style)
		if cached, ok := cache[shape]; ok {
			metrics.ProgramHits.Add(1)
			program = cached
			return nil
		}
		metrics.ProgramMisses.Add(1)

		p, err := s.generate(style, vertexFormats, instanceFormats, shape)
		if err != nil {
			metrics.RegenerationFailures.Add(1)
			return err
		}
		metrics.Regenerations.Add(1)
		cache[shape] = p
		if style != nil {
			style.MarkClean()
		}
		program = p
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return program, nil
}

func (s *ShadeStyleSystem) sources(style *shadestyle.ShadeStyle, vertexFormats, instanceFormats []*metadata.VertexFormat) (metadata.ProgramSources, error) {
	structure, err := glsl.StructureFromStyle(style, vertexFormats, instanceFormats)
	if err != nil {
		return metadata.ProgramSources{}, generationError(s.context.ID(), err)
	}
	sources, err := s.generator.Generate(structure)
	if err != nil {
		return metadata.ProgramSources{}, generationError(s.context.ID(), err)
	}
	return sources, nil
}

func (s *ShadeStyleSystem) generate(style *shadestyle.ShadeStyle, vertexFormats, instanceFormats []*metadata.VertexFormat, shape string) (*metadata.Program, error) {
	sources, err := s.sources(style, vertexFormats, instanceFormats)
	if err != nil {
		return nil, err
	}
	return s.link(sources, shape)
}

// link returns the program of sources, linking it on first use.
func (s *ShadeStyleSystem) link(sources metadata.ProgramSources, shape string) (*metadata.Program, error) {
	key := programKey{sources: sources, shape: shape}
	if program, ok := s.programs[key]; ok {
		return program, nil
	}

	core.LogDebug("[context=%d] creating new program for shape %s", s.context.ID(), shape)
	name := fmt.Sprintf("shadestyle-%016x", sources.Hash())
	program, err := s.context.Backend().CreateProgram(name, sources)
	if err != nil {
		return nil, generationError(s.context.ID(), err)
	}
	s.programs[key] = program
	if len(s.programs) > s.Config.MaxPrograms {
		core.LogWarn("[context=%d] %d programs linked, more than the configured maximum of %d", s.context.ID(), len(s.programs), s.Config.MaxPrograms)
	}
	return program, nil
}

func generationError(context metadata.ContextID, err error) error {
	if errors.Is(err, core.ErrProgramGeneration) {
		return fmt.Errorf("context %d: %w", context, err)
	}
	return fmt.Errorf("context %d: %w: %w", context, core.ErrProgramGeneration, err)
}

// ProgramCount is the number of distinct linked programs.
func (s *ShadeStyleSystem) ProgramCount() int {
	n := 0
	_ = s.context.Pool().SafeCall(renderer.ProgramManagement, func() error {
		n = len(s.programs)
		return nil
	})
	return n
}

// Forget drops the cache entries of style. Its programs stay linked, other
// styles may share them.
func (s *ShadeStyleSystem) Forget(style *shadestyle.ShadeStyle) {
	_ = s.context.Pool().SafeCall(renderer.ProgramManagement, func() error {
		delete(s.styles, style)
		return nil
	})
}

/**
 * @brief Shuts down the shade style system, destroying every program. The
 * first backend error is returned after all programs were visited.
 */
func (s *ShadeStyleSystem) Shutdown() error {
	return s.context.Pool().SafeCall(renderer.ProgramManagement, func() error {
		var first error
		for key, program := range s.programs {
			if err := s.context.Backend().DestroyProgram(program); err != nil {
				core.LogError("[context=%d] failed to destroy program %s: %s", s.context.ID(), program.Name, err.Error())
				if first == nil {
					first = err
				}
			}
			delete(s.programs, key)
		}
		s.styles = make(map[*shadestyle.ShadeStyle]map[string]*metadata.Program)
		s.defaults = make(map[string]*metadata.Program)
		return first
	})
}
