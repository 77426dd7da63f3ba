package systems

import (
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/vulkan"
)

// SystemManager owns the systems of one render context and shuts them down in
// reverse order of creation.
type SystemManager struct {
	context          *renderer.RenderContext
	shadeStyleSystem *ShadeStyleSystem
	rendererSystem   *RendererSystem
	jobSystem        *JobSystem
}

func NewSystemManager(config *core.Config, backend renderer.Backend) (*SystemManager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	ctx, err := renderer.NewRenderContext(backend, config.Renderer.MaxVertexAttributes)
	if err != nil {
		return nil, err
	}
	if config.Renderer.VulkanVertexInput {
		ctx.SetLayoutTranslator(vulkan.Translate)
	}
	ss, err := NewShadeStyleSystem(&ShadeStyleSystemConfig{
		GLSLVersion: config.Renderer.GLSLVersion,
		MaxPrograms: config.ShadeStyle.MaxPrograms,
	}, ctx)
	if err != nil {
		return nil, err
	}
	rs, err := NewRendererSystem(ctx, ss)
	if err != nil {
		return nil, err
	}
	js, err := NewJobSystem(config.ShadeStyle.PrewarmWorkers, config.ShadeStyle.PrewarmWorkers*2)
	if err != nil {
		return nil, err
	}
	core.LogInfo("[context=%d] systems initialized (max vertex attributes %d, glsl %s)", ctx.ID(), ctx.MaxAttributes(), config.Renderer.GLSLVersion)
	return &SystemManager{
		context:          ctx,
		shadeStyleSystem: ss,
		rendererSystem:   rs,
		jobSystem:        js,
	}, nil
}

func (sm *SystemManager) Context() *renderer.RenderContext { return sm.context }
func (sm *SystemManager) ShadeStyles() *ShadeStyleSystem   { return sm.shadeStyleSystem }
func (sm *SystemManager) Renderer() *RendererSystem        { return sm.rendererSystem }
func (sm *SystemManager) Jobs() *JobSystem                 { return sm.jobSystem }

// Prewarm resolves the programs of requests on the job system of the manager.
func (sm *SystemManager) Prewarm(requests ...PrewarmRequest) error {
	return sm.shadeStyleSystem.Prewarm(sm.jobSystem, requests)
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.shadeStyleSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.context.Destroy(); err != nil {
		return err
	}
	if err := sm.context.Backend().Shutdown(); err != nil {
		return err
	}
	return nil
}
