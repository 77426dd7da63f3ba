package renderer

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// RenderContext owns the per context caches of a backend. Resources created
// through one context are never visible to another, so every cache is keyed
// by the context id and released with it.
type RenderContext struct {
	id            metadata.ContextID
	backend       Backend
	pool          *LockPool
	bindings      map[BindingKey]*Binding
	state         *StateTracker
	metrics       *core.CacheMetrics
	maxAttributes int
	translate     LayoutTranslator
	destroyed     atomic.Bool
}

// LayoutTranslator converts a new binding layout into an API specific
// description kept in Binding.InternalData. A failure rejects the binding.
type LayoutTranslator func(layout *BindingLayout) (interface{}, error)

func NewRenderContext(backend Backend, maxAttributes int) (*RenderContext, error) {
	if backend == nil {
		err := fmt.Errorf("%w: backend", core.ErrNilResource)
		core.LogError(err.Error())
		return nil, err
	}
	if maxAttributes < 1 {
		err := fmt.Errorf("%w: max vertex attributes must be positive, got %d", core.ErrInvalidConfig, maxAttributes)
		core.LogError(err.Error())
		return nil, err
	}
	return &RenderContext{
		id:            backend.ContextID(),
		backend:       backend,
		pool:          NewLockPool(),
		bindings:      make(map[BindingKey]*Binding),
		state:         NewStateTracker(),
		metrics:       &core.CacheMetrics{},
		maxAttributes: maxAttributes,
	}, nil
}

// SetLayoutTranslator installs translate for bindings created afterwards.
func (c *RenderContext) SetLayoutTranslator(translate LayoutTranslator) {
	_ = c.pool.SafeCall(BindingManagement, func() error {
		c.translate = translate
		return nil
	})
}

func (c *RenderContext) ID() metadata.ContextID { return c.id }
func (c *RenderContext) Backend() Backend       { return c.backend }
func (c *RenderContext) Pool() *LockPool        { return c.pool }

func (c *RenderContext) Metrics() *core.CacheMetrics { return c.metrics }

func (c *RenderContext) MaxAttributes() int { return c.maxAttributes }

func (c *RenderContext) Destroyed() bool {
	return c.destroyed.Load()
}

// Binding returns the binding object of program with the given buffers,
// creating it on first use. The attribute budget is checked before the
// backend is called, a failed lookup leaves the cache untouched.
func (c *RenderContext) Binding(program *metadata.Program, vertexBuffers, instanceBuffers []*metadata.VertexBuffer) (*Binding, error) {
	if program == nil {
		return nil, fmt.Errorf("%w: program", core.ErrNilResource)
	}
	for _, list := range [][]*metadata.VertexBuffer{vertexBuffers, instanceBuffers} {
		for _, vb := range list {
			if vb == nil || vb.Format == nil {
				return nil, fmt.Errorf("%w: vertex buffer", core.ErrNilResource)
			}
		}
	}

	var binding *Binding
	err := c.pool.SafeCall(BindingManagement, func() error {
		if c.destroyed.Load() {
			return fmt.Errorf("context %d: %w", c.id, core.ErrContextDestroyed)
		}
		key := NewBindingKey(c.id, program, vertexBuffers, instanceBuffers)
		if cached, ok := c.bindings[key]; ok {
			c.metrics.BindingHits.Add(1)
			binding = cached
			return nil
		}
		c.metrics.BindingMisses.Add(1)
		core.LogDebug("[context=%d] creating new binding for key %s", c.id, key)

		resolve := func(name string) int {
			return c.backend.AttributeLocation(program, name)
		}
		layout, err := BuildBindingLayout(resolve, vertexBuffers, instanceBuffers, c.maxAttributes)
		if err != nil {
			return fmt.Errorf("context %d program %s: %w", c.id, program.Name, err)
		}
		var internal interface{}
		if c.translate != nil {
			if internal, err = c.translate(layout); err != nil {
				return fmt.Errorf("context %d program %s: %w", c.id, program.Name, err)
			}
		}
		handle, err := c.backend.CreateBinding(program, layout)
		if err != nil {
			return fmt.Errorf("context %d program %s: %w", c.id, program.Name, err)
		}
		binding = &Binding{Key: key, Layout: layout, Handle: handle, InternalData: internal}
		c.bindings[key] = binding
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return binding, nil
}

// BindingCount is the number of cached binding objects.
func (c *RenderContext) BindingCount() int {
	n := 0
	_ = c.pool.SafeCall(BindingManagement, func() error {
		n = len(c.bindings)
		return nil
	})
	return n
}

// ApplyState hands the changed draw style fields to the backend.
func (c *RenderContext) ApplyState(style metadata.DrawStyle) error {
	return c.pool.SafeCall(StateManagement, func() error {
		if c.destroyed.Load() {
			return fmt.Errorf("context %d: %w", c.id, core.ErrContextDestroyed)
		}
		changes := c.state.Diff(style)
		if changes == StateNone {
			return nil
		}
		if err := c.backend.ApplyState(style, changes); err != nil {
			// the backend state is unknown, apply everything next time
			c.state.Reset()
			return err
		}
		return nil
	})
}

// Destroy releases every cached binding and marks the context destroyed.
// Later lookups fail with core.ErrContextDestroyed. The first backend error
// is returned after all bindings were visited.
func (c *RenderContext) Destroy() error {
	return c.pool.SafeCall(BindingManagement, func() error {
		if c.destroyed.Swap(true) {
			return nil
		}
		var first error
		for key, binding := range c.bindings {
			if err := c.backend.DestroyBinding(binding.Handle); err != nil {
				core.LogError("[context=%d] failed to destroy binding %s: %s", c.id, key, err.Error())
				if first == nil {
					first = err
				}
			}
			delete(c.bindings, key)
		}
		core.LogDebug("[context=%d] destroyed", c.id)
		return first
	})
}
