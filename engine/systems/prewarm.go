package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

// PrewarmRequest names a style and the formats it will be drawn with.
type PrewarmRequest struct {
	Style           *shadestyle.ShadeStyle
	VertexFormats   []*metadata.VertexFormat
	InstanceFormats []*metadata.VertexFormat
}

type prewarmResult struct {
	skipped bool
	sources metadata.ProgramSources
	err     error
}

/**
 * @brief Resolves the programs of the requests before their first draw.
 *
 * Sources are generated on the job system, programs are linked afterwards on
 * the calling thread, which must own the render context. Styles must not be
 * modified until Prewarm returns. Clean styles that already resolved are
 * skipped. A style is marked clean only when every request naming it
 * succeeded, so one failed shape keeps the whole style dirty. The failures
 * are joined.
 */
func (s *ShadeStyleSystem) Prewarm(jobs *JobSystem, requests []PrewarmRequest) error {
	if jobs == nil {
		return fmt.Errorf("%w: job system", core.ErrNilResource)
	}
	shapes := make([]string, len(requests))
	instances := make([][]*metadata.VertexFormat, len(requests))
	results := make([]prewarmResult, len(requests))

	for _, r := range requests {
		for _, list := range [][]*metadata.VertexFormat{r.VertexFormats, r.InstanceFormats} {
			for _, f := range list {
				if f == nil {
					return fmt.Errorf("%w: vertex format", core.ErrNilResource)
				}
			}
		}
	}

	var wg sync.WaitGroup
	for i, r := range requests {
		instances[i] = InstanceFormats(r.Style, r.InstanceFormats)
		shapes[i] = formatShape(r.VertexFormats, instances[i])
		if s.resolved(r.Style, shapes[i]) {
			results[i].skipped = true
			continue
		}
		i, r := i, r
		wg.Add(1)
		err := jobs.Submit(JobTask{
			Run: func() error {
				defer wg.Done()
				results[i].sources, results[i].err = s.sources(r.Style, r.VertexFormats, instances[i])
				return results[i].err
			},
		})
		if err != nil {
			wg.Done()
			results[i].err = err
		}
	}
	wg.Wait()

	var failures []error
	err := s.context.Pool().SafeCall(renderer.ProgramManagement, func() error {
		if s.context.Destroyed() {
			return fmt.Errorf("context %d: %w", s.context.ID(), core.ErrContextDestroyed)
		}
		metrics := s.context.Metrics()
		caches := make(map[*shadestyle.ShadeStyle]map[string]*metadata.Program)
		failed := make(map[*shadestyle.ShadeStyle]bool)
		for i, r := range requests {
			if results[i].skipped {
				metrics.ProgramHits.Add(1)
				continue
			}
			metrics.ProgramMisses.Add(1)
			err := results[i].err
			var program *metadata.Program
			if err == nil {
				program, err = s.link(results[i].sources, shapes[i])
			}
			if err != nil {
				metrics.RegenerationFailures.Add(1)
				failures = append(failures, err)
				failed[r.Style] = true
				continue
			}
			metrics.Regenerations.Add(1)
			// stale entries of a dirty style are dropped once
			cache, ok := caches[r.Style]
			if !ok {
				cache = s.cacheFor(r.Style)
				caches[r.Style] = cache
			}
			cache[shapes[i]] = program
		}
		for style := range caches {
			if style != nil && !failed[style] {
				style.MarkClean()
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		err := errors.Join(failures...)
		core.LogError("prewarm: %d of %d requests failed: %s", len(failures), len(requests), err.Error())
		return err
	}
	core.LogDebug("[context=%d] prewarmed %d requests", s.context.ID(), len(requests))
	return nil
}

// resolved reports whether a clean style already has a program for shape.
func (s *ShadeStyleSystem) resolved(style *shadestyle.ShadeStyle, shape string) bool {
	found := false
	_ = s.context.Pool().SafeCall(renderer.ProgramManagement, func() error {
		if style == nil {
			_, found = s.defaults[shape]
			return nil
		}
		if style.Dirty() {
			return nil
		}
		_, found = s.styles[style][shape]
		return nil
	})
	return found
}

// cacheFor returns the per shape cache of style, dropping stale entries of a
// dirty style. Must be called with ProgramManagement held.
func (s *ShadeStyleSystem) cacheFor(style *shadestyle.ShadeStyle) map[string]*metadata.Program {
	if style == nil {
		return s.defaults
	}
	if style.Dirty() {
		delete(s.styles, style)
	}
	if s.styles[style] == nil {
		s.styles[style] = make(map[string]*metadata.Program)
	}
	return s.styles[style]
}
