package core

import (
	"sync"
	"sync/atomic"
)

const AVG_COUNT uint8 = 30

type MetricsState struct {
	FrameAVGCounter    uint8
	MStimes            [AVG_COUNT]float64
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{
			MStimes: [AVG_COUNT]float64{0},
		}
	})
	return nil
}

func MetricsUpdate(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	metricsState.MStimes[metricsState.FrameAVGCounter] = frameMS
	if metricsState.FrameAVGCounter == AVG_COUNT-1 {
		metricsState.MSavg = 0
		for i := uint8(0); i < AVG_COUNT; i++ {
			metricsState.MSavg += metricsState.MStimes[i]
		}
		metricsState.MSavg /= float64(AVG_COUNT)
	}
	metricsState.FrameAVGCounter++
	metricsState.FrameAVGCounter %= AVG_COUNT

	metricsState.AccumulatedFrameMS += frameMS
	if metricsState.AccumulatedFrameMS > 1000 {
		metricsState.FPS = float64(metricsState.Frames)
		metricsState.AccumulatedFrameMS -= 1000
		metricsState.Frames = 0
	}

	metricsState.Frames++
}

func MetricsFrame() (float64, float64) {
	return metricsState.FPS, metricsState.MSavg
}

// CacheMetrics counts lookups in the program and binding caches of a single
// render context.
type CacheMetrics struct {
	ProgramHits          atomic.Uint64
	ProgramMisses        atomic.Uint64
	Regenerations        atomic.Uint64
	RegenerationFailures atomic.Uint64
	BindingHits          atomic.Uint64
	BindingMisses        atomic.Uint64
}

type CacheSnapshot struct {
	ProgramHits          uint64
	ProgramMisses        uint64
	Regenerations        uint64
	RegenerationFailures uint64
	BindingHits          uint64
	BindingMisses        uint64
}

func (m *CacheMetrics) Snapshot() CacheSnapshot {
	return CacheSnapshot{
		ProgramHits:          m.ProgramHits.Load(),
		ProgramMisses:        m.ProgramMisses.Load(),
		Regenerations:        m.Regenerations.Load(),
		RegenerationFailures: m.RegenerationFailures.Load(),
		BindingHits:          m.BindingHits.Load(),
		BindingMisses:        m.BindingMisses.Load(),
	}
}
