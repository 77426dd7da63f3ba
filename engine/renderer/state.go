package renderer

import "github.com/spaghettifunk/anima-hal/engine/renderer/metadata"

// StateChange flags the draw style fields a backend has to apply.
type StateChange uint32

const (
	StateClip StateChange = 1 << iota
	StateChannelMask
	StateBlendMode
	StateDepthWrite
	StateDepthTest
	StateCullMode

	StateNone StateChange = 0
	StateAll              = StateClip | StateChannelMask | StateBlendMode | StateDepthWrite | StateDepthTest | StateCullMode
)

func (c StateChange) Has(flag StateChange) bool {
	return c&flag != 0
}

// StateTracker remembers the last applied draw style of a context.
type StateTracker struct {
	current metadata.DrawStyle
	applied bool
}

func NewStateTracker() *StateTracker {
	return &StateTracker{}
}

// Diff records next as applied and returns the fields that differ from the
// previous state. The first call reports every field.
func (t *StateTracker) Diff(next metadata.DrawStyle) StateChange {
	if !t.applied {
		t.applied = true
		t.current = copyStyle(next)
		return StateAll
	}
	var changes StateChange
	if !sameClip(t.current.Clip, next.Clip) {
		changes |= StateClip
	}
	if t.current.ChannelWriteMask != next.ChannelWriteMask {
		changes |= StateChannelMask
	}
	if t.current.BlendMode != next.BlendMode {
		changes |= StateBlendMode
	}
	if t.current.DepthWrite != next.DepthWrite {
		changes |= StateDepthWrite
	}
	if t.current.DepthTest != next.DepthTest {
		changes |= StateDepthTest
	}
	if t.current.CullMode != next.CullMode {
		changes |= StateCullMode
	}
	t.current = copyStyle(next)
	return changes
}

// Reset forgets the applied state, the next Diff reports everything.
func (t *StateTracker) Reset() {
	t.applied = false
	t.current = metadata.DrawStyle{}
}

func sameClip(a, b *metadata.Rectangle) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// the caller may mutate the clip rectangle after the draw
func copyStyle(s metadata.DrawStyle) metadata.DrawStyle {
	if s.Clip != nil {
		clip := *s.Clip
		s.Clip = &clip
	}
	return s
}
