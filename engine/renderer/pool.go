package renderer

import "sync"

type LockGroup string

const (
	ProgramManagement LockGroup = "program_management"
	BindingManagement LockGroup = "binding_management"
	StateManagement   LockGroup = "state_management"
	BufferManagement  LockGroup = "buffer_management"
)

// Mutex pool
type LockPool struct {
	locks map[LockGroup]*sync.Mutex
	mu    sync.Mutex // Protects access to the locks map
}

func NewLockPool() *LockPool {
	return &LockPool{
		locks: make(map[LockGroup]*sync.Mutex),
	}
}

// Get or create the mutex of a group. The group is locked by the caller,
// after mu is released, so a long call never blocks other groups.
func (lp *LockPool) getLock(group LockGroup) *sync.Mutex {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	l, exists := lp.locks[group]
	if !exists {
		l = &sync.Mutex{}
		lp.locks[group] = l
	}
	return l
}

// SafeCall runs fn holding the lock of group. Calls are not reentrant: fn
// must not call SafeCall with the same group.
func (lp *LockPool) SafeCall(group LockGroup, fn func() error) error {
	l := lp.getLock(group)
	l.Lock()
	defer l.Unlock()

	return fn()
}
