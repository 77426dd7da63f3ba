package core

import (
	"fmt"
	"sync"
)

// Identifiers hands out small integer ids and recycles released slots.
// Render contexts use it so that a context id is never reused while the
// context that owns it is alive.
type Identifiers struct {
	mu     sync.Mutex
	owners []interface{}
}

func NewIdentifiers() *Identifiers {
	return &Identifiers{
		owners: make([]interface{}, 0, 16),
	}
}

func (ids *Identifiers) Acquire(owner interface{}) uint32 {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	// Existing free spot. Take it.
	for i := range ids.owners {
		if ids.owners[i] == nil {
			ids.owners[i] = owner
			return uint32(i)
		}
	}

	// No free slots, push a new one.
	ids.owners = append(ids.owners, owner)
	return uint32(len(ids.owners) - 1)
}

func (ids *Identifiers) Release(id uint32) error {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	length := uint32(len(ids.owners))
	if length == 0 {
		return fmt.Errorf("identifier release called before any id was acquired. Nothing was done")
	}
	if id >= length {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, length)
	}
	if ids.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d' is not in use. Nothing was done", id)
	}

	ids.owners[id] = nil
	return nil
}

// Owner returns whatever was registered for the id.
func (ids *Identifiers) Owner(id uint32) (interface{}, bool) {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	if id >= uint32(len(ids.owners)) || ids.owners[id] == nil {
		return nil, false
	}
	return ids.owners[id], true
}

var defaultIdentifiers = NewIdentifiers()

func IdentifierAquireNewID(owner interface{}) uint32 {
	return defaultIdentifiers.Acquire(owner)
}

func IdentifierReleaseID(id uint32) error {
	return defaultIdentifiers.Release(id)
}
