package metadata

import (
	"fmt"
	"hash/fnv"
	"sync/atomic"

	"github.com/google/uuid"
)

/** @brief Identifies a rendering context. Every cache is scoped to one. */
type ContextID uint32

var resourceCounter atomic.Uint32

// nextResourceID returns ids starting at 1 so that zero means "unset".
func nextResourceID() uint32 {
	return resourceCounter.Add(1)
}

// NewResourceName builds a unique debug name such as "texture-5f1c...".
func NewResourceName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// hashString is the FNV-1a hash used for every structural identity.
func hashString(s string) uint64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(s))
	return hasher.Sum64()
}
