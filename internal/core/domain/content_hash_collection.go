package domain

import (
	"sync"

	"go.trai.ch/zerr"
)

// ContentHashCollection is the in-memory mapping from prefixed path to
// content hash (spec §C1). It is mutated only from the scheduler's main
// thread (PostTransformEvaluate/Resume) but guarded with a mutex anyway
// since read access from reporting/telemetry code can race with it.
type ContentHashCollection struct {
	mu     sync.RWMutex
	hashes map[string]DataHash
}

// NewContentHashCollection creates an empty collection.
func NewContentHashCollection() *ContentHashCollection {
	return &ContentHashCollection{
		hashes: make(map[string]DataHash),
	}
}

// Register records the content hash for a prefixed path. Registering the
// same path twice with the same hash is a no-op; registering it twice with
// a different hash is a programmer error and returns ErrHashMismatch, per
// spec's "duplicate registration is fatal if the hash differs".
func (c *ContentHashCollection) Register(path string, hash DataHash) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.hashes[path]; ok {
		if existing != hash {
			return zerr.With(ErrHashMismatch, "path", path)
		}
		return nil
	}
	c.hashes[path] = hash
	return nil
}

// Lookup returns the content hash registered for a prefixed path.
func (c *ContentHashCollection) Lookup(path string) (DataHash, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.hashes[path]
	return h, ok
}

// Len returns the number of registered paths. Mostly for tests.
func (c *ContentHashCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hashes)
}
