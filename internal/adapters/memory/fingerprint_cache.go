// Package memory contains in-process implementations of secondary ports.
package memory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/example/outreach/internal/ports/secondary"
)

// DefaultFingerprintCapacity is how many recent webhook fingerprints are remembered.
const DefaultFingerprintCapacity = 1000

// FingerprintCache is a bounded, process-lifetime secondary.FingerprintStore.
//
// Entries are only ever inserted or membership-tested with ContainsOrAdd, which does not
// touch recency, so the LRU order is insertion order and eviction is strict FIFO.
type FingerprintCache struct {
	cache *lru.Cache[string, struct{}]
}

// NewFingerprintCache creates a cache holding at most capacity fingerprints.
// A non-positive capacity uses DefaultFingerprintCapacity.
func NewFingerprintCache(capacity int) (*FingerprintCache, error) {
	if capacity <= 0 {
		capacity = DefaultFingerprintCapacity
	}
	cache, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create fingerprint cache: %w", err)
	}
	return &FingerprintCache{cache: cache}, nil
}

// SeenOrRecord reports a duplicate or records the fingerprint, evicting the oldest
// entry when full.
func (c *FingerprintCache) SeenOrRecord(_ context.Context, fingerprint string) (bool, error) {
	seen, _ := c.cache.ContainsOrAdd(fingerprint, struct{}{})
	return seen, nil
}

// Contains reports whether a fingerprint is currently remembered.
func (c *FingerprintCache) Contains(fingerprint string) bool {
	return c.cache.Contains(fingerprint)
}

// Len returns the number of remembered fingerprints.
func (c *FingerprintCache) Len() int {
	return c.cache.Len()
}

// Ensure FingerprintCache implements the interface
var _ secondary.FingerprintStore = (*FingerprintCache)(nil)
