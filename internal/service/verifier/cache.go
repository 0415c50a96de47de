package verifier

import (
	"sync"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
)

// cacheKey identifies cached results by entry identity.
type cacheKey struct {
	name string
	kind domain.Kind
}

// Cache stores verification results per entry identity so UI refreshes do not
// re-hash unchanged installers. Entries stay cached until explicitly
// invalidated; results are never mutated after insertion.
type Cache struct {
	// mu protects both result maps.
	mu sync.RWMutex
	// files holds per-file sweeps keyed by entry identity.
	files map[cacheKey]domain.Result
	// primary holds single-installer verdicts keyed by entry identity.
	primary map[cacheKey]domain.Assessment
}

// NewCache creates an empty verification cache.
func NewCache() *Cache {
	return &Cache{
		files:   make(map[cacheKey]domain.Result),
		primary: make(map[cacheKey]domain.Assessment),
	}
}

// Files returns the cached per-file result for the entry, if present.
func (c *Cache) Files(entry *domain.Entry) (domain.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result, ok := c.files[keyOf(entry)]

	return result, ok
}

// SetFiles stores the per-file result for the entry.
func (c *Cache) SetFiles(entry *domain.Entry, result domain.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files[keyOf(entry)] = result
}

// Primary returns the cached primary-installer verdict for the entry, if present.
func (c *Cache) Primary(entry *domain.Entry) (domain.Assessment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	assessment, ok := c.primary[keyOf(entry)]

	return assessment, ok
}

// SetPrimary stores the primary-installer verdict for the entry.
func (c *Cache) SetPrimary(entry *domain.Entry, assessment domain.Assessment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.primary[keyOf(entry)] = assessment
}

// Invalidate drops all cached results for the entry.
func (c *Cache) Invalidate(entry *domain.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.files, keyOf(entry))
	delete(c.primary, keyOf(entry))
}

// Reset drops every cached result.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = make(map[cacheKey]domain.Result)
	c.primary = make(map[cacheKey]domain.Assessment)
}

func keyOf(entry *domain.Entry) cacheKey {
	return cacheKey{name: entry.Name, kind: entry.Kind}
}
