package texture

import (
	"image"
	"path/filepath"
	"sync"
)

// Cache is a concurrency-safe source image cache keyed by cleaned path.
// Cached images are shared and must not be modified.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	load  func(string) (*image.NRGBA, error)
}

type cacheEntry struct {
	img *image.NRGBA
}

// NewCache creates an empty cache that decodes with Load.
func NewCache() *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		load:  Load,
	}
}

// Resolve returns the cached image for path, loading it on first use.
// Failed loads are not cached.
func (c *Cache) Resolve(path string) (*image.NRGBA, error) {
	path = filepath.Clean(path)

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, nil
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := c.load(path)
	if err != nil {
		return nil, err
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, nil
	}
	c.items[path] = &cacheEntry{img: img}
	return img, nil
}

// Invalidate drops path so the next Resolve reloads it from disk.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.items, filepath.Clean(path))
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
