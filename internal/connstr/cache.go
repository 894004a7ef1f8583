package connstr

import (
	"os"
	"sync"
	"time"
)

// cacheEntry holds a parsed file with the modification time it was read at.
type cacheEntry struct {
	file      *File
	modTime   time.Time
	timestamp time.Time
}

// Cache provides a TTL-based cache of parsed config files. An entry is
// reloaded when it is older than the TTL or the file has changed on disk.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	load    func(string) (*File, error)
}

// NewCache creates a new cache. A ttl of 0 disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		load:    Load,
	}
}

// Load returns the cached file for path if it is fresh, otherwise parses it.
func (c *Cache) Load(path string) (*File, error) {
	if c.ttl == 0 {
		return c.load(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		c.Invalidate(path)
		return c.load(path)
	}

	c.mu.Lock()
	if entry, ok := c.entries[path]; ok && time.Since(entry.timestamp) < c.ttl && entry.modTime.Equal(info.ModTime()) {
		file := entry.file
		c.mu.Unlock()
		return file, nil
	}
	c.mu.Unlock()

	file, err := c.load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = cacheEntry{file: file, modTime: info.ModTime(), timestamp: time.Now()}
	c.mu.Unlock()

	return file, nil
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}
