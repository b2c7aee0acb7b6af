package vision

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"github.com/asachs01/claudeDocugen/internal"
)

// Cache memoizes vision answers keyed on screenshot content and query point.
// Bounded FIFO: when full, the oldest entry is evicted. Vision calls are
// slow and metered, so repeat queries over an unchanged screen should not
// pay twice.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*internal.ElementDescriptor
	order   []string
	max     int
}

// NewCache creates a cache holding up to max entries. A non-positive max
// disables caching.
func NewCache(max int) *Cache {
	return &Cache{
		entries: make(map[string]*internal.ElementDescriptor),
		max:     max,
	}
}

// CacheKey derives a stable key from the encoded screenshot and the point.
func CacheKey(png []byte, p internal.Point) string {
	h := sha256.New()
	h.Write(png)
	var coords [8]byte
	binary.LittleEndian.PutUint32(coords[0:], uint32(p.X))
	binary.LittleEndian.PutUint32(coords[4:], uint32(p.Y))
	h.Write(coords[:])
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached descriptor for key, if present. Callers must treat
// the returned descriptor as read-only.
func (c *Cache) Get(key string) (*internal.ElementDescriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	desc, ok := c.entries[key]
	return desc, ok
}

// Put stores a descriptor, evicting the oldest entry when full.
func (c *Cache) Put(key string, desc *internal.ElementDescriptor) {
	if c.max <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = desc
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = desc
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
