package embedding

import (
	"container/list"
	"sync"
)

// Cache is a bounded in-process LRU for embedding vectors keyed by
// normalized text. A hit refreshes recency; an insert past capacity evicts
// the least recently used entry. Safe for concurrent use.
type Cache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key    string
	vector []float32
}

// NewCache creates a cache holding at most capacity vectors.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached vector for key if present and marks it most
// recently used. A hit mutates the recency list, so Get takes the write
// lock.
func (c *Cache) Get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).vector, true
}

// Set stores the vector for key, evicting the least recently used entry
// when the cache is full.
func (c *Cache) Set(key string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).vector = vector
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, vector: vector})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
