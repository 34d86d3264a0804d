// Package cache provides a thread-safe LRU cache for parsed selections.
//
// Connector directives repeat the same mapping expressions across many
// requests, so re-parsing the same source string on every call is wasted
// work. The cache is keyed by the exact source text.
//
// # Example
//
//	c := cache.New(1024)
//	sel, err := c.GetOrParse("id name { first last }", parser.Parse)
package cache

import (
	"container/list"
	"sync"

	"github.com/connectgrid/jsonselection/pkg/ast"
)

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	key string
	sel *ast.Selection
}

// Cache is a thread-safe LRU (Least Recently Used) cache for parsed
// selections. Once the capacity is reached, the least recently accessed
// entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// New creates a new LRU cache with the given capacity.
// capacity must be > 0; if <= 0, a default of 256 is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves a parsed selection from the cache.
// Returns (sel, true) if found and moves the entry to front (MRU).
// Returns (nil, false) if not present.
func (c *Cache) Get(key string) (*ast.Selection, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	alreadyFront := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !alreadyFront {
		// Promote to front under write lock; re-check in case of concurrent eviction.
		c.mu.Lock()
		el, ok = c.items[key]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()

		if !ok {
			return nil, false
		}
	}
	return el.Value.(*entry).sel, true
}

// Set inserts or replaces a selection in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key string, sel *ast.Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).sel = sel
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{key: key, sel: sel})
	c.items[key] = el
}

// GetOrParse retrieves the selection for key from cache, or calls parse()
// to create it, caches the result, and returns it.
// Errors are not cached, so a failing source is re-parsed on each call.
func (c *Cache) GetOrParse(key string, parse func(string) (*ast.Selection, error)) (*ast.Selection, error) {
	if sel, ok := c.Get(key); ok {
		return sel, nil
	}
	sel, err := parse(key)
	if err != nil {
		return nil, err
	}
	c.Set(key, sel)
	return sel, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
