// Package cache provides the content-addressed response cache. The cache is
// an optimization only: every operation degrades to a miss instead of
// failing, and a nil *Cache is a valid always-miss cache.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type entry struct {
	key       string
	content   string
	createdAt time.Time
}

// Cache is a size-bounded LRU with optional TTL.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration // 0 = no expiry
	ll         *list.List
	items      map[string]*list.Element
}

// New creates a cache holding at most maxEntries items. maxEntries <= 0
// means unbounded.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
	}
}

// MakeKey derives the deterministic cache key for one conversational turn.
// The full input is hashed rather than truncated to a prefix, so two long
// inputs sharing a prefix never collide.
func MakeKey(sessionID, userInput, contextDigest string) string {
	h := sha256.New()
	h.Write([]byte(sessionID))
	h.Write([]byte{0})
	h.Write([]byte(userInput))
	h.Write([]byte{0})
	h.Write([]byte(contextDigest))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached content for key, if present and fresh.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil || key == "" {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	e := el.Value.(*entry)
	if c.ttl > 0 && time.Since(e.createdAt) > c.ttl {
		c.removeElement(el)
		return "", false
	}
	c.ll.MoveToFront(el)
	return e.content, true
}

// Put stores or overwrites the content for key, evicting the least
// recently used entry when over capacity.
func (c *Cache) Put(key, content string) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		e := el.Value.(*entry)
		e.content = content
		e.createdAt = time.Now()
		return
	}

	el := c.ll.PushFront(&entry{key: key, content: content, createdAt: time.Now()})
	c.items[key] = el

	if c.maxEntries > 0 && c.ll.Len() > c.maxEntries {
		if oldest := c.ll.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
