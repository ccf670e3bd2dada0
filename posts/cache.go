package posts

import (
	"sync"
	"time"
)

// Cache is an in-memory cache of the post feed with TTL.
type Cache struct {
	mu      sync.RWMutex
	posts   []Post
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewCache creates a Cache backed by the given Store.
func NewCache(s *Store, ttl time.Duration) *Cache {
	return &Cache{store: s, ttl: ttl}
}

func (c *Cache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// List returns the cached feed after ensuring it is fresh. It tries a
// read lock first; only takes a write lock if a reload is needed.
func (c *Cache) List() ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.List()
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}
