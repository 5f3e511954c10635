package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

const defaultCacheSize = 1024

// LRUCache is a thread safe fixed size cache
type LRUCache struct {
	cache *lru.Cache
}

// NewLRUCache create cache with size, size <= 0 falls back to default size
func NewLRUCache(size int) *LRUCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	// lru.New only fails on non-positive size
	c, _ := lru.New(size)
	return &LRUCache{cache: c}
}

func (c *LRUCache) Add(key, value interface{}) {
	c.cache.Add(key, value)
}

func (c *LRUCache) Get(key interface{}) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *LRUCache) Del(key interface{}) {
	c.cache.Remove(key)
}

func (c *LRUCache) Len() int {
	return c.cache.Len()
}

func (c *LRUCache) Purge() {
	c.cache.Purge()
}
