package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Observer is notified about every lookup.
type Observer interface {
	CacheHit()
	CacheMiss()
}

// Cache is a bounded read-through cache whose entries expire after a TTL and
// can be dropped by key prefix.
type Cache struct {
	lru      *expirable.LRU[string, any]
	observer Observer
}

func New(size int, ttl time.Duration, observer Observer) *Cache {
	return &Cache{
		lru:      expirable.NewLRU[string, any](size, nil, ttl),
		observer: observer,
	}
}

func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.lru.Get(key)
	if c.observer != nil {
		if ok {
			c.observer.CacheHit()
		} else {
			c.observer.CacheMiss()
		}
	}
	return v, ok
}

func (c *Cache) Set(key string, value any) {
	c.lru.Add(key, value)
}

// InvalidatePrefix removes every key starting with prefix and returns how
// many were removed.
func (c *Cache) InvalidatePrefix(prefix string) int {
	removed := 0
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) && c.lru.Remove(key) {
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
