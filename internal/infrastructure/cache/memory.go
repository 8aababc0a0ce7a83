package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/greenscan/backend/internal/domain"
)

const (
	DefaultCapacity        = 100
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// MemoryConfig configures a MemoryCache. Zero values fall back to the defaults.
type MemoryConfig struct {
	Capacity        int
	TTL             time.Duration
	CleanupInterval time.Duration
	// Now replaces time.Now, mainly for tests
	Now func() time.Time
}

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	key        string
	data       []byte
	expiration time.Time
}

// MemoryCache is a thread-safe, bounded in-memory cache with TTL support.
// Values are stored as JSON so callers always get an independent copy, the
// same way a Redis-backed cache behaves. Once capacity is exceeded the oldest
// inserted entry is evicted.
type MemoryCache struct {
	data       map[string]*list.Element
	order      *list.List
	capacity   int
	defaultTTL time.Duration
	now        func() time.Time
	mutex      sync.RWMutex

	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewMemoryCache creates a new in-memory cache and starts its expiry sweep
func NewMemoryCache(cfg MemoryConfig) *MemoryCache {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	cache := &MemoryCache{
		data:       make(map[string]*list.Element),
		order:      list.New(),
		capacity:   cfg.Capacity,
		defaultTTL: cfg.TTL,
		now:        cfg.Now,
		stop:       make(chan struct{}),
	}

	cache.wg.Add(1)
	go cache.cleanupExpired(cfg.CleanupInterval)

	return cache
}

// Get decodes the cached value for key into dest
func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mutex.RLock()
	elem, exists := c.data[key]
	if !exists {
		c.mutex.RUnlock()
		return domain.ErrCacheMiss
	}
	item := elem.Value.(*cacheItem)
	if c.now().After(item.expiration) {
		c.mutex.RUnlock()
		return domain.ErrCacheMiss
	}
	data := item.data
	c.mutex.RUnlock()

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode cached %q: %w", key, err)
	}
	return nil
}

// Set stores a value in the cache with TTL; ttl <= 0 uses the configured default
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q for cache: %w", key, err)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.data[key]; exists {
		c.order.Remove(elem)
	}
	c.data[key] = c.order.PushBack(&cacheItem{
		key:        key,
		data:       data,
		expiration: c.now().Add(ttl),
	})

	for c.order.Len() > c.capacity {
		c.removeElement(c.order.Front())
	}

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.data[key]; exists {
		c.removeElement(elem)
	}
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	elem, exists := c.data[key]
	if !exists {
		return false, nil
	}
	return !c.now().After(elem.Value.(*cacheItem).expiration), nil
}

// Size returns the current number of stored entries, expired or not
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.order.Len()
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]*list.Element)
	c.order.Init()
}

// Close stops the expiry sweep. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
	})
	c.wg.Wait()
	return nil
}

// PurgeExpired removes every expired entry and returns how many were dropped
func (c *MemoryCache) PurgeExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*cacheItem).expiration) {
			c.removeElement(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// removeElement must be called with the write lock held
func (c *MemoryCache) removeElement(elem *list.Element) {
	item := c.order.Remove(elem).(*cacheItem)
	delete(c.data, item.key)
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.PurgeExpired()
		case <-c.stop:
			return
		}
	}
}
