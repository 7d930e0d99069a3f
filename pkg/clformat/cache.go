package clformat

import (
	"container/list"
	"sync"
	"time"
)

// CacheConfig contains configuration options for the control cache
type CacheConfig struct {
	// MaxSize is the maximum number of controls to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached controls. 0 means no expiration.
	TTL time.Duration
}

// ControlCache is an LRU cache of compiled controls keyed by control string
type ControlCache struct {
	mu     sync.Mutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
	now    func() time.Time
}

type cacheEntry struct {
	key     string
	control *Control
	expiry  time.Time
	element *list.Element
}

// NewControlCache creates a cache sized from the global configuration
func NewControlCache() *ControlCache {
	config := GetGlobalConfig()
	return NewControlCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewControlCacheWithConfig creates a cache with the given configuration
func NewControlCacheWithConfig(config CacheConfig) *ControlCache {
	return &ControlCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
		now:    time.Now,
	}
}

// Get retrieves a control from the cache. Expired entries are dropped.
func (cc *ControlCache) Get(key string) (*Control, bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	entry, exists := cc.cache[key]
	if !exists {
		return nil, false
	}
	if cc.config.TTL > 0 && cc.now().After(entry.expiry) {
		cc.removeLocked(entry)
		return nil, false
	}
	cc.lru.MoveToFront(entry.element)
	return entry.control, true
}

// Set adds a control to the cache, evicting the least recently used entry
// when the cache is full.
func (cc *ControlCache) Set(key string, control *Control) {
	if cc.config.MaxSize <= 0 {
		return
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()

	var expiry time.Time
	if cc.config.TTL > 0 {
		expiry = cc.now().Add(cc.config.TTL)
	}

	if existing, exists := cc.cache[key]; exists {
		existing.control = control
		existing.expiry = expiry
		cc.lru.MoveToFront(existing.element)
		return
	}

	if cc.lru.Len() >= cc.config.MaxSize {
		if oldest := cc.lru.Back(); oldest != nil {
			cc.removeLocked(oldest.Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{key: key, control: control, expiry: expiry}
	entry.element = cc.lru.PushFront(entry)
	cc.cache[key] = entry
}

// Remove removes a control from the cache
func (cc *ControlCache) Remove(key string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if entry, exists := cc.cache[key]; exists {
		cc.removeLocked(entry)
	}
}

func (cc *ControlCache) removeLocked(entry *cacheEntry) {
	delete(cc.cache, entry.key)
	cc.lru.Remove(entry.element)
}

// Clear removes all controls from the cache
func (cc *ControlCache) Clear() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache = make(map[string]*cacheEntry)
	cc.lru = list.New()
}

// Size returns the current number of cached controls
func (cc *ControlCache) Size() int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return len(cc.cache)
}
