package cache

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory set of keys with expiration
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*memoryItem
	done  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
		done:  make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired(5 * time.Minute)

	return store
}

// SetNX stores the pair only if the key is absent or expired. Reports
// whether the value was stored.
func (ms *MemoryStore) SetNX(key string, value string, expiration time.Duration) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	if item, exists := ms.items[key]; exists && now.Before(item.expireTime) {
		return false
	}
	ms.items[key] = &memoryItem{
		value:      value,
		expireTime: now.Add(expiration),
	}
	return true
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() {
	ms.once.Do(func() { close(ms.done) })
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.done:
			return
		case <-ticker.C:
		}

		ms.mu.Lock()
		now := time.Now()
		for key, item := range ms.items {
			if now.After(item.expireTime) {
				delete(ms.items, key)
			}
		}
		ms.mu.Unlock()
	}
}
