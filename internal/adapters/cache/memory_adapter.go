package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/providers"
)

// MemoryAdapter is a bounded in-process CacheProvider used for filter-option
// memoization. Eviction is FIFO by insertion order once the bound is reached;
// expired entries are dropped lazily on read. Safe for concurrent use.
// Contents are lost on process restart, which is acceptable for this cache.
type MemoryAdapter struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]memoryEntry
	order      []string
	now        func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryAdapter creates a bounded FIFO memory cache. maxEntries <= 0
// falls back to 20.
func NewMemoryAdapter(maxEntries int) providers.CacheProvider {
	return newMemoryAdapter(maxEntries, time.Now)
}

func newMemoryAdapter(maxEntries int, now func() time.Time) *MemoryAdapter {
	if maxEntries <= 0 {
		maxEntries = 20
	}
	return &MemoryAdapter{
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
		now:        now,
	}
}

// Get retrieves a value, treating expired entries as absent.
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if a.now().After(entry.expiresAt) {
		a.removeLocked(key)
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return entry.value, nil
}

// Set stores a value, evicting the oldest entry when the bound is exceeded.
// Re-setting an existing key refreshes its value and TTL but keeps its
// original insertion position.
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	expiresAt := a.now().Add(time.Duration(expirationSeconds) * time.Second)
	if _, ok := a.entries[key]; ok {
		a.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
		return nil
	}

	if len(a.order) >= a.maxEntries {
		a.removeLocked(a.order[0])
	}
	a.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	a.order = append(a.order, key)
	return nil
}

// Delete removes a value from the cache.
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removeLocked(key)
	return nil
}

// Exists checks whether a live entry is present for the key.
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok {
		return false, nil
	}
	if a.now().After(entry.expiresAt) {
		a.removeLocked(key)
		return false, nil
	}
	return true, nil
}

func (a *MemoryAdapter) removeLocked(key string) {
	if _, ok := a.entries[key]; !ok {
		return
	}
	delete(a.entries, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}
