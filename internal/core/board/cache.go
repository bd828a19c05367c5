package board

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/lorrc/kanban-board/internal/core/domain"
)

// DefaultCacheSize covers every mode combination for a few snapshots.
const DefaultCacheSize = 64

// viewKey identifies a computed view. Snapshots are immutable once
// installed, so the version stands in for the ticket collection itself.
type viewKey struct {
	version  uint64
	grouping domain.GroupMode
	sorting  domain.SortMode
}

// ViewCache memoizes View results by snapshot version and modes.
type ViewCache struct {
	mu     sync.Mutex
	lru    *lru.Cache
	hits   uint64
	misses uint64
}

// NewViewCache creates a cache holding at most size views.
func NewViewCache(size int) *ViewCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &ViewCache{lru: lru.New(size)}
}

// View returns the grouped view of snapshot, computing it on a miss.
//
// Callers must treat the returned groups as read-only: the same value is
// handed to every caller asking for the same key.
func (c *ViewCache) View(snapshot *domain.Snapshot, groupMode domain.GroupMode, sortMode domain.SortMode) domain.OrderedGroups {
	key := viewKey{version: snapshot.Version, grouping: groupMode, sorting: sortMode}

	c.mu.Lock()
	if cached, ok := c.lru.Get(key); ok {
		c.hits++
		c.mu.Unlock()
		return cached.(domain.OrderedGroups)
	}
	c.misses++
	c.mu.Unlock()

	groups := View(snapshot.Tickets, snapshot.Users, groupMode, sortMode)

	c.mu.Lock()
	c.lru.Add(key, groups)
	c.mu.Unlock()

	return groups
}

// Purge drops every cached view.
func (c *ViewCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}

// Stats returns hit and miss counts since creation.
func (c *ViewCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached views.
func (c *ViewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
