package introspect

import (
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultHandleCacheSize is the default number of open module handles kept.
const DefaultHandleCacheSize = 16

// handleRef tracks how many acquirers currently hold a handle. Eviction of
// a held handle defers the provider Close until the last Release.
type handleRef struct {
	refs    int
	evicted bool
}

// HandleCache keeps recently opened module handles, keyed by cleaned path.
// Opening a module is the expensive step of a call; callers that hit the
// same module repeatedly reuse the handle instead of reloading metadata.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Lifetime: every successful Acquire must be paired with a Release.
//   Handles stay open while any acquirer holds them; eviction, Invalidate
//   and CloseAll close a handle only once its last holder releases it.
//   Callers must never close an acquired handle themselves.
type HandleCache struct {
	mu       sync.Mutex
	provider Provider
	handles  *lru.Cache[string, *ModuleHandle]
	refs     map[*ModuleHandle]*handleRef
}

// NewHandleCache creates a handle cache over the given provider.
// size <= 0 selects DefaultHandleCacheSize.
func NewHandleCache(provider Provider, size int) (*HandleCache, error) {
	if size <= 0 {
		size = DefaultHandleCacheSize
	}
	c := &HandleCache{
		provider: provider,
		refs:     make(map[*ModuleHandle]*handleRef),
	}
	// runs with c.mu held: eviction only happens inside Add/Remove/Purge
	handles, err := lru.NewWithEvict(size, func(_ string, h *ModuleHandle) {
		r := c.refs[h]
		if r == nil || r.refs == 0 {
			delete(c.refs, h)
			_ = c.provider.Close(h)
			return
		}
		r.evicted = true
	})
	if err != nil {
		return nil, err
	}
	c.handles = handles
	return c, nil
}

// Acquire returns an open handle for path, opening through the provider on
// first use. Concurrent acquires for the same path may both open; the loser
// is closed and the resident handle wins, so one path never yields two live
// handles.
func (c *HandleCache) Acquire(path string) (*ModuleHandle, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	if h, ok := c.handles.Get(key); ok && !h.Closed() {
		c.refs[h].refs++
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	h, err := c.provider.Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if resident, ok := c.handles.Get(key); ok {
		if !resident.Closed() {
			_ = c.provider.Close(h)
			c.refs[resident].refs++
			return resident, nil
		}
		// Replacing a stale resident: Add below overwrites the entry
		// without an eviction callback, so drop its ref record here.
		delete(c.refs, resident)
	}
	c.refs[h] = &handleRef{refs: 1}
	c.handles.Add(key, h)
	return h, nil
}

// Release returns a handle acquired through the cache. The last release of
// an evicted handle closes it.
func (c *HandleCache) Release(h *ModuleHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.refs[h]
	if r == nil || r.refs == 0 {
		return
	}
	r.refs--
	if r.refs == 0 && r.evicted {
		delete(c.refs, h)
		_ = c.provider.Close(h)
	}
}

// Invalidate drops the handle for path, if resident. It closes once the
// last holder releases.
func (c *HandleCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles.Remove(filepath.Clean(path))
}

// CloseAll drops every resident handle. Held handles close on their last
// release.
func (c *HandleCache) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles.Purge()
}

// Len returns the number of resident handles.
func (c *HandleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handles.Len()
}
