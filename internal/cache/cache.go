// Package cache shares engine contexts between compilers that resolve to
// the same configuration and stylesheet layers.
package cache

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/yacobolo/windgen/internal/engine"
	"golang.org/x/sync/singleflight"
)

// Key derives a cache key from a config hash and an @layer hash.
func Key(configHash, layersHash uint64) uint64 {
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(configHash >> (8 * i))
		buf[8+i] = byte(layersHash >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

type entry struct {
	ctx   *engine.Context
	refs  int
	stale bool
}

// Lease is a reference to a cached context. Release must be called once the
// build using it is done.
type Lease struct {
	Context *engine.Context
	// Hit reports whether the context already existed.
	Hit bool

	once    sync.Once
	release func()
}

// Release drops the reference. Calling it more than once is a no-op.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(l.release)
}

// Stats counts cache activity since creation.
type Stats struct {
	Hits, Misses, Evictions int
	Entries                 int
}

// Cache holds reference counted contexts by key. Each owner (a compiler,
// usually keyed by its input file) tracks the key it last used: when it
// moves to a different key, the old entry is evicted as soon as nobody
// references it.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64]*entry
	owners  map[string]uint64
	group   singleflight.Group
	stats   Stats
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		entries: map[uint64]*entry{},
		owners:  map[string]uint64{},
	}
}

// Acquire returns the context for key, calling build at most once across
// concurrent callers when it is missing.
func (c *Cache) Acquire(owner string, key uint64, build func() (*engine.Context, error)) (*Lease, error) {
	c.mu.Lock()
	c.moveOwner(owner, key)
	if e, ok := c.entries[key]; ok && !e.stale {
		e.refs++
		c.stats.Hits++
		c.mu.Unlock()
		return c.lease(key, e, true), nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(strconv.FormatUint(key, 16), func() (any, error) {
		return build()
	})
	if err != nil {
		return nil, err
	}
	ctx := v.(*engine.Context)

	c.mu.Lock()
	defer c.mu.Unlock()
	hit := false
	e, ok := c.entries[key]
	if !ok || e.stale {
		// A stale entry still referenced by someone else keeps its context
		// until released; the fresh one replaces it in the map.
		e = &entry{ctx: ctx}
		c.entries[key] = e
		c.stats.Misses++
	} else {
		// Stored by a concurrent caller; ctx is dropped if it differs.
		c.stats.Hits++
		hit = true
	}
	e.refs++
	return c.lease(key, e, hit), nil
}

func (c *Cache) lease(key uint64, e *entry, hit bool) *Lease {
	return &Lease{
		Context: e.ctx,
		Hit:     hit,
		release: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			e.refs--
			if e.refs <= 0 && e.stale {
				c.evict(key, e)
			}
		},
	}
}

// moveOwner records that owner now uses key and evicts its previous entry
// if it is unreferenced.
func (c *Cache) moveOwner(owner string, key uint64) {
	prev, ok := c.owners[owner]
	c.owners[owner] = key
	if !ok || prev == key {
		return
	}
	if e, ok := c.entries[prev]; ok && e.refs == 0 && !c.owned(prev) {
		c.evict(prev, e)
	}
}

func (c *Cache) owned(key uint64) bool {
	for _, k := range c.owners {
		if k == key {
			return true
		}
	}
	return false
}

func (c *Cache) evict(key uint64, e *entry) {
	if c.entries[key] != e {
		return
	}
	delete(c.entries, key)
	c.stats.Evictions++
}

// Invalidate marks the entry for key stale: it is never handed out again
// and is evicted once its last reference is released.
func (c *Cache) Invalidate(key uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.stale = true
	if e.refs == 0 {
		c.evict(key, e)
	}
}

// Forget drops owner. Its entry is evicted if nothing else uses it.
func (c *Cache) Forget(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, ok := c.owners[owner]
	if !ok {
		return
	}
	delete(c.owners, owner)
	if e, ok := c.entries[key]; ok && e.refs == 0 && !c.owned(key) {
		c.evict(key, e)
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
