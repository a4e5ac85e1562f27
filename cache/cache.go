// Package cache provides a read-through node cache keyed by id. The store
// itself never caches; this is the collaborator the presentation layer uses,
// kept fresh by subscribing to the store's change notifications instead of
// serving stale entries forever.
package cache

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	filetree "github.com/prati1/file-tree-render"
	"github.com/prati1/file-tree-render/internal/util"
	"github.com/prati1/file-tree-render/store"
)

// Cache is a read-through cache over a Store. Get serves from the in-memory
// table when possible and falls back to the store on miss. Rename and delete
// events invalidate the affected id; reset drops everything.
type Cache struct {
	store *store.Store
	table *xsync.Map[string, filetree.Node]

	subID string
	done  chan struct{}

	// gen counts consumed invalidation events. A read-through fill records
	// it before hitting the store and is discarded when it moved, so a fill
	// racing a rename can never pin the pre-rename copy.
	gen atomic.Uint64

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// New builds a cache over s and starts consuming its events.
func New(s *store.Store) *Cache {
	c := &Cache{
		store: s,
		table: xsync.NewMap[string, filetree.Node](),
		done:  make(chan struct{}),
	}

	id, events := s.Subscribe()
	c.subID = id
	go c.consume(events)
	return c
}

// Get returns the node for id, reading through to the store on a miss.
// Errors from the store (e.g. not found) pass through unchanged and are
// never cached.
func (c *Cache) Get(id string) (filetree.Node, error) {
	if id == "" {
		id = filetree.RootID
	}
	if n, ok := c.table.Load(id); ok {
		c.hits.Add(1)
		return n.Clone(), nil
	}
	c.misses.Add(1)

	gen := c.gen.Load()
	n, err := c.store.Get(id)
	if err != nil {
		return filetree.Node{}, err
	}
	c.storeIfCurrent(id, n, gen)
	return n, nil
}

// storeIfCurrent caches n unless an invalidation was consumed since gen was
// read. The read-from-store copy is still correct to return to the caller;
// it just must not outlive the event that superseded it.
func (c *Cache) storeIfCurrent(id string, n filetree.Node, gen uint64) bool {
	if c.gen.Load() != gen {
		return false
	}
	c.table.Store(id, n.Clone())
	return true
}

// Stats returns hit/miss counters and the current entry count.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.table.Size(),
	}
}

// Close unsubscribes from the store and stops the event consumer. The cache
// must not be used after Close.
func (c *Cache) Close() {
	c.store.Unsubscribe(c.subID)
	<-c.done
}

func (c *Cache) consume(events <-chan filetree.Event) {
	logger := util.GetLogger("cache")
	defer close(c.done)

	for ev := range events {
		// moved before the table mutation: an in-flight fill either sees
		// the new generation and skips, or stores first and is removed by
		// the delete/clear below
		c.gen.Add(1)
		switch ev.Op {
		case filetree.EventRename:
			// only the named node's display name changed
			c.table.Delete(ev.ID)
		case filetree.EventCreate, filetree.EventDelete, filetree.EventReset:
			// creates and deletes also touch the parent's children list,
			// which the event alone cannot map back to an id. Drop
			// everything; the table refills on the next reads.
			c.table.Clear()
		default:
			logger.Warn().Str("op", string(ev.Op)).Msg("Unknown event op")
		}
	}
}
