package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filetree "github.com/prati1/file-tree-render"
	"github.com/prati1/file-tree-render/store"
)

// eventually retries fn until it passes or the deadline hits; invalidation
// rides the async event consumer.
func eventually(t *testing.T, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestGet_ReadThrough(t *testing.T) {
	s := store.New()
	c := New(s)
	defer c.Close()

	// first read misses, second hits
	n1, err := c.Get("button.tsx")
	require.NoError(t, err)
	n2, err := c.Get("button.tsx")
	require.NoError(t, err)
	assert.Equal(t, n1, n2)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestGet_EmptyIDDefaultsToRoot(t *testing.T) {
	s := store.New()
	c := New(s)
	defer c.Close()

	n, err := c.Get("")
	require.NoError(t, err)
	assert.Equal(t, filetree.RootID, n.ID)
}

func TestGet_MissesAreNotCached(t *testing.T) {
	s := store.New()
	c := New(s)
	defer c.Close()

	_, err := c.Get("ghost")
	assert.True(t, errors.Is(err, store.ErrNotFound))
	_, err = c.Get("ghost")
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Equal(t, uint64(2), c.Stats().Misses)
}

func TestRename_InvalidatesEntry(t *testing.T) {
	s := store.New()
	c := New(s)
	defer c.Close()

	n, err := c.Get("index.tsx")
	require.NoError(t, err)
	assert.Equal(t, "index.tsx", n.Name)

	_, err = s.Rename("index.tsx", "main.tsx")
	require.NoError(t, err)

	eventually(t, func() bool {
		n, err := c.Get("index.tsx")
		return err == nil && n.Name == "main.tsx"
	}, "cache served a stale name after rename")
}

func TestDelete_InvalidatesEntry(t *testing.T) {
	s := store.New()
	c := New(s)
	defer c.Close()

	_, err := c.Get("button.tsx")
	require.NoError(t, err)
	_, err = c.Get("components")
	require.NoError(t, err)

	deleted, err := s.Delete("components")
	require.NoError(t, err)
	require.True(t, deleted)

	eventually(t, func() bool {
		_, err := c.Get("button.tsx")
		return errors.Is(err, store.ErrNotFound)
	}, "cache served a deleted node")

	// the cached root must not keep listing the removed child
	eventually(t, func() bool {
		root, err := c.Get(filetree.RootID)
		if err != nil {
			return false
		}
		for _, cid := range root.Children {
			if cid == "components" {
				return false
			}
		}
		return true
	}, "cache served a parent still listing a deleted child")
}

// TestGet_FillRacingInvalidationIsDiscarded drives the interleaving where a
// read-through fill starts, a rename commits and is consumed, and only then
// the fill tries to store its pre-rename copy. The fill must be discarded so
// the stale name is never pinned.
func TestGet_FillRacingInvalidationIsDiscarded(t *testing.T) {
	s := store.New()
	c := New(s)
	defer c.Close()

	// fill in flight: generation recorded, old copy read from the store
	gen := c.gen.Load()
	stale, err := s.Get("index.tsx")
	require.NoError(t, err)
	require.Equal(t, "index.tsx", stale.Name)

	_, err = s.Rename("index.tsx", "main.tsx")
	require.NoError(t, err)
	eventually(t, func() bool {
		return c.gen.Load() != gen
	}, "consumer never observed the rename")

	// the fill completes last; its copy predates the consumed event
	assert.False(t, c.storeIfCurrent("index.tsx", stale, gen), "stale fill must be discarded")

	n, err := c.Get("index.tsx")
	require.NoError(t, err)
	assert.Equal(t, "main.tsx", n.Name, "cache must serve the renamed node")
}

func TestStoreIfCurrent_UncontestedFillIsKept(t *testing.T) {
	s := store.New()
	c := New(s)
	defer c.Close()

	gen := c.gen.Load()
	n, err := s.Get("button.tsx")
	require.NoError(t, err)

	assert.True(t, c.storeIfCurrent("button.tsx", n, gen))
	got, ok := c.table.Load("button.tsx")
	require.True(t, ok)
	assert.Equal(t, "button.tsx", got.Name)
}

func TestReset_ClearsEverything(t *testing.T) {
	s := store.New()
	c := New(s)
	defer c.Close()

	created, err := s.CreateFile(filetree.RootID, "temp", "")
	require.NoError(t, err)
	_, err = c.Get(created.ID)
	require.NoError(t, err)

	s.Reset()

	eventually(t, func() bool {
		_, err := c.Get(created.ID)
		return errors.Is(err, store.ErrNotFound)
	}, "cache served a node that reset removed")
}

func TestClose_StopsConsumer(t *testing.T) {
	s := store.New()
	c := New(s)

	c.Close()

	// further store mutations must not block or panic with the cache gone
	_, err := s.CreateFile(filetree.RootID, "after-close", "")
	require.NoError(t, err)
}
