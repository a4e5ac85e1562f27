// Package store implements the in-memory node table behind the file tree:
// a flat map of id to node plus a parent index, guarded by a single lock.
// It is the only code allowed to mutate nodes; everything handed out is a
// defensive copy.
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	filetree "github.com/prati1/file-tree-render"
	"github.com/prati1/file-tree-render/internal/util"
)

// DefaultExtension is appended to created files when no extension is given.
const DefaultExtension = ".txt"

// Store owns the node table and enforces the tree invariants: every child id
// resolves, every non-root node has exactly one parent, no cycles, one id
// namespace for files and directories. All mutations serialize on mu and
// either fully apply or leave the table untouched.
type Store struct {
	mu      sync.RWMutex
	nodes   map[string]*filetree.Node
	parents map[string]string // child id -> parent id; root has no entry

	subMu  sync.RWMutex // serializes emit against Unsubscribe's close
	subs   *xsync.Map[string, chan filetree.Event]
	evBuf  int
	logger util.Logger
}

// Option configures a Store at construction.
type Option func(*Store)

// WithEventBuffer sets the per-subscriber event channel capacity.
func WithEventBuffer(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.evBuf = n
		}
	}
}

// New returns a Store initialized with the seed tree.
func New(opts ...Option) *Store {
	s := &Store{
		subs:   xsync.NewMap[string, chan filetree.Event](),
		evBuf:  DefaultEventBuffer,
		logger: util.GetLogger("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.nodes, s.parents = seedTree()
	return s
}

// Get returns a copy of the node with the given id, defaulting to the root
// when id is empty. Mutating the returned value has no effect on the table.
func (s *Store) Get(id string) (filetree.Node, error) {
	if id == "" {
		id = filetree.RootID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return filetree.Node{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return n.Clone(), nil
}

// Root returns a copy of the root directory.
func (s *Store) Root() filetree.Node {
	n, _ := s.Get(filetree.RootID) // root always exists
	return n
}

// Len returns the number of nodes in the table.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// CreateFile adds a file under parentID. The display name is fileName+ext
// (ext defaults to DefaultExtension); the id is derived from the display name
// with a numeric suffix when it would collide with an existing node. The new
// id is appended at the end of the parent's children.
func (s *Store) CreateFile(parentID, fileName, ext string) (filetree.Node, error) {
	logger := util.GetLogger("Store.CreateFile")

	if fileName == "" {
		return filetree.Node{}, fmt.Errorf("empty file name: %w", ErrInvalidArgument)
	}
	if ext == "" {
		ext = DefaultExtension
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := fileName + ext

	s.mu.Lock()
	parent, ok := s.nodes[parentID]
	if !ok {
		s.mu.Unlock()
		return filetree.Node{}, fmt.Errorf("parent %q: %w", parentID, ErrNotFound)
	}
	if !parent.IsDir() {
		s.mu.Unlock()
		return filetree.Node{}, fmt.Errorf("parent %q is not a directory: %w", parentID, ErrInvalidArgument)
	}

	id := s.allocIDLocked(name)
	node := &filetree.Node{ID: id, Name: name, Type: filetree.FileNodeType}
	s.nodes[id] = node
	s.parents[id] = parentID
	parent.Children = append(parent.Children, id)
	out := node.Clone()
	s.mu.Unlock()

	logger.Debug().Str("id", id).Str("parent", parentID).Msg("Created file node")
	s.emit(filetree.Event{Op: filetree.EventCreate, ID: id, Name: name})
	return out, nil
}

// CreateDir adds an empty directory under parentID. Same parent and id
// constraints as CreateFile.
func (s *Store) CreateDir(parentID, dirName string) (filetree.Node, error) {
	logger := util.GetLogger("Store.CreateDir")

	if dirName == "" {
		return filetree.Node{}, fmt.Errorf("empty directory name: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	parent, ok := s.nodes[parentID]
	if !ok {
		s.mu.Unlock()
		return filetree.Node{}, fmt.Errorf("parent %q: %w", parentID, ErrNotFound)
	}
	if !parent.IsDir() {
		s.mu.Unlock()
		return filetree.Node{}, fmt.Errorf("parent %q is not a directory: %w", parentID, ErrInvalidArgument)
	}

	id := s.allocIDLocked(dirName)
	node := &filetree.Node{ID: id, Name: dirName, Type: filetree.DirNodeType, Children: []string{}}
	s.nodes[id] = node
	s.parents[id] = parentID
	parent.Children = append(parent.Children, id)
	out := node.Clone()
	s.mu.Unlock()

	logger.Debug().Str("id", id).Str("parent", parentID).Msg("Created directory node")
	s.emit(filetree.Event{Op: filetree.EventCreate, ID: id, Name: dirName})
	return out, nil
}

// Rename updates a node's display name. The id and the node's position in
// the tree are unchanged; identity is decoupled from the name.
func (s *Store) Rename(id, newName string) (filetree.Node, error) {
	logger := util.GetLogger("Store.Rename")

	if newName == "" {
		return filetree.Node{}, fmt.Errorf("empty name: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	node, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return filetree.Node{}, fmt.Errorf("rename %q: %w", id, ErrNotFound)
	}
	node.Name = newName
	out := node.Clone()
	s.mu.Unlock()

	logger.Debug().Str("id", id).Str("name", newName).Msg("Renamed node")
	s.emit(filetree.Event{Op: filetree.EventRename, ID: id, Name: newName})
	return out, nil
}

// Delete removes the node and, for directories, every descendant depth-first,
// then unlinks the id from its parent's children. It returns false with no
// error when the id is absent. The whole cascade runs under one lock hold so
// no reader observes a partially deleted subtree. Deleting the root is
// rejected.
func (s *Store) Delete(id string) (bool, error) {
	logger := util.GetLogger("Store.Delete")

	if id == filetree.RootID {
		return false, fmt.Errorf("cannot delete root: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	node, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	s.unlinkFromParentLocked(id)
	var removed []string
	s.cascadeLocked(node, &removed)
	s.mu.Unlock()

	logger.Debug().Str("id", id).Int("removed", len(removed)).Msg("Deleted subtree")
	for _, rid := range removed {
		s.emit(filetree.Event{Op: filetree.EventDelete, ID: rid})
	}
	return true, nil
}

// cascadeLocked removes n and all descendants from the table, children
// before parents, recording removed ids in order.
func (s *Store) cascadeLocked(n *filetree.Node, removed *[]string) {
	if n.IsDir() {
		for _, cid := range n.Children {
			if child, ok := s.nodes[cid]; ok {
				s.cascadeLocked(child, removed)
			}
		}
	}
	delete(s.nodes, n.ID)
	delete(s.parents, n.ID)
	*removed = append(*removed, n.ID)
}

// unlinkFromParentLocked removes id from its parent's children list.
func (s *Store) unlinkFromParentLocked(id string) {
	pid, ok := s.parents[id]
	if !ok {
		return
	}
	parent, ok := s.nodes[pid]
	if !ok {
		return
	}
	kept := parent.Children[:0]
	for _, cid := range parent.Children {
		if cid != id {
			kept = append(kept, cid)
		}
	}
	parent.Children = kept
}

// Snapshot returns a deep copy of the whole table keyed by id.
func (s *Store) Snapshot() map[string]filetree.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]filetree.Node, len(s.nodes))
	for id, n := range s.nodes {
		out[id] = n.Clone()
	}
	return out
}

// Reset restores the table to the seed tree, discarding all prior mutations.
func (s *Store) Reset() {
	s.mu.Lock()
	s.nodes, s.parents = seedTree()
	s.mu.Unlock()

	s.logger.Debug().Msg("Store reset to seed tree")
	s.emit(filetree.Event{Op: filetree.EventReset})
}

// allocIDLocked derives a collision-free id from base by appending a numeric
// suffix when base is already taken. Existing nodes are never overwritten.
func (s *Store) allocIDLocked(base string) string {
	if _, taken := s.nodes[base]; !taken {
		return base
	}
	for i := 2; ; i++ {
		id := fmt.Sprintf("%s-%d", base, i)
		if _, taken := s.nodes[id]; !taken {
			return id
		}
	}
}

// insertLocked adds a node with an explicit id under parentID. Used by the
// tree-def loader; unlike the Create operations an id collision is an error,
// not a rename.
func (s *Store) insertLocked(parentID string, node *filetree.Node) error {
	parent, ok := s.nodes[parentID]
	if !ok {
		return fmt.Errorf("parent %q: %w", parentID, ErrNotFound)
	}
	if !parent.IsDir() {
		return fmt.Errorf("parent %q is not a directory: %w", parentID, ErrInvalidArgument)
	}
	if _, taken := s.nodes[node.ID]; taken {
		return fmt.Errorf("id %q already exists: %w", node.ID, ErrConflict)
	}
	s.nodes[node.ID] = node
	s.parents[node.ID] = parentID
	parent.Children = append(parent.Children, node.ID)
	return nil
}

// Insert adds a fully specified node under parentID, rejecting id
// collisions with ErrConflict.
func (s *Store) Insert(parentID string, node filetree.Node) (filetree.Node, error) {
	if node.ID == "" || node.Name == "" {
		return filetree.Node{}, fmt.Errorf("node id and name required: %w", ErrInvalidArgument)
	}
	switch node.Type {
	case filetree.FileNodeType:
		node.Children = nil
	case filetree.DirNodeType:
		// children are linked by subsequent inserts, never taken on faith
		node.Children = []string{}
	default:
		return filetree.Node{}, fmt.Errorf("unknown node type %q: %w", node.Type, ErrInvalidArgument)
	}

	n := node.Clone()
	s.mu.Lock()
	if err := s.insertLocked(parentID, &n); err != nil {
		s.mu.Unlock()
		return filetree.Node{}, err
	}
	out := n.Clone()
	s.mu.Unlock()

	s.emit(filetree.Event{Op: filetree.EventCreate, ID: out.ID, Name: out.Name})
	return out, nil
}
