package store

import (
	"fmt"
	"sort"
	"strings"

	filetree "github.com/prati1/file-tree-render"
)

// Search returns every node whose name contains query, case-insensitively,
// across the whole table. Each hit carries the resolved path from the root
// (walked through the parent index, root's own name first). Results are
// sorted by path, then id — duplicate names under one parent resolve to the
// same path — so the order is deterministic for a fixed table state.
func (s *Store) Search(query string) []filetree.Result {
	q := strings.ToLower(query)

	s.mu.RLock()
	results := make([]filetree.Result, 0)
	for id, n := range s.nodes {
		if !strings.Contains(strings.ToLower(n.Name), q) {
			continue
		}
		results = append(results, filetree.Result{Node: n.Clone(), Path: s.pathLocked(id)})
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Path != results[j].Path {
			return results[i].Path < results[j].Path
		}
		return results[i].Node.ID < results[j].Node.ID
	})
	return results
}

// Path resolves the /-joined ancestor-name chain from the root to id.
func (s *Store) Path(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.nodes[id]; !ok {
		return "", fmt.Errorf("path %q: %w", id, ErrNotFound)
	}
	return s.pathLocked(id), nil
}

// pathLocked walks parent links up to the root, prepending names. The tree
// invariant (acyclic, single parent) bounds the walk by tree depth.
func (s *Store) pathLocked(id string) string {
	var parts []string
	for cur := id; ; {
		n, ok := s.nodes[cur]
		if !ok {
			break
		}
		parts = append(parts, n.Name)
		pid, ok := s.parents[cur]
		if !ok {
			break
		}
		cur = pid
	}
	// reverse into root-first order
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
