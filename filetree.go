// Package filetree defines the shared node model for the file-tree store and
// its collaborators (store, cache, treedef loader, HTTP adapter).
package filetree

// NodeType discriminates the two node variants. It is immutable after
// creation; store code switches on it exhaustively.
type NodeType string

const (
	FileNodeType NodeType = "file"
	DirNodeType  NodeType = "directory"
)

// RootID is the distinguished directory id that is always present and never
// deleted.
const RootID = "root"

// Node is a single entry in the store's flat table. Directories reference
// their children by id, never by embedding; the store owns every node.
type Node struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type NodeType `json:"type"`
	// Children holds child ids in insertion order. Nil for files.
	Children []string `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Type == DirNodeType
}

// Clone returns a deep copy of the node so callers can never reach the
// store's backing slices.
func (n *Node) Clone() Node {
	c := *n
	if n.Children != nil {
		c.Children = make([]string, len(n.Children))
		copy(c.Children, n.Children)
	}
	return c
}

// Result is a single search hit: the matched node plus its resolved path from
// the root (root's name included), e.g. "src/components/button.tsx".
type Result struct {
	Node Node   `json:"node"`
	Path string `json:"path"`
}
