package store

import filetree "github.com/prati1/file-tree-render"

// seedTree builds the canonical initial fixture:
//
//	src/
//	├── index.tsx
//	├── components/
//	│   └── button.tsx
//	└── types/
//	    ├── file-types.tsx
//	    └── other-types.tsx
//
// Seed ids equal the node names; ids for nodes created later are allocated
// collision-free against whatever is in the table.
func seedTree() (map[string]*filetree.Node, map[string]string) {
	nodes := map[string]*filetree.Node{
		filetree.RootID: {
			ID:       filetree.RootID,
			Name:     "src",
			Type:     filetree.DirNodeType,
			Children: []string{"index.tsx", "components", "types"},
		},
		"index.tsx": {ID: "index.tsx", Name: "index.tsx", Type: filetree.FileNodeType},
		"components": {
			ID:       "components",
			Name:     "components",
			Type:     filetree.DirNodeType,
			Children: []string{"button.tsx"},
		},
		"button.tsx": {ID: "button.tsx", Name: "button.tsx", Type: filetree.FileNodeType},
		"types": {
			ID:       "types",
			Name:     "types",
			Type:     filetree.DirNodeType,
			Children: []string{"file-types.tsx", "other-types.tsx"},
		},
		"file-types.tsx":  {ID: "file-types.tsx", Name: "file-types.tsx", Type: filetree.FileNodeType},
		"other-types.tsx": {ID: "other-types.tsx", Name: "other-types.tsx", Type: filetree.FileNodeType},
	}

	parents := make(map[string]string, len(nodes)-1)
	for id, n := range nodes {
		if !n.IsDir() {
			continue
		}
		for _, cid := range n.Children {
			parents[cid] = id
		}
	}
	return nodes, parents
}
