// Package treedef loads declarative tree definition files (YAML or JSON)
// and applies them to a store, the way an explorer workspace is seeded at
// startup.
package treedef

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	filetree "github.com/prati1/file-tree-render"
	"github.com/prati1/file-tree-render/internal/util"
	"github.com/prati1/file-tree-render/store"
)

// NodeDef is the file representation of one node. Children nest directly in
// the definition even though the store links them by id.
type NodeDef struct {
	Type filetree.NodeType `yaml:"type" json:"type"`
	Name string            `yaml:"name" json:"name"`
	// ID pins the node id explicitly; a collision is then an error instead
	// of an automatic rename.
	ID       *string   `yaml:"id,omitempty" json:"id,omitempty"`
	Children []NodeDef `yaml:"children,omitempty" json:"children,omitempty"`
}

// Load reads a tree definition file. Format is chosen by extension, same as
// the config loader: .yaml/.yml or .json.
func Load(p string) ([]NodeDef, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	var defs []NodeDef
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tree def file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tree def file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown tree def file extension: %s", p)
	}
	return defs, nil
}

// Apply inserts the definitions under the store's root in order. Nothing is
// rolled back on error; the store itself guarantees each individual insert
// is all-or-nothing.
func Apply(s *store.Store, defs []NodeDef) error {
	logger := util.GetLogger("treedef")

	added := 0
	for _, def := range defs {
		n, err := apply(s, filetree.RootID, def)
		if err != nil {
			return err
		}
		added += n
	}
	logger.Info().Int("nodes", added).Msg("Applied tree definition")
	return nil
}

// LoadAndApply is the startup convenience combining Load and Apply.
func LoadAndApply(s *store.Store, path string) error {
	defs, err := Load(path)
	if err != nil {
		return err
	}
	return Apply(s, defs)
}

func apply(s *store.Store, parentID string, def NodeDef) (int, error) {
	if def.Name == "" {
		return 0, fmt.Errorf("node def missing name: %w", store.ErrInvalidArgument)
	}

	switch def.Type {
	case filetree.FileNodeType:
		if len(def.Children) > 0 {
			return 0, fmt.Errorf("file def %q has children: %w", def.Name, store.ErrInvalidArgument)
		}
		if def.ID != nil {
			if _, err := s.Insert(parentID, filetree.Node{ID: *def.ID, Name: def.Name, Type: filetree.FileNodeType}); err != nil {
				return 0, err
			}
			return 1, nil
		}
		// route through the allocator; extension-less names get the default
		ext := path.Ext(def.Name)
		stem := strings.TrimSuffix(def.Name, ext)
		if _, err := s.CreateFile(parentID, stem, ext); err != nil {
			return 0, err
		}
		return 1, nil

	case filetree.DirNodeType:
		var dir filetree.Node
		var err error
		if def.ID != nil {
			dir, err = s.Insert(parentID, filetree.Node{ID: *def.ID, Name: def.Name, Type: filetree.DirNodeType})
		} else {
			dir, err = s.CreateDir(parentID, def.Name)
		}
		if err != nil {
			return 0, err
		}
		added := 1
		for _, child := range def.Children {
			n, err := apply(s, dir.ID, child)
			added += n
			if err != nil {
				return added, err
			}
		}
		return added, nil

	default:
		return 0, fmt.Errorf("unknown node type %q: %w", def.Type, store.ErrInvalidArgument)
	}
}
