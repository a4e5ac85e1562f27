package treedef

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filetree "github.com/prati1/file-tree-render"
	"github.com/prati1/file-tree-render/internal/util"
	"github.com/prati1/file-tree-render/store"
)

const yamlDef = `
- type: directory
  name: assets
  id: assets
  children:
    - type: file
      name: logo.svg
      id: logo.svg
    - type: directory
      name: fonts
- type: file
  name: README.md
`

func writeDef(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		defs, err := Load(writeDef(t, "tree.yaml", yamlDef))
		require.NoError(t, err)
		require.Len(t, defs, 2)
		assert.Equal(t, "assets", defs[0].Name)
		assert.Len(t, defs[0].Children, 2)
		assert.Equal(t, "README.md", defs[1].Name)
	})

	t.Run("json", func(t *testing.T) {
		defs, err := Load(writeDef(t, "tree.json",
			`[{"type":"file","name":"notes.txt"}]`))
		require.NoError(t, err)
		require.Len(t, defs, 1)
		assert.Equal(t, filetree.FileNodeType, defs[0].Type)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := Load(writeDef(t, "tree.toml", "x = 1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tree def file extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestApply(t *testing.T) {
	t.Run("builds nested tree on top of seed", func(t *testing.T) {
		s := store.New()
		require.NoError(t, LoadAndApply(s, writeDef(t, "tree.yaml", yamlDef)))

		assets, err := s.Get("assets")
		require.NoError(t, err)
		assert.True(t, assets.IsDir())
		assert.Len(t, assets.Children, 2)

		logo, err := s.Get("logo.svg")
		require.NoError(t, err)
		assert.Equal(t, "logo.svg", logo.Name)

		path, err := s.Path("logo.svg")
		require.NoError(t, err)
		assert.Equal(t, "src/assets/logo.svg", path)

		// seed tree untouched underneath
		assert.Contains(t, s.Root().Children, "index.tsx")
		assert.Contains(t, s.Root().Children, "assets")
	})

	t.Run("explicit duplicate id conflicts", func(t *testing.T) {
		s := store.New()
		defs := []NodeDef{
			{Type: filetree.FileNodeType, Name: "clash.txt", ID: util.Pointer("button.tsx")},
		}
		err := Apply(s, defs)
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrConflict))
	})

	t.Run("unpinned duplicate name is suffixed", func(t *testing.T) {
		s := store.New()
		defs := []NodeDef{
			{Type: filetree.FileNodeType, Name: "button.tsx"},
		}
		require.NoError(t, Apply(s, defs))

		results := s.Search("button")
		assert.Len(t, results, 2, "both the seed file and the new one must exist")
	})

	t.Run("failed pinned-id insert counts zero nodes", func(t *testing.T) {
		s := store.New()
		def := NodeDef{Type: filetree.FileNodeType, Name: "clash.txt", ID: util.Pointer("button.tsx")}

		n, err := apply(s, filetree.RootID, def)
		require.Error(t, err)
		assert.Zero(t, n, "a failed insert must not be counted as added")
	})

	t.Run("file with children is rejected", func(t *testing.T) {
		s := store.New()
		defs := []NodeDef{
			{
				Type:     filetree.FileNodeType,
				Name:     "weird.txt",
				Children: []NodeDef{{Type: filetree.FileNodeType, Name: "child.txt"}},
			},
		}
		err := Apply(s, defs)
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrInvalidArgument))
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		s := store.New()
		err := Apply(s, []NodeDef{{Type: filetree.DirNodeType}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrInvalidArgument))
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		s := store.New()
		err := Apply(s, []NodeDef{{Type: "symlink", Name: "x"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrInvalidArgument))
	})
}
