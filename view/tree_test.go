package view

import (
	"bytes"
	"testing"

	"github.com/brettbedarf/webedit/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	src, lib           *workspace.Folder
	index, app, utilJS *workspace.File
}

func newSample(store *workspace.Store) sample {
	var s sample
	s.index = store.CreateFile("index.html", "", nil)
	s.src = store.CreateFolder("src", nil)
	s.app = store.CreateFile("app.js", "", s.src)
	s.lib = store.CreateFolder("lib", s.src)
	s.utilJS = store.CreateFile("util.js", "", s.lib)
	return s
}

func render(t *testing.T, tree *Tree) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tree.Render(&buf))
	return buf.String()
}

func TestTree_CollapsedFoldersFirst(t *testing.T) {
	t.Parallel()

	store := workspace.NewStore()
	newSample(store)
	tree := NewTree(store)

	assert.Equal(t, "▸ src/\n  index.html\n", render(t, tree))
}

func TestTree_ExpandAndSelect(t *testing.T) {
	t.Parallel()

	store := workspace.NewStore()
	s := newSample(store)
	tree := NewTree(store)

	tree.Focus(s.utilJS)
	store.UpdateFileContent(s.app, "x")

	want := "▾ src/\n" +
		"    app.js ●\n" +
		"  ▾ lib/\n" +
		"    * util.js\n" +
		"  index.html\n"
	assert.Equal(t, want, render(t, tree))

	sel, ok := tree.Selected()
	require.True(t, ok)
	assert.Same(t, s.utilJS, sel)
}

func TestTree_Toggle(t *testing.T) {
	t.Parallel()

	store := workspace.NewStore()
	s := newSample(store)
	tree := NewTree(store)

	assert.True(t, tree.Toggle(s.src.ID()))
	assert.True(t, tree.IsExpanded(s.src.ID()))
	assert.False(t, tree.Toggle(s.src.ID()))
	assert.False(t, tree.Toggle(s.app.ID()), "files cannot expand")

	tree.ExpandAll()
	assert.Len(t, tree.Rows(), 5)
	tree.Collapse(s.src.ID())
	assert.Len(t, tree.Rows(), 2)
}

func TestTree_SelectOnlyFiles(t *testing.T) {
	t.Parallel()

	store := workspace.NewStore()
	s := newSample(store)
	tree := NewTree(store)

	_, ok := tree.Select(s.src.ID())
	assert.False(t, ok)
	f, ok := tree.Select(s.index.ID())
	require.True(t, ok)
	assert.Same(t, s.index, f)

	tree.ClearSelection()
	_, ok = tree.Selected()
	assert.False(t, ok)
}

func TestTree_Filter(t *testing.T) {
	t.Parallel()

	store := workspace.NewStore()
	newSample(store)
	tree := NewTree(store)

	tree.SetFilter("L")
	assert.Equal(t, "  index.html\n  util.js\n▸ lib/\n", render(t, tree))

	tree.SetFilter("nothing")
	assert.Equal(t, "No files found\n", render(t, tree))

	tree.SetFilter("")
	assert.Equal(t, "", tree.Filter())
	assert.Len(t, tree.Rows(), 2)
}

func TestTree_FollowsStoreEvents(t *testing.T) {
	t.Parallel()

	store := workspace.NewStore()
	s := newSample(store)
	tree := NewTree(store)
	tree.Focus(s.utilJS)

	store.RemoveFolder(s.lib)
	_, ok := tree.Selected()
	assert.False(t, ok, "selection cleared with the file")
	assert.False(t, tree.IsExpanded(s.lib.ID()))
	assert.True(t, tree.IsExpanded(s.src.ID()))

	store.Clear()
	assert.False(t, tree.IsExpanded(s.src.ID()))
	assert.Equal(t, "No files or folders\n", render(t, tree))
}

func TestTree_Detach(t *testing.T) {
	t.Parallel()

	store := workspace.NewStore()
	s := newSample(store)
	tree := NewTree(store)
	tree.Expand(s.src.ID())
	tree.Detach()

	store.Clear()
	assert.True(t, tree.IsExpanded(s.src.ID()), "detached trees ignore events")
}

func TestTree_ModifiedFollowsTabs(t *testing.T) {
	t.Parallel()

	store, buffers, tabs := newTabs(t)
	tree := NewTree(store, WithModified(tabs.IsModified))
	f := store.CreateFile("app.js", "", nil)
	tabs.Open(f)
	assert.Equal(t, "  app.js\n", render(t, tree))

	buffers.Edit(string(f.ID()), "x")
	assert.True(t, tabs.IsModified(f.ID()))
	assert.Equal(t, "  app.js"+ModifiedMark+"\n", render(t, tree))

	tabs.Close(f.ID())
	assert.False(t, tabs.IsModified(f.ID()))
	assert.Equal(t, "  app.js\n", render(t, tree))
}

func TestTree_ClearSelection(t *testing.T) {
	t.Parallel()

	store := workspace.NewStore()
	tree := NewTree(store)
	s := newSample(store)

	tree.Focus(s.app)
	_, ok := tree.Selected()
	require.True(t, ok)

	tree.ClearSelection()
	_, ok = tree.Selected()
	assert.False(t, ok)
	assert.True(t, tree.IsExpanded(s.src.ID()), "clearing keeps folders expanded")
}
