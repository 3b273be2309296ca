package workspace

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestStore uses a private id counter so parallel tests can assert exact
// counter values.
func newTestStore(opts ...Option) *Store {
	base := []Option{
		WithClock(func() time.Time { return testClock }),
		WithIDGenerator(NewSequenceGenerator()),
	}
	return NewStore(append(base, opts...)...)
}

// joinedPath rebuilds e's path from its ancestors' names.
func joinedPath(s *Store, e Entity) string {
	var parts []string
	for _, a := range s.Ancestors(e) {
		parts = append(parts, a.Name())
	}
	return strings.Join(append(parts, e.Name()), "/")
}

func assertPathsConsistent(t *testing.T, s *Store) {
	t.Helper()
	for _, f := range s.Files() {
		assert.Equal(t, joinedPath(s, f), f.Path(), "file %s", f.ID())
	}
	for _, f := range s.Folders() {
		assert.Equal(t, joinedPath(s, f), f.Path(), "folder %s", f.ID())
	}
}

func TestStore_CreateFile(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	f := s.CreateFile("index.html", "<h1>Hi</h1>", nil)

	assert.Equal(t, "index.html", f.Name())
	assert.Equal(t, "index.html", f.Path())
	assert.Equal(t, "<h1>Hi</h1>", f.Content())
	assert.True(t, f.IsRoot())
	assert.False(t, f.IsModified())
	assert.Equal(t, testClock, f.CreatedAt())
	assert.Equal(t, testClock, f.ModifiedAt())
	assert.Equal(t, KindFile, f.Kind())

	got, ok := s.GetFile(f.ID())
	require.True(t, ok)
	assert.Same(t, f, got)
}

func TestStore_CreateNested(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	src := s.CreateFolder("src", nil)
	lib := s.CreateFolder("lib", src)
	f := s.CreateFile("app.js", "", lib)

	assert.Equal(t, "src/lib", lib.Path())
	assert.Equal(t, "src/lib/app.js", f.Path())
	assert.Equal(t, src.ID(), lib.Parent())
	assert.Equal(t, []ID{lib.ID()}, src.Children())
	assert.Equal(t, []ID{f.ID()}, lib.Children())
}

func TestStore_DuplicateNamesCoexist(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	a := s.CreateFile("a.txt", "1", nil)
	b := s.CreateFile("a.txt", "2", nil)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Len(t, s.RootFiles(), 2)
}

func TestStore_Lookups(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	src := s.CreateFolder("src", nil)
	f := s.CreateFile("main.js", "", src)
	s.CreateFile("README.md", "", nil)

	t.Run("missing ids", func(t *testing.T) {
		_, ok := s.GetFile("nope")
		assert.False(t, ok)
		_, ok = s.GetFolder(ID(f.ID()))
		assert.False(t, ok, "file ids must not resolve as folders")
	})
	t.Run("by path", func(t *testing.T) {
		got, ok := s.GetFileByPath("src/main.js")
		require.True(t, ok)
		assert.Same(t, f, got)

		dir, ok := s.GetFolderByPath("src")
		require.True(t, ok)
		assert.Same(t, src, dir)

		_, ok = s.GetFileByPath("main.js")
		assert.False(t, ok)
	})
	t.Run("roots", func(t *testing.T) {
		require.Len(t, s.RootFiles(), 1)
		assert.Equal(t, "README.md", s.RootFiles()[0].Name())
		require.Len(t, s.RootFolders(), 1)
		assert.Equal(t, "src", s.RootFolders()[0].Name())
	})
	t.Run("storage order", func(t *testing.T) {
		files := s.Files()
		require.Len(t, files, 2)
		assert.Equal(t, "main.js", files[0].Name())
		assert.Equal(t, "README.md", files[1].Name())
	})
}

func TestStore_Children(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	root := s.CreateFolder("root", nil)
	s.CreateFile("b.txt", "", root)
	s.CreateFolder("a", root)
	s.CreateFile("top.txt", "", nil)

	kids := s.Children(root)
	require.Len(t, kids, 2)
	assert.Equal(t, "b.txt", kids[0].Name(), "insertion order, not sorted")
	assert.Equal(t, KindFolder, kids[1].Kind())

	top := s.Children(nil)
	require.Len(t, top, 2)
	assert.Equal(t, "root", top[0].Name())
	assert.Equal(t, "top.txt", top[1].Name())
}

// Scenario: index.html moved into src, then src renamed to app.
func TestStore_MoveThenRenameScenario(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	index := s.CreateFile("index.html", "<h1>Hi</h1>", nil)
	src := s.CreateFolder("src", nil)

	s.MoveFile(index, src)
	assert.Equal(t, "src/index.html", index.Path())
	assert.Empty(t, s.RootFiles())

	s.RenameFolder(src, "app")
	assert.Equal(t, "app/index.html", index.Path())
	assert.Equal(t, "app", src.Path())
}

// Scenario: removing a removes x.js, b and y.js.
func TestStore_RemoveFolderScenario(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	a := s.CreateFolder("a", nil)
	s.CreateFile("x.js", "", a)
	b := s.CreateFolder("b", a)
	s.CreateFile("y.js", "", b)

	s.RemoveFolder(a)

	files, folders := s.Len()
	assert.Zero(t, files)
	assert.Zero(t, folders)
	assert.Empty(t, s.Children(nil))
}

func TestStore_RemoveFolder_Nested(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	keep := s.CreateFolder("keep", nil)
	doomed := s.CreateFolder("doomed", keep)
	inner := s.CreateFile("inner.txt", "", doomed)
	sibling := s.CreateFile("sibling.txt", "", keep)

	s.RemoveFolder(doomed)

	_, ok := s.GetFile(inner.ID())
	assert.False(t, ok)
	_, ok = s.GetFolder(doomed.ID())
	assert.False(t, ok)
	assert.Equal(t, []ID{sibling.ID()}, keep.Children(), "must detach from remaining parent")
}

func TestStore_RemoveFile(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := s.CreateFolder("dir", nil)
	f := s.CreateFile("f.txt", "", dir)
	g := s.CreateFile("g.txt", "", dir)

	s.RemoveFile(f)

	_, ok := s.GetFile(f.ID())
	assert.False(t, ok)
	assert.Equal(t, []ID{g.ID()}, dir.Children())
}

func TestNewStore_IDsUniqueAcrossStores(t *testing.T) {
	t.Parallel()

	frozen := WithClock(func() time.Time { return testClock })
	a, b := NewStore(frozen), NewStore(frozen)

	seen := map[ID]bool{}
	for range 5 {
		for _, s := range []*Store{a, b} {
			f := s.CreateFile("f.txt", "", nil)
			assert.False(t, seen[f.ID()], "id %s issued twice", f.ID())
			seen[f.ID()] = true
		}
	}
	assert.Same(t, SharedSequenceGenerator(), SharedSequenceGenerator())
}

func TestStore_RenameFile(t *testing.T) {
	t.Parallel()

	now := testClock
	s := NewStore(WithClock(func() time.Time { return now }))
	dir := s.CreateFolder("dir", nil)
	f := s.CreateFile("old.txt", "", dir)

	now = now.Add(time.Minute)
	s.RenameFile(f, "new.txt")

	assert.Equal(t, "new.txt", f.Name())
	assert.Equal(t, "dir/new.txt", f.Path())
	assert.Equal(t, now, f.ModifiedAt())
	assert.Equal(t, testClock, f.CreatedAt())
}

func TestStore_PathsFollowFolderRenameAtDepth(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	parent := (*Folder)(nil)
	var chain []*Folder
	for _, name := range []string{"l0", "l1", "l2", "l3", "l4"} {
		parent = s.CreateFolder(name, parent)
		chain = append(chain, parent)
		s.CreateFile(name+".txt", name, parent)
	}

	s.RenameFolder(chain[0], "root")
	assertPathsConsistent(t, s)
	leaf, ok := s.GetFileByPath("root/l1/l2/l3/l4/l4.txt")
	require.True(t, ok)
	assert.Equal(t, "l4", leaf.Content())

	s.RenameFolder(chain[2], "mid")
	assertPathsConsistent(t, s)
	_, ok = s.GetFileByPath("root/l1/mid/l3/l4/l4.txt")
	assert.True(t, ok)
}

func TestStore_MoveFolder(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	a := s.CreateFolder("a", nil)
	b := s.CreateFolder("b", a)
	c := s.CreateFolder("c", b)
	f := s.CreateFile("f.go", "", c)
	other := s.CreateFolder("other", nil)

	t.Run("under another folder", func(t *testing.T) {
		moved, err := s.MoveFolder(b, other)
		require.NoError(t, err)
		assert.Same(t, b, moved)
		assert.Equal(t, "other/b/c/f.go", f.Path())
		assert.Empty(t, a.Children())
		assert.Equal(t, []ID{b.ID()}, other.Children())
		assertPathsConsistent(t, s)
	})
	t.Run("to root", func(t *testing.T) {
		_, err := s.MoveFolder(c, nil)
		require.NoError(t, err)
		assert.True(t, c.IsRoot())
		assert.Equal(t, "c/f.go", f.Path())
		assert.Empty(t, b.Children())
		assertPathsConsistent(t, s)
	})
}

func TestStore_MoveFolder_IntoOwnSubtree(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	a := s.CreateFolder("a", nil)
	b := s.CreateFolder("b", a)
	c := s.CreateFolder("c", b)

	var events []Event
	s.Events().SubscribeAll(func(ev Event) { events = append(events, ev) })

	for _, target := range []*Folder{a, b, c} {
		moved, err := s.MoveFolder(a, target)
		require.ErrorIs(t, err, ErrMoveIntoDescendant, "target %s", target.Name())
		assert.Nil(t, moved)
	}

	assert.Empty(t, events, "a rejected move must not notify")
	assert.True(t, a.IsRoot())
	assert.Equal(t, []ID{b.ID()}, a.Children())
	assert.Equal(t, "a/b/c", c.Path())
}

func TestStore_MoveFile_ToRoot(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := s.CreateFolder("dir", nil)
	f := s.CreateFile("f.txt", "", dir)

	s.MoveFile(f, nil)

	assert.True(t, f.IsRoot())
	assert.Equal(t, "f.txt", f.Path())
	assert.Empty(t, dir.Children())
}

func TestStore_ContentAndSave(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	f := s.CreateFile("a.md", "", nil)

	s.UpdateFileContent(f, "# title")
	assert.Equal(t, "# title", f.Content())
	assert.True(t, f.IsModified())

	s.MarkFileAsSaved(f)
	assert.False(t, f.IsModified())
	s.MarkFileAsSaved(f)
	assert.False(t, f.IsModified(), "saving twice keeps the file clean")
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := s.CreateFolder("dir", nil)
	f := s.CreateFile("f.txt", "", dir)
	next := s.NextID()

	var cleared bool
	On(s.Events(), func(DataCleared) { cleared = true })
	s.Clear()

	assert.True(t, cleared)
	files, folders := s.Len()
	assert.Zero(t, files)
	assert.Zero(t, folders)
	assert.Equal(t, next, s.NextID(), "clearing must not rewind ids")

	g := s.CreateFile("f.txt", "", nil)
	assert.NotEqual(t, f.ID(), g.ID())
}
