package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/config"
	"github.com/brettbedarf/webedit/editor"
	"github.com/brettbedarf/webedit/internal/mocks"
	"github.com/brettbedarf/webedit/kv"
	"github.com/brettbedarf/webedit/view"
	"github.com/brettbedarf/webedit/workspace"
)

func memoryConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.StorageBackend = config.StorageBackendMemory
	return cfg
}

func newTestShell(t *testing.T, opts ...Option) *Shell {
	t.Helper()
	s, err := New(memoryConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestNew_RestoresStoredWorkspace(t *testing.T) {
	t.Parallel()

	backend := kv.NewMemory()
	first := newTestShell(t, WithKVStore(backend))
	src, _, err := first.EnsureFolderPath("src")
	require.NoError(t, err)
	first.Store().CreateFile("app.js", "let a = 1", src)

	second := newTestShell(t, WithKVStore(backend))
	f, err := second.ResolveFile("src/app.js")
	require.NoError(t, err)
	assert.Equal(t, "let a = 1", f.Content())

	fresh := newTestShell(t, WithKVStore(backend), WithoutLoad())
	files, folders := fresh.Store().Len()
	assert.Zero(t, files+folders)
}

func TestNew_FileBackend(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	cfg.DataDir = t.TempDir()
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	s.Store().CreateFile("index.html", "", nil)
	_, err = os.Stat(filepath.Join(cfg.DataDir, config.DefaultStorageKey+".json"))
	assert.NoError(t, err)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.StorageBackend = "s3"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_UUIDStrategy(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.IDStrategy = config.IDStrategyUUID
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	f := s.Store().CreateFile("a.txt", "", nil)
	_, err = uuid.Parse(string(f.ID()))
	assert.NoError(t, err)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	lib, _, err := s.EnsureFolderPath("src/lib")
	require.NoError(t, err)
	util := s.Store().CreateFile("util.js", "", lib)

	root, err := s.ResolveFolder("/")
	require.NoError(t, err)
	assert.Nil(t, root)

	got, err := s.ResolveFolder("/src/lib/")
	require.NoError(t, err)
	assert.Equal(t, lib.ID(), got.ID())

	f, err := s.ResolveFile("src/lib/util.js")
	require.NoError(t, err)
	assert.Equal(t, util.ID(), f.ID())

	e, err := s.Resolve("src")
	require.NoError(t, err)
	assert.Equal(t, workspace.KindFolder, e.Kind())

	e, err = s.Resolve("src/lib/util.js")
	require.NoError(t, err)
	assert.Equal(t, workspace.KindFile, e.Kind())

	_, err = s.ResolveFile("src/util.js")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ResolveFolder("lib")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Resolve("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureFolderPath(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	leaf, n, err := s.EnsureFolderPath("a/b/c")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "a/b/c", leaf.Path())

	again, n, err := s.EnsureFolderPath("a/b/c")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, leaf.ID(), again.ID())

	_, n, err = s.EnsureFolderPath("a/b/d")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, _, err = s.EnsureFolderPath("a/bad name")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, _, err = s.EnsureFolderPath("")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestNewFile(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	src, err := s.NewFolder("src", nil)
	require.NoError(t, err)

	f, err := s.NewFile("app.js", src)
	require.NoError(t, err)
	assert.Equal(t, "src/app.js", f.Path())

	tab, ok := s.Tabs().Active()
	require.True(t, ok)
	assert.Equal(t, f.ID(), tab.ID())
	sel, ok := s.Tree().Selected()
	require.True(t, ok)
	assert.Equal(t, f.ID(), sel.ID())
	assert.True(t, s.Tree().IsExpanded(src.ID()))

	_, err = s.NewFile("app.js", src)
	assert.ErrorIs(t, err, ErrNameTaken)
	_, err = s.NewFile("app.exe", src)
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = s.NewFile("app.js", nil)
	assert.NoError(t, err, "names are scoped per folder")
}

func TestNewFile_ConfiguredExtensions(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.AllowedExtensions = []string{".go"}
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.NewFile("main.go", nil)
	assert.NoError(t, err)
	_, err = s.NewFile("index.html", nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestNewFolder(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	src, err := s.NewFolder("src", nil)
	require.NoError(t, err)
	_, err = s.NewFolder("lib", src)
	require.NoError(t, err)
	assert.True(t, s.Tree().IsExpanded(src.ID()))

	_, err = s.NewFolder("src", nil)
	assert.ErrorIs(t, err, ErrNameTaken)
	_, err = s.NewFolder("my folder", nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRename(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	f, err := s.NewFile("a.js", nil)
	require.NoError(t, err)
	_, err = s.NewFile("b.js", nil)
	require.NoError(t, err)

	assert.NoError(t, s.RenameFile(f, "a.js"))
	assert.ErrorIs(t, s.RenameFile(f, "b.js"), ErrNameTaken)
	assert.ErrorIs(t, s.RenameFile(f, "a"), ErrInvalidName)

	require.NoError(t, s.RenameFile(f, "c.js"))
	assert.Equal(t, "c.js", f.Name())
	tab, ok := s.Tabs().Get(f.ID())
	require.True(t, ok)
	assert.Equal(t, "c.js", tab.Name())

	src, err := s.NewFolder("src", nil)
	require.NoError(t, err)
	_, err = s.NewFolder("lib", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.RenameFolder(src, "lib"), ErrNameTaken)
	assert.ErrorIs(t, s.RenameFolder(src, "s.r.c"), ErrInvalidName)
	require.NoError(t, s.RenameFolder(src, "source"))
	assert.Equal(t, "source", src.Path())
}

func TestMove(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	a, _, err := s.EnsureFolderPath("a/inner")
	require.NoError(t, err)
	top, err := s.ResolveFolder("a")
	require.NoError(t, err)
	b, _, err := s.EnsureFolderPath("b")
	require.NoError(t, err)

	f := s.Store().CreateFile("x.txt", "", nil)
	s.Store().CreateFile("x.txt", "", b)

	assert.ErrorIs(t, s.MoveFile(f, b), ErrNameTaken)
	require.NoError(t, s.MoveFile(f, a))
	assert.Equal(t, "a/inner/x.txt", f.Path())
	assert.NoError(t, s.MoveFile(f, a), "moving to the current folder is a no-op")

	assert.ErrorIs(t, s.MoveFolder(top, a), workspace.ErrMoveIntoDescendant)
	require.NoError(t, s.MoveFolder(a, b))
	assert.Equal(t, "b/inner/x.txt", f.Path())

	_, err = s.NewFolder("inner", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.MoveFolder(a, nil), ErrNameTaken)
}

func TestMoveFolder_IntoDescendantWithSameName(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	a, _, err := s.EnsureFolderPath("a/b/a")
	require.NoError(t, err)
	top, err := s.ResolveFolder("a")
	require.NoError(t, err)
	b, err := s.ResolveFolder("a/b")
	require.NoError(t, err)

	assert.ErrorIs(t, s.MoveFolder(top, b), workspace.ErrMoveIntoDescendant)
	assert.Equal(t, "a/b/a", a.Path())
	assert.Equal(t, "a", top.Path())
}

func rowFor(rows []view.Row, id workspace.ID) (view.Row, bool) {
	for _, r := range rows {
		if r.Entity.ID() == id {
			return r, true
		}
	}
	return view.Row{}, false
}

func TestTree_ShowsUnsavedEdits(t *testing.T) {
	t.Parallel()

	buffers := editor.NewBuffers()
	s := newTestShell(t, WithEditor(buffers))
	f, err := s.NewFile("app.js", nil)
	require.NoError(t, err)

	row, ok := rowFor(s.Tree().Rows(), f.ID())
	require.True(t, ok)
	assert.False(t, row.Modified)

	require.True(t, buffers.Edit(string(f.ID()), "let a = 1"))
	row, _ = rowFor(s.Tree().Rows(), f.ID())
	assert.True(t, row.Modified, "buffer edits mark the file in the tree")
	assert.False(t, f.IsModified(), "the store is untouched until save")

	require.NoError(t, s.Tabs().Save(f.ID()))
	row, _ = rowFor(s.Tree().Rows(), f.ID())
	assert.False(t, row.Modified)

	require.True(t, buffers.Edit(string(f.ID()), "let a = 2"))
	require.True(t, s.CloseFile(f.ID()))
	row, _ = rowFor(s.Tree().Rows(), f.ID())
	assert.False(t, row.Modified, "closing the tab drops the mark")
	assert.Equal(t, "let a = 1", f.Content())
}

func TestCloseFile(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	first, err := s.NewFile("index.html", nil)
	require.NoError(t, err)
	second, err := s.NewFile("app.js", nil)
	require.NoError(t, err)

	sel, ok := s.Tree().Selected()
	require.True(t, ok)
	assert.Equal(t, second.ID(), sel.ID())

	require.True(t, s.CloseFile(second.ID()))
	sel, ok = s.Tree().Selected()
	require.True(t, ok, "selection follows the newly active tab")
	assert.Equal(t, first.ID(), sel.ID())

	require.True(t, s.CloseFile(first.ID()))
	_, ok = s.Tree().Selected()
	assert.False(t, ok)
	assert.False(t, s.CloseFile(first.ID()))
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	src, err := s.NewFolder("src", nil)
	require.NoError(t, err)
	f, err := s.NewFile("app.js", src)
	require.NoError(t, err)
	other, err := s.NewFile("index.html", nil)
	require.NoError(t, err)

	s.Remove(src)
	_, ok := s.Store().GetFile(f.ID())
	assert.False(t, ok)
	_, ok = s.Tabs().Get(f.ID())
	assert.False(t, ok, "tab closes with its file")

	s.Remove(other)
	files, folders := s.Store().Len()
	assert.Zero(t, files+folders)
}

func TestUpload(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	first, err := s.Upload(webedit.Upload{Name: "data.csv", Content: "a,b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "data.csv", first.Name())

	second, err := s.Upload(webedit.Upload{Name: "data.csv", Content: "c,d"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "data (1).csv", second.Name())

	tab, ok := s.Tabs().Active()
	require.True(t, ok)
	assert.Equal(t, second.ID(), tab.ID())

	_, err = s.Upload(webedit.Upload{Name: "../etc/passwd"}, nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestOpenExternal(t *testing.T) {
	t.Parallel()

	s := newTestShell(t)
	ctx := context.Background()

	src := &mocks.MockContentSource{}
	src.On("Fetch", ctx).Return(&webedit.Upload{Name: "style.css", Content: "body{}"}, nil)
	f, err := s.OpenExternal(ctx, src, nil)
	require.NoError(t, err)
	assert.Equal(t, "style.css", f.Name())
	assert.Equal(t, "body{}", f.Content())
	value, ok := s.Editor().BufferValue(string(f.ID()))
	require.True(t, ok)
	assert.Equal(t, "body{}", value)

	expErr := errors.New("offline")
	failing := &mocks.MockContentSource{}
	failing.On("Fetch", ctx).Return(nil, expErr)
	_, err = s.OpenExternal(ctx, failing, nil)
	assert.ErrorIs(t, err, expErr)
}
