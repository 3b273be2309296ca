// Package mount exposes a workspace as a read-only FUSE file system.
//
// The store is single-owner, so the mount never reads it from FUSE
// goroutines. Instead every store event rebuilds an immutable [Tree] which
// request handlers read through an atomic pointer.
package mount

import (
	"fmt"
	"strings"
	"time"

	"github.com/brettbedarf/webedit/workspace"
)

// Entry is one file or directory of a laid out workspace.
type Entry struct {
	ID       workspace.ID // "" for the root
	Name     string       // name on disk, after conflict handling
	Path     string       // slash separated from the mount root; "" for the root
	Dir      bool
	Content  []byte
	ModTime  time.Time
	Children []*Entry // directories first, then files, each in store order
	byName   map[string]*Entry
}

func (e *Entry) Child(name string) (*Entry, bool) {
	c, ok := e.byName[name]
	return c, ok
}

func (e *Entry) Size() uint64 {
	return uint64(len(e.Content))
}

// Tree is an immutable snapshot of a workspace laid out as directories.
type Tree struct {
	root   *Entry
	byPath map[string]*Entry
}

// Layout snapshots store. Entity names a file system cannot hold are
// rewritten: path separators and NUL become '_', and a name already used in
// the same directory gets " (n)" like [workspace.Store.GenerateUniqueFileName].
// Folders claim names before files.
func Layout(store *workspace.Store) *Tree {
	t := &Tree{
		root:   &Entry{Dir: true, ModTime: time.Now(), byName: map[string]*Entry{}},
		byPath: map[string]*Entry{},
	}
	t.byPath[""] = t.root
	t.fill(store, t.root, store.Children(nil))
	return t
}

func (t *Tree) fill(store *workspace.Store, dir *Entry, children []workspace.Entity) {
	var files []*workspace.File
	for _, c := range children {
		switch v := c.(type) {
		case *workspace.Folder:
			e := t.add(dir, v.ID(), v.Name(), false)
			e.Dir = true
			e.ModTime = v.CreatedAt()
			e.byName = map[string]*Entry{}
			t.fill(store, e, store.Children(v))
		case *workspace.File:
			files = append(files, v)
		}
	}
	for _, f := range files {
		e := t.add(dir, f.ID(), f.Name(), true)
		e.Content = []byte(f.Content())
		e.ModTime = f.ModifiedAt()
	}
}

func (t *Tree) add(dir *Entry, id workspace.ID, name string, splitExt bool) *Entry {
	name = freeName(sanitize(name), splitExt, dir.byName)
	p := name
	if dir.Path != "" {
		p = dir.Path + "/" + name
	}
	e := &Entry{ID: id, Name: name, Path: p}
	dir.byName[name] = e
	dir.Children = append(dir.Children, e)
	t.byPath[p] = e
	return e
}

func (t *Tree) Root() *Entry { return t.root }

// Lookup finds an entry by its mount path. "" is the root.
func (t *Tree) Lookup(p string) (*Entry, bool) {
	e, ok := t.byPath[strings.Trim(p, "/")]
	return e, ok
}

// Len counts entries, excluding the root.
func (t *Tree) Len() int {
	return len(t.byPath) - 1
}

func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == 0 {
			return '_'
		}
		return r
	}, name)
	switch name {
	case "", ".", "..":
		return "_" + name
	}
	return name
}

func freeName(name string, splitExt bool, taken map[string]*Entry) string {
	if _, ok := taken[name]; !ok {
		return name
	}
	stem, ext := name, ""
	if splitExt {
		if i := strings.LastIndex(name, "."); i > 0 {
			stem, ext = name[:i], name[i:]
		}
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
