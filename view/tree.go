package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/brettbedarf/webedit/workspace"
)

// Row is one visible line of the tree.
type Row struct {
	Entity   workspace.Entity
	Depth    int
	Expanded bool // folders only
	Selected bool
	Modified bool // files only
}

// Tree holds the file explorer state: which folders are expanded, which file
// is selected and the current name filter.
type Tree struct {
	store    *workspace.Store
	expanded map[workspace.ID]bool
	selected workspace.ID
	filter   string
	modified func(workspace.ID) bool
	subs     []workspace.Subscription
}

// TreeOption configures a [Tree].
type TreeOption func(*Tree)

// WithModified marks files for which fn reports true as modified, in
// addition to files the store itself flags. Pass [Tabs.IsModified] so
// unsaved buffer edits show in the tree.
func WithModified(fn func(workspace.ID) bool) TreeOption {
	return func(t *Tree) { t.modified = fn }
}

// NewTree subscribes to store so removed entities drop out of the tree state.
func NewTree(store *workspace.Store, opts ...TreeOption) *Tree {
	t := &Tree{
		store:    store,
		expanded: map[workspace.ID]bool{},
		modified: func(workspace.ID) bool { return false },
	}
	for _, opt := range opts {
		opt(t)
	}
	ev := store.Events()
	t.subs = append(t.subs,
		workspace.On(ev, func(e workspace.FolderRemoved) { delete(t.expanded, e.Folder.ID()) }),
		workspace.On(ev, func(e workspace.FileRemoved) {
			if t.selected == e.File.ID() {
				t.selected = ""
			}
		}),
		workspace.On(ev, func(workspace.DataCleared) {
			t.expanded = map[workspace.ID]bool{}
			t.selected = ""
		}),
		workspace.On(ev, func(workspace.DataImported) { t.prune() }),
	)
	return t
}

// Detach stops following store events.
func (t *Tree) Detach() {
	for _, s := range t.subs {
		s.Cancel()
	}
	t.subs = nil
}

// Toggle flips a folder's expansion and returns the new state.
func (t *Tree) Toggle(id workspace.ID) bool {
	if t.expanded[id] {
		delete(t.expanded, id)
		return false
	}
	if _, ok := t.store.GetFolder(id); !ok {
		return false
	}
	t.expanded[id] = true
	return true
}

func (t *Tree) Expand(id workspace.ID) {
	if _, ok := t.store.GetFolder(id); ok {
		t.expanded[id] = true
	}
}

func (t *Tree) Collapse(id workspace.ID) {
	delete(t.expanded, id)
}

func (t *Tree) IsExpanded(id workspace.ID) bool {
	return t.expanded[id]
}

// ExpandAll expands every folder.
func (t *Tree) ExpandAll() {
	for _, f := range t.store.Folders() {
		t.expanded[f.ID()] = true
	}
}

// ExpandToFile expands every folder enclosing f so it becomes visible.
func (t *Tree) ExpandToFile(f *workspace.File) {
	for _, a := range t.store.Ancestors(f) {
		t.expanded[a.ID()] = true
	}
}

// Select marks a file as selected. Only files can be selected.
func (t *Tree) Select(id workspace.ID) (*workspace.File, bool) {
	f, ok := t.store.GetFile(id)
	if !ok {
		return nil, false
	}
	t.selected = id
	return f, true
}

// Focus selects f and reveals it.
func (t *Tree) Focus(f *workspace.File) {
	t.ExpandToFile(f)
	t.selected = f.ID()
}

func (t *Tree) Selected() (*workspace.File, bool) {
	if t.selected == "" {
		return nil, false
	}
	return t.store.GetFile(t.selected)
}

// ClearSelection deselects the selected file, if any.
func (t *Tree) ClearSelection() {
	t.selected = ""
}

// SetFilter switches the tree to a flat list of entities whose name contains
// term, ignoring case. An empty term restores the hierarchy.
func (t *Tree) SetFilter(term string) {
	t.filter = term
}

func (t *Tree) Filter() string {
	return t.filter
}

// Rows returns the visible lines. Root folders come before root files;
// inside a folder children keep their stored order.
func (t *Tree) Rows() []Row {
	if t.filter != "" {
		return t.filteredRows()
	}
	var rows []Row
	for _, f := range t.store.RootFolders() {
		rows = t.appendFolder(rows, f, 0)
	}
	for _, f := range t.store.RootFiles() {
		rows = append(rows, t.fileRow(f, 0))
	}
	return rows
}

func (t *Tree) appendFolder(rows []Row, f *workspace.Folder, depth int) []Row {
	expanded := t.expanded[f.ID()]
	rows = append(rows, Row{Entity: f, Depth: depth, Expanded: expanded})
	if !expanded {
		return rows
	}
	for _, child := range t.store.Children(f) {
		switch c := child.(type) {
		case *workspace.Folder:
			rows = t.appendFolder(rows, c, depth+1)
		case *workspace.File:
			rows = append(rows, t.fileRow(c, depth+1))
		}
	}
	return rows
}

func (t *Tree) fileRow(f *workspace.File, depth int) Row {
	return Row{
		Entity:   f,
		Depth:    depth,
		Selected: f.ID() == t.selected,
		Modified: f.IsModified() || t.modified(f.ID()),
	}
}

func (t *Tree) filteredRows() []Row {
	q := strings.ToLower(t.filter)
	var rows []Row
	for _, f := range t.store.Files() {
		if strings.Contains(strings.ToLower(f.Name()), q) {
			rows = append(rows, t.fileRow(f, 0))
		}
	}
	for _, f := range t.store.Folders() {
		if strings.Contains(strings.ToLower(f.Name()), q) {
			rows = append(rows, Row{Entity: f, Expanded: t.expanded[f.ID()]})
		}
	}
	return rows
}

// Render writes the visible rows as indented text.
func (t *Tree) Render(w io.Writer) error {
	rows := t.Rows()
	if len(rows) == 0 {
		msg := "No files or folders"
		if t.filter != "" {
			msg = "No files found"
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}

// String renders a single row, e.g. "  ▾ src/" or "  * app.js ●".
func (r Row) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.Depth))
	switch {
	case r.Entity.Kind() == workspace.KindFolder && r.Expanded:
		b.WriteString("▾ ")
	case r.Entity.Kind() == workspace.KindFolder:
		b.WriteString("▸ ")
	case r.Selected:
		b.WriteString("* ")
	default:
		b.WriteString("  ")
	}
	b.WriteString(r.Entity.Name())
	if r.Entity.Kind() == workspace.KindFolder {
		b.WriteString("/")
	}
	if r.Modified {
		b.WriteString(ModifiedMark)
	}
	return b.String()
}

func (t *Tree) prune() {
	for id := range t.expanded {
		if _, ok := t.store.GetFolder(id); !ok {
			delete(t.expanded, id)
		}
	}
	if _, ok := t.store.GetFile(t.selected); !ok {
		t.selected = ""
	}
}
