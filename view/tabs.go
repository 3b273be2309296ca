// Package view keeps the derived state of the open-tabs strip and the file
// tree. Views read the store and react to its events; every change to a file
// goes through a store operation.
package view

import (
	"fmt"
	"slices"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/editor"
	"github.com/brettbedarf/webedit/internal/util"
	"github.com/brettbedarf/webedit/workspace"
)

// ModifiedMark is appended to the label of tabs with unsaved edits.
const ModifiedMark = " ●"

// Tab is one open file.
type Tab struct {
	id       workspace.ID
	name     string
	lang     editor.Language
	modified bool // buffer edited since open or last save
}

func (t *Tab) ID() workspace.ID          { return t.id }
func (t *Tab) Name() string              { return t.name }
func (t *Tab) Language() editor.Language { return t.lang }
func (t *Tab) IsModified() bool          { return t.modified }

// Label is the text shown on the tab.
func (t *Tab) Label() string {
	if t.modified {
		return t.name + ModifiedMark
	}
	return t.name
}

// Tabs tracks open files, their buffers in the editor and the active tab.
type Tabs struct {
	store  *workspace.Store
	editor webedit.BufferEditor
	open   map[workspace.ID]*Tab
	order  []workspace.ID // open order
	active workspace.ID
	subs   []workspace.Subscription
}

// NewTabs subscribes to store so tabs follow renames and removals.
func NewTabs(store *workspace.Store, ed webedit.BufferEditor) *Tabs {
	t := &Tabs{
		store:  store,
		editor: ed,
		open:   map[workspace.ID]*Tab{},
	}
	ev := store.Events()
	t.subs = append(t.subs,
		workspace.On(ev, func(e workspace.FileRemoved) { t.Close(e.File.ID()) }),
		workspace.On(ev, func(e workspace.FileRenamed) { t.relabel(e.File) }),
		workspace.On(ev, func(e workspace.FileSaved) { t.setModified(e.File.ID(), false) }),
		workspace.On(ev, func(workspace.DataCleared) { t.CloseAll() }),
		workspace.On(ev, func(workspace.DataImported) { t.prune() }),
	)
	return t
}

// Detach stops following store events.
func (t *Tabs) Detach() {
	for _, s := range t.subs {
		s.Cancel()
	}
	t.subs = nil
}

// Open shows f in a tab, creating the tab and its editor buffer unless one
// is already open, and makes it active.
func (t *Tabs) Open(f *workspace.File) *Tab {
	logger := util.GetLogger("Tabs.Open")

	if tab, ok := t.open[f.ID()]; ok {
		t.active = f.ID()
		return tab
	}

	tab := &Tab{id: f.ID(), name: f.Name(), lang: editor.LanguageFor(f.Name())}
	id := string(f.ID())
	t.editor.OpenBuffer(id, f.Name(), f.Content(), tab.lang.ID)
	t.editor.OnContentChanged(id, func(string) { t.setModified(tab.id, true) })

	t.open[f.ID()] = tab
	t.order = append(t.order, f.ID())
	t.active = f.ID()
	logger.Debug().Str("id", id).Str("path", f.Path()).Msg("Opened tab")
	return tab
}

// Switch activates an open tab. It reports false if id is not open.
func (t *Tabs) Switch(id workspace.ID) bool {
	if _, ok := t.open[id]; !ok {
		return false
	}
	t.active = id
	return true
}

// Close closes the tab and its buffer. Closing the active tab activates the
// first remaining one. Unsaved buffer text is discarded; call [Tabs.Save]
// first to keep it.
func (t *Tabs) Close(id workspace.ID) bool {
	if _, ok := t.open[id]; !ok {
		return false
	}
	t.editor.CloseBuffer(string(id))
	delete(t.open, id)
	t.order = slices.DeleteFunc(t.order, func(o workspace.ID) bool { return o == id })

	if t.active == id {
		t.active = ""
		if len(t.order) > 0 {
			t.active = t.order[0]
		}
	}
	return true
}

// CloseAll closes every tab.
func (t *Tabs) CloseAll() {
	for _, id := range slices.Clone(t.order) {
		t.Close(id)
	}
}

// Active returns the active tab, if any.
func (t *Tabs) Active() (*Tab, bool) {
	tab, ok := t.open[t.active]
	return tab, ok
}

func (t *Tabs) Get(id workspace.ID) (*Tab, bool) {
	tab, ok := t.open[id]
	return tab, ok
}

// IsModified reports whether id is open with unsaved buffer edits. Closed
// files report false.
func (t *Tabs) IsModified(id workspace.ID) bool {
	tab, ok := t.open[id]
	return ok && tab.modified
}

// List returns open tabs in the order they were opened.
func (t *Tabs) List() []*Tab {
	out := make([]*Tab, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.open[id])
	}
	return out
}

// Save copies the buffer text into the store and marks the file saved.
func (t *Tabs) Save(id workspace.ID) error {
	logger := util.GetLogger("Tabs.Save")

	if _, ok := t.open[id]; !ok {
		return fmt.Errorf("no open tab for %s", id)
	}
	f, ok := t.store.GetFile(id)
	if !ok {
		return fmt.Errorf("file %s no longer exists", id)
	}
	content, ok := t.editor.BufferValue(string(id))
	if !ok {
		return fmt.Errorf("no editor buffer for %s", id)
	}
	if content != f.Content() {
		t.store.UpdateFileContent(f, content)
	}
	t.store.MarkFileAsSaved(f)
	logger.Debug().Str("path", f.Path()).Msg("Saved")
	return nil
}

// SaveActive saves the active tab.
func (t *Tabs) SaveActive() error {
	if t.active == "" {
		return fmt.Errorf("no active tab")
	}
	return t.Save(t.active)
}

// SaveAll saves every modified tab and returns the first error.
func (t *Tabs) SaveAll() error {
	var first error
	for _, id := range slices.Clone(t.order) {
		if !t.open[id].modified {
			continue
		}
		if err := t.Save(id); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t *Tabs) setModified(id workspace.ID, modified bool) {
	if tab, ok := t.open[id]; ok {
		tab.modified = modified
	}
}

func (t *Tabs) relabel(f *workspace.File) {
	if tab, ok := t.open[f.ID()]; ok {
		tab.name = f.Name()
		tab.lang = editor.LanguageFor(f.Name())
	}
}

// prune drops tabs whose file vanished and relabels the rest after an import.
func (t *Tabs) prune() {
	for _, id := range slices.Clone(t.order) {
		f, ok := t.store.GetFile(id)
		if !ok {
			t.Close(id)
			continue
		}
		t.relabel(f)
	}
}
