package workspace

import "slices"

// Event is one of the lifecycle notifications emitted by a Store after a
// completed mutation. The set is closed; see the concrete types below.
type Event interface {
	// EventName is the channel name, e.g. "fileAdded".
	EventName() string
	isEvent()
}

type FileAdded struct{ File *File }
type FolderAdded struct{ Folder *Folder }
type FileRemoved struct{ File *File }
type FolderRemoved struct{ Folder *Folder }

type FileRenamed struct {
	File    *File
	OldName string
}

type FolderRenamed struct {
	Folder  *Folder
	OldName string
}

// FileMoved carries the destination folder; nil means the root.
type FileMoved struct {
	File   *File
	Target *Folder
}

// FolderMoved carries the destination folder; nil means the root.
type FolderMoved struct {
	Folder *Folder
	Target *Folder
}

type FileContentChanged struct{ File *File }
type FileSaved struct{ File *File }

// DataImported follows a successful import or startup load.
type DataImported struct {
	Files   int
	Folders int
}

type DataCleared struct{}

func (FileAdded) EventName() string          { return "fileAdded" }
func (FolderAdded) EventName() string        { return "folderAdded" }
func (FileRemoved) EventName() string        { return "fileRemoved" }
func (FolderRemoved) EventName() string      { return "folderRemoved" }
func (FileRenamed) EventName() string        { return "fileRenamed" }
func (FolderRenamed) EventName() string      { return "folderRenamed" }
func (FileMoved) EventName() string          { return "fileMoved" }
func (FolderMoved) EventName() string        { return "folderMoved" }
func (FileContentChanged) EventName() string { return "fileContentChanged" }
func (FileSaved) EventName() string          { return "fileSaved" }
func (DataImported) EventName() string       { return "dataImported" }
func (DataCleared) EventName() string        { return "dataCleared" }

func (FileAdded) isEvent()          {}
func (FolderAdded) isEvent()        {}
func (FileRemoved) isEvent()        {}
func (FolderRemoved) isEvent()      {}
func (FileRenamed) isEvent()        {}
func (FolderRenamed) isEvent()      {}
func (FileMoved) isEvent()          {}
func (FolderMoved) isEvent()        {}
func (FileContentChanged) isEvent() {}
func (FileSaved) isEvent()          {}
func (DataImported) isEvent()       {}
func (DataCleared) isEvent()        {}

// EventNames lists every channel name in declaration order.
func EventNames() []string {
	return []string{
		"fileAdded", "folderAdded", "fileRemoved", "folderRemoved",
		"fileRenamed", "folderRenamed", "fileMoved", "folderMoved",
		"fileContentChanged", "fileSaved", "dataImported", "dataCleared",
	}
}

type handler struct {
	id uint64
	fn func(Event)
}

// Notifier is a synchronous publish/subscribe channel. Handlers run on the
// emitting goroutine in registration order. Like the Store that owns it, a
// Notifier is not safe for concurrent use.
type Notifier struct {
	handlers []handler
	lastID   uint64
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscription cancels a registered handler.
type Subscription struct {
	n  *Notifier
	id uint64
}

// Cancel removes the handler. Cancelling twice is a no-op.
func (s Subscription) Cancel() {
	if s.n == nil {
		return
	}
	s.n.handlers = slices.DeleteFunc(s.n.handlers, func(h handler) bool { return h.id == s.id })
}

// SubscribeAll registers fn for every event.
func (n *Notifier) SubscribeAll(fn func(Event)) Subscription {
	n.lastID++
	n.handlers = append(n.handlers, handler{id: n.lastID, fn: fn})
	return Subscription{n: n, id: n.lastID}
}

// On registers fn for events of type E only.
//
//	workspace.On(store.Events(), func(ev workspace.FileRenamed) { ... })
func On[E Event](n *Notifier, fn func(E)) Subscription {
	return n.SubscribeAll(func(ev Event) {
		if e, ok := ev.(E); ok {
			fn(e)
		}
	})
}

// Len returns the number of registered handlers.
func (n *Notifier) Len() int {
	return len(n.handlers)
}

func (n *Notifier) emit(ev Event) {
	// handlers may cancel themselves or subscribe others while we dispatch
	for _, h := range slices.Clone(n.handlers) {
		h.fn(ev)
	}
}
