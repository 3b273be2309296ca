package workspace

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/brettbedarf/webedit/internal/util"
	"github.com/gammazero/toposort"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FileRecord is the persisted form of a File.
type FileRecord struct {
	ID         ID        `json:"id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	Type       Kind      `json:"type" jsonschema:"enum=file"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Parent     *ID       `json:"parent" jsonschema:"oneof_type=string;null"`
	IsModified bool      `json:"isModified"`
	Path       string    `json:"path"`
}

// FolderRecord is the persisted form of a Folder. Children are ids.
type FolderRecord struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Type      Kind      `json:"type" jsonschema:"enum=folder"`
	Children  []ID      `json:"children"`
	CreatedAt time.Time `json:"createdAt"`
	Parent    *ID       `json:"parent" jsonschema:"oneof_type=string;null"`
	Path      string    `json:"path"`
}

// FileEntry encodes as the two element array [id, record].
type FileEntry struct {
	ID     ID
	Record FileRecord
}

// FolderEntry encodes as the two element array [id, record].
type FolderEntry struct {
	ID     ID
	Record FolderRecord
}

func (e FileEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Record})
}

func (e *FileEntry) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &e.ID, &e.Record)
}

func (e FolderEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Record})
}

func (e *FolderEntry) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &e.ID, &e.Record)
}

func unmarshalPair(data []byte, id *ID, rec any) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("entry must be [id, record], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], id); err != nil {
		return fmt.Errorf("entry id: %w", err)
	}
	if err := json.Unmarshal(raw[1], rec); err != nil {
		return fmt.Errorf("entry record: %w", err)
	}
	return nil
}

// Snapshot is the full serialisable state of a Store.
type Snapshot struct {
	Files      []FileEntry   `json:"files"`
	Folders    []FolderEntry `json:"folders"`
	NextID     uint64        `json:"nextId"`
	ExportedAt time.Time     `json:"exportedAt"`
}

// ParseSnapshot decodes a JSON snapshot. Structure is checked on import.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &ImportError{Reason: "malformed json", Err: err}
	}
	return &snap, nil
}

// ExportData copies the store into a Snapshot. Entries keep storage order.
func (s *Store) ExportData() *Snapshot {
	snap := &Snapshot{
		Files:      make([]FileEntry, 0, s.files.Len()),
		Folders:    make([]FolderEntry, 0, s.folders.Len()),
		NextID:     s.ids.Peek(),
		ExportedAt: s.now().UTC(),
	}
	for pair := s.files.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		snap.Files = append(snap.Files, FileEntry{ID: f.id, Record: FileRecord{
			ID:         f.id,
			Name:       f.name,
			Content:    f.content,
			Type:       KindFile,
			CreatedAt:  f.createdAt,
			ModifiedAt: f.modifiedAt,
			Parent:     parentRef(f.parent),
			IsModified: f.isModified,
			Path:       f.path,
		}})
	}
	for pair := s.folders.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		snap.Folders = append(snap.Folders, FolderEntry{ID: f.id, Record: FolderRecord{
			ID:        f.id,
			Name:      f.name,
			Type:      KindFolder,
			Children:  f.Children(),
			CreatedAt: f.createdAt,
			Parent:    parentRef(f.parent),
			Path:      f.path,
		}})
	}
	return snap
}

func parentRef(id ID) *ID {
	if id == "" {
		return nil
	}
	return &id
}

// ImportData replaces the store's contents with snap. The snapshot is fully
// validated and built aside first, so on error the store is unchanged.
// Paths are recomputed rather than trusted. The id counter only moves forward.
func (s *Store) ImportData(snap *Snapshot) error {
	logger := util.GetLogger("Store.ImportData")

	if err := s.importSnapshot(snap); err != nil {
		logger.Error().Err(err).Msg("Failed to import data")
		return err
	}
	logger.Info().Int("files", s.files.Len()).Int("folders", s.folders.Len()).Msg("Imported data")

	s.persist()
	s.events.emit(DataImported{Files: s.files.Len(), Folders: s.folders.Len()})
	return nil
}

func (s *Store) importSnapshot(snap *Snapshot) error {
	if snap == nil {
		return importErr("", "nil snapshot")
	}

	files := orderedmap.New[ID, *File]()
	folders := orderedmap.New[ID, *Folder]()
	var maxSeq uint64
	seen := func(id ID) error {
		if id == "" {
			return importErr("", "empty id")
		}
		if _, ok := files.Get(id); ok {
			return importErr(id, "duplicate id")
		}
		if _, ok := folders.Get(id); ok {
			return importErr(id, "duplicate id")
		}
		if n, ok := sequenceOf(id); ok {
			maxSeq = max(maxSeq, n)
		}
		return nil
	}

	for _, e := range snap.Folders {
		r := e.Record
		if err := seen(e.ID); err != nil {
			return err
		}
		if r.ID != e.ID {
			return importErr(e.ID, "record id %q does not match entry", r.ID)
		}
		if r.Type != "" && r.Type != KindFolder {
			return importErr(e.ID, "folder entry has type %q", r.Type)
		}
		folders.Set(e.ID, &Folder{
			node:     node{id: r.ID, name: r.Name, parent: deref(r.Parent), createdAt: r.CreatedAt},
			children: append([]ID(nil), r.Children...),
		})
	}
	for _, e := range snap.Files {
		r := e.Record
		if err := seen(e.ID); err != nil {
			return err
		}
		if r.ID != e.ID {
			return importErr(e.ID, "record id %q does not match entry", r.ID)
		}
		if r.Type != "" && r.Type != KindFile {
			return importErr(e.ID, "file entry has type %q", r.Type)
		}
		files.Set(e.ID, &File{
			node:       node{id: r.ID, name: r.Name, parent: deref(r.Parent), createdAt: r.CreatedAt},
			content:    r.Content,
			modifiedAt: r.ModifiedAt,
			isModified: r.IsModified,
		})
	}

	order, err := checkTree(files, folders)
	if err != nil {
		return err
	}

	// Swap in only once everything checked out.
	s.files, s.folders = files, folders
	for _, id := range order {
		f, _ := s.folders.Get(id)
		f.path = s.pathFor(f.parent, f.name)
	}
	for pair := s.files.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.path = s.pathFor(pair.Value.parent, pair.Value.name)
	}
	s.ids.Advance(max(snap.NextID, maxSeq+1))
	return nil
}

// checkTree verifies that parent links and children lists agree and that the
// folder graph is acyclic. It returns folder ids ordered parents first.
func checkTree(files *fileTable, folders *folderTable) ([]ID, error) {
	// every child listed must exist and point back exactly once
	listed := map[ID]ID{}
	for pair := folders.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		for _, c := range f.children {
			if prev, dup := listed[c]; dup {
				return nil, importErr(c, "listed as child of both %s and %s", prev, f.id)
			}
			listed[c] = f.id
			var parent ID
			if cf, ok := files.Get(c); ok {
				parent = cf.parent
			} else if cd, ok := folders.Get(c); ok {
				parent = cd.parent
			} else {
				return nil, importErr(c, "child of %s does not exist", f.id)
			}
			if parent != f.id {
				return nil, importErr(c, "listed under %s but parent is %q", f.id, parent)
			}
		}
	}

	// every parent link must be backed by a children entry
	checkParent := func(id, parent ID) error {
		if parent == "" {
			return nil
		}
		if _, ok := folders.Get(parent); !ok {
			return importErr(id, "parent %s does not exist", parent)
		}
		if listed[id] != parent {
			return importErr(id, "missing from children of parent %s", parent)
		}
		return nil
	}
	for pair := files.Oldest(); pair != nil; pair = pair.Next() {
		if err := checkParent(pair.Key, pair.Value.parent); err != nil {
			return nil, err
		}
	}

	var roots []ID
	edges := make([]toposort.Edge, 0, folders.Len())
	for pair := folders.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		if err := checkParent(f.id, f.parent); err != nil {
			return nil, err
		}
		if f.parent == f.id {
			return nil, importErr(f.id, "folder is its own parent")
		}
		if f.parent == "" {
			roots = append(roots, f.id)
			continue
		}
		// parent must come before child
		edges = append(edges, toposort.Edge{string(f.parent), string(f.id)})
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, &ImportError{Reason: "folder cycle", Err: err}
	}

	order := roots
	for _, v := range sorted {
		id := ID(v.(string))
		f, _ := folders.Get(id)
		if f.parent != "" {
			order = append(order, id)
		}
	}
	// every folder must have been placed exactly once
	if len(order) != folders.Len() {
		return nil, importErr("", "folder cycle detached from root")
	}
	return order, nil
}

func deref(id *ID) ID {
	if id == nil {
		return ""
	}
	return *id
}
