package workspace

import (
	"github.com/invopop/jsonschema"
)

// JSONSchema describes the [id, record] pair encoding of FileEntry.
func (FileEntry) JSONSchema() *jsonschema.Schema {
	return pairSchema("A file keyed by its id", &FileRecord{})
}

// JSONSchema describes the [id, record] pair encoding of FolderEntry.
func (FolderEntry) JSONSchema() *jsonschema.Schema {
	return pairSchema("A folder keyed by its id", &FolderRecord{})
}

func pairSchema(desc string, rec any) *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true, Anonymous: true}
	recSchema := r.Reflect(rec)
	recSchema.Version = ""
	return &jsonschema.Schema{
		Type:        "array",
		Description: desc,
		PrefixItems: []*jsonschema.Schema{
			{Type: "string", Description: "entity id"},
			recSchema,
		},
	}
}

// SnapshotSchema returns the JSON Schema of the persisted snapshot.
func SnapshotSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := r.Reflect(&Snapshot{})
	s.Title = "webedit workspace snapshot"
	return s
}
