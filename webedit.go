// Package webedit contains the contracts shared by the workspace store and
// the collaborators around it: the key-value medium snapshots are persisted
// to, the text-editing widget, external content sources and batch requests.
//
// The store itself lives in the workspace package; shell wires it together
// with the views, the editor and the sources.
package webedit

// Version is reported by the CLI.
const Version = "0.1.0"
