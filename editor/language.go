// Package editor holds the editor-side lookups keyed by file extension and
// a headless [webedit.BufferEditor] for CLI and tests.
package editor

import "strings"

// Language describes how an editor presents files of one extension.
type Language struct {
	ID          string // editor language hint, e.g. "javascript"
	DisplayName string // status bar label
	TabIcon     string // icon class for tabs
	TreeIcon    string // icon class for the file tree
}

// PlainText is used for every extension missing from the table.
var PlainText = Language{
	ID:          "plaintext",
	DisplayName: "Plain Text",
	TabIcon:     "fas fa-file",
	TreeIcon:    "fas fa-file",
}

var languages = map[string]Language{
	"html": {"html", "HTML", "fab fa-html5", "fas fa-file-code file-icon html"},
	"css":  {"css", "CSS", "fab fa-css3-alt", "fas fa-file-code file-icon css"},
	"js":   {"javascript", "JavaScript", "fab fa-js-square", "fas fa-file-code file-icon js"},
	"json": {"json", "JSON", "fas fa-file-code", "fas fa-file-code file-icon json"},
	"md":   {"markdown", "Markdown", "fab fa-markdown", "fas fa-file-alt file-icon md"},
	"txt":  {"plaintext", "Plain Text", "fas fa-file-alt", "fas fa-file"},
}

// LanguageFor looks up fileName's extension, ignoring case.
func LanguageFor(fileName string) Language {
	ext := fileName
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = fileName[i+1:]
	}
	if l, ok := languages[strings.ToLower(ext)]; ok {
		return l
	}
	return PlainText
}

// LanguageID is the language hint passed to [webedit.BufferEditor.OpenBuffer].
func LanguageID(fileName string) string {
	return LanguageFor(fileName).ID
}

func DisplayName(fileName string) string {
	return LanguageFor(fileName).DisplayName
}
