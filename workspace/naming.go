package workspace

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// DefaultFileExtensions are accepted by [ValidFileName] when no list is given.
var DefaultFileExtensions = []string{".html", ".css", ".js", ".txt", ".json", ".md"}

var folderNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// FindFile returns the file called name directly under parent, or at the
// root when parent is nil.
func (s *Store) FindFile(name string, parent *Folder) (*File, bool) {
	if parent == nil {
		for _, f := range s.RootFiles() {
			if f.name == name {
				return f, true
			}
		}
		return nil, false
	}
	for _, id := range parent.children {
		if f, ok := s.files.Get(id); ok && f.name == name {
			return f, true
		}
	}
	return nil, false
}

// FindFolder returns the folder called name directly under parent, or at the
// root when parent is nil.
func (s *Store) FindFolder(name string, parent *Folder) (*Folder, bool) {
	if parent == nil {
		for _, f := range s.RootFolders() {
			if f.name == name {
				return f, true
			}
		}
		return nil, false
	}
	for _, id := range parent.children {
		if f, ok := s.folders.Get(id); ok && f.name == name {
			return f, true
		}
	}
	return nil, false
}

// FileNameExists checks sibling files only; a folder may share the name.
func (s *Store) FileNameExists(name string, parent *Folder) bool {
	_, ok := s.FindFile(name, parent)
	return ok
}

// FolderNameExists checks sibling folders only; a file may share the name.
func (s *Store) FolderNameExists(name string, parent *Folder) bool {
	_, ok := s.FindFolder(name, parent)
	return ok
}

// GenerateUniqueFileName returns base, or base with " (n)" inserted before its
// final extension, choosing the smallest n >= 1 that is free under parent.
// "report.txt" becomes "report (1).txt"; "Makefile" becomes "Makefile (1)".
func (s *Store) GenerateUniqueFileName(base string, parent *Folder) string {
	stem, ext := base, ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		stem, ext = base[:i], base[i:]
	}
	name := base
	for n := 1; s.FileNameExists(name, parent); n++ {
		name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
	}
	return name
}

// GenerateUniqueFolderName appends " (n)" to base until the name is free.
func (s *Store) GenerateUniqueFolderName(base string, parent *Folder) string {
	name := base
	for n := 1; s.FolderNameExists(name, parent); n++ {
		name = fmt.Sprintf("%s (%d)", base, n)
	}
	return name
}

// Extension returns the lower-cased text after the last '.' including the
// dot, or "" when name has none.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// ValidFileName reports whether name is usable for a new or renamed file:
// non-blank, free of path separators and ending in one of allowed. A nil
// allowed list means [DefaultFileExtensions].
func ValidFileName(name string, allowed []string) bool {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
		return false
	}
	if allowed == nil {
		allowed = DefaultFileExtensions
	}
	ext := Extension(name)
	if ext == "" || ext == name {
		return false
	}
	return slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, ext) })
}

// ValidFolderName accepts letters, digits, '_' and '-' only.
func ValidFolderName(name string) bool {
	return folderNameRe.MatchString(name)
}
