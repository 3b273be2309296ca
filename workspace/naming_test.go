package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUniqueFileName(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := s.CreateFolder("dir", nil)
	s.CreateFile("a.txt", "", dir)
	s.CreateFile("a (1).txt", "", dir)

	assert.Equal(t, "a (2).txt", s.GenerateUniqueFileName("a.txt", dir))
	assert.Equal(t, "b.txt", s.GenerateUniqueFileName("b.txt", dir), "free names are kept")
	assert.Equal(t, "a.txt", s.GenerateUniqueFileName("a.txt", nil), "scope is per parent")

	s.CreateFile("Makefile", "", nil)
	assert.Equal(t, "Makefile (1)", s.GenerateUniqueFileName("Makefile", nil))

	s.CreateFile("app.min.js", "", nil)
	assert.Equal(t, "app.min (1).js", s.GenerateUniqueFileName("app.min.js", nil), "counter goes before the final extension")
}

func TestGenerateUniqueFolderName(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	s.CreateFolder("src", nil)
	s.CreateFolder("src (1)", nil)
	s.CreateFolder("v1.2", nil)

	assert.Equal(t, "src (2)", s.GenerateUniqueFolderName("src", nil))
	assert.Equal(t, "v1.2 (1)", s.GenerateUniqueFolderName("v1.2", nil), "folders never split extensions")
}

func TestNameExists_KindsAreIndependent(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := s.CreateFolder("shared", nil)
	s.CreateFile("shared", "", nil)
	s.CreateFile("inner.txt", "", dir)

	assert.True(t, s.FileNameExists("shared", nil))
	assert.True(t, s.FolderNameExists("shared", nil))
	assert.True(t, s.FileNameExists("inner.txt", dir))
	assert.False(t, s.FileNameExists("inner.txt", nil))
	assert.False(t, s.FolderNameExists("inner.txt", dir))
	assert.Equal(t, "shared", s.GenerateUniqueFolderName("shared", dir))
}

func TestExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".js", Extension("app.JS"))
	assert.Equal(t, ".gz", Extension("a.tar.gz"))
	assert.Equal(t, "", Extension("Makefile"))
}

func TestValidFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		want    bool
	}{
		{"index.html", nil, true},
		{"STYLE.CSS", nil, true},
		{"notes.md", nil, true},
		{"main.go", nil, false},
		{"main.go", []string{".go"}, true},
		{"Makefile", nil, false},
		{".md", nil, false},
		{"   ", nil, false},
		{"a/b.txt", nil, false},
		{`a\b.txt`, nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidFileName(tt.name, tt.allowed), tt.name)
	}
}

func TestValidFolderName(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidFolderName("src"))
	assert.True(t, ValidFolderName("my_dir-2"))
	assert.False(t, ValidFolderName(""))
	assert.False(t, ValidFolderName("has space"))
	assert.False(t, ValidFolderName("v1.2"))
	assert.False(t, ValidFolderName("a/b"))
}
