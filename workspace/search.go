package workspace

import "strings"

// SearchFiles returns files whose name or content contains query, ignoring
// case, in storage order.
func (s *Store) SearchFiles(query string) []*File {
	q := strings.ToLower(query)
	var out []*File
	for pair := s.files.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		if strings.Contains(strings.ToLower(f.name), q) || strings.Contains(strings.ToLower(f.content), q) {
			out = append(out, f)
		}
	}
	return out
}

// SearchFolders returns folders whose name contains query, ignoring case.
func (s *Store) SearchFolders(query string) []*Folder {
	q := strings.ToLower(query)
	var out []*Folder
	for pair := s.folders.Oldest(); pair != nil; pair = pair.Next() {
		if strings.Contains(strings.ToLower(pair.Value.name), q) {
			out = append(out, pair.Value)
		}
	}
	return out
}

// Stats is a point-in-time summary computed by a full scan.
type Stats struct {
	TotalFiles    int            `json:"totalFiles"`
	TotalFolders  int            `json:"totalFolders"`
	ModifiedFiles int            `json:"modifiedFiles"`
	TotalSize     int            `json:"totalSize"` // bytes of content
	FileTypes     map[string]int `json:"fileTypes"` // lower-cased extension without the dot
}

func (s *Store) Stats() Stats {
	st := Stats{
		TotalFiles:   s.files.Len(),
		TotalFolders: s.folders.Len(),
		FileTypes:    map[string]int{},
	}
	for pair := s.files.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		if f.isModified {
			st.ModifiedFiles++
		}
		st.TotalSize += len(f.content)
		st.FileTypes[fileType(f.name)]++
	}
	return st
}

// fileType is the histogram bucket for name: the last '.'-separated segment,
// lower-cased. Names without a dot bucket under themselves; an empty segment
// buckets as "unknown".
func fileType(name string) string {
	seg := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		seg = name[i+1:]
	}
	if seg == "" {
		return "unknown"
	}
	return strings.ToLower(seg)
}
