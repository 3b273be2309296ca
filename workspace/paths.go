package workspace

// joinPath joins a parent path and a leaf name. An empty parent path means
// the root, where an entity's path is just its name.
func joinPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + "/" + name
}

// pathFor derives the path of an entity named name under parent.
func (s *Store) pathFor(parent ID, name string) string {
	if parent == "" {
		return name
	}
	p, ok := s.folders.Get(parent)
	if !ok {
		return name
	}
	return joinPath(p.path, name)
}

// refreshPaths recomputes f's path and then every descendant's, depth first.
func (s *Store) refreshPaths(f *Folder) {
	f.path = s.pathFor(f.parent, f.name)
	for _, id := range f.children {
		if child, ok := s.files.Get(id); ok {
			child.path = joinPath(f.path, child.name)
		} else if sub, ok := s.folders.Get(id); ok {
			s.refreshPaths(sub)
		}
	}
}

// IsWithin reports whether candidate is ancestor itself or one of its
// descendants.
func (s *Store) IsWithin(candidate, ancestor *Folder) bool {
	for cur := candidate; cur != nil; {
		if cur.id == ancestor.id {
			return true
		}
		if cur.parent == "" {
			return false
		}
		next, ok := s.folders.Get(cur.parent)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// Ancestors returns e's enclosing folders from the root down to its parent.
func (s *Store) Ancestors(e Entity) []*Folder {
	var chain []*Folder
	for id := e.Parent(); id != ""; {
		f, ok := s.folders.Get(id)
		if !ok {
			break
		}
		chain = append(chain, f)
		id = f.parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
