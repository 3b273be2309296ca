// Package kv provides [webedit.KVStore] backends: an in-process map and a
// directory of files, one per key.
package kv

import (
	"fmt"
	"regexp"

	"github.com/brettbedarf/webedit"
)

var keyRe = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

// ValidateKey rejects keys that cannot be used as a single file name.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

// Open returns the backend named by kind: "memory" or "file" (rooted at dir).
func Open(kind, dir string) (webedit.KVStore, error) {
	switch kind {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFileStore(dir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", kind)
	}
}
