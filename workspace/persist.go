package workspace

import (
	"encoding/json"

	"github.com/brettbedarf/webedit/internal/util"
)

// persist writes the current snapshot through the KV store. Failures are
// logged and swallowed; memory stays authoritative until the next write.
func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	logger := util.GetLogger("Store.persist")

	data, err := json.Marshal(s.ExportData())
	if err == nil {
		err = s.kv.Set(s.key, data)
	}
	if err != nil {
		logger.Error().Err(err).Str("key", s.key).Msg("Failed to save to storage")
		s.observePersist(0, err)
		return
	}
	logger.Trace().Str("key", s.key).Int("bytes", len(data)).Msg("Saved to storage")
	s.observePersist(len(data), nil)
}

func (s *Store) observePersist(n int, err error) {
	if s.onPersist != nil {
		s.onPersist(n, err)
	}
}

// Load restores the snapshot stored under the configured key. A missing,
// unreadable or invalid blob is logged and leaves the store empty. It
// reports whether a snapshot was restored.
func (s *Store) Load() bool {
	logger := util.GetLogger("Store.Load")

	if s.kv == nil {
		return false
	}
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		logger.Error().Err(err).Str("key", s.key).Msg("Failed to load from storage")
		return false
	}
	if !ok {
		logger.Debug().Str("key", s.key).Msg("No saved workspace")
		return false
	}
	snap, err := ParseSnapshot(data)
	if err == nil {
		err = s.importSnapshot(snap)
	}
	if err != nil {
		logger.Error().Err(err).Str("key", s.key).Msg("Discarding saved workspace")
		return false
	}
	logger.Info().Int("files", s.files.Len()).Int("folders", s.folders.Len()).Msg("Loaded workspace")

	s.events.emit(DataImported{Files: s.files.Len(), Folders: s.folders.Len()})
	return true
}
