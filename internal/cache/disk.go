package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DiskStore persists vectors as one JSON file per key. Entries record
// the embedding model; a vector computed under a different model is
// treated as a miss and removed.
type DiskStore struct {
	dir   string
	model string
}

// NewDiskStore creates a disk store rooted at dir.
func NewDiskStore(dir, model string) *DiskStore {
	return &DiskStore{dir: dir, model: model}
}

type diskEntry struct {
	Model  string    `json:"model"`
	Vector []float32 `json:"vector"`
}

// Get retrieves a vector from disk
func (s *DiskStore) Get(key string) ([]float32, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Model != s.model || len(entry.Vector) == 0 {
		_ = os.Remove(s.path(key))
		return nil, false
	}
	return entry.Vector, true
}

// Put stores a vector on disk
func (s *DiskStore) Put(key string, vec []float32) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return
	}
	data, err := json.Marshal(diskEntry{Model: s.model, Vector: vec})
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path(key), data, 0644)
}

// path generates the file path for a cache key
func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+".vec.json")
}
