package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore is a bounded in-process vector store. Eviction is LRU so
// hot spans from the current documents stay resident.
type MemoryStore struct {
	cache *lru.Cache[string, []float32]
}

// NewMemoryStore creates a memory store holding at most size vectors.
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: c}, nil
}

// Get retrieves a vector from the store
func (s *MemoryStore) Get(key string) ([]float32, bool) {
	return s.cache.Get(key)
}

// Put stores a vector
func (s *MemoryStore) Put(key string, vec []float32) {
	s.cache.Add(key, vec)
}

// Len reports the number of resident vectors.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
