package cache

// LayeredStore fronts a disk store with a bounded memory store. Vectors
// found on disk are promoted to memory on read.
type LayeredStore struct {
	memory *MemoryStore
	disk   *DiskStore
}

// NewLayeredStore creates a layered store. When dir is empty the store
// is memory-only.
func NewLayeredStore(size int, dir, model string) (*LayeredStore, error) {
	memory, err := NewMemoryStore(size)
	if err != nil {
		return nil, err
	}
	s := &LayeredStore{memory: memory}
	if dir != "" {
		s.disk = NewDiskStore(dir, model)
	}
	return s, nil
}

// Get checks memory first, then disk.
func (s *LayeredStore) Get(key string) ([]float32, bool) {
	if vec, found := s.memory.Get(key); found {
		return vec, true
	}
	if s.disk != nil {
		if vec, found := s.disk.Get(key); found {
			s.memory.Put(key, vec)
			return vec, true
		}
	}
	return nil, false
}

// Put stores the vector in both layers.
func (s *LayeredStore) Put(key string, vec []float32) {
	s.memory.Put(key, vec)
	if s.disk != nil {
		s.disk.Put(key, vec)
	}
}
