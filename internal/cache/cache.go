// Package cache stores embedding vectors keyed by content hash so
// repeated similarity lookups, within a run or across runs, skip the
// API round trip.
package cache

// VectorStore is the interface embedding providers cache through.
type VectorStore interface {
	// Get returns the cached vector for a key, if present.
	Get(key string) ([]float32, bool)
	// Put stores a vector under a key. Failures are silent; the
	// store is an optimization, never a source of truth.
	Put(key string, vec []float32)
}
