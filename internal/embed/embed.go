// Package embed models the optional semantic-similarity capability.
// The engine is fully functional without it; when a provider is
// configured its cosine similarity adds one bounded component to the
// candidate score.
package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
)

// Similarity computes a semantic similarity in [0,1] between two short
// texts. Implementations may block on network I/O; callers treat any
// error as "capability unavailable" and fall back to lexical scoring.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// memoKey derives a stable cache key for an embedded text.
func memoKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// cosine computes cosine similarity between two vectors, clamped to
// [0,1]. Mismatched or empty vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
