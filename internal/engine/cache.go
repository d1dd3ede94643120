package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/factrace/factrace/internal/model"
)

// resultCache deduplicates identical facts within one document pass.
// It is owned by a single Pass and discarded with it; sharing a result
// cache across documents would let one document's evidence answer for
// another's identical-looking field/value pair.
type resultCache struct {
	c *gocache.Cache
}

func newResultCache() *resultCache {
	return &resultCache{c: gocache.New(gocache.NoExpiration, 0)}
}

// cacheKey hashes the normalized (field, value) pair.
func cacheKey(field, value string) string {
	input := strings.ToLower(strings.TrimSpace(field)) + "|" + strings.ToLower(strings.TrimSpace(value))
	hash := sha256.Sum256([]byte(input))
	return "factrace:v1:" + hex.EncodeToString(hash[:])
}

func (rc *resultCache) get(field, value string) (model.EvidenceResult, bool) {
	if val, found := rc.c.Get(cacheKey(field, value)); found {
		return val.(model.EvidenceResult), true
	}
	return model.EvidenceResult{}, false
}

func (rc *resultCache) set(field, value string, res model.EvidenceResult) {
	rc.c.Set(cacheKey(field, value), res, gocache.NoExpiration)
}
