package common

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// CacheKey derives the opaque cache key for a set of analysis sources.
// The key is the MD5 hex digest over the sorted, pipe-joined source
// strings, so the same sources always map to the same cached result
// regardless of ordering.
func CacheKey(sources ...string) string {
	sorted := make([]string, len(sources))
	copy(sorted, sources)
	sort.Strings(sorted)

	sum := md5.Sum([]byte(strings.Join(sorted, "|")))
	return hex.EncodeToString(sum[:])
}

// NewRunID generates a unique analysis run ID with the "run_" prefix
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}
