// Package keyhash derives short, deterministic key segments from free text.
package keyhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the first 16 hex chars of the sha256 of the normalized query.
// Normalization (trim + lowercase) keeps trivially equivalent queries on the
// same cache key.
func Sum(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(q))
	return hex.EncodeToString(sum[:8])
}
