// Package digest computes the content hash that anchors idempotency
// (spec.md §4.B), grounded on the SHA-256-of-raw-bytes idiom used by
// _examples/other_examples' settlement-report ingestion service.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Compute returns the lowercase, 64-char hex SHA-256 digest of data. It
// must run over the raw uploaded bytes, before parsing, so that a
// byte-identical re-upload always yields the same digest.
func Compute(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
