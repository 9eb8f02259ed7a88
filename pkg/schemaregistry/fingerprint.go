package schemaregistry

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint computes the content hash used to detect identical schema text
// across registration calls: SHA-256 over the exact text bytes, lowercase hex.
// No canonicalization is applied; texts differing only in whitespace are
// distinct schemas.
func Fingerprint(schemaText string) string {
	sum := sha256.Sum256([]byte(schemaText))
	return hex.EncodeToString(sum[:])
}
