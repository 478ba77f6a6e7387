package kv

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent computes SHA256 hash of content bytes
func HashContent(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
