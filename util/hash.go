package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PayloadID creates a deterministic hash for a diagram payload from its
// identifying parts. The same parts always hash to the same ID.
func PayloadID(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(hash[:])
}
