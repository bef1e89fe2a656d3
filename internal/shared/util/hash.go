package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey maps an owner identity (user or guest id) to a path-safe directory name
// so raw identities never appear in storage keys.
func HashUserKey(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:])
}
