// Package contenthash computes content hashes in the chain's 0x-hex convention.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the sha256 digest of input as a 0x-prefixed hex string.
func Hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return "0x" + hex.EncodeToString(sum[:])
}

// HashBytes is Hash for a raw byte payload.
func HashBytes(input []byte) string {
	sum := sha256.Sum256(input)
	return "0x" + hex.EncodeToString(sum[:])
}
