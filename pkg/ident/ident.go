package ident

import (
	"crypto/sha1"
	"encoding/hex"
)

// Size is the length of an identifier in hex characters.
const Size = sha1.Size * 2

// ID returns the identifier of s.
func ID(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Valid reports whether id has the shape of an identifier produced by [ID].
// It is used to reject malformed ids before they are used as storage keys.
func Valid(id string) bool {
	if len(id) != Size {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
