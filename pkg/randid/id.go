// Package randid generates short random identifiers for snapshots and runs.
package randid

import "math/rand/v2"

// alphabet omits characters that are easy to misread in a terminal
// (0/o, 1/l/i).
const alphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// Generate returns a random identifier of length characters drawn from the
// package alphabet. A non-positive length yields "".
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}

// Prefixed returns prefix + "-" + Generate(length).
func Prefixed(prefix string, length int) string {
	return prefix + "-" + Generate(length)
}
