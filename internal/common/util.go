package common

import "crypto/rand"

// GenerateRandByteArray returns n cryptographically secure random bytes.
// crypto/rand.Read never returns a partial read without an error; a failure
// of the system randomness source is unrecoverable, so it panics.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of b with zeros. Useful for removing
// passwords and key material from memory after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
