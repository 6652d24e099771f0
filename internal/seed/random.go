package seed

import "math/rand/v2"

const (
	randomAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	randomLength   = 13
)

// Random returns a fresh base36 root seed. It is the only non-deterministic
// function in this package and is meant for picking a new root, never for
// deriving record content.
func Random() string {
	b := make([]byte, randomLength)
	for i := range b {
		b[i] = randomAlphabet[rand.IntN(len(randomAlphabet))]
	}
	return string(b)
}
