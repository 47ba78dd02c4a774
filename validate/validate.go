// Package validate holds the pure length predicates used to check the fixed
// size byte strings and lists that cross the contract boundary. None of them
// has side effects.
package validate

import (
	"unicode/utf8"

	"github.com/vocdoni/zkgate/types"
)

// Buffer reports whether b is exactly size bytes long.
func Buffer(b []byte, size int) bool {
	return len(b) == size
}

// Hash reports whether b is a 32 byte value (nullifier, commitment, hash).
func Hash(b []byte) bool {
	return Buffer(b, types.HashSize)
}

// ListLen reports whether l has exactly n elements.
func ListLen[T any](l []T, n int) bool {
	return len(l) == n
}

// ListMax reports whether l has at most max elements.
func ListMax[T any](l []T, max int) bool {
	return len(l) <= max
}

// Elements reports whether every element of l is exactly size bytes long.
func Elements[T ~[]byte](l []T, size int) bool {
	for _, e := range l {
		if len(e) != size {
			return false
		}
	}
	return true
}

// Text reports whether s is valid UTF-8 and at most max bytes long.
func Text(s string, max int) bool {
	return len(s) <= max && utf8.ValidString(s)
}

// KeyMaterial reports which element of a verification key, if any, has a
// wrong length. It returns the empty string when alpha, beta, gamma, delta
// and every ic element have their fixed sizes. The ic list length is checked
// separately with ListLen.
func KeyMaterial(alpha, beta, gamma, delta []byte, ic [][]byte) string {
	switch {
	case !Buffer(alpha, types.AlphaSize):
		return "alpha"
	case !Buffer(beta, types.BetaSize):
		return "beta"
	case !Buffer(gamma, types.GammaSize):
		return "gamma"
	case !Buffer(delta, types.DeltaSize):
		return "delta"
	case !Elements(ic, types.ICElementSize):
		return "ic"
	}
	return ""
}

// ProofTuple reports whether the three proof elements have the sizes of a
// compressed BN254 (G1, G2, G1) tuple.
func ProofTuple(a, b, c []byte) bool {
	return Buffer(a, types.ProofASize) && Buffer(b, types.ProofBSize) && Buffer(c, types.ProofCSize)
}

// PublicInputs reports whether inputs has at most MaxPublicInputs elements
// of PublicInputSize bytes each.
func PublicInputs[T ~[]byte](inputs []T) bool {
	return ListMax(inputs, types.MaxPublicInputs) && Elements(inputs, types.PublicInputSize)
}
