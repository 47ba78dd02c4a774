package util

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// RandomBytes generates a random byte slice of length n.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// RandomHex generates a random hex string encoding n bytes.
func RandomHex(n int) string {
	return fmt.Sprintf("%x", RandomBytes(n))
}

// TrimHex trims the '0x' prefix from a hex string.
func TrimHex(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// bn254ScalarField is the order of the scalar field of the BN254 curve. Every
// public input of a Groth16 proof over BN254 lives in this field.
var bn254ScalarField = fr.Modulus()

// BigToFF returns the finite field representation of the big.Int provided,
// reduced with the euclidean modulus over the BN254 scalar field.
func BigToFF(iv *big.Int) *big.Int {
	z := big.NewInt(0)
	if c := iv.Cmp(bn254ScalarField); c == 0 {
		return z
	} else if c != 1 && iv.Cmp(z) != -1 {
		return iv
	}
	return z.Mod(iv, bn254ScalarField)
}

// BytesToFF interprets b as a big endian unsigned integer and reduces it into
// the BN254 scalar field.
func BytesToFF(b []byte) *big.Int {
	return BigToFF(new(big.Int).SetBytes(b))
}

// LeftPad32 returns b left padded with zeros to 32 bytes. Longer inputs are
// truncated keeping the least significant bytes.
func LeftPad32(b []byte) []byte {
	out := make([]byte, 32)
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(out[32-len(b):], b)
	return out
}
