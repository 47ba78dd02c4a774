// Package pairing implements the Groth16 verification capability over the
// BN254 curve. Keys and proofs are given as compressed points: 32 bytes for
// G1 and 64 bytes for G2. Public inputs are 32 byte big endian elements of
// the scalar field.
package pairing

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/zkgate/types"
)

// BN254 verifies Groth16 proofs over BN254.
type BN254 struct{}

// Verify checks e(A, B) = e(alpha, beta) * e(vk_x, gamma) * e(C, delta),
// with vk_x = IC[0] + sum(inputs[i] * IC[i+1]). Only the first
// len(publicInputs)+1 elements of IC are used, the rest is padding. It
// returns an error if any point or input can not be decoded.
func (BN254) Verify(key *types.KeyMaterial, proof *types.ProofTuple, publicInputs []types.HexBytes) (bool, error) {
	if len(publicInputs)+1 > len(key.IC) {
		return false, fmt.Errorf("%d public inputs need %d ic elements, key has %d",
			len(publicInputs), len(publicInputs)+1, len(key.IC))
	}

	var alpha, a, c bn254.G1Affine
	var beta, gamma, delta, b bn254.G2Affine
	for _, p := range []struct {
		name string
		dst  interface{ SetBytes([]byte) (int, error) }
		src  []byte
	}{
		{"alpha", &alpha, key.Alpha},
		{"beta", &beta, key.Beta},
		{"gamma", &gamma, key.Gamma},
		{"delta", &delta, key.Delta},
		{"a", &a, proof.A},
		{"b", &b, proof.B},
		{"c", &c, proof.C},
	} {
		if err := setPoint(p.dst, p.src); err != nil {
			return false, fmt.Errorf("%s: %w", p.name, err)
		}
	}

	vkx, err := linearCombination(key.IC[:len(publicInputs)+1], publicInputs)
	if err != nil {
		return false, err
	}

	var negVKX, negC, negAlpha bn254.G1Affine
	negVKX.Neg(vkx)
	negC.Neg(&c)
	negAlpha.Neg(&alpha)
	return bn254.PairingCheck(
		[]bn254.G1Affine{a, negVKX, negC, negAlpha},
		[]bn254.G2Affine{b, gamma, delta, beta},
	)
}

func setPoint(dst interface{ SetBytes([]byte) (int, error) }, src []byte) error {
	n, err := dst.SetBytes(src)
	if err != nil {
		return err
	}
	if n != len(src) {
		return fmt.Errorf("trailing bytes: read %d of %d", n, len(src))
	}
	return nil
}

// linearCombination returns ic[0] + sum(inputs[i] * ic[i+1]).
func linearCombination(ic []types.HexBytes, inputs []types.HexBytes) (*bn254.G1Affine, error) {
	var first bn254.G1Affine
	if err := setPoint(&first, ic[0]); err != nil {
		return nil, fmt.Errorf("ic[0]: %w", err)
	}
	var acc bn254.G1Jac
	acc.FromAffine(&first)
	for i, in := range inputs {
		var e fr.Element
		if err := e.SetBytesCanonical(in); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		var k bn254.G1Affine
		if err := setPoint(&k, ic[i+1]); err != nil {
			return nil, fmt.Errorf("ic[%d]: %w", i+1, err)
		}
		var term bn254.G1Jac
		term.FromAffine(&k)
		term.ScalarMultiplication(&term, e.BigInt(new(big.Int)))
		acc.AddAssign(&term)
	}
	var out bn254.G1Affine
	out.FromJacobian(&acc)
	return &out, nil
}

// InfinityG1 returns the compressed encoding of the G1 point at infinity,
// used to pad the ic list of keys with fewer public inputs.
func InfinityG1() []byte {
	var inf bn254.G1Affine
	b := inf.Bytes()
	return b[:]
}
