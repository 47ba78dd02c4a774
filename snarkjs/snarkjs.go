// Package snarkjs converts the JSON artifacts produced by snarkjs (proofs,
// verification keys and public signals of Groth16 circuits over bn128) into
// the fixed size buffers stored by the proof gate.
package snarkjs

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/circom2gnark/parser"
	"github.com/vocdoni/zkgate/pairing"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/util"
)

const (
	protocolGroth16 = "groth16"
	curveBN128      = "bn128"
)

// ParseProof decodes a snarkjs proof.json.
func ParseProof(data []byte) (*types.ProofTuple, error) {
	p, err := parser.UnmarshalCircomProofJSON(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode proof: %w", err)
	}
	return ConvertProof(p)
}

// ConvertProof encodes a parsed snarkjs proof as compressed points.
func ConvertProof(p *parser.CircomProof) (*types.ProofTuple, error) {
	if p.Protocol != "" && p.Protocol != protocolGroth16 {
		return nil, fmt.Errorf("unsupported protocol %q", p.Protocol)
	}
	a, err := g1(p.PiA)
	if err != nil {
		return nil, fmt.Errorf("pi_a: %w", err)
	}
	b, err := g2(p.PiB)
	if err != nil {
		return nil, fmt.Errorf("pi_b: %w", err)
	}
	c, err := g1(p.PiC)
	if err != nil {
		return nil, fmt.Errorf("pi_c: %w", err)
	}
	return &types.ProofTuple{A: a, B: b, C: c}, nil
}

// ParsePublicSignals decodes a snarkjs public.json into 32 byte big endian
// public inputs.
func ParsePublicSignals(data []byte) ([]types.HexBytes, error) {
	signals, err := parser.UnmarshalCircomPublicSignalsJSON(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode public signals: %w", err)
	}
	return ConvertPublicSignals(signals)
}

// ConvertPublicSignals converts decimal public signals into 32 byte big
// endian elements. Every signal must be a canonical element of the scalar
// field.
func ConvertPublicSignals(signals []string) ([]types.HexBytes, error) {
	if len(signals) > types.MaxPublicInputs {
		return nil, fmt.Errorf("too many public signals: %d, max %d", len(signals), types.MaxPublicInputs)
	}
	out := make([]types.HexBytes, len(signals))
	for i, s := range signals {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("signal %d: invalid number %q", i, s)
		}
		if v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
			return nil, fmt.Errorf("signal %d: out of the scalar field", i)
		}
		out[i] = util.LeftPad32(v.Bytes())
	}
	return out, nil
}

// ParseVerificationKey decodes a snarkjs verification_key.json. The ic list
// is padded with the point at infinity up to types.ICLength entries, so keys
// of circuits with more than types.ICLength-1 public inputs are rejected.
func ParseVerificationKey(data []byte) (*types.KeyMaterial, error) {
	vk, err := parser.UnmarshalCircomVerificationKeyJSON(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode verification key: %w", err)
	}
	return ConvertVerificationKey(vk)
}

// ConvertVerificationKey encodes a parsed snarkjs verification key.
func ConvertVerificationKey(vk *parser.CircomVerificationKey) (*types.KeyMaterial, error) {
	if vk.Protocol != "" && vk.Protocol != protocolGroth16 {
		return nil, fmt.Errorf("unsupported protocol %q", vk.Protocol)
	}
	if vk.Curve != "" && vk.Curve != curveBN128 {
		return nil, fmt.Errorf("unsupported curve %q", vk.Curve)
	}
	if len(vk.IC) == 0 {
		return nil, fmt.Errorf("empty ic")
	}
	if len(vk.IC) > types.ICLength {
		return nil, fmt.Errorf("%d ic elements, max %d", len(vk.IC), types.ICLength)
	}
	if vk.NPublic != 0 && vk.NPublic+1 != len(vk.IC) {
		return nil, fmt.Errorf("nPublic %d does not match %d ic elements", vk.NPublic, len(vk.IC))
	}

	km := &types.KeyMaterial{}
	var err error
	if km.Alpha, err = g1(vk.VkAlpha1); err != nil {
		return nil, fmt.Errorf("vk_alpha_1: %w", err)
	}
	if km.Beta, err = g2(vk.VkBeta2); err != nil {
		return nil, fmt.Errorf("vk_beta_2: %w", err)
	}
	if km.Gamma, err = g2(vk.VkGamma2); err != nil {
		return nil, fmt.Errorf("vk_gamma_2: %w", err)
	}
	if km.Delta, err = g2(vk.VkDelta2); err != nil {
		return nil, fmt.Errorf("vk_delta_2: %w", err)
	}
	for i, p := range vk.IC {
		b, err := g1(p)
		if err != nil {
			return nil, fmt.Errorf("IC[%d]: %w", i, err)
		}
		km.IC = append(km.IC, b)
	}
	for len(km.IC) < types.ICLength {
		km.IC = append(km.IC, pairing.InfinityG1())
	}
	return km, nil
}

// g1 converts projective snarkjs coordinates [x, y, z] into a compressed
// G1 point. z is either 1 (affine) or 0 (infinity).
func g1(coords []string) (types.HexBytes, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("expected at least 2 coordinates, got %d", len(coords))
	}
	var p bn254.G1Affine
	if !infinity(coords) {
		if err := setFp(&p.X, coords[0]); err != nil {
			return nil, fmt.Errorf("x: %w", err)
		}
		if err := setFp(&p.Y, coords[1]); err != nil {
			return nil, fmt.Errorf("y: %w", err)
		}
		if !p.IsOnCurve() || !p.IsInSubGroup() {
			return nil, fmt.Errorf("point is not in G1")
		}
	}
	b := p.Bytes()
	return b[:], nil
}

// g2 converts snarkjs coordinates [[x0, x1], [y0, y1], [z0, z1]] into a
// compressed G2 point.
func g2(coords [][]string) (types.HexBytes, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("expected at least 2 coordinates, got %d", len(coords))
	}
	for i := range coords[:2] {
		if len(coords[i]) != 2 {
			return nil, fmt.Errorf("coordinate %d has %d limbs", i, len(coords[i]))
		}
	}
	var p bn254.G2Affine
	if len(coords) < 3 || !isZero(coords[2]...) {
		for _, l := range []struct {
			dst *fp.Element
			src string
		}{
			{&p.X.A0, coords[0][0]},
			{&p.X.A1, coords[0][1]},
			{&p.Y.A0, coords[1][0]},
			{&p.Y.A1, coords[1][1]},
		} {
			if err := setFp(l.dst, l.src); err != nil {
				return nil, err
			}
		}
		if !p.IsOnCurve() || !p.IsInSubGroup() {
			return nil, fmt.Errorf("point is not in G2")
		}
	}
	b := p.Bytes()
	return b[:], nil
}

func infinity(coords []string) bool {
	return len(coords) >= 3 && isZero(coords[2])
}

func isZero(limbs ...string) bool {
	for _, l := range limbs {
		if l != "0" {
			return false
		}
	}
	return true
}

// setFp sets e from a decimal string, which must be a canonical element of
// the base field.
func setFp(e *fp.Element, s string) error {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("invalid number %q", s)
	}
	if v.Sign() < 0 || v.Cmp(fp.Modulus()) >= 0 {
		return fmt.Errorf("%q is out of the base field", s)
	}
	e.SetBigInt(v)
	return nil
}
