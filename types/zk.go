package types

// KeyMaterial holds the Groth16 verification key points of a circuit:
// compressed BN254 points, G1 for alpha and the ic elements, G2 for beta,
// gamma and delta.
type KeyMaterial struct {
	Alpha HexBytes   `json:"alpha" cbor:"1,keyasint"`
	Beta  HexBytes   `json:"beta" cbor:"2,keyasint"`
	Gamma HexBytes   `json:"gamma" cbor:"3,keyasint"`
	Delta HexBytes   `json:"delta" cbor:"4,keyasint"`
	IC    []HexBytes `json:"ic" cbor:"5,keyasint"`
}

// ProofTuple is a Groth16 proof: A and C are compressed G1 points, B is a
// compressed G2 point. snarkjs calls them piA, piB and piC.
type ProofTuple struct {
	A HexBytes `json:"a" cbor:"1,keyasint"`
	B HexBytes `json:"b" cbor:"2,keyasint"`
	C HexBytes `json:"c" cbor:"3,keyasint"`
}

// Bytes returns the concatenation of A, B and C.
func (p *ProofTuple) Bytes() []byte {
	out := make([]byte, 0, len(p.A)+len(p.B)+len(p.C))
	out = append(out, p.A...)
	out = append(out, p.B...)
	return append(out, p.C...)
}
