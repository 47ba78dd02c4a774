package zkverifier

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/types"
)

// CircuitType is the proving scheme a circuit is verified with. It is fixed
// when the circuit is registered.
type CircuitType string

const (
	CircuitTypeGroth16 CircuitType = "groth16"
	CircuitTypeSnark   CircuitType = "snark"
)

// Valid reports whether t is a known circuit type.
func (t CircuitType) Valid() bool {
	return t == CircuitTypeGroth16 || t == CircuitTypeSnark
}

// VerificationKey is the registered key of a circuit. Keys are never
// deleted.
type VerificationKey struct {
	CircuitID    uint64            `json:"circuitId" cbor:"1,keyasint"`
	Material     types.KeyMaterial `json:"material" cbor:"2,keyasint"`
	CircuitType  CircuitType       `json:"circuitType" cbor:"3,keyasint"`
	RegisteredAt uint64            `json:"registeredAt" cbor:"4,keyasint"`
	UpdatedBy    common.Address    `json:"updatedBy" cbor:"5,keyasint"`
}

// CircuitMetadata describes the shape of a circuit. Once Active is false it
// can never become true again.
type CircuitMetadata struct {
	InputSize   uint64 `json:"inputSize" cbor:"1,keyasint"`
	OutputSize  uint64 `json:"outputSize" cbor:"2,keyasint"`
	Description string `json:"description" cbor:"3,keyasint"`
	Active      bool   `json:"active" cbor:"4,keyasint"`
}

// NewKey is the input of AddVerificationKey.
type NewKey struct {
	CircuitID   uint64            `json:"circuitId"`
	Material    types.KeyMaterial `json:"material"`
	CircuitType CircuitType       `json:"circuitType"`
	InputSize   uint64            `json:"inputSize"`
	OutputSize  uint64            `json:"outputSize"`
	Description string            `json:"description"`
}

// Receipt records a proof admitted by the gate. It binds the proof hash to
// the circuit and to the public inputs it was verified with.
type Receipt struct {
	CircuitID    uint64         `json:"circuitId" cbor:"1,keyasint"`
	CircuitType  CircuitType    `json:"circuitType" cbor:"2,keyasint"`
	InputsDigest types.HexBytes `json:"inputsDigest" cbor:"3,keyasint"`
	Height       uint64         `json:"height" cbor:"4,keyasint"`
}

// state is the singleton registry state, created by New.
type state struct {
	Governance    types.Once[common.Address] `cbor:"1,keyasint"`
	NextCircuitID uint64                     `cbor:"2,keyasint"`
	CircuitCount  uint64                     `cbor:"3,keyasint"`
}
