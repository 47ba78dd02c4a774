package api

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/circom2gnark/parser"
	"github.com/vocdoni/zkgate/requests"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/zkverifier"
)

// Info describes the deployment.
type Info struct {
	Verifier            common.Address `json:"verifier"`
	Requests            common.Address `json:"requests"`
	Height              uint64         `json:"height"`
	MaxCircuits         int            `json:"maxCircuits"`
	MaxRequests         int            `json:"maxRequests"`
	RequestExpiryBlocks uint64         `json:"requestExpiryBlocks"`
	MaxPublicInputs     int            `json:"maxPublicInputs"`
}

// Address is used to read and set the identities configured in a contract.
type Address struct {
	Address common.Address `json:"address"`
}

// Nonce is the next nonce of an address. Signed calls must carry it, and
// sign it together with Domain.
type Nonce struct {
	Address common.Address `json:"address"`
	Nonce   uint64         `json:"nonce"`
	Domain  common.Address `json:"domain"`
}

// Events is the response of the events endpoint.
type Events struct {
	Events []*storage.Event `json:"events"`
}

// NewCircuit registers a verification key. The key material is given
// either already encoded or as a snarkjs verification_key.json.
type NewCircuit struct {
	CircuitID              uint64                        `json:"circuitId"`
	Material               *types.KeyMaterial            `json:"material,omitempty"`
	SnarkjsVerificationKey *parser.CircomVerificationKey `json:"snarkjsVerificationKey,omitempty"`
	CircuitType            zkverifier.CircuitType        `json:"circuitType"`
	InputSize              uint64                        `json:"inputSize"`
	OutputSize             uint64                        `json:"outputSize"`
	Description            string                        `json:"description"`
}

// CircuitID is returned when a circuit is registered.
type CircuitID struct {
	CircuitID uint64 `json:"circuitId"`
}

// UpdateKey replaces the key material of a circuit.
type UpdateKey struct {
	Material               *types.KeyMaterial            `json:"material,omitempty"`
	SnarkjsVerificationKey *parser.CircomVerificationKey `json:"snarkjsVerificationKey,omitempty"`
}

// Circuit is the full view of a registered circuit.
type Circuit struct {
	Key      *zkverifier.VerificationKey `json:"key"`
	Metadata *zkverifier.CircuitMetadata `json:"metadata"`
}

// Counters reports the next id and the number of live entries of a contract.
type Counters struct {
	Count  uint64 `json:"count"`
	NextID uint64 `json:"nextId"`
}

// ProofSubmission is a proof presented to the gate. The proof is given
// either already encoded, together with PublicInputs, or in snarkjs format
// together with SnarkjsPublicSignals. Nullifier and Signal are used by
// groth16 circuits, Commitment by snark circuits.
type ProofSubmission struct {
	Proof                *types.ProofTuple   `json:"proof,omitempty"`
	PublicInputs         []types.HexBytes    `json:"publicInputs,omitempty"`
	SnarkjsProof         *parser.CircomProof `json:"snarkjsProof,omitempty"`
	SnarkjsPublicSignals []string            `json:"snarkjsPublicSignals,omitempty"`
	Nullifier            types.HexBytes      `json:"nullifier,omitempty"`
	Signal               types.HexBytes      `json:"signal,omitempty"`
	Commitment           types.HexBytes      `json:"commitment,omitempty"`
}

// ProofResult is the verdict of the gate. ProofHash identifies the receipt
// the gate stored, and is what requests must reference.
type ProofResult struct {
	Verified  bool           `json:"verified"`
	ProofHash types.HexBytes `json:"proofHash"`
}

// Nullifier reports whether a nullifier was consumed.
type Nullifier struct {
	Used  bool                       `json:"used"`
	Proof *zkverifier.NullifierProof `json:"proof,omitempty"`
}

// Root is a merkle root.
type Root struct {
	Root types.HexBytes `json:"root"`
}

// RequestID is returned when a request is submitted or resolved by its
// commitment.
type RequestID struct {
	RequestID uint64 `json:"requestId"`
}

// StatusUpdate moves a request to a new status. A nil Notes keeps the
// notes already stored.
type StatusUpdate struct {
	Status requests.Status `json:"status"`
	Notes  *string         `json:"notes,omitempty"`
}

// submittedProof is a decoded ProofSubmission.
type submittedProof struct {
	caller    common.Address
	circuitID uint64
	proof     *types.ProofTuple
	inputs    []types.HexBytes
	req       *ProofSubmission
}
