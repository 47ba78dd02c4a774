package requests

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/types"
)

// RequestType is the kind of claim a request makes.
type RequestType string

const (
	RequestTypeAid    RequestType = "aid"
	RequestTypeGrant  RequestType = "grant"
	RequestTypeReport RequestType = "report"
	RequestTypeAccess RequestType = "access"
)

// Valid reports whether t is a known request type.
func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeAid, RequestTypeGrant, RequestTypeReport, RequestTypeAccess:
		return true
	}
	return false
}

// Request is a live request. Requests are deleted on withdrawal and purge,
// which releases their commitment and nullifier.
type Request struct {
	ID            uint64         `json:"requestId" cbor:"1,keyasint"`
	Commitment    types.HexBytes `json:"commitment" cbor:"2,keyasint"`
	NullifierHash types.HexBytes `json:"nullifierHash" cbor:"3,keyasint"`
	ProofHash     types.HexBytes `json:"proofHash" cbor:"4,keyasint"`
	MetadataHash  types.HexBytes `json:"metadataHash" cbor:"5,keyasint"`
	RequestType   RequestType    `json:"requestType" cbor:"6,keyasint"`
	Status        Status         `json:"status" cbor:"7,keyasint"`
	CreatedAt     uint64         `json:"createdAt" cbor:"8,keyasint"`
	ExpiresAt     uint64         `json:"expiresAt" cbor:"9,keyasint"`
	VerifierNotes string         `json:"verifierNotes,omitempty" cbor:"10,keyasint,omitempty"`
}

// Expired reports whether the request is expired at height.
func (r *Request) Expired(height uint64) bool {
	return height >= r.ExpiresAt
}

// Submission is the input of SubmitRequest.
type Submission struct {
	Commitment    types.HexBytes   `json:"commitment"`
	NullifierHash types.HexBytes   `json:"nullifierHash"`
	ProofHash     types.HexBytes   `json:"proofHash"`
	RequestType   RequestType      `json:"requestType"`
	MetadataHash  types.HexBytes   `json:"metadataHash"`
	PublicSignals []types.HexBytes `json:"publicSignals"`
}

// state is the singleton controller state, created by New.
type state struct {
	Admin           common.Address             `cbor:"1,keyasint"`
	ProofVerifier   types.Once[common.Address] `cbor:"2,keyasint"`
	IdentityManager types.Once[common.Address] `cbor:"3,keyasint"`
	NextRequestID   uint64                     `cbor:"4,keyasint"`
	RequestCount    uint64                     `cbor:"5,keyasint"`
}
