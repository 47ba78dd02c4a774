package zkverifier

import "github.com/vocdoni/zkgate/types"

// Error codes of the verifier contract. They are part of the external
// contract and must not change.
var (
	ErrNotAuthorized         = types.NewError(1000, types.KindAuthorization, "caller is not the governance identity")
	ErrCircuitNotFound       = types.NewError(1001, types.KindNotFound, "circuit not found")
	ErrInvalidCircuitType    = types.NewError(1002, types.KindValidation, "invalid circuit type")
	ErrInvalidProofStructure = types.NewError(1003, types.KindValidation, "invalid proof structure")
	ErrInvalidPublicInputs   = types.NewError(1004, types.KindValidation, "invalid public inputs")
	ErrVerificationFailed    = types.NewError(1005, types.KindExternal, "proof verification failed")
	ErrKeyAlreadyExists      = types.NewError(1006, types.KindConflict, "verification key already exists")
	ErrMaxCircuitsExceeded   = types.NewError(1007, types.KindCapacity, "maximum number of circuits reached")
	ErrInvalidBufferLength   = types.NewError(1008, types.KindValidation, "invalid buffer length")
	ErrInvalidListLength     = types.NewError(1009, types.KindValidation, "invalid list length")
	ErrInvalidCircuitID      = types.NewError(1010, types.KindValidation, "invalid circuit id")
	ErrGovernanceAlreadySet  = types.NewError(1011, types.KindConflict, "governance already set")
	ErrInvalidDescription    = types.NewError(1012, types.KindValidation, "invalid description")
	ErrProofAlreadyUsed      = types.NewError(1013, types.KindConflict, "proof already used")
)
