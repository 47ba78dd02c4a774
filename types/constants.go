package types

const (
	// MaxCircuits is the maximum number of circuits the registry can hold.
	MaxCircuits = 50
	// MaxRequests is the maximum number of live requests in the request store.
	MaxRequests = 10000
	// RequestExpiryBlocks is the number of blocks a request stays actionable
	// after its submission.
	RequestExpiryBlocks = 52560

	// AlphaSize is the size in bytes of the alpha element of a verification
	// key (compressed BN254 G1 point).
	AlphaSize = 32
	// BetaSize is the size in bytes of the beta element of a verification
	// key (compressed BN254 G2 point).
	BetaSize = 64
	// GammaSize is the size in bytes of the gamma element.
	GammaSize = 64
	// DeltaSize is the size in bytes of the delta element.
	DeltaSize = 64
	// ICElementSize is the size in bytes of every element of the ic list.
	ICElementSize = 32
	// ICLength is the fixed number of elements in the ic list.
	ICLength = 10

	// ProofASize, ProofBSize and ProofCSize are the sizes of the three
	// elements of a proof tuple.
	ProofASize = 32
	ProofBSize = 64
	ProofCSize = 32

	// HashSize is the size of nullifiers, commitments, signals and the
	// hashes referenced by requests.
	HashSize = 32
	// MaxPublicInputs is the maximum number of public inputs accepted by
	// the gate, and of public signals forwarded by the request controller.
	MaxPublicInputs = 10
	// PublicInputSize is the size of every public input element.
	PublicInputSize = 32

	// MaxDescriptionLen bounds the circuit description.
	MaxDescriptionLen = 256
	// MaxNotesLen bounds the verifier notes attached to a request.
	MaxNotesLen = 500
)
