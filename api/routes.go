package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// InfoEndpoint returns the contract addresses, the block height and the
	// protocol constants.
	InfoEndpoint = "/info"
	// EventsEndpoint lists the committed contract events. It accepts the
	// "from" and "limit" query parameters.
	EventsEndpoint = "/events"
	// MetricsEndpoint exposes the prometheus metrics.
	MetricsEndpoint = "/metrics"
	AddressURLParam = "address"
	// NonceEndpoint returns the next nonce of an address and the domain
	// signed messages are bound to.
	NonceEndpoint = "/nonces/{" + AddressURLParam + "}"

	// GovernanceEndpoint reads (GET) or sets once (POST) the governance
	// identity of the zkverifier.
	GovernanceEndpoint = "/zkverifier/governance"
	// CircuitsEndpoint registers a new verification key (POST) or returns
	// the registry counters (GET).
	CircuitsEndpoint   = "/zkverifier/circuits"
	CircuitURLParam    = "circuitId"
	CircuitEndpoint    = "/zkverifier/circuits/{" + CircuitURLParam + "}"
	CircuitKeyEndpoint = CircuitEndpoint + "/key"
	// CircuitDeactivateEndpoint deactivates a circuit for good.
	CircuitDeactivateEndpoint = CircuitEndpoint + "/deactivate"
	// Groth16ProofEndpoint and SnarkProofEndpoint submit a proof to the gate.
	Groth16ProofEndpoint = CircuitEndpoint + "/groth16"
	SnarkProofEndpoint   = CircuitEndpoint + "/snark"
	// NullifierRootEndpoint returns the root of the consumed nullifier tree.
	NullifierRootEndpoint = "/zkverifier/nullifiers/root"
	NullifierURLParam     = "nullifier"
	// NullifierEndpoint returns whether the gate consumed a nullifier, with
	// a merkle proof against the current root.
	NullifierEndpoint = "/zkverifier/nullifiers/{" + NullifierURLParam + "}"
	ProofHashURLParam = "proofHash"
	// ReceiptEndpoint returns the receipt of an admitted proof.
	ReceiptEndpoint = "/zkverifier/receipts/{" + ProofHashURLParam + "}"

	// RequestsEndpoint submits a request (POST) or returns the controller
	// counters (GET).
	RequestsEndpoint      = "/requests"
	RequestURLParam       = "requestId"
	RequestEndpoint       = "/requests/{" + RequestURLParam + "}"
	RequestStatusEndpoint = RequestEndpoint + "/status"
	// RequestPurgeEndpoint removes a request stuck past its expiry.
	RequestPurgeEndpoint = RequestEndpoint + "/purge"
	CommitmentURLParam   = "commitment"
	// CommitmentEndpoint resolves a commitment to its request (GET) or
	// withdraws the request (DELETE).
	CommitmentEndpoint       = "/requests/commitments/{" + CommitmentURLParam + "}"
	RequestNullifierEndpoint = "/requests/nullifiers/{" + NullifierURLParam + "}"
	AdminEndpoint            = "/requests/admin"
	ProofVerifierEndpoint    = "/requests/proofverifier"
	IdentityManagerEndpoint  = "/requests/identitymanager"
)
