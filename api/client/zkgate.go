package client

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/api"
	"github.com/vocdoni/zkgate/requests"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/zkverifier"
)

func id(n uint64) string { return strconv.FormatUint(n, 10) }

// Info returns the deployment description.
func (c *HTTPclient) Info() (*api.Info, error) {
	info := &api.Info{}
	return info, c.Call(HTTPGET, nil, info, api.InfoEndpoint)
}

// Nonce returns the next nonce of addr and the domain of the node.
func (c *HTTPclient) Nonce(addr common.Address) (*api.Nonce, error) {
	out := &api.Nonce{}
	return out, c.Call(HTTPGET, nil, out, "nonces", addr.Hex())
}

// Events returns up to limit events starting at sequence number from.
func (c *HTTPclient) Events(from uint64, limit int) (*api.Events, error) {
	data, status, err := c.Request(HTTPGET, nil,
		[]string{"from", id(from), "limit", strconv.Itoa(limit)}, api.EventsEndpoint)
	if err != nil {
		return nil, err
	}
	events := &api.Events{}
	return events, decodeResponse(status, data, events)
}

// RegisterCircuit adds a verification key to the registry. The caller must
// be the governance identity.
func (c *HTTPclient) RegisterCircuit(circuit *api.NewCircuit) (uint64, error) {
	out := &api.CircuitID{}
	if err := c.Call(HTTPPOST, circuit, out, api.CircuitsEndpoint); err != nil {
		return 0, err
	}
	return out.CircuitID, nil
}

// Circuit returns the key and metadata of a circuit.
func (c *HTTPclient) Circuit(circuitID uint64) (*api.Circuit, error) {
	out := &api.Circuit{}
	return out, c.Call(HTTPGET, nil, out, "zkverifier", "circuits", id(circuitID))
}

// VerifyGroth16 presents a proof to the gate of a groth16 circuit.
func (c *HTTPclient) VerifyGroth16(circuitID uint64, proof *api.ProofSubmission) (*api.ProofResult, error) {
	out := &api.ProofResult{}
	return out, c.Call(HTTPPOST, proof, out, "zkverifier", "circuits", id(circuitID), "groth16")
}

// VerifySnark presents a proof to the gate of a snark circuit.
func (c *HTTPclient) VerifySnark(circuitID uint64, proof *api.ProofSubmission) (*api.ProofResult, error) {
	out := &api.ProofResult{}
	return out, c.Call(HTTPPOST, proof, out, "zkverifier", "circuits", id(circuitID), "snark")
}

// Receipt returns the receipt stored for an admitted proof.
func (c *HTTPclient) Receipt(proofHash types.HexBytes) (*zkverifier.Receipt, error) {
	out := &zkverifier.Receipt{}
	return out, c.Call(HTTPGET, nil, out, "zkverifier", "receipts", proofHash.Hex())
}

// SubmitRequest files a request backed by an admitted proof.
func (c *HTTPclient) SubmitRequest(sub *requests.Submission) (uint64, error) {
	out := &api.RequestID{}
	if err := c.Call(HTTPPOST, sub, out, api.RequestsEndpoint); err != nil {
		return 0, err
	}
	return out.RequestID, nil
}

// RequestByID returns a live request.
func (c *HTTPclient) RequestByID(requestID uint64) (*requests.Request, error) {
	out := &requests.Request{}
	return out, c.Call(HTTPGET, nil, out, "requests", id(requestID))
}

// UpdateRequestStatus moves a request to status. A nil notes keeps the
// stored notes.
func (c *HTTPclient) UpdateRequestStatus(requestID uint64, status requests.Status, notes *string) error {
	return c.Call(HTTPPUT, &api.StatusUpdate{Status: status, Notes: notes}, nil,
		"requests", id(requestID), "status")
}

// WithdrawRequest removes the request filed with commitment.
func (c *HTTPclient) WithdrawRequest(commitment types.HexBytes) error {
	return c.Call(HTTPDELETE, nil, nil, "requests", "commitments", commitment.Hex())
}
