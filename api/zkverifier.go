package api

import (
	"errors"
	"net/http"

	"github.com/vocdoni/circom2gnark/parser"
	"github.com/vocdoni/zkgate/snarkjs"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/zkverifier"
)

// governance returns the governance identity of the verifier
// GET /zkverifier/governance
func (a *API) governance(w http.ResponseWriter, r *http.Request) {
	gov, ok, err := a.verifier.Governance()
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if !ok {
		ErrResourceNotFound.With("governance not set").Write(w)
		return
	}
	httpWriteJSON(w, &Address{Address: gov})
}

// setGovernance sets the governance identity, only once
// POST /zkverifier/governance
func (a *API) setGovernance(w http.ResponseWriter, r *http.Request) {
	req := &Address{}
	caller, err := a.authenticateJSON(r, req)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if err := checkAddress(req.Address); err != nil {
		httpWriteError(w, err)
		return
	}
	if err := a.verifier.SetGovernance(caller, req.Address); err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteOK(w)
}

// circuitCounters returns the number of registered circuits and the next id
// GET /zkverifier/circuits
func (a *API) circuitCounters(w http.ResponseWriter, r *http.Request) {
	count, err := a.verifier.CircuitCount()
	if err != nil {
		httpWriteError(w, err)
		return
	}
	next, err := a.verifier.NextCircuitID()
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &Counters{Count: count, NextID: next})
}

// keyMaterial returns the key material of a registration or update body,
// converting it from snarkjs when given in that format.
func keyMaterial(m *types.KeyMaterial, vk *parser.CircomVerificationKey) (*types.KeyMaterial, error) {
	if (m == nil) == (vk == nil) {
		return nil, ErrAmbiguousKey
	}
	if m != nil {
		return m, nil
	}
	km, err := snarkjs.ConvertVerificationKey(vk)
	if err != nil {
		return nil, ErrMalformedSnarkjs.WithErr(err)
	}
	return km, nil
}

// addCircuit registers a new verification key
// POST /zkverifier/circuits
func (a *API) addCircuit(w http.ResponseWriter, r *http.Request) {
	req := &NewCircuit{}
	caller, err := a.authenticateJSON(r, req)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	material, err := keyMaterial(req.Material, req.SnarkjsVerificationKey)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	id, err := a.verifier.AddVerificationKey(caller, &zkverifier.NewKey{
		CircuitID:   req.CircuitID,
		Material:    *material,
		CircuitType: req.CircuitType,
		InputSize:   req.InputSize,
		OutputSize:  req.OutputSize,
		Description: req.Description,
	})
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &CircuitID{CircuitID: id})
}

// circuit returns the key and the metadata of a circuit
// GET /zkverifier/circuits/{circuitId}
func (a *API) circuit(w http.ResponseWriter, r *http.Request) {
	id, err := urlUint64(r, CircuitURLParam, ErrMalformedCircuitID)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	key, err := a.verifier.VerificationKey(id)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	meta, err := a.verifier.CircuitMetadata(id)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &Circuit{Key: key, Metadata: meta})
}

// updateCircuitKey replaces the key material of a circuit
// PUT /zkverifier/circuits/{circuitId}/key
func (a *API) updateCircuitKey(w http.ResponseWriter, r *http.Request) {
	id, err := urlUint64(r, CircuitURLParam, ErrMalformedCircuitID)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	req := &UpdateKey{}
	caller, err := a.authenticateJSON(r, req)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	material, err := keyMaterial(req.Material, req.SnarkjsVerificationKey)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if err := a.verifier.UpdateVerificationKey(caller, id, material); err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteOK(w)
}

// deactivateCircuit deactivates a circuit for good
// POST /zkverifier/circuits/{circuitId}/deactivate
func (a *API) deactivateCircuit(w http.ResponseWriter, r *http.Request) {
	id, err := urlUint64(r, CircuitURLParam, ErrMalformedCircuitID)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	caller, _, err := a.authenticate(r)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if err := a.verifier.DeactivateCircuit(caller, id); err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteOK(w)
}

// proofSubmission decodes an authenticated proof submission, converting the
// proof from snarkjs when given in that format.
func (a *API) proofSubmission(r *http.Request) (*submittedProof, error) {
	id, err := urlUint64(r, CircuitURLParam, ErrMalformedCircuitID)
	if err != nil {
		return nil, err
	}
	req := &ProofSubmission{}
	caller, err := a.authenticateJSON(r, req)
	if err != nil {
		return nil, err
	}
	sp := &submittedProof{caller: caller, circuitID: id, req: req}
	switch {
	case (req.Proof == nil) == (req.SnarkjsProof == nil):
		return nil, ErrAmbiguousProof
	case req.Proof != nil:
		if len(req.SnarkjsPublicSignals) > 0 {
			return nil, ErrAmbiguousProof.With("snarkjsPublicSignals given with proof")
		}
		sp.proof, sp.inputs = req.Proof, req.PublicInputs
	default:
		if len(req.PublicInputs) > 0 {
			return nil, ErrAmbiguousProof.With("publicInputs given with snarkjsProof")
		}
		if sp.proof, err = snarkjs.ConvertProof(req.SnarkjsProof); err != nil {
			return nil, ErrMalformedSnarkjs.WithErr(err)
		}
		if sp.inputs, err = snarkjs.ConvertPublicSignals(req.SnarkjsPublicSignals); err != nil {
			return nil, ErrMalformedSnarkjs.WithErr(err)
		}
	}
	return sp, nil
}

// verifyGroth16 submits a proof of a groth16 circuit, consuming its
// nullifier on success
// POST /zkverifier/circuits/{circuitId}/groth16
func (a *API) verifyGroth16(w http.ResponseWriter, r *http.Request) {
	sp, err := a.proofSubmission(r)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	ok, err := a.verifier.VerifyGroth16Proof(sp.caller, sp.circuitID, sp.proof, sp.inputs, sp.req.Nullifier, sp.req.Signal)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &ProofResult{Verified: ok, ProofHash: zkverifier.ProofHash(sp.proof)})
}

// verifySnark submits a proof of a snark circuit
// POST /zkverifier/circuits/{circuitId}/snark
func (a *API) verifySnark(w http.ResponseWriter, r *http.Request) {
	sp, err := a.proofSubmission(r)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	ok, err := a.verifier.VerifySnarkProof(sp.caller, sp.circuitID, sp.proof, sp.inputs, sp.req.Commitment)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &ProofResult{Verified: ok, ProofHash: zkverifier.ProofHash(sp.proof)})
}

// nullifierRoot returns the root of the consumed nullifier tree
// GET /zkverifier/nullifiers/root
func (a *API) nullifierRoot(w http.ResponseWriter, r *http.Request) {
	root, err := a.verifier.NullifierRoot()
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &Root{Root: root})
}

// nullifier reports whether the gate consumed a nullifier
// GET /zkverifier/nullifiers/{nullifier}
func (a *API) nullifier(w http.ResponseWriter, r *http.Request) {
	n, err := urlHex(r, NullifierURLParam)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if len(n) != types.HashSize {
		httpWriteError(w, ErrMalformedParam.Withf("nullifier must be %d bytes", types.HashSize))
		return
	}
	proof, err := a.verifier.NullifierProof(n)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &Nullifier{Used: proof.Exists, Proof: proof})
}

// receipt returns the receipt of an admitted proof
// GET /zkverifier/receipts/{proofHash}
func (a *API) receipt(w http.ResponseWriter, r *http.Request) {
	hash, err := urlHex(r, ProofHashURLParam)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	receipt, err := a.verifier.Receipt(hash)
	if errors.Is(err, storage.ErrNotFound) {
		ErrResourceNotFound.Withf("receipt %s", hash).Write(w)
		return
	}
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, receipt)
}
