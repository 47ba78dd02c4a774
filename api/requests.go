package api

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/requests"
)

// requestCounters returns the number of live requests and the next id
// GET /requests
func (a *API) requestCounters(w http.ResponseWriter, r *http.Request) {
	count, err := a.requests.RequestCount()
	if err != nil {
		httpWriteError(w, err)
		return
	}
	next, err := a.requests.NextRequestID()
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &Counters{Count: count, NextID: next})
}

// submitRequest submits a new request backed by a proof admitted by the
// linked proof verifier
// POST /requests
func (a *API) submitRequest(w http.ResponseWriter, r *http.Request) {
	sub := &requests.Submission{}
	caller, err := a.authenticateJSON(r, sub)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	id, err := a.requests.SubmitRequest(caller, sub)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &RequestID{RequestID: id})
}

// request returns a live request
// GET /requests/{requestId}
func (a *API) request(w http.ResponseWriter, r *http.Request) {
	id, err := urlUint64(r, RequestURLParam, ErrMalformedRequestID)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	req, err := a.requests.Request(id)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, req)
}

// updateRequestStatus moves a request to a new status
// PUT /requests/{requestId}/status
func (a *API) updateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlUint64(r, RequestURLParam, ErrMalformedRequestID)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	req := &StatusUpdate{}
	caller, err := a.authenticateJSON(r, req)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if err := a.requests.UpdateRequestStatus(caller, id, req.Status, req.Notes); err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteOK(w)
}

// purgeRequest removes an expired request
// POST /requests/{requestId}/purge
func (a *API) purgeRequest(w http.ResponseWriter, r *http.Request) {
	id, err := urlUint64(r, RequestURLParam, ErrMalformedRequestID)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	caller, _, err := a.authenticate(r)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if err := a.requests.AdminWithdrawStuckRequest(caller, id); err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteOK(w)
}

// requestByCommitment resolves a commitment to the id of its request
// GET /requests/commitments/{commitment}
func (a *API) requestByCommitment(w http.ResponseWriter, r *http.Request) {
	commitment, err := urlHex(r, CommitmentURLParam)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	id, err := a.requests.RequestIDByCommitment(commitment)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &RequestID{RequestID: id})
}

// withdrawRequest withdraws the pending request holding a commitment
// DELETE /requests/commitments/{commitment}
func (a *API) withdrawRequest(w http.ResponseWriter, r *http.Request) {
	commitment, err := urlHex(r, CommitmentURLParam)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	caller, _, err := a.authenticate(r)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if err := a.requests.WithdrawRequest(caller, commitment); err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteOK(w)
}

// requestNullifier reports whether a live request holds a nullifier
// GET /requests/nullifiers/{nullifier}
func (a *API) requestNullifier(w http.ResponseWriter, r *http.Request) {
	n, err := urlHex(r, NullifierURLParam)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	used, err := a.requests.IsNullifierUsed(n)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	httpWriteJSON(w, &Nullifier{Used: used})
}

// addressHandler returns a handler writing the address returned by get.
func addressHandler(get func() (common.Address, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := get()
		if err != nil {
			httpWriteError(w, err)
			return
		}
		httpWriteJSON(w, &Address{Address: addr})
	}
}

// setAddressHandler returns a handler calling set with the authenticated
// caller and the address in the body.
func (a *API) setAddressHandler(set func(caller, addr common.Address) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		if err := set(caller, req.Address); err != nil {
			httpWriteError(w, err)
			return
		}
		httpWriteOK(w)
	}
}

// GET and POST /requests/admin
func (a *API) admin(w http.ResponseWriter, r *http.Request) {
	addressHandler(a.requests.Admin)(w, r)
}

func (a *API) transferAdmin(w http.ResponseWriter, r *http.Request) {
	a.setAddressHandler(a.requests.TransferAdmin)(w, r)
}

// GET and POST /requests/proofverifier
func (a *API) proofVerifier(w http.ResponseWriter, r *http.Request) {
	addressHandler(a.requests.ProofVerifier)(w, r)
}

func (a *API) setProofVerifier(w http.ResponseWriter, r *http.Request) {
	a.setAddressHandler(a.requests.SetProofVerifier)(w, r)
}

// GET and POST /requests/identitymanager
func (a *API) identityManager(w http.ResponseWriter, r *http.Request) {
	addressHandler(a.requests.IdentityManager)(w, r)
}

func (a *API) setIdentityManager(w http.ResponseWriter, r *http.Request) {
	a.setAddressHandler(a.requests.SetIdentityManager)(w, r)
}
