package api

import (
	"math"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/zkgate/types"
)

const defaultEventsLimit = 100

// info returns the deployment information
// GET /info
func (a *API) info(w http.ResponseWriter, r *http.Request) {
	httpWriteJSON(w, &Info{
		Verifier:            a.verifierAddr,
		Requests:            a.requestsAddr,
		Height:              a.storage.Clock().Height(),
		MaxCircuits:         types.MaxCircuits,
		MaxRequests:         types.MaxRequests,
		RequestExpiryBlocks: types.RequestExpiryBlocks,
		MaxPublicInputs:     types.MaxPublicInputs,
	})
}

// events lists the committed events starting at sequence number "from"
// GET /events?from=0&limit=100
func (a *API) events(w http.ResponseWriter, r *http.Request) {
	from, err := queryUint64(r, "from", 0)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	limit, err := queryUint64(r, "limit", defaultEventsLimit)
	if err != nil {
		httpWriteError(w, err)
		return
	}
	if limit == 0 || limit > math.MaxInt32 {
		httpWriteError(w, ErrMalformedParam.Withf("limit %d", limit))
		return
	}
	events, err := a.storage.Events(from, int(limit))
	if err != nil {
		httpWriteError(w, ErrGenericInternalServerError.WithErr(err))
		return
	}
	httpWriteJSON(w, &Events{Events: events})
}

// nonce returns the next nonce of an address
// GET /nonces/{address}
func (a *API) nonce(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, AddressURLParam)
	if !common.IsHexAddress(param) {
		httpWriteError(w, ErrMalformedAddress.With(param))
		return
	}
	addr := common.HexToAddress(param)
	n, err := a.storage.Nonce(addr)
	if err != nil {
		httpWriteError(w, ErrGenericInternalServerError.WithErr(err))
		return
	}
	httpWriteJSON(w, &Nonce{Address: addr, Nonce: n, Domain: a.domain()})
}
