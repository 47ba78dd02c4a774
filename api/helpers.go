package api

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/zkgate/crypto/ethereum"
	"github.com/vocdoni/zkgate/log"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
)

const (
	// SignatureHeader carries the hex encoded signature of the caller over
	// SignedMessage.
	SignatureHeader = "X-Zkgate-Signature"
	// NonceHeader carries the decimal nonce the caller signed with. It must
	// be the next nonce of the caller, as returned by NonceEndpoint.
	NonceHeader = "X-Zkgate-Nonce"

	maxBodySize = 1 << 20
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// httpWriteError writes err, which is either an API error or an error
// returned by a contract.
func httpWriteError(w http.ResponseWriter, err error) {
	var apiErr Error
	if errors.As(err, &apiErr) {
		apiErr.Write(w)
		return
	}
	contractError(err).Write(w)
}

// SignedMessage returns the message a caller signs to authenticate a
// request: the domain of the node, the caller's nonce as 8 big endian bytes,
// the method, the path and the body. The domain ties the signature to one
// deployment and the nonce to a single call.
func SignedMessage(domain common.Address, nonce uint64, method, path string, body []byte) []byte {
	msg := make([]byte, 0, common.AddressLength+8+len(method)+len(path)+len(body)+2)
	msg = append(msg, domain.Bytes()...)
	msg = binary.BigEndian.AppendUint64(msg, nonce)
	msg = append(msg, method...)
	msg = append(msg, ' ')
	msg = append(msg, path...)
	msg = append(msg, '\n')
	return append(msg, body...)
}

// recoverCaller reads the request body and recovers the caller from the
// signature and nonce headers. The nonce is not consumed.
func (a *API) recoverCaller(r *http.Request) (common.Address, uint64, []byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err != nil {
		return common.Address{}, 0, nil, ErrMalformedBody.Withf("could not read body: %v", err)
	}
	h := r.Header.Get(SignatureHeader)
	if h == "" {
		return common.Address{}, 0, nil, ErrMissingSignature
	}
	sig, err := types.HexStringToHexBytes(h)
	if err != nil {
		return common.Address{}, 0, nil, ErrInvalidSignature.WithErr(err)
	}
	nh := r.Header.Get(NonceHeader)
	if nh == "" {
		return common.Address{}, 0, nil, ErrMissingNonce
	}
	nonce, err := strconv.ParseUint(nh, 10, 64)
	if err != nil {
		return common.Address{}, 0, nil, ErrInvalidNonce.WithErr(err)
	}
	caller, err := ethereum.AddrFromSignature(SignedMessage(a.domain(), nonce, r.Method, r.URL.Path, body), sig)
	if err != nil {
		return common.Address{}, 0, nil, ErrInvalidSignature.Withf("could not extract address from signature: %v", err)
	}
	return caller, nonce, body, nil
}

// useNonce consumes the nonce of an authenticated call. A replayed call
// carries a nonce that is already used and is rejected here.
func (a *API) useNonce(caller common.Address, nonce uint64) error {
	if err := a.storage.UseNonce(caller, nonce); err != nil {
		if errors.Is(err, storage.ErrInvalidNonce) {
			return ErrInvalidNonce.WithErr(err)
		}
		return ErrGenericInternalServerError.WithErr(err)
	}
	return nil
}

// authenticate recovers the caller of a request and consumes its nonce. It
// returns the caller and the raw body.
func (a *API) authenticate(r *http.Request) (common.Address, []byte, error) {
	caller, nonce, body, err := a.recoverCaller(r)
	if err != nil {
		return common.Address{}, nil, err
	}
	if err := a.useNonce(caller, nonce); err != nil {
		return common.Address{}, nil, err
	}
	return caller, body, nil
}

// authenticateJSON authenticates the request and decodes its body into v.
// The nonce is only consumed once the body is decoded.
func (a *API) authenticateJSON(r *http.Request, v any) (common.Address, error) {
	caller, nonce, body, err := a.recoverCaller(r)
	if err != nil {
		return common.Address{}, err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return common.Address{}, ErrMalformedBody.Withf("could not decode request body: %v", err)
	}
	if err := a.useNonce(caller, nonce); err != nil {
		return common.Address{}, err
	}
	return caller, nil
}

func urlUint64(r *http.Request, param string, apiErr Error) (uint64, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, param), 10, 64)
	if err != nil {
		return 0, apiErr.WithErr(err)
	}
	return v, nil
}

func urlHex(r *http.Request, param string) (types.HexBytes, error) {
	b, err := types.HexStringToHexBytes(chi.URLParam(r, param))
	if err != nil {
		return nil, ErrMalformedParam.Withf("%s: %v", param, err)
	}
	return b, nil
}

func queryUint64(r *http.Request, name string, def uint64) (uint64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrMalformedParam.Withf("%s: %v", name, err)
	}
	return v, nil
}

func checkAddress(a common.Address) error {
	if a == (common.Address{}) {
		return ErrMalformedAddress.With("zero address")
	}
	return nil
}
