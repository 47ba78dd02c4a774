//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 401 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// Errors returned by the contracts keep their own code (1000-1999 for the
// zkverifier, 2000-2999 for the request controller) and are not listed here.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX
// If you notice there's a gap (say, error code 4010, 4011 and 4013 exist, 4012 is missing) DON'T fill in the gap,
// that code was used in the past for some error (not anymore) and shouldn't be reused.
var (
	ErrResourceNotFound   = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody      = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrInvalidSignature   = Error{Code: 40005, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid signature")}
	ErrMissingSignature   = Error{Code: 40008, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("missing signature header")}
	ErrMalformedParam     = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed parameter")}
	ErrMalformedSnarkjs   = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed snarkjs artifact")}
	ErrAmbiguousProof     = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("exactly one of proof and snarkjsProof is required")}
	ErrAmbiguousKey       = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("exactly one of material and snarkjsVerificationKey is required")}
	ErrMalformedAddress   = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed address")}
	ErrMalformedRequestID = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed request ID")}
	ErrMalformedCircuitID = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed circuit ID")}
	ErrMissingNonce       = Error{Code: 40016, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("missing nonce header")}
	ErrInvalidNonce       = Error{Code: 40017, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("invalid nonce")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)
