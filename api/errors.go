package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vocdoni/zkgate/log"
	"github.com/vocdoni/zkgate/types"
)

// Error is used by handler functions to wrap errors, assigning a unique error code
// and also specifying which HTTP Status should be used.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON returns a JSON containing Err.Error() and Code. Field HTTPstatus is ignored.
//
// Example output: {"error":"circuit not found (code 1005): circuit 7","code":1005}
func (e Error) MarshalJSON() ([]byte, error) {
	// json.Marshal doesn't call Err.Error(), so the message goes through an
	// anonymous struct.
	return json.Marshal(
		struct {
			Err  string `json:"error"`
			Code int    `json:"code"`
		}{
			Err:  e.Err.Error(),
			Code: e.Code,
		})
}

// Error returns the Message contained inside the APIerror
func (e Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error, so contract errors can be matched with
// errors.Is.
func (e Error) Unwrap() error {
	return e.Err
}

// Write serializes a JSON msg using APIerror.Message and APIerror.Code
// and passes that to ctx.Send()
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	if log.Level() == log.LogLevelDebug {
		log.Debugw("API error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	}
	// set the content type to JSON
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// Withf returns a copy of APIerror with the Sprintf formatted string appended at the end of e.Err
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// With returns a copy of APIerror with the string appended at the end of e.Err
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of APIerror with err.Error() appended at the end of e.Err
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

var kindStatus = map[types.ErrorKind]int{
	types.KindAuthorization: http.StatusForbidden,
	types.KindNotFound:      http.StatusNotFound,
	types.KindValidation:    http.StatusBadRequest,
	types.KindConflict:      http.StatusConflict,
	types.KindCapacity:      http.StatusTooManyRequests,
	types.KindLifecycle:     http.StatusConflict,
	types.KindExternal:      http.StatusUnprocessableEntity,
}

// contractError converts an error returned by a contract into an API error.
// Contract errors keep their code and get the HTTP status of their kind,
// anything else is an internal error.
func contractError(err error) Error {
	ce, ok := types.AsError(err)
	if !ok {
		return ErrGenericInternalServerError.WithErr(err)
	}
	status, ok := kindStatus[ce.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return Error{Err: err, Code: int(ce.Code), HTTPstatus: status}
}
