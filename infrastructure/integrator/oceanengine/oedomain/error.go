package oedomain

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when neither a usable refresh token nor a
// one-time auth code is available. It is fatal and surfaced to the operator;
// no amount of retrying fixes it.
var ErrAuthRequired = errors.New("no usable credential: a one-time browser authorization (auth code) is required")

// APIError is an explicit upstream rejection: the platform answered, but with
// a non-zero status code. It is terminal for the call that produced it.
type APIError struct {
	API         string
	Code        int
	Message     string
	HelpMessage string
	RequestID   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] API error code=%d msg=%s help=%s request_id=%s",
		e.API, e.Code, e.Message, e.HelpMessage, e.RequestID)
}

// IsThrottled reports whether this is the platform's systemic rate-limit
// signal, which is always worth retrying.
func (e *APIError) IsThrottled() bool {
	return e.Code == CodeSystemThrottle
}

// IsPermissionDenied reports whether the platform denied access to a specific
// entity. The entity is skipped for the rest of the pass; the pass continues.
func (e *APIError) IsPermissionDenied() bool {
	return e.Code == CodePermissionDenied
}

// AsAPIError unwraps err into an *APIError if there is one in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsPermissionDenied is the error-chain variant of (*APIError).IsPermissionDenied.
func IsPermissionDenied(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsPermissionDenied()
}
