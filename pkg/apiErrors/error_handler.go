package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned by the operational API.
const (
	// Validation errors (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Malformed request
	ErrMissingRequiredData = "VAL_002" // Required parameter absent
	ErrInvalidFormat       = "VAL_003" // Parameter has the wrong format

	// Server errors (5000-5999)
	ErrInternalServer    = "SRV_001" // Unexpected internal failure
	ErrDatabaseOperation = "SRV_002" // Database operation failed
	ErrExternalService   = "SRV_003" // Upstream platform failure
	ErrServiceUnready    = "SRV_004" // Dependent service not wired or not ready
)

var httpStatusMap = map[string]int{
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrDatabaseOperation:   http.StatusInternalServerError,
	ErrExternalService:     http.StatusBadGateway,
	ErrServiceUnready:      http.StatusServiceUnavailable,
}

// APIError is the standard error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standard error payload with the HTTP status mapped
// from the code.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error in the standard payload.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
