package oedomain

import (
	"encoding/json"
)

// Platform status codes with dedicated handling.
const (
	CodeOK               = 0
	CodeSystemThrottle   = 40100 // shared-capacity throttle, always retryable
	CodePermissionDenied = 40002 // entity-level denial, skip the entity
)

// Envelope is the uniform JSON wrapper every OceanEngine endpoint responds
// with. Success is code==0; everything else carries a message, optional help
// text and a request id for support tickets.
type Envelope struct {
	Code        int             `json:"code"`
	Message     string          `json:"message"`
	Msg         string          `json:"msg"`
	HelpMessage string          `json:"help_message"`
	Help        string          `json:"help"`
	RequestID   string          `json:"request_id"`
	Data        json.RawMessage `json:"data"`
}

// ErrorMessage returns the error message, tolerating both key spellings the
// platform uses.
func (e *Envelope) ErrorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

// HelpText returns the optional help text, tolerating both key spellings.
func (e *Envelope) HelpText() string {
	if e.HelpMessage != "" {
		return e.HelpMessage
	}
	return e.Help
}

// OK reports whether the envelope signals success.
func (e *Envelope) OK() bool {
	return e.Code == CodeOK
}

// Err converts a non-success envelope into an *APIError. Returns nil on
// success.
func (e *Envelope) Err(api string) error {
	if e.OK() {
		return nil
	}
	return &APIError{
		API:         api,
		Code:        e.Code,
		Message:     e.ErrorMessage(),
		HelpMessage: e.HelpText(),
		RequestID:   e.RequestID,
	}
}

// DigData unwraps the platform's occasional double nesting, where the
// payload of interest sits under data.data instead of data.
func DigData(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	var inner struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &inner); err == nil && len(inner.Data) > 0 {
		switch inner.Data[0] {
		case '{', '[':
			return inner.Data
		}
	}
	return raw
}

// PageInfo is the pagination block shared by list endpoints. TotalPage is 0
// when the platform does not report it.
type PageInfo struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalNumber int64 `json:"total_number"`
	TotalPage   int   `json:"total_page"`
}
