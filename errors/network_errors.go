package errors

import (
	"errors"
	"fmt"

	"github.com/sultan-labs/sultan-go/jsonx"
)

// Error kinds surfaced by the SDK. Callers match them with errors.Is.
var (
	ErrInvalidKeyEncoding = errors.New("invalid private key encoding")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrEncoding           = errors.New("encoding failed")
	ErrNetwork            = errors.New("network request failed")
)

// NetworkErrorCode is the machine-readable code a node puts in an error body.
type NetworkErrorCode string

const (
	ErrCodeInternal NetworkErrorCode = "internal_error"

	ErrCodeInvalidRequest     NetworkErrorCode = "invalid_request"
	ErrCodeInvalidTransaction NetworkErrorCode = "invalid_transaction"
	ErrCodeInvalidSignature   NetworkErrorCode = "invalid_signature"
	ErrCodeInvalidAddress     NetworkErrorCode = "invalid_address"
	ErrCodeInvalidAmount      NetworkErrorCode = "invalid_amount"
	ErrCodeInvalidNonce       NetworkErrorCode = "invalid_nonce"

	ErrCodeTransactionNotFound  NetworkErrorCode = "transaction_not_found"
	ErrCodeAccountNotFound      NetworkErrorCode = "account_not_found"
	ErrCodeInsufficientFunds    NetworkErrorCode = "insufficient_funds"
	ErrCodeNonceTooLow          NetworkErrorCode = "nonce_too_low"
	ErrCodeDuplicateTransaction NetworkErrorCode = "duplicate_transaction"

	ErrCodeRateLimited NetworkErrorCode = "rate_limited"
)

// NetworkError describes a failed RPC call: a transport failure, a non-2xx
// status or a body that could not be decoded.
type NetworkError struct {
	Method     string           `json:"method"`
	URL        string           `json:"url"`
	StatusCode int              `json:"status_code,omitempty"`
	Code       NetworkErrorCode `json:"code,omitempty"`
	Message    string           `json:"message,omitempty"`
	Err        error            `json:"-"`
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Code != "" {
		msg += fmt.Sprintf(" [%s]", e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports every NetworkError as ErrNetwork.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// errorBody covers the two error shapes nodes answer with:
// {"code": "...", "message": "..."} and {"error": "..."}.
type errorBody struct {
	Code    NetworkErrorCode `json:"code"`
	Message string           `json:"message"`
	Error   string           `json:"error"`
}

// NewStatusError builds the NetworkError for a non-2xx response, lifting the
// node's code and message out of body when it is JSON.
func NewStatusError(method, url string, status int, body []byte) *NetworkError {
	ne := &NetworkError{Method: method, URL: url, StatusCode: status}

	var eb errorBody
	if err := jsonx.Unmarshal(body, &eb); err == nil && (eb.Code != "" || eb.Message != "" || eb.Error != "") {
		ne.Code = eb.Code
		ne.Message = eb.Message
		if ne.Message == "" {
			ne.Message = eb.Error
		}
		return ne
	}

	ne.Message = truncate(string(body), 256)
	return ne
}

// NewTransportError wraps a failure that happened before a usable response
// was read: dialing, TLS, context cancellation, body read or decode.
func NewTransportError(method, url string, err error) *NetworkError {
	return &NetworkError{Method: method, URL: url, Err: err}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
