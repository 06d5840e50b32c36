package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes produced by the client itself. Server failures carry the code
// from the response body instead.
const (
	CodeConnection = "CONNECTION_ERROR"
	CodeTimeout    = "TIMEOUT_ERROR"
	CodeFetchShips = "FETCH_SHIPS_ERROR"
	CodeUnknown    = "UNKNOWN_ERROR"
)

// ErrAborted is returned when the caller's context ends before the server
// answers. It wraps context.Canceled or context.DeadlineExceeded.
var ErrAborted = errors.New("request aborted")

// APIError is the typed failure of every client call. Status is 0 when the
// server was never reached and 408 when the call timed out.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// ConnectionStatus summarises the outcome of the last call for display and
// for deciding whether periodic refresh keeps running.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusTimeout      ConnectionStatus = "timeout"
	StatusServerError  ConnectionStatus = "server_error"
	StatusError        ConnectionStatus = "error"
)

// StatusOf maps a call result to a ConnectionStatus. A nil error is connected.
func StatusOf(err error) ConnectionStatus {
	if err == nil {
		return StatusConnected
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return StatusError
	}
	switch {
	case apiErr.Code == CodeConnection || apiErr.Status == 0:
		return StatusDisconnected
	case apiErr.Code == CodeTimeout || apiErr.Status == http.StatusRequestTimeout:
		return StatusTimeout
	case apiErr.Status >= 500:
		return StatusServerError
	default:
		return StatusError
	}
}

var defaultMessages = map[string]string{
	CodeConnection: "Unable to connect to the ship tracking service. Please check your internet connection.",
	CodeTimeout:    "Request timed out. The server may be experiencing high load.",
	CodeFetchShips: "Failed to load ship data. Please try refreshing the page.",
	CodeUnknown:    "An unexpected error occurred. Please try again.",
}

// ErrorMessage returns text suitable for a user: the error's own message
// when it has one, else a default for its code.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return defaultMessages[CodeUnknown]
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if msg, ok := defaultMessages[apiErr.Code]; ok {
		return msg
	}
	return defaultMessages[CodeUnknown]
}
