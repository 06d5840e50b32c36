package view

import (
	"errors"
	"net/http"

	"ship-tracker-backend/internal/client"
)

// ErrorKind groups failures for display.
type ErrorKind string

const (
	KindConnectionLost ErrorKind = "connection_lost"
	KindAPIError       ErrorKind = "api_error"
	KindRateLimit      ErrorKind = "rate_limit"
	KindPartialData    ErrorKind = "partial_data"
	KindOffline        ErrorKind = "offline"
	KindMaintenance    ErrorKind = "maintenance"
)

// ErrorState is the banner shown for the last failure. The snapshot stays
// visible underneath it.
type ErrorState struct {
	Kind        ErrorKind
	Code        string
	Message     string
	Description string
}

// KindOf classifies a client error.
func KindOf(err error) ErrorKind {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return KindAPIError
	}
	if apiErr.Status == http.StatusTooManyRequests {
		return KindRateLimit
	}
	switch client.StatusOf(err) {
	case client.StatusDisconnected, client.StatusTimeout:
		return KindConnectionLost
	}
	return KindAPIError
}

func newErrorState(err error) *ErrorState {
	code := client.CodeUnknown
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}
	msg := "Failed to load ship data"
	if apiErr != nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &ErrorState{
		Kind:        KindOf(err),
		Code:        code,
		Message:     msg,
		Description: client.ErrorMessage(&client.APIError{Code: code}),
	}
}

func connectionLostState(err error) *ErrorState {
	st := newErrorState(err)
	st.Kind = KindConnectionLost
	st.Message = "Connection lost"
	st.Description = "Unable to get real-time updates. Showing last known data."
	return st
}
