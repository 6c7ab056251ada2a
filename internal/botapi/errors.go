package botapi

import (
	"errors"
	"fmt"
)

var (
	ErrNoToken = errors.New("no access token available for authenticated request")
)

// APIError is a non-2xx response from the bot service. Message is pulled
// from the JSON body's "message" field when present, otherwise a generic
// fallback keyed on the status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bot service: status=%d message=%s", e.StatusCode, e.Message)
}

// UserMessage returns the text shown to the operator: the server-provided
// message, or fallback when the server sent none.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
