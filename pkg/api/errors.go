package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrPermissionDenied is returned when login succeeds at the transport level
// but the account's role is not accepted by this client.
var ErrPermissionDenied = errors.New("permission denied: only client users can log in")

// APIError is a non-2xx response from one of the services. Detail carries the
// server-supplied message when present.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Detail)
}

// AsAPIError checks if an error is an APIError and returns it.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	ae, ok := AsAPIError(err)
	return ok && ae.Status == http.StatusNotFound
}

// ValidationError is a client-side precondition failure; the request was
// never sent.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

// AsValidationError checks if an error is a ValidationError and returns it.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// decodeError turns a non-2xx response into an APIError, falling back to a
// generic message when the body carries no detail field.
func decodeError(resp *http.Response) error {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Detail == "" {
		body.Detail = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Detail: body.Detail}
}
