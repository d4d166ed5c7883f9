package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDaemonNotRunning is returned when the daemon is not running
	ErrDaemonNotRunning = errors.New("daemon not running")

	// ErrPermissionDenied is returned when the user does not have permission to perform the requested action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when 404 is returned from the daemon
	ErrNotFound = errors.New("404 not found")

	// ErrBadRequest is returned when the daemon rejects a session id or key
	ErrBadRequest = errors.New("400 bad request")
)

// APIError is a non-2xx response of the daemon.
type APIError struct {
	Code int
	// Message is the error text sent by the daemon, if any.
	Message string
}

func newAPIError(code int, body string) *APIError {
	e := &APIError{Code: code, Message: body}
	// The daemon sends errors as JSON strings.
	var msg string
	if json.Unmarshal([]byte(body), &msg) == nil {
		e.Message = msg
	}
	return e
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("got %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("got %d: %s", e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrBadRequest:
		return e.Code == http.StatusBadRequest
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
