package ycharts

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the four error kinds returned by the client.
// Every *Error wraps exactly one of them, so callers can check with errors.Is.
var (
	// ErrMalformedRequest covers client-side validation failures, server-declared 400s
	// and any transport status that has no dedicated kind.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnauthorized indicates the API key was rejected (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested URL does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrTooLong indicates the server rejected an identifier list as too long (414).
	// The API accepts at most 100 identifiers per list; the limit is not checked locally.
	ErrTooLong = errors.New("identifier list too long")
)

const (
	msgNotFound     = "URL not found."
	msgUnauthorized = "Invalid or Missing API Key."
	msgInvalidDate  = "Invalid date parameter. Date should be a date or a negative integer."
)

// Error is the error value returned for every classified failure.
type Error struct {
	Kind    error  // one of the sentinel errors above
	Code    int    // HTTP-like status code: 400, 401, 404 or 414
	Message string // human-readable message, from the server when it sent one
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s code:%d", e.Message, e.Code)
}

// Unwrap exposes the kind so that errors.Is(err, ErrTooLong) works.
func (e *Error) Unwrap() error {
	return e.Kind
}

func malformed(msg string) *Error {
	return &Error{Kind: ErrMalformedRequest, Code: http.StatusBadRequest, Message: msg}
}

func malformedf(format string, args ...any) *Error {
	return malformed(fmt.Sprintf(format, args...))
}

// errorForStatus maps a non-2xx transport status to an *Error.
func errorForStatus(status int) *Error {
	switch status {
	case http.StatusNotFound:
		return &Error{Kind: ErrNotFound, Code: http.StatusNotFound, Message: msgNotFound}
	case http.StatusUnauthorized:
		return &Error{Kind: ErrUnauthorized, Code: http.StatusUnauthorized, Message: msgUnauthorized}
	default:
		text := http.StatusText(status)
		if text == "" {
			text = "unexpected status"
		}
		return malformedf("%s (HTTP %d)", text, status)
	}
}

// errorForPayload maps a server-declared meta.error_code to an *Error.
// ok is false for codes that have no dedicated kind.
func errorForPayload(code int, msg string) (e *Error, ok bool) {
	switch code {
	case http.StatusBadRequest:
		return malformed(msg), true
	case http.StatusRequestURITooLong:
		return &Error{Kind: ErrTooLong, Code: http.StatusRequestURITooLong, Message: msg}, true
	default:
		if code == 0 {
			code = http.StatusBadRequest
		}
		return &Error{Kind: ErrMalformedRequest, Code: code, Message: msg}, false
	}
}
