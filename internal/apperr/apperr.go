// Package apperr defines the error kinds shared by services and handlers and
// their mapping to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is the single failure value of the session check. It
	// never says which step rejected the request.
	ErrUnauthorized = errors.New("invalid authorization")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

// NotFound wraps ErrNotFound with the name of the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Validation wraps ErrValidation with a client-facing message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// New returns an error of the given kind whose text is exactly msg.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// PersistenceError reports a failed store operation. Op names the step,
// e.g. "delete time sets".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "persistence: " + e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence returns nil when err is nil so it can wrap a call result directly.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// ExternalServiceError reports a failure of the image store, the mail queue
// or the identity provider.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string { return e.Service + ": " + e.Err.Error() }
func (e *ExternalServiceError) Unwrap() error { return e.Err }

func External(service string, err error) error {
	if err == nil {
		return nil
	}
	return &ExternalServiceError{Service: service, Err: err}
}

// Status maps an error to the HTTP status code of its kind.
func Status(err error) int {
	var (
		pe *PersistenceError
		xe *ExternalServiceError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &xe):
		return http.StatusBadGateway
	case errors.As(err, &pe):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text that may be shown to a client. Internal causes
// are replaced by a generic message.
func Message(err error) string {
	switch Status(err) {
	case http.StatusUnauthorized:
		return ErrUnauthorized.Error()
	case http.StatusNotFound, http.StatusBadRequest, http.StatusConflict:
		return err.Error()
	case http.StatusBadGateway:
		return "external service unavailable"
	default:
		return "internal server error"
	}
}
