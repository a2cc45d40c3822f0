// services/errors.go
package services

import "errors"

// ErrorKind classifies a service failure. The dual-path creator and the HTTP
// layer both branch on it: validation and not_found surface immediately,
// transport triggers the direct-store fallback exactly once.
type ErrorKind string

const (
	ErrValidation  ErrorKind = "validation"
	ErrNotFound    ErrorKind = "not_found"
	ErrTransport   ErrorKind = "transport"
	ErrPersistence ErrorKind = "persistence"
	ErrInternal    ErrorKind = "internal"
)

type OpError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *OpError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OpError) Unwrap() error { return e.Err }

func NewValidationError(msg string) error {
	return &OpError{Kind: ErrValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &OpError{Kind: ErrNotFound, Message: msg}
}

func NewTransportError(msg string, err error) error {
	return &OpError{Kind: ErrTransport, Message: msg, Err: err}
}

func NewPersistenceError(msg string, err error) error {
	return &OpError{Kind: ErrPersistence, Message: msg, Err: err}
}

func NewInternalError(msg string, err error) error {
	return &OpError{Kind: ErrInternal, Message: msg, Err: err}
}

// KindOf returns the error's kind, or ErrInternal for untyped errors.
func KindOf(err error) ErrorKind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return ErrInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
