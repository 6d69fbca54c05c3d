package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport-level status mapping.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindExtraction
	KindUpstreamGeneration
	KindInternal
)

// Error is a kind-tagged application error. Services return these;
// the HTTP layers map the kind to a status code.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Authentication(message string) *Error {
	return New(KindAuthentication, message)
}

func Authorization(message string) *Error {
	return New(KindAuthorization, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Extraction(message string, err error) *Error {
	return Wrap(KindExtraction, message, err)
}

func UpstreamGeneration(message string, err error) *Error {
	return Wrap(KindUpstreamGeneration, message, err)
}

// KindOf extracts the kind from err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusCode maps a kind to its HTTP status.
func StatusCode(kind Kind) int {
	switch kind {
	case KindValidation, KindExtraction:
		return 400
	case KindAuthentication:
		return 401
	case KindAuthorization:
		return 403
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindUpstreamGeneration:
		return 502
	default:
		return 500
	}
}
