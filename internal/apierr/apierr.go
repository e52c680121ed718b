package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP status and machine-readable code for a failure
// alongside the underlying cause.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

const (
	CodeValidation    = "validation_error"
	CodeDuplicateLink = "duplicate_link"
	CodeSelfLink      = "self_link"
	CodeNotFound      = "not_found"
	CodeStorage       = "storage_error"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
)

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

func DuplicateLink(err error) *Error {
	return New(http.StatusConflict, CodeDuplicateLink, err)
}

func SelfLink(err error) *Error {
	return New(http.StatusBadRequest, CodeSelfLink, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func Unauthorized(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, err)
}

func Forbidden(err error) *Error {
	return New(http.StatusForbidden, CodeForbidden, err)
}

func Storage(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeStorage, err)
}

// From unwraps err into an *Error, defaulting to a storage error so that
// unclassified repo failures surface as retryable.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Storage(err)
}

func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
