// Package apperr is the error taxonomy shared by the stores, the content
// services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_FAILED"
	CodeSlugTaken       Code = "SLUG_TAKEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeStorage         Code = "STORAGE_FAILURE"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeTooManyRequests Code = "TOO_MANY_REQUESTS"
	CodeBadRequest      Code = "BAD_REQUEST"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Error is an application error carrying an HTTP status and, for validation
// failures, a message per field keyed by the field's wire name.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  int               `json:"-"`
	Err     error             `json:"-"`
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "; %s: %s", k, e.Fields[k])
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func Validation(fields map[string]string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "The given data was invalid.",
		Fields:  fields,
		Status:  http.StatusUnprocessableEntity,
	}
}

// SlugTaken is the conflict error for a slug already used by another row of
// the same table. It is reported as a field error on "slug".
func SlugTaken(slug string) *Error {
	return &Error{
		Code:    CodeSlugTaken,
		Message: "The given data was invalid.",
		Fields:  map[string]string{"slug": fmt.Sprintf("The slug %q has already been taken.", slug)},
		Status:  http.StatusUnprocessableEntity,
	}
}

func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound)
}

func Storage(err error) *Error {
	return &Error{Code: CodeStorage, Message: "Failed to store uploaded file", Status: http.StatusInternalServerError, Err: err}
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func BadRequest(message string) *Error {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error", Status: http.StatusInternalServerError, Err: err}
}

// From returns err as an *Error, wrapping anything unknown as Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNotFound(err error) bool { return IsCode(err, CodeNotFound) }

// IsValidation is true for both plain validation failures and slug conflicts,
// which surface to callers as the same kind of field-level error.
func IsValidation(err error) bool {
	return IsCode(err, CodeValidation) || IsCode(err, CodeSlugTaken)
}
