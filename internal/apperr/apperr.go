// Package apperr defines the closed set of error kinds the API can surface.
// Errors are tagged with a kind at the point of failure so the HTTP boundary
// can pick a status code without inspecting message text.
package apperr

import "errors"

// Kind classifies an error into one of the API's failure categories.
type Kind int

const (
	// KindInternal covers storage failures and anything unclassified.
	KindInternal Kind = iota
	// KindValidation covers rejected input.
	KindValidation
	// KindAuth covers missing, invalid, or expired credentials.
	KindAuth
	// KindNotFound covers lookups of records that do not exist.
	KindNotFound
	// KindConflict covers uniqueness violations (duplicate SKU or username).
	KindConflict
)

// Error is a kind-tagged error with a human-readable message safe to return
// to API clients. Cause, when set, carries the underlying failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation builds a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Auth builds a KindAuth error.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal builds a KindInternal error wrapping cause. The message is what
// clients see; the cause stays server-side.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf reports the kind of err, or KindInternal if err carries no tag.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
