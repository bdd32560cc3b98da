package service

import (
	"errors"

	"github.com/rescuelink/api/internal/repository"
	"github.com/rescuelink/api/internal/validation"
)

// Error kinds. Match with errors.Is; the API layer maps each one to a status code.
var (
	ErrValidation   = errors.New("validation failed")
	ErrReference    = errors.New("invalid reference")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream failure")
	ErrUnavailable  = errors.New("unavailable")
)

// Error is a classified service failure with a user-facing message.
type Error struct {
	kind    error
	message string
	Fields  []validation.FieldError
	cause   error
}

func newError(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Message is safe to show to clients; it never includes the cause.
func (e *Error) Message() string {
	return e.message
}

func (e *Error) Kind() error {
	return e.kind
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ValidationError carries every failing field, never just the first.
func ValidationError(fields []validation.FieldError) *Error {
	return &Error{kind: ErrValidation, message: "Validation failed", Fields: fields}
}

// upstream wraps a store or provider failure. Values the store could not parse
// are the caller's fault and come back as a validation failure.
func upstream(message string, cause error) *Error {
	if errors.Is(cause, repository.ErrInvalidInput) {
		return &Error{
			kind:    ErrValidation,
			message: "Validation failed",
			Fields:  []validation.FieldError{{Field: "id", Message: "id must be a valid UUID"}},
			cause:   cause,
		}
	}
	return &Error{kind: ErrUpstream, message: message, cause: cause}
}

var (
	ErrCaseNotFound         = newError(ErrNotFound, "Rescue case not found")
	ErrCaseAlreadyAssigned  = newError(ErrConflict, "Rescue case already assigned")
	ErrCaseClosed           = newError(ErrConflict, "Rescue case is already closed")
	ErrOwnCase              = newError(ErrForbidden, "You cannot take your own case")
	ErrNotAssignedVolunteer = newError(ErrForbidden, "You are not assigned to this case")
	ErrReporterMismatch     = newError(ErrForbidden, "reporter_user_id must match the authenticated user")
	ErrDuplicateEntry       = newError(ErrConflict, "Duplicate entry")
	ErrInvalidUserReference = newError(ErrReference, "Invalid user reference")

	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrEmailAlreadyExists = newError(ErrConflict, "Email already registered")
	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid credentials")
	ErrInvalidToken       = newError(ErrUnauthorized, "Unauthorized - invalid token")

	ErrDonationNotFound = newError(ErrNotFound, "Donation request not found")
	ErrNotDonationOwner = newError(ErrForbidden, "You do not own this donation request")
	ErrDonationClosed   = newError(ErrConflict, "Donation request is already closed")
	ErrOwnerMismatch    = newError(ErrForbidden, "user_id must match the authenticated user")

	ErrStorageDisabled = newError(ErrUnavailable, "Image uploads are not configured")
)
