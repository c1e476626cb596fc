package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Retryable marks conflicts a caller may safely repeat.
	Retryable bool `json:"retryable,omitempty"`
	cause     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so wrapped copies compare equal to the sentinels
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithMessage returns a copy of the error carrying a more specific message
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Code:      e.Code,
		Message:   fmt.Sprintf(format, args...),
		Retryable: e.Retryable,
		cause:     e.cause,
	}
}

// WithCause returns a copy of the error wrapping cause. The cause is kept for
// logging only; Error() never exposes it.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		cause:     cause,
	}
}

// Error codes
const (
	CodeNotFound                = "NOT_FOUND"
	CodeAlreadyExists           = "ALREADY_EXISTS"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeInvalidState            = "INVALID_STATE"
	CodeDuplicateDocumentNumber = "DUPLICATE_DOCUMENT_NUMBER"
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodePeriodLocked            = "PERIOD_LOCKED"
	CodePeriodNotFound          = "PERIOD_NOT_FOUND"
	CodeOverlappingPeriod       = "OVERLAPPING_PERIOD"
	CodeStoreFailure            = "STORE_FAILURE"
)

// Common domain errors
var (
	ErrNotFound      = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput  = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized  = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden     = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError(CodeInvalidState, "Operation not allowed in current state")

	ErrDuplicateDocumentNumber = &DomainError{
		Code:      CodeDuplicateDocumentNumber,
		Message:   "Document number already issued, please retry",
		Retryable: true,
	}
	ErrInvalidTransition = NewDomainError(CodeInvalidTransition, "Status transition not allowed")
	ErrPeriodLocked      = NewDomainError(CodePeriodLocked, "Payroll period is locked")
	ErrPeriodNotFound    = NewDomainError(CodePeriodNotFound, "Payroll period not found")
	ErrOverlappingPeriod = NewDomainError(CodeOverlappingPeriod, "Payroll period overlaps an existing period")
	ErrStoreFailure      = NewDomainError(CodeStoreFailure, "Storage operation failed")
)

// StoreFailure wraps an infrastructure error without leaking its text
func StoreFailure(cause error) *DomainError {
	return ErrStoreFailure.WithCause(cause)
}

// IsStoreFailure reports whether err came from the storage layer
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreFailure)
}

// IsNotFound reports whether err is a missing-entity error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
