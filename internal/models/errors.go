package models

import "fmt"

// ValidationError reports bad input caught before any mutation. Safe to
// retry after correcting the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidStateTransitionError reports an operation attempted from a loan
// status that does not permit it. The operation has no partial effect.
type InvalidStateTransitionError struct {
	Operation string
	From      string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a loan in status %s", e.Operation, e.From)
}

// PartialCommitError reports a multi-step transition that failed after
// some steps applied and could not be rolled back. The data store may
// need manual reconciliation; never retry blindly.
type PartialCommitError struct {
	Operation string
	Err       error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("%s partially applied, manual reconciliation required: %v", e.Operation, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }

// NotFoundError reports a missing loan/member/installment reference.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}
