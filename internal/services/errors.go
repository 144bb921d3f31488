package services

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed or missing input. The caller's fault,
// never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NotFoundError marks a reference to an id that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StateError marks an operation attempted against an entity in the wrong
// lifecycle state, such as completing a mission that never started.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string {
	return e.Msg
}

// TransactionError wraps a storage failure inside an atomic multi-row
// write. The store guarantees all-or-nothing commit, so the caller may
// treat the operation as not-happened and retry the full call.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// wrapTxErr classifies an error coming out of a transaction: domain errors
// pass through untouched, anything else is a storage failure.
func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var stateErr *StateError
	if errors.As(err, &validationErr) || errors.As(err, &notFoundErr) || errors.As(err, &stateErr) {
		return err
	}
	return &TransactionError{Err: err}
}
