// Package services defines the business logic for the subject catalog, the
// party directory, the work lifecycle engine, ideas and the support queue.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrNotFound indicates that a referenced id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a duplicate unique key that could not be
	// absorbed by an upsert.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConstraintViolation indicates an operation that would break a
	// store invariant.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDependencyUnavailable wraps every unexpected store failure.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrInvalidInput is returned when input fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// Entity errors.
var (
	ErrSubjectNotFound      = fmt.Errorf("subject %w", ErrNotFound)
	ErrMentorNotFound       = fmt.Errorf("mentor %w", ErrNotFound)
	ErrStudentNotFound      = fmt.Errorf("student %w", ErrNotFound)
	ErrWorkNotFound         = fmt.Errorf("work %w", ErrNotFound)
	ErrIdeaNotFound         = fmt.Errorf("idea %w", ErrNotFound)
	ErrAdminNotFound        = fmt.Errorf("admin %w", ErrNotFound)
	ErrSupportAgentNotFound = fmt.Errorf("support agent %w", ErrNotFound)
	ErrRequestNotFound      = fmt.Errorf("support request %w", ErrNotFound)

	// ErrEmptySubjectName is returned when a subject name is blank after
	// normalisation.
	ErrEmptySubjectName = fmt.Errorf("%w: subject name is empty", ErrInvalidInput)

	// ErrEmptyDescription is returned when a work or idea description is blank.
	ErrEmptyDescription = fmt.Errorf("%w: description is empty", ErrInvalidInput)
)

// storeErr classifies an error coming from the repository layer. Errors that
// already carry a kind pass through; anything else is a store failure.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrNotFound, ErrAlreadyExists, ErrConstraintViolation, ErrDependencyUnavailable, ErrInvalidInput} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
}

// invalid wraps a validation failure as ErrInvalidInput.
func invalid(err error) error {
	if err == nil || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// inTx runs fn in one transaction and classifies the result, so a failed
// BEGIN or COMMIT surfaces as ErrDependencyUnavailable like any other store
// failure.
func inTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	return storeErr(op, db.WithContext(ctx).Transaction(fn))
}
