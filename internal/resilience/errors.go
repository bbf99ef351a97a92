// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown   ErrorType = iota
	ErrorTypeTransient           // Locked or busy database, contention
	ErrorTypePermanent           // Constraint violations, schema errors
	ErrorTypeCanceled            // Context canceled or deadline exceeded
)

// String returns the name of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUnknown:
		return "Unknown"
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Original == nil {
		return e.Type.String()
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// ClassifyError categorizes an error for appropriate handling.
// SQLite busy and locked errors are transient; everything else is not retried.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ClassifiedError{Original: err, Type: ErrorTypeCanceled}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return &ClassifiedError{
				Original:  err,
				Type:      ErrorTypeTransient,
				Retryable: true,
			}
		case sqlite3.ErrConstraint, sqlite3.ErrReadonly, sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
			return &ClassifiedError{Original: err, Type: ErrorTypePermanent}
		}
	}

	return &ClassifiedError{Original: err, Type: ErrorTypeUnknown}
}

// NewTransientError creates an error that will be retried
func NewTransientError(message string, original error) *ClassifiedError {
	return &ClassifiedError{
		Original:  original,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates an error that will not be retried
func NewPermanentError(message string, original error) *ClassifiedError {
	return &ClassifiedError{
		Original:  original,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}
