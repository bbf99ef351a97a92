// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package marker

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Searcher when a pattern has no match
var ErrNotFound = errors.New("no match found")

// SearchError reports a malformed pattern or an unavailable search facility
type SearchError struct {
	// Pattern is the expression that was searched for
	Pattern string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *SearchError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("search failed for pattern %q", e.Pattern)
	}
	return fmt.Sprintf("search failed for pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying error
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// NewSearchError creates a SearchError
func NewSearchError(pattern string, cause error) *SearchError {
	return &SearchError{Pattern: pattern, Cause: cause}
}

// BookmarkErrorKind classifies bookmark creation failures
type BookmarkErrorKind int

const (
	// KindDuplicateName means the document already has a bookmark with that name
	KindDuplicateName BookmarkErrorKind = iota

	// KindUnavailable means the sink cannot accept bookmarks
	KindUnavailable

	// KindInvalidAnchor means the location does not describe text in the document
	KindInvalidAnchor
)

// String returns the string representation of the kind
func (k BookmarkErrorKind) String() string {
	switch k {
	case KindDuplicateName:
		return "duplicate_name"
	case KindUnavailable:
		return "unavailable"
	case KindInvalidAnchor:
		return "invalid_anchor"
	default:
		return "unknown"
	}
}

// BookmarkError reports a failed bookmark creation
type BookmarkError struct {
	// Kind is the failure class
	Kind BookmarkErrorKind

	// Name is the bookmark name that was requested
	Name string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface
func (e *BookmarkError) Error() string {
	msg := fmt.Sprintf("[%s] cannot create bookmark %q", e.Kind, e.Name)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *BookmarkError) Unwrap() error {
	return e.Cause
}

// Is matches another *BookmarkError of the same kind, so callers can write
// errors.Is(err, &BookmarkError{Kind: KindDuplicateName}).
func (e *BookmarkError) Is(target error) bool {
	t, ok := target.(*BookmarkError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Name == "" || t.Name == e.Name)
}

// NewBookmarkError creates a BookmarkError
func NewBookmarkError(kind BookmarkErrorKind, name string, cause error) *BookmarkError {
	return &BookmarkError{Kind: kind, Name: name, Cause: cause}
}
