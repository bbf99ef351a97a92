// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package marker

// Searcher locates the first match of a regular expression in a document.
// L is the opaque location type handed on to a BookmarkSink unchanged.
//
// FindFirst must not mutate the document. It returns ErrNotFound when the
// pattern has no match and a *SearchError when the pattern is malformed or
// the search facility is unavailable.
type Searcher[L any] interface {
	FindFirst(pattern string) (L, error)
}

// BookmarkSink attaches named bookmarks to locations produced by a Searcher.
//
// CreateBookmark anchors the bookmark exactly on loc without altering the
// document text. Failures are reported as *BookmarkError.
type BookmarkSink[L any] interface {
	CreateBookmark(loc L, name string) error
}

// SearchFunc adapts a function to the Searcher interface
type SearchFunc[L any] func(pattern string) (L, error)

// FindFirst calls f(pattern)
func (f SearchFunc[L]) FindFirst(pattern string) (L, error) {
	return f(pattern)
}

// SinkFunc adapts a function to the BookmarkSink interface
type SinkFunc[L any] func(loc L, name string) error

// CreateBookmark calls f(loc, name)
func (f SinkFunc[L]) CreateBookmark(loc L, name string) error {
	return f(loc, name)
}
