// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"

	"textmark/internal/marker"
)

var (
	errSinkClosed = errors.New("bookmark sink closed")
	errEmptyName  = errors.New("bookmark name is empty")
)

// Sink adds bookmarks to a document
type Sink struct {
	doc    *Document
	closed bool
}

var _ marker.BookmarkSink[Range] = (*Sink)(nil)

// NewSink creates a sink writing into doc
func NewSink(doc *Document) *Sink {
	return &Sink{doc: doc}
}

// CreateBookmark anchors a bookmark named name on r. The document text is
// left untouched.
func (s *Sink) CreateBookmark(r Range, name string) error {
	if s.closed || s.doc == nil {
		return marker.NewBookmarkError(marker.KindUnavailable, name, errSinkClosed)
	}
	if name == "" {
		return marker.NewBookmarkError(marker.KindInvalidAnchor, name, errEmptyName)
	}
	if s.doc.HasBookmark(name) {
		return marker.NewBookmarkError(marker.KindDuplicateName, name, nil)
	}
	if err := s.doc.checkRange(r); err != nil {
		return marker.NewBookmarkError(marker.KindInvalidAnchor, name, err)
	}
	s.doc.addBookmark(Bookmark{Name: name, Range: r})
	return nil
}

// Close stops the sink from accepting bookmarks
func (s *Sink) Close() error {
	s.closed = true
	return nil
}
