// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"fmt"
	"regexp"

	"textmark/internal/marker"
)

// SearchOptions controls how patterns are interpreted
type SearchOptions struct {
	// CaseSensitive disables the default case-insensitive matching
	CaseSensitive bool
}

type compiled struct {
	re  *regexp.Regexp
	err error
}

// Searcher finds regular expression matches in a document. Patterns use
// RE2 syntax and are compiled once per searcher. Matches never cross a
// paragraph boundary and empty matches are ignored.
type Searcher struct {
	doc   *Document
	opts  SearchOptions
	cache map[string]compiled
}

var _ marker.Searcher[Range] = (*Searcher)(nil)

// NewSearcher creates a searcher over doc
func NewSearcher(doc *Document, opts SearchOptions) *Searcher {
	return &Searcher{
		doc:   doc,
		opts:  opts,
		cache: make(map[string]compiled),
	}
}

// FindFirst returns the first non-empty match of pattern in document order
func (s *Searcher) FindFirst(pattern string) (Range, error) {
	if s.doc == nil {
		return Range{}, marker.NewSearchError(pattern, errors.New("no document open"))
	}

	re, err := s.compile(pattern)
	if err != nil {
		return Range{}, marker.NewSearchError(pattern, err)
	}

	for i, text := range s.doc.paragraphs {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[1] > loc[0] {
				return Range{Paragraph: i, Start: loc[0], End: loc[1]}, nil
			}
		}
	}
	return Range{}, marker.ErrNotFound
}

func (s *Searcher) compile(pattern string) (*regexp.Regexp, error) {
	if c, ok := s.cache[pattern]; ok {
		return c.re, c.err
	}

	expr := pattern
	if !s.opts.CaseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		err = fmt.Errorf("invalid pattern: %w", err)
	}
	s.cache[pattern] = compiled{re: re, err: err}
	return re, err
}
