// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"strconv"
)

// Catalog is an ordered group of regular expressions that share a bookmark
// name prefix. The position of a pattern in the catalog is its ordinal and
// becomes the numeric suffix of the bookmark created for its match.
//
// A Catalog is immutable once constructed.
type Catalog struct {
	prefix      string
	description string
	patterns    []string
}

// New creates a catalog from a prefix and an ordered list of patterns.
// The patterns slice is copied.
func New(prefix string, patterns ...string) Catalog {
	return Catalog{
		prefix:   prefix,
		patterns: append([]string(nil), patterns...),
	}
}

// WithDescription returns a copy of the catalog carrying a human readable description
func (c Catalog) WithDescription(description string) Catalog {
	c.description = description
	c.patterns = append([]string(nil), c.patterns...)
	return c
}

// Prefix returns the category prefix used for bookmark names
func (c Catalog) Prefix() string {
	return c.prefix
}

// Description returns the optional catalog description
func (c Catalog) Description() string {
	return c.description
}

// Patterns returns a copy of the ordered pattern list
func (c Catalog) Patterns() []string {
	return append([]string(nil), c.patterns...)
}

// Len returns the number of patterns in the catalog
func (c Catalog) Len() int {
	return len(c.patterns)
}

// Pattern returns the pattern at index
func (c Catalog) Pattern(index int) string {
	return c.patterns[index]
}

// BookmarkName returns the bookmark name for the pattern at index.
// The index is the pattern's position in the catalog, never a compacted counter.
func (c Catalog) BookmarkName(index int) string {
	return c.prefix + strconv.Itoa(index)
}

// Definition returns the serializable form of the catalog
func (c Catalog) Definition() Definition {
	return Definition{
		Prefix:      c.prefix,
		Description: c.description,
		Patterns:    c.Patterns(),
	}
}

// Validate checks the catalog prefix and patterns
func (c Catalog) Validate() error {
	return c.Definition().Validate()
}
