// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

const (
	// OffendingPrefix names bookmarks for words that may offend readers
	OffendingPrefix = "Offending"

	// BadStylePrefix names bookmarks for weak or overused wording
	BadStylePrefix = "BadStyle"
)

var offendingPatterns = []string{
	"negro(e|es)?",
	"bor(ed|ing)?",
	"bloody?",
	"bleed(ing)?",
}

var badStylePatterns = []string{
	"possib(le|ilit(y|ies))",
	"real(ly)+",
	"brilliant",
}

// Offending returns the built-in catalog of offending words
func Offending() Catalog {
	return New(OffendingPrefix, offendingPatterns...).
		WithDescription("Words that may offend readers")
}

// BadStyle returns the built-in catalog of stylistically weak words
func BadStyle() Catalog {
	return New(BadStylePrefix, badStylePatterns...).
		WithDescription("Overused or vague wording")
}

// Builtin returns the reference catalogs in processing order
func Builtin() []Catalog {
	return []Catalog{Offending(), BadStyle()}
}
