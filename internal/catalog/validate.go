// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Definition is the serializable form of a catalog as it appears in
// configuration files and markdown front matter.
type Definition struct {
	Prefix      string   `json:"prefix" yaml:"prefix" toml:"prefix"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Patterns    []string `json:"patterns" yaml:"patterns" toml:"patterns"`
}

var prefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ErrDuplicatePrefix is returned when two catalogs of one run share a prefix
var ErrDuplicatePrefix = errors.New("duplicate catalog prefix")

// Validate checks a single definition.
//
// Prefixes must not end in a digit: "Bad1"+"0" and "Bad"+"10" would
// otherwise produce the same bookmark name. An empty pattern list is valid
// and marks nothing. Pattern syntax is not checked here; malformed patterns
// surface as search warnings when marking.
func (d Definition) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Prefix,
			validation.Required,
			validation.Match(prefixPattern).Error("must start with a letter or '_' and contain only letters, digits, '_', '.' or '-'"),
			validation.By(noTrailingDigit),
		),
		validation.Field(&d.Patterns,
			validation.Each(validation.Required),
		),
	)
}

// Catalog converts the definition into an immutable catalog
func (d Definition) Catalog() Catalog {
	return New(strings.TrimSpace(d.Prefix), d.Patterns...).WithDescription(d.Description)
}

func noTrailingDigit(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	last := rune(s[len(s)-1])
	if unicode.IsDigit(last) {
		return validation.NewError("validation_prefix_trailing_digit", "must not end with a digit")
	}
	return nil
}

// ValidateSet validates every catalog and checks that prefixes are distinct
func ValidateSet(catalogs []Catalog) error {
	seen := make(map[string]int, len(catalogs))
	for i, c := range catalogs {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("catalog %d (%q): %w", i, c.Prefix(), err)
		}
		if first, exists := seen[c.Prefix()]; exists {
			return fmt.Errorf("%w: %q used by catalogs %d and %d", ErrDuplicatePrefix, c.Prefix(), first, i)
		}
		seen[c.Prefix()] = i
	}
	return nil
}

// Merge concatenates catalog sets in order and validates the result
func Merge(sets ...[]Catalog) ([]Catalog, error) {
	var merged []Catalog
	for _, set := range sets {
		merged = append(merged, set...)
	}
	if err := ValidateSet(merged); err != nil {
		return nil, err
	}
	return merged, nil
}
