// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package marker

import (
	"errors"
	"fmt"
)

// Reason explains why a pattern produced no bookmark
type Reason int

const (
	// ReasonNotFound means the pattern had no match
	ReasonNotFound Reason = iota

	// ReasonSearchFailed means the pattern was malformed or search was unavailable
	ReasonSearchFailed

	// ReasonDuplicateName means a bookmark with the generated name already exists
	ReasonDuplicateName

	// ReasonSinkUnavailable means the bookmark sink could not be reached
	ReasonSinkUnavailable

	// ReasonInvalidAnchor means the sink rejected the match location
	ReasonInvalidAnchor
)

var reasonNames = map[Reason]string{
	ReasonNotFound:        "not_found",
	ReasonSearchFailed:    "search_failed",
	ReasonDuplicateName:   "duplicate_name",
	ReasonSinkUnavailable: "sink_unavailable",
	ReasonInvalidAnchor:   "invalid_anchor",
}

// String returns the string representation of the reason
func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the reason by name in JSON and YAML reports
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a reason name
func (r *Reason) UnmarshalText(text []byte) error {
	for reason, name := range reasonNames {
		if name == string(text) {
			*r = reason
			return nil
		}
	}
	return fmt.Errorf("unknown reason %q", string(text))
}

// reasonFor classifies a port error. Errors that are neither a SearchError
// nor a BookmarkError are treated as search failures when they come from
// the searcher and as sink unavailability when they come from the sink.
func reasonFor(err error, fromSink bool) Reason {
	if errors.Is(err, ErrNotFound) {
		return ReasonNotFound
	}
	var be *BookmarkError
	if errors.As(err, &be) {
		switch be.Kind {
		case KindDuplicateName:
			return ReasonDuplicateName
		case KindInvalidAnchor:
			return ReasonInvalidAnchor
		default:
			return ReasonSinkUnavailable
		}
	}
	if fromSink {
		return ReasonSinkUnavailable
	}
	return ReasonSearchFailed
}

// Warning records a pattern that did not produce a bookmark
type Warning struct {
	Index   int    `json:"index" yaml:"index"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Reason  Reason `json:"reason" yaml:"reason"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Err     error  `json:"-" yaml:"-"`
}

// Result is the outcome of marking one catalog
type Result struct {
	Prefix   string    `json:"prefix" yaml:"prefix"`
	Total    int       `json:"total" yaml:"total"`
	Created  []string  `json:"created" yaml:"created"`
	Warnings []Warning `json:"warnings" yaml:"warnings"`
}

// WarningsFor returns the warnings carrying the given reason
func (r Result) WarningsFor(reason Reason) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Reason == reason {
			out = append(out, w)
		}
	}
	return out
}

// Summary aggregates several results
type Summary struct {
	Catalogs int `json:"catalogs" yaml:"catalogs"`
	Patterns int `json:"patterns" yaml:"patterns"`
	Created  int `json:"created" yaml:"created"`
	Warnings int `json:"warnings" yaml:"warnings"`
}

// Summarize totals a set of results
func Summarize(results []Result) Summary {
	s := Summary{Catalogs: len(results)}
	for _, r := range results {
		s.Patterns += r.Total
		s.Created += len(r.Created)
		s.Warnings += len(r.Warnings)
	}
	return s
}
