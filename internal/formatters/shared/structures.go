// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"textmark/internal/formatters"
	"textmark/internal/marker"
	"textmark/internal/observability"
)

// StatusCreated marks an outcome whose pattern produced a bookmark
const StatusCreated = "created"

// Outcome is the result of one pattern of one catalog
type Outcome struct {
	Prefix   string               `json:"-" yaml:"-"`
	Index    int                  `json:"index" yaml:"index"`
	Bookmark string               `json:"bookmark" yaml:"bookmark"`
	Pattern  string               `json:"pattern" yaml:"pattern"`
	Status   string               `json:"status" yaml:"status"`
	Detail   string               `json:"detail,omitempty" yaml:"detail,omitempty"`
	Location *formatters.Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Created reports whether the pattern produced a bookmark
func (o Outcome) Created() bool {
	return o.Status == StatusCreated
}

// Outcomes expands a result into one outcome per catalog position
func Outcomes(report formatters.Report, result marker.Result) []Outcome {
	c, hasCatalog := report.Catalog(result.Prefix)

	warnings := make(map[int]marker.Warning, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings[w.Index] = w
	}

	outcomes := make([]Outcome, 0, result.Total)
	for index := 0; index < result.Total; index++ {
		o := Outcome{Prefix: result.Prefix, Index: index}
		if hasCatalog && index < c.Len() {
			o.Pattern = c.Pattern(index)
			o.Bookmark = c.BookmarkName(index)
		}

		if w, failed := warnings[index]; failed {
			o.Pattern = w.Pattern
			o.Status = w.Reason.String()
			o.Detail = w.Detail
		} else {
			o.Status = StatusCreated
			if loc, ok := report.Locations[o.Bookmark]; ok {
				o.Location = &loc
			}
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// AllOutcomes expands every result of the report in catalog order
func AllOutcomes(report formatters.Report) []Outcome {
	var all []Outcome
	for _, result := range report.Results {
		all = append(all, Outcomes(report, result)...)
	}
	return all
}

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	RunID    string                         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Document string                         `json:"document" yaml:"document"`
	Source   string                         `json:"source,omitempty" yaml:"source,omitempty"`
	Export   string                         `json:"export,omitempty" yaml:"export,omitempty"`
	Summary  marker.Summary                 `json:"summary" yaml:"summary"`
	Catalogs []JSONCatalog                  `json:"catalogs" yaml:"catalogs"`
	Stats    []observability.OperationStats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// JSONCatalog represents one catalog's result in JSON/YAML format
type JSONCatalog struct {
	Prefix   string        `json:"prefix" yaml:"prefix"`
	Total    int           `json:"total" yaml:"total"`
	Created  []string      `json:"created" yaml:"created"`
	Warnings []JSONWarning `json:"warnings" yaml:"warnings"`
	Patterns []Outcome     `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// JSONWarning represents a pattern that produced no bookmark
type JSONWarning struct {
	Index   int    `json:"index" yaml:"index"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Reason  string `json:"reason" yaml:"reason"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ConvertReport builds the JSON/YAML structure for a report. Verbose adds
// per-pattern outcomes and operation timings.
func ConvertReport(report formatters.Report, options formatters.FormatterOptions) JSONResponse {
	response := JSONResponse{
		RunID:    report.RunID,
		Document: report.Document,
		Source:   report.Source,
		Export:   report.Export,
		Summary:  report.Summary(),
		Catalogs: make([]JSONCatalog, 0, len(report.Results)),
	}

	for _, result := range report.Results {
		jc := JSONCatalog{
			Prefix:   result.Prefix,
			Total:    result.Total,
			Created:  append([]string{}, result.Created...),
			Warnings: make([]JSONWarning, 0, len(result.Warnings)),
		}
		for _, w := range result.Warnings {
			jc.Warnings = append(jc.Warnings, JSONWarning{
				Index:   w.Index,
				Pattern: w.Pattern,
				Reason:  w.Reason.String(),
				Detail:  w.Detail,
			})
		}
		if options.Verbose {
			jc.Patterns = Outcomes(report, result)
		}
		response.Catalogs = append(response.Catalogs, jc)
	}

	if options.Verbose {
		response.Stats = report.Stats
	}
	return response
}
