// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"textmark/internal/catalog"
	"textmark/internal/formatters"
	_ "textmark/internal/formatters/csv"
	_ "textmark/internal/formatters/json"
	"textmark/internal/formatters/junit"
	"textmark/internal/formatters/shared"
	_ "textmark/internal/formatters/text"
	_ "textmark/internal/formatters/yaml"
	"textmark/internal/marker"
	"textmark/internal/observability"
)

func sampleReport() formatters.Report {
	return formatters.Report{
		RunID:    "run-1",
		Document: "story.txt",
		Source:   "text",
		Catalogs: []catalog.Catalog{
			catalog.New("Offending", "cat", "(bad", "dog"),
			catalog.New("Style", "very"),
		},
		Results: []marker.Result{
			{
				Prefix:  "Offending",
				Total:   3,
				Created: []string{"Offending0"},
				Warnings: []marker.Warning{
					{Index: 1, Pattern: "(bad", Reason: marker.ReasonSearchFailed, Detail: "missing closing )"},
					{Index: 2, Pattern: "dog", Reason: marker.ReasonNotFound},
				},
			},
			{Prefix: "Style", Total: 1, Created: []string{"Style0"}, Warnings: []marker.Warning{}},
		},
		Locations: map[string]formatters.Location{
			"Offending0": {Paragraph: 0, Page: 2, Text: "cat"},
			"Style0":     {Paragraph: 1, Text: "very"},
		},
		Stats: []observability.OperationStats{{Component: "marker", Operation: "mark_all", Count: 2, TotalMs: 1}},
	}
}

func TestRegistry_DefaultFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "junit", "text", "yaml"}, formatters.List())

	_, err := formatters.Export("html", sampleReport(), formatters.FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available formats: csv, json, junit, text, yaml")
}

func TestOutcomes(t *testing.T) {
	report := sampleReport()
	outcomes := shared.Outcomes(report, report.Results[0])
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].Created())
	assert.Equal(t, "Offending0", outcomes[0].Bookmark)
	require.NotNil(t, outcomes[0].Location)
	assert.Equal(t, "cat", outcomes[0].Location.Text)

	assert.Equal(t, "search_failed", outcomes[1].Status)
	assert.Equal(t, "Offending1", outcomes[1].Bookmark)
	assert.Equal(t, "not_found", outcomes[2].Status)
	assert.Nil(t, outcomes[2].Location)
}

func TestJSONFormat(t *testing.T) {
	out, err := formatters.Export("json", sampleReport(), formatters.FormatterOptions{})
	require.NoError(t, err)

	var response shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, marker.Summary{Catalogs: 2, Patterns: 4, Created: 2, Warnings: 2}, response.Summary)
	require.Len(t, response.Catalogs, 2)
	assert.Equal(t, "search_failed", response.Catalogs[0].Warnings[0].Reason)
	assert.Empty(t, response.Catalogs[0].Patterns, "patterns only appear in verbose output")
	assert.Empty(t, response.Stats)

	verbose, err := formatters.Export("json", sampleReport(), formatters.FormatterOptions{Verbose: true})
	require.NoError(t, err)
	assert.Contains(t, verbose, `"patterns"`)
	assert.Contains(t, verbose, `"mark_all"`)
}

func TestYAMLFormat_MatchesJSONStructure(t *testing.T) {
	out, err := formatters.Export("yaml", sampleReport(), formatters.FormatterOptions{})
	require.NoError(t, err)

	var response shared.JSONResponse
	require.NoError(t, yaml.Unmarshal([]byte(out), &response))
	assert.Equal(t, "story.txt", response.Document)
	assert.Equal(t, []string{"Style0"}, response.Catalogs[1].Created)
}

func TestTextFormat(t *testing.T) {
	out, err := formatters.Export("text", sampleReport(), formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, out, "Document: story.txt (text)")
	assert.Contains(t, out, "Offending")
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "2 bookmark(s) created from 4 pattern(s) in 2 catalog(s), 2 warning(s)")
	assert.NotContains(t, out, "\x1b[", "no escape codes when color is off")

	verbose, err := formatters.Export("text", sampleReport(), formatters.FormatterOptions{NoColor: true, Verbose: true})
	require.NoError(t, err)
	assert.Contains(t, verbose, `"cat" paragraph 1, page 2`)
	assert.Contains(t, verbose, "missing closing )")
	assert.Contains(t, verbose, "Timings:")

	empty, err := formatters.Export("text", formatters.Report{}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "No catalogs to run.", empty)
}

func TestCSVFormat(t *testing.T) {
	out, err := formatters.Export("csv", sampleReport(), formatters.FormatterOptions{})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Prefix,Index,Bookmark,Pattern,Status", lines[0])
	assert.Equal(t, "Offending,0,Offending0,cat,created", lines[1])
	assert.Equal(t, "Offending,1,Offending1,(bad,search_failed", lines[2])

	verbose, err := formatters.Export("csv", sampleReport(), formatters.FormatterOptions{Verbose: true})
	require.NoError(t, err)
	assert.Contains(t, verbose, "Offending,0,Offending0,cat,created,0,2,cat,")
}

func TestJUnitFormat(t *testing.T) {
	out, err := formatters.Export("junit", sampleReport(), formatters.FormatterOptions{})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, xml.Header))

	var suites junit.TestSuites
	require.NoError(t, xml.Unmarshal([]byte(strings.TrimPrefix(out, xml.Header)), &suites))
	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 2, suites.Failures)
	assert.Equal(t, 1, suites.Errors)

	offending := suites.TestSuites[0]
	require.Len(t, offending.TestCases, 3)
	require.NotNil(t, offending.TestCases[0].Failure)
	assert.Contains(t, offending.TestCases[0].Failure.Content, "paragraph 1 (page 2)")
	require.NotNil(t, offending.TestCases[1].Error)
	assert.Nil(t, offending.TestCases[2].Failure)
	assert.Nil(t, offending.TestCases[2].Error)
}
