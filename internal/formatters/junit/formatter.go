// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package junit

import (
	"encoding/xml"
	"fmt"
	"strings"

	"textmark/internal/formatters"
	"textmark/internal/formatters/shared"
	"textmark/internal/marker"
)

// JUnit XML structures based on the standard JUnit XML schema
type TestSuites struct {
	XMLName    xml.Name    `xml:"testsuites"`
	Name       string      `xml:"name,attr"`
	Tests      int         `xml:"tests,attr"`
	Failures   int         `xml:"failures,attr"`
	Errors     int         `xml:"errors,attr"`
	Time       string      `xml:"time,attr"`
	TestSuites []TestSuite `xml:"testsuite"`
}

type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Errors    int        `xml:"errors,attr"`
	Time      string     `xml:"time,attr"`
	TestCases []TestCase `xml:"testcase"`
}

type TestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      string   `xml:"time,attr"`
	Failure   *Failure `xml:"failure,omitempty"`
	Error     *Failure `xml:"error,omitempty"`
}

type Failure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Formatter implements JUnit XML output formatting. Each catalog is a
// suite and each pattern a test case: a match fails the case, a pattern
// that could not be searched or bookmarked is an error.
type Formatter struct{}

// NewFormatter creates a new JUnit XML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "junit"
}

func (f *Formatter) Description() string {
	return "JUnit XML for CI pipelines, one test case per pattern"
}

func (f *Formatter) FileExtension() string {
	return ".xml"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	testSuites := TestSuites{
		Name:       "textmark",
		Time:       "0.000",
		TestSuites: []TestSuite{},
	}

	for _, result := range report.Results {
		suite := TestSuite{
			Name:      result.Prefix,
			Time:      "0.000",
			TestCases: []TestCase{},
		}

		for _, o := range shared.Outcomes(report, result) {
			testCase := TestCase{
				Name:      f.caseName(o),
				ClassName: "textmark." + o.Prefix,
				Time:      "0.000",
			}

			switch {
			case o.Created():
				testCase.Failure = f.matchFailure(o, options)
				suite.Failures++
			case o.Status == marker.ReasonNotFound.String():
				// no match passes
			default:
				testCase.Error = &Failure{
					Message: o.Status,
					Type:    o.Status,
					Content: o.Detail,
				}
				suite.Errors++
			}

			suite.TestCases = append(suite.TestCases, testCase)
			suite.Tests++
		}

		testSuites.TestSuites = append(testSuites.TestSuites, suite)
		testSuites.Tests += suite.Tests
		testSuites.Failures += suite.Failures
		testSuites.Errors += suite.Errors
	}

	xmlData, err := xml.MarshalIndent(testSuites, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JUnit XML: %w", err)
	}

	return xml.Header + string(xmlData), nil
}

func (f *Formatter) caseName(o shared.Outcome) string {
	if o.Bookmark != "" {
		return o.Bookmark
	}
	return fmt.Sprintf("%s#%d", o.Prefix, o.Index)
}

func (f *Formatter) matchFailure(o shared.Outcome, options formatters.FormatterOptions) *Failure {
	var content strings.Builder
	fmt.Fprintf(&content, "Pattern %q matched", o.Pattern)
	if o.Location != nil {
		fmt.Fprintf(&content, " in paragraph %d", o.Location.Paragraph+1)
		if o.Location.Page > 0 {
			fmt.Fprintf(&content, " (page %d)", o.Location.Page)
		}
		if options.Verbose {
			fmt.Fprintf(&content, "\nMatch: %s", o.Location.Text)
		}
	}

	return &Failure{
		Message: o.Bookmark + " marked",
		Type:    o.Prefix,
		Content: content.String(),
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
