// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"strconv"
	"strings"

	"textmark/internal/formatters"
	"textmark/internal/formatters/shared"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "One row per pattern for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	headers := []string{"Prefix", "Index", "Bookmark", "Pattern", "Status"}
	if options.Verbose {
		headers = append(headers, "Paragraph", "Page", "Text", "Detail")
	}
	rows := []string{strings.Join(headers, ",")}

	for _, o := range shared.AllOutcomes(report) {
		row := []string{
			f.escapeCSVField(o.Prefix),
			strconv.Itoa(o.Index),
			f.escapeCSVField(o.Bookmark),
			f.escapeCSVField(o.Pattern),
			o.Status,
		}
		if options.Verbose {
			paragraph, page, text := "", "", ""
			if o.Location != nil {
				paragraph = strconv.Itoa(o.Location.Paragraph)
				if o.Location.Page > 0 {
					page = strconv.Itoa(o.Location.Page)
				}
				text = o.Location.Text
			}
			row = append(row, paragraph, page, f.escapeCSVField(text), f.escapeCSVField(o.Detail))
		}
		rows = append(rows, strings.Join(row, ","))
	}

	return strings.Join(rows, "\n"), nil
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	if strings.ContainsAny(field, ",\"\n\r") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

// sanitizeFormulaInjection prefixes fields a spreadsheet would run as a formula
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
