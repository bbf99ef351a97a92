// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"textmark/internal/formatters"
	"textmark/internal/formatters/shared"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable run summary with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	var builder strings.Builder

	if len(report.Results) == 0 {
		return "No catalogs to run.", nil
	}

	f.appendDocument(&builder, report, options)
	if options.Verbose {
		for _, result := range report.Results {
			f.appendDetailedCatalog(&builder, shared.Outcomes(report, result), result.Prefix, options)
		}
	} else {
		f.appendTable(&builder, report, options)
	}
	f.appendSummary(&builder, report, options)

	if options.Verbose && len(report.Stats) > 0 {
		f.appendStats(&builder, report, options)
	}
	return builder.String(), nil
}

// paint colors s unless color output is disabled
func (f *Formatter) paint(name string, s string, options formatters.FormatterOptions) string {
	if options.NoColor {
		return s
	}
	return f.colors[name].Sprint(s)
}

func (f *Formatter) appendDocument(builder *strings.Builder, report formatters.Report, options formatters.FormatterOptions) {
	fmt.Fprintf(builder, "%s %s", f.paint("white", "Document:", options), report.Document)
	if report.Source != "" {
		fmt.Fprintf(builder, " (%s)", report.Source)
	}
	builder.WriteString("\n")
	if report.Export != "" {
		fmt.Fprintf(builder, "%s %s\n", f.paint("white", "Exported:", options), report.Export)
	}
}

// appendTable adds one line per catalog
func (f *Formatter) appendTable(builder *strings.Builder, report formatters.Report, options formatters.FormatterOptions) {
	width := len("CATALOG")
	for _, r := range report.Results {
		if len(r.Prefix) > width {
			width = len(r.Prefix)
		}
	}

	header := fmt.Sprintf("%-*s %-9s %-9s %s\n", width, "CATALOG", "CREATED", "WARNINGS", "BOOKMARKS")
	builder.WriteString(f.paint("white", header, options))
	builder.WriteString(f.paint("white", strings.Repeat("-", width+32)+"\n", options))

	for _, r := range report.Results {
		created := fmt.Sprintf("%-9s", fmt.Sprintf("%d/%d", len(r.Created), r.Total))
		warnings := fmt.Sprintf("%-9d", len(r.Warnings))
		if len(r.Warnings) > 0 {
			warnings = f.paint("yellow", warnings, options)
		}
		fmt.Fprintf(builder, "%s %s %s %s\n",
			f.paint("cyan", fmt.Sprintf("%-*s", width, r.Prefix), options),
			f.paint("green", created, options),
			warnings,
			strings.Join(r.Created, ", "))
	}
}

// appendDetailedCatalog adds one line per pattern of a catalog
func (f *Formatter) appendDetailedCatalog(builder *strings.Builder, outcomes []shared.Outcome, prefix string, options formatters.FormatterOptions) {
	fmt.Fprintf(builder, "\n%s (%d patterns)\n", f.paint("white", prefix, options), len(outcomes))

	for _, o := range outcomes {
		status := fmt.Sprintf("[%-16s]", o.Status)
		switch {
		case o.Created():
			status = f.paint("green", status, options)
		case o.Detail != "":
			status = f.paint("red", status, options)
		default:
			status = f.paint("yellow", status, options)
		}

		fmt.Fprintf(builder, "  %s %-14s %s", status, o.Bookmark, f.paint("cyan", o.Pattern, options))
		if o.Location != nil {
			where := fmt.Sprintf("paragraph %d", o.Location.Paragraph+1)
			if o.Location.Page > 0 {
				where += fmt.Sprintf(", page %d", o.Location.Page)
			}
			fmt.Fprintf(builder, "  %q %s", o.Location.Text, f.paint("magenta", where, options))
		}
		if o.Detail != "" {
			fmt.Fprintf(builder, "  %s", o.Detail)
		}
		builder.WriteString("\n")
	}
}

func (f *Formatter) appendSummary(builder *strings.Builder, report formatters.Report, options formatters.FormatterOptions) {
	s := report.Summary()
	line := fmt.Sprintf("%d bookmark(s) created from %d pattern(s) in %d catalog(s), %d warning(s)",
		s.Created, s.Patterns, s.Catalogs, s.Warnings)
	builder.WriteString("\n" + f.paint("white", line, options) + "\n")
}

func (f *Formatter) appendStats(builder *strings.Builder, report formatters.Report, options formatters.FormatterOptions) {
	builder.WriteString("\n" + f.paint("white", "Timings:", options) + "\n")
	for _, s := range report.Stats {
		fmt.Fprintf(builder, "  %-10s %-16s %3d call(s) %5dms", s.Component, s.Operation, s.Count, s.TotalMs)
		if s.Failures > 0 {
			builder.WriteString(f.paint("red", fmt.Sprintf(" %d failed", s.Failures), options))
		}
		builder.WriteString("\n")
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
