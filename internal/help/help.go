// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"textmark/internal/catalog"
)

// Capabilities lists what the running binary supports
type Capabilities struct {
	Formats    []string // report formats
	Sources    []string // readable document extensions
	Exporters  []string // writable document extensions
	ConfigFile string   // config file found for this run, if any
}

// System renders help content for the application
type System struct {
	out     io.Writer
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	return &System{
		out:     out,
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":   color.New(color.FgWhite, color.Bold),
			"header":  color.New(color.FgBlue, color.Bold),
			"item":    color.New(color.FgCyan),
			"example": color.New(color.FgMagenta),
		},
	}
}

func (h *System) println(name, s string) {
	if h.noColor {
		fmt.Fprintln(h.out, s)
		return
	}
	h.colors[name].Fprintln(h.out, s)
}

// ShowGeneralHelp displays usage, options and examples
func (h *System) ShowGeneralHelp(caps Capabilities) {
	h.println("title", "textmark - bookmark wording that needs review")
	fmt.Fprintln(h.out)
	h.println("header", "USAGE:")
	fmt.Fprintln(h.out, "  textmark [--file <document>] [options]")
	fmt.Fprintln(h.out)

	h.println("header", "OPTIONS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  --file\t<path>\tDocument to mark: %s (default: built-in example story)\n", strings.Join(caps.Sources, ", "))
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles in config file")
	fmt.Fprintln(w, "  --catalogs\t<files>\tComma separated catalog files (YAML, TOML, JSON)")
	fmt.Fprintln(w, "  --list-catalogs\t\tPrint the catalogs of this run and exit")
	fmt.Fprintf(w, "  --format\t<format>\tReport format: %s (default: text)\n", strings.Join(caps.Formats, ", "))
	fmt.Fprintln(w, "  --output\t<path>\tWrite the report to a file instead of stdout")
	fmt.Fprintf(w, "  --export\t<path>\tWrite the marked document: %s\n", strings.Join(caps.Exporters, ", "))
	fmt.Fprintln(w, "\t\t\tNote: .pdf export adds outline entries and needs a PDF input")
	fmt.Fprintln(w, "  --case-sensitive\t\tMatch patterns case sensitively")
	fmt.Fprintln(w, "  --verbose\t\tReport every pattern and operation timings")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging and step output")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --history\t\tRecord the run in the history database")
	fmt.Fprintln(w, "  --show-history\t\tPrint recorded runs and exit")
	fmt.Fprintln(w, "  --watch\t\tRe-run whenever --file changes")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	w.Flush()

	fmt.Fprintln(h.out)
	h.println("header", "EXAMPLES:")
	h.println("example", "    textmark")
	h.println("example", "    textmark --file draft.docx --export marked/draft.docx")
	h.println("example", "    textmark --file notes.md --catalogs jargon.yaml --format json")
	h.println("example", "    textmark --file report.pdf --export report-marked.pdf --history")
	h.println("example", "    textmark --file chapter.odt --watch --verbose")

	fmt.Fprintln(h.out)
	h.println("header", "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Project config: textmark.yaml or .textmark.yaml (in current directory)")
	fmt.Fprintln(h.out, "  Environment: TEXTMARK_CONFIG_DIR - Override config directory")
	if caps.ConfigFile != "" {
		fmt.Fprintf(h.out, "  Active: %s\n", caps.ConfigFile)
	}
}

// ShowCatalogs lists catalogs with the bookmark name of every pattern
func (h *System) ShowCatalogs(catalogs []catalog.Catalog) {
	if len(catalogs) == 0 {
		fmt.Fprintln(h.out, "No catalogs configured.")
		return
	}

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for i, c := range catalogs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d patterns)", c.Prefix(), c.Len())
		if !h.noColor {
			title = h.colors["title"].Sprint(title)
		}
		fmt.Fprintf(w, "%s\t%s\n", title, c.Description())
		for index, pattern := range c.Patterns() {
			name := c.BookmarkName(index)
			if !h.noColor {
				name = h.colors["item"].Sprint(name)
			}
			fmt.Fprintf(w, "  %s\t%s\n", name, pattern)
		}
	}
	w.Flush()
}
