// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"

	"textmark/internal/catalog"
	"textmark/internal/marker"
	"textmark/internal/observability"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Verbose bool // Whether to display per-pattern detail and timings
	NoColor bool // Whether to disable colored output
}

// Location describes where a created bookmark sits in the document
type Location struct {
	Paragraph int    `json:"paragraph" yaml:"paragraph"`
	Page      int    `json:"page,omitempty" yaml:"page,omitempty"`
	Text      string `json:"text" yaml:"text"`
}

// Report is everything a formatter renders for one run
type Report struct {
	RunID    string
	Document string
	Source   string
	Export   string
	Catalogs []catalog.Catalog
	Results  []marker.Result

	// Locations maps bookmark names to what they cover
	Locations map[string]Location

	Stats []observability.OperationStats
}

// Summary totals the report's results
func (r Report) Summary() marker.Summary {
	return marker.Summarize(r.Results)
}

// Catalog returns the catalog a result was produced from
func (r Report) Catalog(prefix string) (catalog.Catalog, bool) {
	for _, c := range r.Catalogs {
		if c.Prefix() == prefix {
			return c, true
		}
	}
	return catalog.Catalog{}, false
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the report in the formatter's output format
	Format(report Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export renders a report with the named formatter from the default registry
func Export(format string, report Report, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(report, options)
}
