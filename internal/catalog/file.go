// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a catalog file
type Format int

const (
	// FormatYAML is the default catalog file encoding
	FormatYAML Format = iota
	// FormatTOML is used for .toml files
	FormatTOML
	// FormatJSON is used for .json files
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatForPath picks the catalog file format from the file extension
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// File is the on-disk layout of a catalog file
type File struct {
	Catalogs []Definition `json:"catalogs" yaml:"catalogs" toml:"catalogs"`
}

const fileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["catalogs"],
  "additionalProperties": false,
  "properties": {
    "catalogs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["prefix", "patterns"],
        "additionalProperties": false,
        "properties": {
          "prefix": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "patterns": {
            "type": "array",
            "items": {"type": "string"}
          }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func fileSchemaValidator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("catalogs.json", strings.NewReader(fileSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("catalogs.json")
	})
	return compiledSchema, schemaErr
}

// LoadFile reads and validates a catalog file
func LoadFile(path string) ([]Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}
	catalogs, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return catalogs, nil
}

// LoadFiles loads several catalog files and returns their catalogs in order
func LoadFiles(paths []string) ([]Catalog, error) {
	var all []Catalog
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		catalogs, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, catalogs...)
	}
	return all, nil
}

// Parse decodes catalog file content, checks it against the catalog file
// schema and validates every definition
func Parse(data []byte, format Format) ([]Catalog, error) {
	var raw interface{}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", format, err)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("error normalizing %s: %w", format, err)
	}

	if err := validateAgainstSchema(normalized); err != nil {
		return nil, err
	}

	var file File
	if err := json.Unmarshal(normalized, &file); err != nil {
		return nil, fmt.Errorf("error decoding catalogs: %w", err)
	}
	return FromDefinitions(file.Catalogs)
}

// FromDefinitions builds catalogs from definitions and validates the set
func FromDefinitions(defs []Definition) ([]Catalog, error) {
	catalogs := make([]Catalog, 0, len(defs))
	for _, def := range defs {
		catalogs = append(catalogs, def.Catalog())
	}
	if err := ValidateSet(catalogs); err != nil {
		return nil, err
	}
	return catalogs, nil
}

func validateAgainstSchema(normalized []byte) error {
	schema, err := fileSchemaValidator()
	if err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}

	var instance interface{}
	if err := json.Unmarshal(normalized, &instance); err != nil {
		return err
	}
	if err := schema.Validate(instance); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("schema validation failed: %s", strings.Join(schemaIssues(verr), "; "))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// schemaIssues flattens the leaves of a validation error tree
func schemaIssues(err *jsonschema.ValidationError) []string {
	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "/"
			}
			issues = append(issues, fmt.Sprintf("%s: %s", location, node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
