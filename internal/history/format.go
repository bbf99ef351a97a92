// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format renders runs as "text", "json" or "yaml"
func Format(runs []Run, format string) (string, error) {
	if runs == nil {
		runs = []Run{}
	}
	switch format {
	case "", "text":
		return formatText(runs), nil
	case "json":
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("history: format json: %w", err)
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(runs)
		if err != nil {
			return "", fmt.Errorf("history: format yaml: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("history: unsupported format '%s' (text, json, yaml)", format)
	}
}

func formatText(runs []Run) string {
	if len(runs) == 0 {
		return "No runs recorded."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-8s %-8s %-8s %s\n", "WHEN", "CREATED", "WARNINGS", "FORMAT", "DOCUMENT")
	for _, r := range runs {
		fmt.Fprintf(&b, "%-20s %-8s %-8d %-8s %s\n",
			r.CreatedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%d/%d", r.Created, r.Patterns),
			r.Warnings,
			r.Format,
			r.Document)
		for _, c := range r.Catalogs {
			fmt.Fprintf(&b, "  %-18s %s\n", c.Prefix, strings.Join(c.Bookmarks, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
