// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"bytes"
	"strings"
	"testing"

	"textmark/internal/catalog"
)

func TestShowGeneralHelp(t *testing.T) {
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowGeneralHelp(Capabilities{
		Formats:    []string{"json", "text"},
		Sources:    []string{".md", ".txt"},
		Exporters:  []string{".docx"},
		ConfigFile: "textmark.yaml",
	})

	out := buf.String()
	for _, want := range []string{"USAGE:", "json, text", ".md, .txt", ".docx", "Active: textmark.yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("no escape codes expected with color disabled")
	}
}

func TestShowCatalogs(t *testing.T) {
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowCatalogs(catalog.Builtin())

	out := buf.String()
	for _, want := range []string{"Offending (4 patterns)", "Offending1", "bor(ed|ing)?", "BadStyle2", "brilliant"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog listing missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	NewSystem(&buf, true).ShowCatalogs(nil)
	if strings.TrimSpace(buf.String()) != "No catalogs configured." {
		t.Errorf("unexpected empty listing %q", buf.String())
	}
}
