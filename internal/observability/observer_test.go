// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStartTiming_DebugWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	o := NewStandardObserver(ObservabilityDebug, &buf)

	o.StartTiming("export", "export_docx", "out.docx")(false, map[string]interface{}{
		"error":     errors.New("disk full"),
		"bookmarks": 3,
	})

	var data StandardObservabilityData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if data.Component != "export" || data.Operation != "export_docx" || data.Path != "out.docx" {
		t.Errorf("unexpected record %+v", data)
	}
	if data.Error != "disk full" || data.BookmarkCount != 3 || data.Success {
		t.Errorf("unexpected outcome fields %+v", data)
	}
	if data.RequestID != o.RunID() || !strings.HasPrefix(data.RequestID, "run-") {
		t.Errorf("unexpected request id %q", data.RequestID)
	}
}

func TestMetricsLevel_AggregatesWithoutOutput(t *testing.T) {
	var buf bytes.Buffer
	o := NewStandardObserver(ObservabilityMetrics, &buf)

	o.StartTiming("marker", "mark_all", "A")(true, map[string]interface{}{"bookmarks": 2})
	o.StartTiming("marker", "mark_all", "B")(false, nil)
	o.StartTiming("export", "export_odt", "x.odt")(true, nil)

	if buf.Len() != 0 {
		t.Errorf("metrics level should not write, got %q", buf.String())
	}
	stats := o.Stats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(stats))
	}
	if stats[0].Component != "export" {
		t.Errorf("stats not sorted: %+v", stats)
	}
	m := stats[1]
	if m.Count != 2 || m.Failures != 1 || m.Bookmarks != 2 {
		t.Errorf("unexpected marker stats %+v", m)
	}
}

type namedComponent string

func (n namedComponent) GetComponentName() string { return string(n) }

func TestStartComponent_UsesComponentName(t *testing.T) {
	o := NewStandardObserver(ObservabilityMetrics, nil)
	o.StartComponent(namedComponent("sources"), "load_text", "a.txt")(true, nil)

	stats := o.Stats()
	if len(stats) != 1 || stats[0].Component != "sources" || stats[0].Operation != "load_text" {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestNilAndOffObservers(t *testing.T) {
	var nilObserver *StandardObserver
	nilObserver.StartTiming("a", "b", "c")(true, nil)
	if nilObserver.Stats() != nil || nilObserver.RunID() != "" {
		t.Error("nil observer should be inert")
	}

	off := NewStandardObserver(ObservabilityOff, nil)
	off.StartTiming("a", "b", "c")(true, nil)
	if len(off.Stats()) != 0 {
		t.Error("off observer should not record")
	}
}

func TestDebugObserver_Steps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)

	done := d.StartStep("cli", "load", "story.md")
	d.LogDetail("cli", "3 paragraphs")
	d.LogMetric("cli", "catalogs", 2)
	done(true, "ok")

	out := buf.String()
	for _, want := range []string{"> cli: load (story.md)", "  - cli: 3 paragraphs", "# cli: catalogs = 2", "< cli: load completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
