// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StandardObserver times operations of the marking pipeline. One observer
// serves one run and stamps every record with the run's id.
type StandardObserver struct {
	level  ObservabilityLevel
	writer io.Writer
	runID  string

	mu    sync.Mutex
	stats map[string]*OperationStats
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	if writer == nil {
		writer = io.Discard
	}
	return &StandardObserver{
		level:  level,
		writer: writer,
		runID:  "run-" + uuid.NewString(),
		stats:  make(map[string]*OperationStats),
	}
}

// RunID returns the id attached to every record of this observer
func (o *StandardObserver) RunID() string {
	if o == nil {
		return ""
	}
	return o.runID
}

// Level returns the configured level
func (o *StandardObserver) Level() ObservabilityLevel {
	if o == nil {
		return ObservabilityOff
	}
	return o.level
}

// StartTiming returns a function to complete timing. A nil observer
// returns a no-op so callers need not check.
func (o *StandardObserver) StartTiming(component, operation, path string) func(success bool, metadata map[string]interface{}) {
	if o == nil || o.level == ObservabilityOff {
		return func(bool, map[string]interface{}) {}
	}
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		data := StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Path:       path,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		}
		if metadata != nil {
			switch e := metadata["error"].(type) {
			case error:
				data.Error = e.Error()
				delete(metadata, "error")
			case string:
				data.Error = e
				delete(metadata, "error")
			}
			if n, ok := metadata["bookmarks"].(int); ok {
				data.BookmarkCount = n
			}
		}

		o.LogOperation(data)
	}
}

// LogOperation records operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level == ObservabilityOff {
		return
	}

	data.RequestID = o.runID
	o.record(data)

	// Only log JSON in debug mode
	if o.level == ObservabilityDebug {
		o.mu.Lock()
		_ = json.NewEncoder(o.writer).Encode(data)
		o.mu.Unlock()
	}
}

func (o *StandardObserver) record(data StandardObservabilityData) {
	key := data.Component + "." + data.Operation

	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.stats[key]
	if !ok {
		s = &OperationStats{Component: data.Component, Operation: data.Operation}
		o.stats[key] = s
	}
	s.Count++
	if !data.Success {
		s.Failures++
	}
	s.TotalMs += data.DurationMs
	s.Bookmarks += data.BookmarkCount
}

// Stats returns the aggregated timings sorted by component and operation
func (o *StandardObserver) Stats() []OperationStats {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]OperationStats, 0, len(o.stats))
	for _, s := range o.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Component != out[j].Component {
			return out[i].Component < out[j].Component
		}
		return out[i].Operation < out[j].Operation
	})
	return out
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component     string                 `json:"component"`
	Operation     string                 `json:"operation"`
	RequestID     string                 `json:"request_id"`
	Path          string                 `json:"path,omitempty"`
	DurationMs    int64                  `json:"duration_ms,omitempty"`
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	BookmarkCount int                    `json:"bookmark_count,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// OperationStats aggregates every record of one component operation
type OperationStats struct {
	Component string `json:"component"`
	Operation string `json:"operation"`
	Count     int    `json:"count"`
	Failures  int    `json:"failures"`
	TotalMs   int64  `json:"total_ms"`
	Bookmarks int    `json:"bookmarks"`
}
