// Package testutil holds helpers shared by package tests.
package testutil

import (
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a debug logger bound to t. Output only shows for
// failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	logger, _ := NewLogRecorder(t)
	return logger
}

// LogRecorder keeps every log line written through its logger and mirrors
// them to t.Log.
type LogRecorder struct {
	t     testing.TB
	mu    sync.Mutex
	lines []string
}

// NewLogRecorder returns a debug logger and the recorder behind it.
func NewLogRecorder(t testing.TB) (*slog.Logger, *LogRecorder) {
	t.Helper()
	r := &LogRecorder{t: t}
	handler := slog.NewTextHandler(r, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), r
}

func (r *LogRecorder) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
	r.t.Log(line)
	return len(p), nil
}

// Lines returns a copy of the recorded lines.
func (r *LogRecorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Count returns how many recorded lines contain substr.
func (r *LogRecorder) Count(substr string) int {
	n := 0
	for _, line := range r.Lines() {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}
