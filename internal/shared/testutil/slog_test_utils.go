package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log call with its attributes flattened, including
// those bound with Logger.With
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is the shared store behind every handler derived from one
// NewCaptureLogger call
type LogCapture struct {
	mu      sync.Mutex
	records []LogRecord
	t       *testing.T
}

type captureHandler struct {
	capture *LogCapture
	attrs   []slog.Attr
	group   string
}

// NewCaptureLogger returns a logger that records every call at any level
func NewCaptureLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	c := &LogCapture{t: t}
	return slog.New(&captureHandler{capture: c}), c
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Any()
		return true
	})

	c := h.capture
	c.mu.Lock()
	c.records = append(c.records, LogRecord{Time: r.Time, Level: r.Level, Message: r.Message, Attrs: attrs})
	c.mu.Unlock()

	if c.t != nil {
		c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &captureHandler{capture: h.capture, group: h.group}
	next.attrs = append(append(next.attrs, h.attrs...), prefixed(h.group, attrs)...)
	return next
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{capture: h.capture, attrs: h.attrs, group: h.key(name)}
}

func (h *captureHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func prefixed(group string, attrs []slog.Attr) []slog.Attr {
	if group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: group + "." + a.Key, Value: a.Value}
	}
	return out
}

// Records returns a copy of everything captured so far
func (c *LogCapture) Records() []LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LogRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Find returns the records at level whose message contains message
func (c *LogCapture) Find(level slog.Level, message string) []LogRecord {
	var found []LogRecord
	for _, r := range c.Records() {
		if r.Level == level && strings.Contains(r.Message, message) {
			found = append(found, r)
		}
	}
	return found
}

// Count returns the number of captured records
func (c *LogCapture) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// AssertLogged fails the test unless some record at level contains message
// and carries every key/value in attrs
func AssertLogged(t *testing.T, c *LogCapture, level slog.Level, message string, attrs map[string]any) {
	t.Helper()

	for _, r := range c.Find(level, message) {
		if hasAttrs(r, attrs) {
			return
		}
	}

	t.Errorf("expected %s log %q with %v", level, message, attrs)
	for _, r := range c.Records() {
		t.Logf("  - [%s] %s: %v", r.Level, r.Message, r.Attrs)
	}
}

// AssertNoErrors fails the test if anything was logged at error level
func AssertNoErrors(t *testing.T, c *LogCapture) {
	t.Helper()
	for _, r := range c.Records() {
		if r.Level >= slog.LevelError {
			t.Errorf("unexpected error log: %s: %v", r.Message, r.Attrs)
		}
	}
}

func hasAttrs(r LogRecord, want map[string]any) bool {
	for k, v := range want {
		if got, ok := r.Attrs[k]; !ok || got != v {
			return false
		}
	}
	return true
}
