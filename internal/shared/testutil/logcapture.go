package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Entry is one log call seen by a LogCapture. Attribute keys of grouped
// loggers are joined with dots ("run.rows").
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type entries struct {
	mu   sync.Mutex
	list []Entry
}

// LogCapture is a slog.Handler that keeps every record in memory and echoes
// it to the test log. Loggers derived with With or WithGroup write into the
// same capture.
type LogCapture struct {
	t      testing.TB
	shared *entries
	attrs  []slog.Attr
	prefix string
}

// NewTestLogger returns a logger whose output can be inspected through the
// returned capture.
func NewTestLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	c := &LogCapture{t: t, shared: &entries{}}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Level: r.Level, Message: r.Message, Attrs: make(map[string]any, len(c.attrs)+r.NumAttrs())}
	for _, a := range c.attrs {
		e.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[c.prefix+a.Key] = a.Value.Any()
		return true
	})

	c.shared.mu.Lock()
	c.shared.list = append(c.shared.list, e)
	c.shared.mu.Unlock()

	c.t.Logf("%s %s %v", r.Level, r.Message, e.Attrs)
	return nil
}

func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *c
	next.attrs = make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	next.attrs = append(next.attrs, c.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: c.prefix + a.Key, Value: a.Value})
	}
	return &next
}

func (c *LogCapture) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	next := *c
	next.prefix = c.prefix + name + "."
	return &next
}

// Entries returns a copy of everything logged so far.
func (c *LogCapture) Entries() []Entry {
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	return append([]Entry(nil), c.shared.list...)
}

// AtLevel returns the entries logged at exactly level.
func (c *LogCapture) AtLevel(level slog.Level) []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// ContainsMessage reports whether any entry's message contains substr.
func (c *LogCapture) ContainsMessage(substr string) bool {
	for _, e := range c.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any entry carries key with value.
func (c *LogCapture) ContainsAttr(key string, value any) bool {
	for _, e := range c.Entries() {
		if v, ok := e.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

func (c *LogCapture) Count() int {
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	return len(c.shared.list)
}

// Reset drops the captured entries.
func (c *LogCapture) Reset() {
	c.shared.mu.Lock()
	c.shared.list = nil
	c.shared.mu.Unlock()
}

// AssertLogContains fails t unless an entry at level contains message.
func AssertLogContains(t testing.TB, logs *LogCapture, level slog.Level, message string) bool {
	t.Helper()
	var seen []string
	for _, e := range logs.AtLevel(level) {
		if strings.Contains(e.Message, message) {
			return true
		}
		seen = append(seen, e.Message)
	}
	return assert.Failf(t, "log message not found", "no %s entry contains %q; %s entries: %q", level, message, level, seen)
}

// AssertLogAttr fails t unless some entry carries key=value.
func AssertLogAttr(t testing.TB, logs *LogCapture, key string, value any) bool {
	t.Helper()
	return assert.Truef(t, logs.ContainsAttr(key, value), "no entry has %s=%v; entries: %v", key, value, logs.Entries())
}

// AssertNoErrors fails t for every error entry.
func AssertNoErrors(t testing.TB, logs *LogCapture) bool {
	t.Helper()
	return assert.Empty(t, logs.AtLevel(slog.LevelError), "unexpected error logs")
}
