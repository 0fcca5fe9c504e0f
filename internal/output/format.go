package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/crimson-sun/eventlogtrack/internal/engine/placeholder"
	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// Verbosity controls how much of an entry persisting backends keep.
type Verbosity int

const (
	// Minimal keeps only the interpolated message.
	Minimal Verbosity = iota
	// Full keeps the raw message and its context, so placeholders can be
	// re-rendered later.
	Full
)

// ParseVerbosity accepts "minimal" or "full".
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(s) {
	case "minimal":
		return Minimal, nil
	case "full", "":
		return Full, nil
	}
	return Full, fmt.Errorf("unknown verbosity %q", s)
}

// Record is the JSON shape written by the file, webhook and redis backends.
type Record struct {
	Timestamp time.Time      `json:"timestamp"`
	Channel   string         `json:"channel,omitempty"`
	Severity  int            `json:"severity"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
}

// FormatEntry converts an entry to its wire record according to verbosity.
// At Minimal: placeholders are interpolated and Context is dropped.
// At Full: message and context are preserved as given.
func FormatEntry(e model.LogEntry, verbosity Verbosity) Record {
	r := Record{
		Timestamp: e.Timestamp,
		Channel:   e.Channel,
		Severity:  int(e.Severity),
		Level:     e.Severity.String(),
		Message:   e.Message,
		Context:   e.Context,
	}
	if verbosity == Minimal {
		r.Message = placeholder.Interpolate(e.Message, e.Context)
		r.Context = nil
	}
	return r
}
