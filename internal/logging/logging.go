package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/engine/placeholder"
	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
)

func init() {
	output.Register("log", func(s output.Settings) (output.Output, error) {
		return NewOutput(s.Logger), nil
	})
}

// New creates the process logger on stderr.
// When outputIsStdout is true, writes JSON (avoids mixing with event lines on stdout).
// Otherwise uses a plain console format for human readability.
func New(outputIsStdout bool, level zerolog.Level) zerolog.Logger {
	var w io.Writer = os.Stderr
	if !outputIsStdout {
		w = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}
	}
	return NewWithWriter(w, level)
}

// NewWithWriter creates a timestamped logger writing to w.
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to a zerolog.Level.
// Unknown strings default to InfoLevel.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LevelFor maps an RFC 5424 severity onto the closest zerolog level.
func LevelFor(sev model.Severity) zerolog.Level {
	switch {
	case sev <= model.Critical:
		return zerolog.FatalLevel
	case sev == model.Error:
		return zerolog.ErrorLevel
	case sev == model.Warning:
		return zerolog.WarnLevel
	case sev <= model.Info:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// Output is the "log" backend of the host channel: it writes each entry as a
// zerolog event with the channel and severity attached and the context
// nested under "context".
type Output struct {
	logger zerolog.Logger
}

// NewOutput creates an Output writing through logger.
func NewOutput(logger zerolog.Logger) *Output {
	return &Output{logger: logger}
}

func (o *Output) Write(_ context.Context, entry model.LogEntry) error {
	// WithLevel never exits or panics, even at FatalLevel.
	ev := o.logger.WithLevel(LevelFor(entry.Severity))
	if entry.Channel != "" {
		ev = ev.Str("channel", entry.Channel)
	}
	ev = ev.Str("severity", entry.Severity.String())
	if len(entry.Context) > 0 {
		// Nested so context keys cannot collide with level, message or time.
		ev = ev.Dict("context", zerolog.Dict().Fields(entry.Context))
	}
	ev.Msg(placeholder.Interpolate(entry.Message, entry.Context))
	return nil
}

func (o *Output) Close() error {
	return nil
}
