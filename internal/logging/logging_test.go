package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		got := ParseLevel(tt.input)
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		sev  model.Severity
		want zerolog.Level
	}{
		{model.Emergency, zerolog.FatalLevel},
		{model.Critical, zerolog.FatalLevel},
		{model.Error, zerolog.ErrorLevel},
		{model.Warning, zerolog.WarnLevel},
		{model.Notice, zerolog.InfoLevel},
		{model.Info, zerolog.InfoLevel},
		{model.Debug, zerolog.DebugLevel},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.sev); got != tt.want {
			t.Errorf("LevelFor(%v) = %v, want %v", tt.sev, got, tt.want)
		}
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.Info().Str("key", "value").Msg("test message")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected valid JSON output, got error: %v\noutput: %s", err, buf.String())
	}
	if m["message"] != "test message" {
		t.Errorf("expected message 'test message', got %q", m["message"])
	}
	if m["key"] != "value" {
		t.Errorf("expected key 'value', got %q", m["key"])
	}
	if _, ok := m["time"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestNewWithWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.WarnLevel)
	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %s", buf.String())
	}
}

func TestOutputWrite(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(NewWithWriter(&buf, zerolog.DebugLevel))

	err := out.Write(context.Background(), model.LogEntry{
		Timestamp: time.Now(),
		Channel:   "events_log_track",
		Severity:  model.Warning,
		Message:   "ELT [authorization] by @who",
		Context:   map[string]any{"@who": "anonymous", "path": "user/1/edit"},
	})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if m["level"] != "warn" {
		t.Errorf("level = %v, want warn", m["level"])
	}
	if m["channel"] != "events_log_track" {
		t.Errorf("channel = %v", m["channel"])
	}
	if m["severity"] != "warning" {
		t.Errorf("severity = %v", m["severity"])
	}
	if m["message"] != "ELT [authorization] by anonymous" {
		t.Errorf("message = %v", m["message"])
	}
	ctx, ok := m["context"].(map[string]any)
	if !ok || ctx["path"] != "user/1/edit" {
		t.Errorf("context = %v", m["context"])
	}
}

func TestOutputContextDoesNotShadowLogKeys(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(NewWithWriter(&buf, zerolog.DebugLevel))

	out.Write(context.Background(), model.LogEntry{
		Severity: model.Notice,
		Message:  "ELT [config]",
		Context:  map[string]any{"level": "spoofed", "message": "spoofed", "time": "spoofed"},
	})

	line := buf.String()
	for _, key := range []string{`"level":`, `"message":`, `"time":`} {
		if n := strings.Count(line, key); n != 2 {
			t.Errorf("%s appears %d times, want once at top level and once in context: %s", key, n, line)
		}
	}

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["level"] != "info" || m["message"] != "ELT [config]" {
		t.Errorf("top-level keys overwritten: %v", m)
	}
}

func TestRegisteredBackend(t *testing.T) {
	ctor, err := output.Get("log")
	if err != nil {
		t.Fatalf("log backend not registered: %v", err)
	}

	var buf bytes.Buffer
	out, err := ctor(output.Settings{Logger: NewWithWriter(&buf, zerolog.InfoLevel)})
	if err != nil {
		t.Fatalf("constructor error: %v", err)
	}
	out.Write(context.Background(), model.LogEntry{Severity: model.Notice, Message: "ELT [config]"})
	if !bytes.Contains(buf.Bytes(), []byte(`"message":"ELT [config]"`)) {
		t.Errorf("unexpected output %s", buf.String())
	}
}
