package channel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
)

type mockOutput struct {
	mu      *sync.Mutex // optional
	entries []model.LogEntry
	closed  bool
}

func (m *mockOutput) Write(_ context.Context, e model.LogEntry) error {
	if m.mu != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockOutput) Close() error {
	if m.mu != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
	}
	m.closed = true
	return nil
}

func TestChannelStampsNameAndTime(t *testing.T) {
	mock := &mockOutput{}
	f := New(mock)
	fixed := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return fixed }

	ch := f.Get("events_log_track")
	err := ch.Log(context.Background(), model.Warning, "ELT by @who", map[string]any{"@who": "anonymous"})
	if err != nil {
		t.Fatalf("Log error: %v", err)
	}

	if len(mock.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(mock.entries))
	}
	e := mock.entries[0]
	if e.Channel != "events_log_track" || !e.Timestamp.Equal(fixed) || e.Severity != model.Warning {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.Message != "ELT by @who" {
		t.Errorf("channel should not interpolate, got %q", e.Message)
	}
}

func TestWriteKeepsExistingTimestamp(t *testing.T) {
	mock := &mockOutput{}
	ch := New(mock).Get("audit")
	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	ch.Write(context.Background(), model.LogEntry{Timestamp: ts, Channel: "other"})

	if !mock.entries[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp overwritten: %v", mock.entries[0].Timestamp)
	}
	if mock.entries[0].Channel != "audit" {
		t.Errorf("channel = %q, want audit", mock.entries[0].Channel)
	}
}

func TestChannelCloseLeavesBackendsOpen(t *testing.T) {
	mock := &mockOutput{}
	f := New(mock)
	f.Get("a").Close()
	if mock.closed {
		t.Fatal("closing a channel must not close the shared backend")
	}
	f.Close()
	if !mock.closed {
		t.Fatal("Factory.Close should close the backend")
	}
}

func TestBuild(t *testing.T) {
	var built []*mockOutput
	output.Register("channel-test", func(output.Settings) (output.Output, error) {
		m := &mockOutput{}
		built = append(built, m)
		return m, nil
	})
	output.Register("channel-test-broken", func(output.Settings) (output.Output, error) {
		return nil, errors.New("misconfigured")
	})

	f, err := Build([]string{"channel-test", "channel-test"}, output.Settings{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	f.Get("x").Log(context.Background(), model.Notice, "m", nil)
	if len(built) != 2 || len(built[0].entries) != 1 || len(built[1].entries) != 1 {
		t.Fatalf("fan-out failed: %d backends", len(built))
	}

	built = nil
	if _, err := Build([]string{"channel-test", "channel-test-broken"}, output.Settings{}); err == nil {
		t.Fatal("expected error from broken backend")
	}
	if len(built) != 1 || !built[0].closed {
		t.Error("backends built before the failure should be closed")
	}

	if _, err := Build([]string{"nope"}, output.Settings{}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestBuildAsync(t *testing.T) {
	var built *mockOutput
	var mu sync.Mutex
	output.Register("channel-test-async", func(output.Settings) (output.Output, error) {
		built = &mockOutput{mu: &mu}
		return built, nil
	})

	f, err := Build([]string{"channel-test-async"}, output.Settings{AsyncBuffer: 8})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for i := 0; i < 3; i++ {
		f.Get("x").Log(context.Background(), model.Notice, "m", nil)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(built.entries) != 3 || !built.closed {
		t.Fatalf("entries=%d closed=%v, want 3/true", len(built.entries), built.closed)
	}
}
