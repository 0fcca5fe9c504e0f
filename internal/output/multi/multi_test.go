package multi

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

type recorder struct {
	name    string
	entries []model.LogEntry
	err     error
	closed  *[]string
}

func (r *recorder) Write(_ context.Context, entry model.LogEntry) error {
	r.entries = append(r.entries, entry)
	return r.err
}

func (r *recorder) Close() error {
	if r.closed != nil {
		*r.closed = append(*r.closed, r.name)
	}
	return r.err
}

func backend(name string, err error, closed *[]string) (Backend, *recorder) {
	r := &recorder{name: name, err: err, closed: closed}
	return Backend{Name: name, Output: r}, r
}

var entry = model.LogEntry{
	Timestamp: time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC),
	Channel:   "events_log_track",
	Severity:  model.Warning,
	Message:   "ELT [authorization] [fail]",
}

func TestWriteReachesEveryBackend(t *testing.T) {
	logB, logR := backend("log", nil, nil)
	fileB, fileR := backend("file", nil, nil)
	m := New(logB, fileB)

	if err := m.Write(context.Background(), entry); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	for _, r := range []*recorder{logR, fileR} {
		if len(r.entries) != 1 || r.entries[0].Message != entry.Message {
			t.Errorf("%s got %+v", r.name, r.entries)
		}
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"log", "file"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestWriteNamesFailingBackends(t *testing.T) {
	errDown := errors.New("connection refused")
	redisB, _ := backend("redis", errDown, nil)
	logB, logR := backend("log", nil, nil)
	hookB, _ := backend("webhook", errors.New("HTTP 503"), nil)
	m := New(redisB, logB, hookB)

	err := m.Write(context.Background(), entry)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(logR.entries) != 1 {
		t.Fatal("healthy backend should still receive the entry")
	}
	if !errors.Is(err, errDown) {
		t.Errorf("errors.Is should see the backend cause: %v", err)
	}
	var be *BackendError
	if !errors.As(err, &be) || be.Backend != "redis" {
		t.Errorf("first BackendError = %+v", be)
	}
	if got := Failed(err); !reflect.DeepEqual(got, []string{"redis", "webhook"}) {
		t.Errorf("Failed() = %v", got)
	}
}

func TestFailed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{"plain", errors.New("x"), nil},
		{"single", &BackendError{Backend: "file", Err: errors.New("disk full")}, []string{"file"}},
		{"wrapped", fmt.Errorf("channel: %w", &BackendError{Backend: "log", Err: errors.New("x")}), []string{"log"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Failed(tt.err); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCloseInReverseOrder(t *testing.T) {
	var closed []string
	a, _ := backend("log", nil, &closed)
	b, _ := backend("file", nil, &closed)
	c, _ := backend("redis", nil, &closed)

	if err := New(a, b, c).Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if want := []string{"redis", "file", "log"}; !reflect.DeepEqual(closed, want) {
		t.Errorf("close order = %v, want %v", closed, want)
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	var closed []string
	a, _ := backend("file", errors.New("flush failed"), &closed)
	b, _ := backend("log", nil, &closed)

	err := New(a, b).Close()
	if got := Failed(err); !reflect.DeepEqual(got, []string{"file"}) {
		t.Errorf("Failed() = %v, want [file]", got)
	}
	if len(closed) != 2 {
		t.Errorf("every backend should be closed, got %v", closed)
	}
}

func TestEmpty(t *testing.T) {
	m := New()
	if err := m.Write(context.Background(), entry); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
