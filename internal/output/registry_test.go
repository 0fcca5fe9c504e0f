package output

import (
	"context"
	"slices"
	"testing"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

type nopOutput struct{}

func (nopOutput) Write(context.Context, model.LogEntry) error { return nil }
func (nopOutput) Close() error                                { return nil }

func TestRegisterAndGet(t *testing.T) {
	Register("test-nop", func(Settings) (Output, error) { return nopOutput{}, nil })
	t.Cleanup(func() { delete(registry, "test-nop") })

	ctor, err := Get("test-nop")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if _, err := ctor(Settings{}); err != nil {
		t.Fatalf("constructor error: %v", err)
	}
	if !slices.Contains(Backends(), "test-nop") {
		t.Errorf("Backends() = %v, missing test-nop", Backends())
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("carrier-pigeon"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
