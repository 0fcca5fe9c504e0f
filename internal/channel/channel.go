// Package channel is the host's generic logging channel: named channels that
// share one set of backends.
package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
	"github.com/crimson-sun/eventlogtrack/internal/output/async"
	"github.com/crimson-sun/eventlogtrack/internal/output/multi"
)

// Factory hands out channels writing to a shared output.
type Factory struct {
	out output.Output
	now func() time.Time
}

// New creates a Factory over out.
func New(out output.Output) *Factory {
	return &Factory{out: out, now: time.Now}
}

// Build constructs every named backend from the registry and fans out to them.
// Backends created before a failure are closed again. With s.AsyncBuffer set
// the fan-out runs behind a dropping queue.
func Build(names []string, s output.Settings) (*Factory, error) {
	backends := make([]multi.Backend, 0, len(names))
	for _, name := range names {
		ctor, err := output.Get(name)
		if err == nil {
			var o output.Output
			o, err = ctor(s)
			if err == nil {
				backends = append(backends, multi.Backend{Name: name, Output: o})
				continue
			}
		}
		errs := []error{fmt.Errorf("channel: backend %s: %w", name, err)}
		errs = append(errs, multi.New(backends...).Close())
		return nil, errors.Join(errs...)
	}
	var out output.Output = multi.New(backends...)
	if s.AsyncBuffer > 0 {
		out = async.New(out,
			async.WithBufferSize(s.AsyncBuffer),
			async.WithDropOnFull(),
			async.WithLogger(s.Logger),
		)
	}
	return New(out), nil
}

// Get returns the channel with the given name.
func (f *Factory) Get(name string) *Channel {
	return &Channel{name: name, f: f}
}

// Close closes the shared backends.
func (f *Factory) Close() error {
	return f.out.Close()
}

// Channel is one named logging channel. It satisfies output.Output so it can
// stand in for a sink.
type Channel struct {
	name string
	f    *Factory
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Log records message at sev. Placeholders in message are resolved from
// fields by the backends.
func (c *Channel) Log(ctx context.Context, sev model.Severity, message string, fields map[string]any) error {
	return c.Write(ctx, model.LogEntry{
		Severity: sev,
		Message:  message,
		Context:  fields,
	})
}

// Write stamps the entry with the channel name, and with the current time
// when it has none, then forwards it.
func (c *Channel) Write(ctx context.Context, entry model.LogEntry) error {
	entry.Channel = c.name
	if entry.Timestamp.IsZero() {
		entry.Timestamp = c.f.now()
	}
	return c.f.out.Write(ctx, entry)
}

// Close is a no-op; the Factory owns the backends.
func (c *Channel) Close() error {
	return nil
}
