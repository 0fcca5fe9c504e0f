// Package multi fans channel entries out to the named backends configured
// for the host channel.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
)

// Backend is one registry backend under the name it was built from.
type Backend struct {
	Name string
	output.Output
}

// BackendError ties a write or close failure to the backend that caused it.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Failed lists the backends named by the BackendErrors inside err.
func Failed(err error) []string {
	var names []string
	var walk func(error)
	walk = func(err error) {
		var be *BackendError
		switch e := err.(type) {
		case nil:
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		default:
			if errors.As(err, &be) {
				names = append(names, be.Backend)
			}
		}
	}
	walk(err)
	return names
}

// Multi delivers each entry to every backend in order. A failing backend
// does not stop delivery to the rest.
type Multi struct {
	backends []Backend
}

// New creates a Multi over backends.
func New(backends ...Backend) *Multi {
	return &Multi{backends: backends}
}

// Names returns the backend names in delivery order.
func (m *Multi) Names() []string {
	names := make([]string, len(m.backends))
	for i, b := range m.backends {
		names[i] = b.Name
	}
	return names
}

// Write returns the joined BackendErrors of every backend that failed.
func (m *Multi) Write(ctx context.Context, entry model.LogEntry) error {
	var errs []error
	for _, b := range m.backends {
		if err := b.Write(ctx, entry); err != nil {
			errs = append(errs, &BackendError{Backend: b.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Close closes every backend, in reverse order of construction.
func (m *Multi) Close() error {
	var errs []error
	for i := len(m.backends) - 1; i >= 0; i-- {
		b := m.backends[i]
		if err := b.Close(); err != nil {
			errs = append(errs, &BackendError{Backend: b.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}
