// Package async moves channel backend writes off the caller's goroutine.
package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("async: output closed")

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the queue capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithLogger sets the logger for dropped entries, drain timeouts and, unless
// WithOnError is given, inner write failures. Default: disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Async) { a.logger = l }
}

// WithOnError sets the callback invoked when the inner output's Write fails.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write return immediately, dropping the entry, when the
// queue is full instead of blocking.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// WithDrainTimeout bounds how long Close waits for queued entries.
// Default: 5s.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// Async queues entries and writes them to the wrapped output from a single
// background goroutine, preserving order. Inner errors go to errFunc rather
// than to the caller.
type Async struct {
	inner        output.Output
	ch           chan model.LogEntry
	done         chan struct{}
	logger       zerolog.Logger
	errFunc      func(error)
	bufSize      int
	dropOnFull   bool
	drainTimeout time.Duration
	dropped      atomic.Int64

	mu     sync.RWMutex // guards closed against sends on a closed queue
	closed bool
}

// New wraps inner and starts the drain goroutine.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		logger:       zerolog.Nop(),
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.errFunc == nil {
		a.errFunc = func(err error) { a.logger.Warn().Err(err).Msg("async output write error") }
	}
	a.ch = make(chan model.LogEntry, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write queues the entry. It blocks while the queue is full unless
// WithDropOnFull was given.
func (a *Async) Write(ctx context.Context, entry model.LogEntry) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	if a.dropOnFull {
		select {
		case a.ch <- entry:
		default:
			a.dropped.Add(1)
			a.logger.Warn().Str("channel", entry.Channel).Msg("async output queue full, dropping entry")
		}
		return nil
	}
	select {
	case a.ch <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns the number of entries discarded because the queue was full.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting entries, waits for the queue to drain (bounded by
// the drain timeout), then closes the inner output.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-time.After(a.drainTimeout):
		a.logger.Warn().Dur("timeout", a.drainTimeout).Msg("async output drain timed out")
	}
	return a.inner.Close()
}

func (a *Async) drain() {
	defer close(a.done)
	for entry := range a.ch {
		if err := a.inner.Write(context.Background(), entry); err != nil {
			a.errFunc(err)
		}
	}
}
