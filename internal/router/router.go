// Package router delivers a rendered message either to a tracker's own sink
// or to the host logging channel.
package router

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/engine/placeholder"
	"github.com/crimson-sun/eventlogtrack/internal/metrics"
	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
	"github.com/crimson-sun/eventlogtrack/internal/output/multi"
)

// RedirectMode is the output type that sends messages to the host channel.
const RedirectMode = "redirect"

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used to report sink failures.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithMetrics sets the counters updated on every dispatch.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// Router connects one direct sink and the redirect channel.
type Router struct {
	directMode string
	direct     output.Output
	redirect   output.Output

	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New creates a Router sending messages whose mode equals directMode to
// direct and everything else to redirect.
func New(directMode string, direct, redirect output.Output, opts ...Option) *Router {
	r := &Router{
		directMode: directMode,
		direct:     direct,
		redirect:   redirect,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch sends msg to exactly one destination. Sink failures are logged and
// counted but never returned, and there is no failover to the other sink.
func (r *Router) Dispatch(ctx context.Context, mode string, msg model.RenderedMessage, rec model.EventRecord) {
	fields := rec.Context()

	sink, out := r.directMode, r.direct
	entry := model.LogEntry{
		Timestamp: rec.Created,
		Severity:  msg.Severity,
		Message:   msg.Text,
		Context:   fields,
	}
	if mode == r.directMode {
		entry.Message = placeholder.Interpolate(msg.Text, fields)
	} else {
		sink, out = RedirectMode, r.redirect
	}

	if out == nil {
		r.logger.Warn().Str("sink", sink).Msg("router: no output configured, message dropped")
		r.metrics.SinkError(sink)
		return
	}
	if err := out.Write(ctx, entry); err != nil {
		ev := r.logger.Warn().Err(err).Str("sink", sink)
		if failed := multi.Failed(err); len(failed) > 0 {
			ev = ev.Strs("backends", failed)
		}
		ev.Msg("router: write failed")
		r.metrics.SinkError(sink)
		return
	}
	r.metrics.Delivered(sink, msg.Severity)
}
