// Package tracker turns event records into log lines for one sink module.
package tracker

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/config"
	"github.com/crimson-sun/eventlogtrack/internal/engine"
	"github.com/crimson-sun/eventlogtrack/internal/metrics"
	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// Tracker names.
const (
	Stdout = "stdout"
	Syslog = "syslog"
)

// Processor renders a record under a policy.
type Processor interface {
	Process(rec model.EventRecord, template string, p engine.Policy) engine.Result
}

// Dispatcher delivers a rendered message.
type Dispatcher interface {
	Dispatch(ctx context.Context, mode string, msg model.RenderedMessage, rec model.EventRecord)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for render diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithMetrics sets the fallback and render failure counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// Tracker renders every event with one template and hands it to a router.
type Tracker struct {
	name     string
	template string
	mode     string
	policy   engine.Policy

	proc    Processor
	router  Dispatcher
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewStdout creates the console tracker. Its format is used as configured.
func NewStdout(cfg config.StdoutConfig, proc Processor, router Dispatcher, opts ...Option) *Tracker {
	return newTracker(Stdout, cfg.Format, cfg.OutputType, engine.StdoutPolicy, proc, router, opts)
}

// NewSyslog creates the syslog tracker. Its format must carry the required
// placeholders, and render errors replace the whole message.
func NewSyslog(cfg config.SyslogConfig, proc Processor, router Dispatcher, opts ...Option) *Tracker {
	return newTracker(Syslog, cfg.Format, cfg.OutputType, engine.SyslogPolicy, proc, router, opts)
}

func newTracker(name, template, mode string, p engine.Policy, proc Processor, router Dispatcher, opts []Option) *Tracker {
	t := &Tracker{
		name:     name,
		template: template,
		mode:     mode,
		policy:   p,
		proc:     proc,
		router:   router,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the tracker name.
func (t *Tracker) Name() string { return t.name }

// LogEvent renders rec and dispatches it. It never fails; problems are
// logged and counted.
func (t *Tracker) LogEvent(ctx context.Context, rec model.EventRecord) {
	res := t.proc.Process(rec, t.template, t.policy)

	if res.FormatFallback {
		t.logger.Debug().Str("tracker", t.name).Msg("format lacks required tokens, using default")
		t.metrics.FormatFallback()
	}
	if res.RenderErr != nil {
		t.logger.Debug().Err(res.RenderErr).Str("tracker", t.name).Msg("malformed tokens in format")
		t.metrics.RenderFailure(t.name)
	}

	t.router.Dispatch(ctx, t.mode, res.Message, rec)
}
