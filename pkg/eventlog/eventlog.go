package eventlog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/channel"
	"github.com/crimson-sun/eventlogtrack/internal/config"
	"github.com/crimson-sun/eventlogtrack/internal/engine"
	"github.com/crimson-sun/eventlogtrack/internal/engine/classifier"
	"github.com/crimson-sun/eventlogtrack/internal/engine/format"
	"github.com/crimson-sun/eventlogtrack/internal/engine/locale"
	"github.com/crimson-sun/eventlogtrack/internal/logging"
	"github.com/crimson-sun/eventlogtrack/internal/metrics"
	"github.com/crimson-sun/eventlogtrack/internal/output/stdout"
	"github.com/crimson-sun/eventlogtrack/internal/output/syslog"
	"github.com/crimson-sun/eventlogtrack/internal/router"
	"github.com/crimson-sun/eventlogtrack/internal/tracker"
)

// DefaultFormat is the template used when none is configured.
const DefaultFormat = format.Default

// Tracker writes events to every enabled sink.
// Safe for concurrent use.
type Tracker struct {
	trackers []*tracker.Tracker
	channel  *channel.Factory
}

// New creates a Tracker. Without WithStdout or WithSyslog the console
// tracker is enabled with DefaultFormat.
func New(opts ...Option) (*Tracker, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.stdout && !o.syslog {
		o.stdout = true
		o.stdoutFormat = DefaultFormat
	}

	tag, err := locale.Parse(o.language)
	if err != nil {
		return nil, fmt.Errorf("eventlog: %w", err)
	}
	facility, err := syslog.ParseFacility(o.facility)
	if err != nil {
		return nil, fmt.Errorf("eventlog: %w", err)
	}

	var m *metrics.Metrics
	if o.registerer != nil {
		m = metrics.New(o.registerer)
	}

	chOut := logging.NewOutput(logging.NewWithWriter(o.channelOut, zerolog.DebugLevel))
	factory := channel.New(chOut)
	ch := factory.Get(o.channel)

	eng := engine.New(classifier.New(), locale.New(tag))
	routerOpts := []router.Option{router.WithLogger(o.logger), router.WithMetrics(m)}
	trackerOpts := []tracker.Option{tracker.WithLogger(o.logger), tracker.WithMetrics(m)}

	t := &Tracker{channel: factory}
	if o.stdout {
		cfg := config.StdoutConfig{Format: o.stdoutFormat, OutputType: mode(o, config.OutputStdout), UseStderr: o.useStderr}
		var sopts []stdout.Option
		if o.stdoutOpen != nil {
			sopts = append(sopts, stdout.WithOpener(o.stdoutOpen))
		}
		r := router.New(config.OutputStdout, stdout.New(o.useStderr, sopts...), ch, routerOpts...)
		t.trackers = append(t.trackers, tracker.NewStdout(cfg, eng, r, trackerOpts...))
	}
	if o.syslog {
		cfg := config.SyslogConfig{Format: o.syslogFormat, OutputType: mode(o, config.OutputSyslog), Facility: o.facility, Identity: o.identity}
		out := syslog.New(syslog.NewConnection(facility, o.identity, o.syslogOpen))
		r := router.New(config.OutputSyslog, out, ch, routerOpts...)
		t.trackers = append(t.trackers, tracker.NewSyslog(cfg, eng, r, trackerOpts...))
	}
	return t, nil
}

func mode(o options, name string) string {
	if o.redirect[name] {
		return config.OutputRedirect
	}
	return name
}

// LogEvent renders e and writes it to every enabled sink. Sink failures are
// reported through the logger set with WithLogger.
func (t *Tracker) LogEvent(ctx context.Context, e Event) {
	rec := e.record()
	for _, tr := range t.trackers {
		tr.LogEvent(ctx, rec)
	}
}

// Close releases the logging channel. The syslog connection stays open
// until process exit.
func (t *Tracker) Close() error {
	return t.channel.Close()
}
