package eventlog

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/output/stdout"
	"github.com/crimson-sun/eventlogtrack/internal/output/syslog"
)

type options struct {
	stdout       bool
	stdoutFormat string
	useStderr    bool

	syslog       bool
	syslogFormat string
	facility     string
	identity     string

	redirect   map[string]bool
	channel    string
	channelOut io.Writer
	language   string
	logger     zerolog.Logger
	registerer prometheus.Registerer
	stdoutOpen stdout.Opener
	syslogOpen syslog.Opener
}

// Option configures a Tracker.
type Option func(*options)

// WithStdout enables the console tracker with the given template.
// An empty template renders empty lines.
func WithStdout(format string) Option {
	return func(o *options) {
		o.stdout = true
		o.stdoutFormat = format
	}
}

// WithStderr sends warning and more severe console messages to stderr.
func WithStderr() Option {
	return func(o *options) { o.useStderr = true }
}

// WithSyslog enables the syslog tracker with the given template. A template
// lacking the type, user id or description token is replaced by the default.
func WithSyslog(format string) Option {
	return func(o *options) {
		o.syslog = true
		o.syslogFormat = format
	}
}

// WithFacility sets the syslog facility by name ("LOG_LOCAL0", "user") or
// numeric code ("128"). Default: LOG_LOCAL0.
func WithFacility(f string) Option {
	return func(o *options) { o.facility = f }
}

// WithIdentity sets the syslog identity. Default: "eventlogtrack".
func WithIdentity(id string) Option {
	return func(o *options) { o.identity = id }
}

// WithRedirect sends the named trackers ("stdout", "syslog") to the logging
// channel instead of their own sink.
func WithRedirect(trackers ...string) Option {
	return func(o *options) {
		for _, t := range trackers {
			o.redirect[t] = true
		}
	}
}

// WithChannel sets the logging channel name and the writer its JSON lines go
// to. Default: "events_log_track" on stderr.
func WithChannel(name string, w io.Writer) Option {
	return func(o *options) {
		o.channel = name
		o.channelOut = w
	}
}

// WithLanguage sets the BCP 47 language of the fallback message used when a
// syslog template contains malformed tokens. Default: "en".
func WithLanguage(code string) Option {
	return func(o *options) { o.language = code }
}

// WithLogger sets the logger for sink failures and render diagnostics.
// Default: disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegisterer registers the tracker counters on reg.
// Default: no metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func defaultOptions() options {
	return options{
		facility:   "LOG_LOCAL0",
		identity:   "eventlogtrack",
		redirect:   map[string]bool{},
		channel:    "events_log_track",
		channelOut: os.Stderr,
		language:   "en",
		logger:     zerolog.Nop(),
	}
}
