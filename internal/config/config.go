package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/engine/format"
	"github.com/crimson-sun/eventlogtrack/internal/engine/locale"
	"github.com/crimson-sun/eventlogtrack/internal/output"
	"github.com/crimson-sun/eventlogtrack/internal/output/syslog"
)

// Version is the eventlogtrack release.
const Version = "0.3.0"

// Output types.
const (
	OutputStdout   = "stdout"
	OutputSyslog   = "syslog"
	OutputRedirect = "redirect"
)

// Config holds all eventlogtrack configuration.
type Config struct {
	Modules []string // enabled trackers: "stdout", "syslog"
	Stdout  StdoutConfig
	Syslog  SyslogConfig
	Channel ChannelConfig

	Language    string
	LogLevel    string
	MetricsAddr string // empty disables the /metrics listener

	ShowVersion bool
}

// StdoutConfig holds console tracker settings.
type StdoutConfig struct {
	Format     string
	OutputType string // "stdout" or "redirect"
	UseStderr  bool
}

// SyslogConfig holds syslog tracker settings.
type SyslogConfig struct {
	Format     string
	OutputType string // "syslog" or "redirect"
	Facility   string // name or numeric code
	Identity   string
}

// ChannelConfig holds the host logging channel and its backends.
type ChannelConfig struct {
	Name        string
	Outputs     []string
	Verbosity   string // "minimal" or "full"
	AsyncBuffer int    // 0 writes synchronously

	FilePath    string
	FileMaxSize int64

	WebhookURL     string
	WebhookHeaders map[string]string
	WebhookTimeout time.Duration

	RedisAddr   string
	RedisStream string
	RedisMaxLen int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Modules: getenvList("EVENTLOG_MODULES", []string{"stdout"}),
		Stdout: StdoutConfig{
			Format:     getenv("EVENTLOG_STDOUT_FORMAT", format.Default),
			OutputType: getenv("EVENTLOG_STDOUT_OUTPUT_TYPE", OutputStdout),
			UseStderr:  getenvBool("EVENTLOG_USE_STDERR", false),
		},
		Syslog: SyslogConfig{
			Format:     getenv("EVENTLOG_SYSLOG_FORMAT", format.Default),
			OutputType: getenv("EVENTLOG_SYSLOG_OUTPUT_TYPE", OutputSyslog),
			Facility:   getenv("EVENTLOG_SYSLOG_FACILITY", "LOG_LOCAL0"),
			Identity:   getenv("EVENTLOG_SYSLOG_IDENTITY", "eventlogtrack"),
		},
		Channel: ChannelConfig{
			Name:           getenv("EVENTLOG_CHANNEL", "events_log_track"),
			Outputs:        getenvList("EVENTLOG_CHANNEL_OUTPUTS", []string{"log"}),
			Verbosity:      getenv("EVENTLOG_CHANNEL_VERBOSITY", "full"),
			AsyncBuffer:    int(getenvInt64("EVENTLOG_CHANNEL_ASYNC_BUFFER", 0)),
			FilePath:       os.Getenv("EVENTLOG_CHANNEL_FILE"),
			FileMaxSize:    getenvInt64("EVENTLOG_CHANNEL_FILE_MAX_SIZE", 0),
			WebhookURL:     os.Getenv("EVENTLOG_CHANNEL_WEBHOOK_URL"),
			WebhookHeaders: getenvMap("EVENTLOG_CHANNEL_WEBHOOK_HEADERS"),
			WebhookTimeout: getenvDuration("EVENTLOG_CHANNEL_WEBHOOK_TIMEOUT", 0),
			RedisAddr:      os.Getenv("EVENTLOG_CHANNEL_REDIS_ADDR"),
			RedisStream:    getenv("EVENTLOG_CHANNEL_REDIS_STREAM", "events_log_track"),
			RedisMaxLen:    getenvInt64("EVENTLOG_CHANNEL_REDIS_MAXLEN", 0),
		},
		Language:    getenv("EVENTLOG_LANGUAGE", "en"),
		LogLevel:    getenv("EVENTLOG_LOG_LEVEL", "info"),
		MetricsAddr: os.Getenv("EVENTLOG_METRICS_ADDR"),
	}
}

// Enabled reports whether the named tracker module is on.
func (c Config) Enabled(module string) bool {
	for _, m := range c.Modules {
		if m == module {
			return true
		}
	}
	return false
}

// Settings converts the channel configuration into backend settings.
// Call Validate first; an unknown verbosity falls back to full.
func (c ChannelConfig) Settings(logger zerolog.Logger) output.Settings {
	v, _ := output.ParseVerbosity(c.Verbosity)
	return output.Settings{
		Verbosity:      v,
		Logger:         logger,
		AsyncBuffer:    c.AsyncBuffer,
		FilePath:       c.FilePath,
		FileMaxSize:    c.FileMaxSize,
		WebhookURL:     c.WebhookURL,
		WebhookHeaders: c.WebhookHeaders,
		WebhookTimeout: c.WebhookTimeout,
		RedisAddr:      c.RedisAddr,
		RedisStream:    c.RedisStream,
		RedisMaxLen:    c.RedisMaxLen,
	}
}

// Validate checks the configuration for invalid values.
// Returns all problems at once via errors.Join.
func (c Config) Validate() error {
	var errs []error

	if len(c.Modules) == 0 {
		errs = append(errs, fmt.Errorf("EVENTLOG_MODULES: at least one module is required"))
	}
	for _, m := range c.Modules {
		if m != OutputStdout && m != OutputSyslog {
			errs = append(errs, fmt.Errorf("EVENTLOG_MODULES: unknown module %q (want stdout or syslog)", m))
		}
	}

	if c.Stdout.OutputType != OutputStdout && c.Stdout.OutputType != OutputRedirect {
		errs = append(errs, fmt.Errorf("stdout output type must be stdout or redirect, got %q", c.Stdout.OutputType))
	}
	if c.Syslog.OutputType != OutputSyslog && c.Syslog.OutputType != OutputRedirect {
		errs = append(errs, fmt.Errorf("syslog output type must be syslog or redirect, got %q", c.Syslog.OutputType))
	}
	if _, err := syslog.ParseFacility(c.Syslog.Facility); err != nil {
		errs = append(errs, fmt.Errorf("syslog facility: %w", err))
	}

	if _, err := locale.Parse(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("language: %w", err))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log level must be debug, info, warn or error, got %q", c.LogLevel))
	}

	errs = append(errs, c.Channel.validate()...)
	return errors.Join(errs...)
}

func (c ChannelConfig) validate() []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, fmt.Errorf("EVENTLOG_CHANNEL: channel name is required"))
	}
	if _, err := output.ParseVerbosity(c.Verbosity); err != nil {
		errs = append(errs, fmt.Errorf("channel verbosity: %w", err))
	}
	for _, name := range c.Outputs {
		switch name {
		case "log":
		case "file":
			if c.FilePath == "" {
				errs = append(errs, fmt.Errorf("EVENTLOG_CHANNEL_FILE is required for the file output"))
			}
		case "webhook":
			if c.WebhookURL == "" {
				errs = append(errs, fmt.Errorf("EVENTLOG_CHANNEL_WEBHOOK_URL is required for the webhook output"))
			}
		case "redis":
			if c.RedisAddr == "" {
				errs = append(errs, fmt.Errorf("EVENTLOG_CHANNEL_REDIS_ADDR is required for the redis output"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown channel output %q", name))
		}
	}
	if c.FileMaxSize < 0 {
		errs = append(errs, fmt.Errorf("channel file max size must be >= 0, got %d", c.FileMaxSize))
	}
	if c.AsyncBuffer < 0 {
		errs = append(errs, fmt.Errorf("channel async buffer must be >= 0, got %d", c.AsyncBuffer))
	}
	if c.RedisMaxLen < 0 {
		errs = append(errs, fmt.Errorf("channel redis maxlen must be >= 0, got %d", c.RedisMaxLen))
	}
	return errs
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getenvList splits a comma-separated value, dropping empty items.
func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getenvMap parses "k1=v1,k2=v2". Items without "=" are skipped.
func getenvMap(key string) map[string]string {
	var m map[string]string
	for _, item := range getenvList(key, nil) {
		k, v, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
