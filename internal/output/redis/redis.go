// Package redis appends channel entries to a Redis stream, one XADD per entry.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
)

// DefaultStream is used when no stream key is configured.
const DefaultStream = "events_log_track"

func init() {
	output.Register("redis", func(s output.Settings) (output.Output, error) {
		if s.RedisAddr == "" {
			return nil, fmt.Errorf("redis output: address is required")
		}
		client := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
		o := New(client, s.RedisStream, WithMaxLen(s.RedisMaxLen), WithVerbosity(s.Verbosity))
		o.owned = true
		return o, nil
	})
}

// Option configures a redis Output.
type Option func(*Output)

// WithMaxLen caps the stream at roughly n entries (XADD MAXLEN ~ n).
// 0 (default) leaves the stream unbounded.
func WithMaxLen(n int64) Option {
	return func(o *Output) { o.maxLen = n }
}

// WithVerbosity sets how much of each entry is stored. Default: Full.
func WithVerbosity(v output.Verbosity) Option {
	return func(o *Output) { o.verbosity = v }
}

// Output writes each entry as a stream message with the fields channel,
// severity, level, message, context (JSON) and timestamp.
type Output struct {
	client    *redis.Client
	stream    string
	maxLen    int64
	verbosity output.Verbosity
	owned     bool // Close also closes client
}

// New creates an Output appending to stream through client. The caller
// keeps ownership of client.
func New(client *redis.Client, stream string, opts ...Option) *Output {
	if stream == "" {
		stream = DefaultStream
	}
	o := &Output{client: client, stream: stream, verbosity: output.Full}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Output) Write(ctx context.Context, entry model.LogEntry) error {
	rec := output.FormatEntry(entry, o.verbosity)

	values := map[string]any{
		"channel":   rec.Channel,
		"severity":  rec.Severity,
		"level":     rec.Level,
		"message":   rec.Message,
		"timestamp": rec.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if rec.Context != nil {
		data, err := json.Marshal(rec.Context)
		if err != nil {
			return fmt.Errorf("redis output: marshal context: %w", err)
		}
		values["context"] = string(data)
	}

	args := &redis.XAddArgs{Stream: o.stream, Values: values}
	if o.maxLen > 0 {
		args.MaxLen = o.maxLen
		args.Approx = true
	}
	if err := o.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis output: xadd %s: %w", o.stream, err)
	}
	return nil
}

func (o *Output) Close() error {
	if !o.owned {
		return nil
	}
	return o.client.Close()
}
