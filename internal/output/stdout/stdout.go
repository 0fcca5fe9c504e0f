package stdout

import (
	"context"
	"fmt"
	"io"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// Stream identifies one of the process output streams.
type Stream int

const (
	Out Stream = iota
	Err
)

func (s Stream) String() string {
	if s == Err {
		return "stderr"
	}
	return "stdout"
}

// Opener returns a fresh handle on a stream. The caller closes it.
type Opener func(Stream) (io.WriteCloser, error)

// Option configures a console Output.
type Option func(*Output)

// WithOpener replaces the function used to acquire stream handles.
func WithOpener(open Opener) Option {
	return func(o *Output) { o.open = open }
}

// Output writes CRLF-terminated messages to stdout, or to stderr for
// warnings and worse when useStderr is set. Each write acquires its own
// handle and releases it before returning.
type Output struct {
	useStderr bool
	open      Opener
}

// New creates a console Output.
func New(useStderr bool, opts ...Option) *Output {
	o := &Output{useStderr: useStderr, open: openStream}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StreamFor returns the stream a message at sev is written to.
func (o *Output) StreamFor(sev model.Severity) Stream {
	if o.useStderr && sev <= model.Warning {
		return Err
	}
	return Out
}

func (o *Output) Write(_ context.Context, entry model.LogEntry) error {
	stream := o.StreamFor(entry.Severity)
	w, err := o.open(stream)
	if err != nil {
		return fmt.Errorf("stdout output: open %s: %w", stream, err)
	}

	_, werr := io.WriteString(w, entry.Message+"\r\n")
	cerr := w.Close()
	if werr != nil {
		return fmt.Errorf("stdout output: write %s: %w", stream, werr)
	}
	if cerr != nil {
		return fmt.Errorf("stdout output: close %s: %w", stream, cerr)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
