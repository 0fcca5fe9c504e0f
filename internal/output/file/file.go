// Package file is the "file" backend of the host channel: one JSON record
// per line, size-based rotation with a bounded number of backups.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/crimson-sun/eventlogtrack/internal/model"
	"github.com/crimson-sun/eventlogtrack/internal/output"
)

const (
	defaultBufSize = 64 * 1024
	defaultBackups = 5
)

func init() {
	output.Register("file", func(s output.Settings) (output.Output, error) {
		if s.FilePath == "" {
			return nil, fmt.Errorf("file output: path is required")
		}
		return New(s.FilePath, s.Verbosity, WithMaxSize(s.FileMaxSize))
	})
}

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize sets the size in bytes at which the file is rotated.
// 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithBackups sets how many rotated files (path.1 .. path.N) are kept.
// 0 discards the old file on rotation. Default: 5.
func WithBackups(n int) Option {
	return func(o *Output) { o.backups = n }
}

// WithFlushSeverity flushes the buffer right after any entry at sev or more
// severe, so failures reach disk without waiting for Close. Default: Warning.
func WithFlushSeverity(sev model.Severity) Option {
	return func(o *Output) { o.flushAt = sev }
}

// WithBufSize sets the write buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// Output appends output.Record lines to a file.
type Output struct {
	mu        sync.Mutex
	path      string
	verbosity output.Verbosity
	maxSize   int64
	backups   int
	flushAt   model.Severity
	bufSize   int

	f    *os.File
	buf  *bufio.Writer
	size int64
}

// New opens (or creates) path for appending.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{
		path:      path,
		verbosity: verbosity,
		backups:   defaultBackups,
		flushAt:   model.Warning,
		bufSize:   defaultBufSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.open(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Output) Write(_ context.Context, entry model.LogEntry) error {
	line, err := json.Marshal(output.FormatEntry(entry, o.verbosity))
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.f == nil {
		return fmt.Errorf("file output: %s is closed", o.path)
	}
	if o.maxSize > 0 && o.size > 0 && o.size+int64(len(line)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate %s: %w", o.path, err)
		}
	}

	n, err := o.buf.Write(line)
	o.size += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	// Lower values are more severe.
	if entry.Severity <= o.flushAt {
		if err := o.buf.Flush(); err != nil {
			return fmt.Errorf("file output: flush: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the file. Later writes fail.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f == nil {
		return nil
	}
	err := errors.Join(o.buf.Flush(), o.f.Close())
	o.f, o.buf = nil, nil
	if err != nil {
		return fmt.Errorf("file output: close %s: %w", o.path, err)
	}
	return nil
}

func (o *Output) open() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f, o.size = f, info.Size()
	o.buf = bufio.NewWriterSize(f, o.bufSize)
	return nil
}

// rotate moves the current file to path.1, shifting older backups up and
// dropping the one past the limit, then reopens path. Caller holds o.mu.
func (o *Output) rotate() error {
	if err := errors.Join(o.buf.Flush(), o.f.Close()); err != nil {
		return err
	}
	o.f, o.buf = nil, nil

	if o.backups == 0 {
		if err := os.Remove(o.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return o.open()
	}

	os.Remove(o.backup(o.backups))
	for i := o.backups - 1; i >= 1; i-- {
		if err := os.Rename(o.backup(i), o.backup(i+1)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := os.Rename(o.path, o.backup(1)); err != nil {
		return err
	}
	return o.open()
}

func (o *Output) backup(i int) string {
	return o.path + "." + strconv.Itoa(i)
}
