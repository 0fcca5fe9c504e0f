// Package syslog writes messages to the operating system logger through a
// connection that is opened lazily, once, and kept until process exit.
package syslog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// Facility is a syslog facility code, already shifted (LOG_LOCAL0 = 128).
type Facility int

const (
	Kern     Facility = 0 << 3
	User     Facility = 1 << 3
	Mail     Facility = 2 << 3
	Daemon   Facility = 3 << 3
	Auth     Facility = 4 << 3
	Syslog   Facility = 5 << 3
	Lpr      Facility = 6 << 3
	News     Facility = 7 << 3
	Uucp     Facility = 8 << 3
	Cron     Facility = 9 << 3
	AuthPriv Facility = 10 << 3
	Ftp      Facility = 11 << 3
	Local0   Facility = 16 << 3
	Local1   Facility = 17 << 3
	Local2   Facility = 18 << 3
	Local3   Facility = 19 << 3
	Local4   Facility = 20 << 3
	Local5   Facility = 21 << 3
	Local6   Facility = 22 << 3
	Local7   Facility = 23 << 3
)

var facilityNames = map[string]Facility{
	"LOG_KERN":     Kern,
	"LOG_USER":     User,
	"LOG_MAIL":     Mail,
	"LOG_DAEMON":   Daemon,
	"LOG_AUTH":     Auth,
	"LOG_SYSLOG":   Syslog,
	"LOG_LPR":      Lpr,
	"LOG_NEWS":     News,
	"LOG_UUCP":     Uucp,
	"LOG_CRON":     Cron,
	"LOG_AUTHPRIV": AuthPriv,
	"LOG_FTP":      Ftp,
	"LOG_LOCAL0":   Local0,
	"LOG_LOCAL1":   Local1,
	"LOG_LOCAL2":   Local2,
	"LOG_LOCAL3":   Local3,
	"LOG_LOCAL4":   Local4,
	"LOG_LOCAL5":   Local5,
	"LOG_LOCAL6":   Local6,
	"LOG_LOCAL7":   Local7,
}

// ParseFacility accepts a facility name ("LOG_LOCAL0", "local0") or its
// numeric code as stored by the host ("128").
func ParseFacility(s string) (Facility, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		f := Facility(n)
		if n < 0 || n%8 != 0 || f > Local7 || (f > Ftp && f < Local0) {
			return 0, fmt.Errorf("syslog: invalid facility code %d", n)
		}
		return f, nil
	}
	name := strings.ToUpper(s)
	if !strings.HasPrefix(name, "LOG_") {
		name = "LOG_" + name
	}
	f, ok := facilityNames[name]
	if !ok {
		return 0, fmt.Errorf("syslog: unknown facility %q", s)
	}
	return f, nil
}

// Writer sends one message at a given severity to the system logger.
type Writer interface {
	Log(sev model.Severity, msg string) error
}

// Opener connects to the system logger.
type Opener func(facility Facility, identity string) (Writer, error)

// Connection is the single handle to the system logger. It is opened on
// first use and never reopened, not even after a failed attempt. There is
// no Close: the handle lives until process exit.
type Connection struct {
	mu        sync.Mutex
	open      Opener
	facility  Facility
	identity  string
	attempted bool
	w         Writer
	err       error
}

// NewConnection prepares a connection; nothing is dialed until EnsureOpen.
// A nil open uses Dial.
func NewConnection(facility Facility, identity string, open Opener) *Connection {
	if open == nil {
		open = Dial
	}
	return &Connection{open: open, facility: facility, identity: identity}
}

// EnsureOpen opens the connection on the first call and reports whether it
// is usable. Subsequent calls return the outcome of that first attempt.
func (c *Connection) EnsureOpen() bool {
	return c.writer() != nil
}

// Err returns the error from the opening attempt, if any.
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Connection) writer() Writer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.attempted {
		c.attempted = true
		c.w, c.err = c.open(c.facility, c.identity)
		if c.err != nil {
			c.w = nil
		}
	}
	return c.w
}

// Log writes msg at sev. On a connection that failed to open it does nothing.
func (c *Connection) Log(sev model.Severity, msg string) error {
	w := c.writer()
	if w == nil {
		return nil
	}
	return w.Log(sev, msg)
}

// Output is the direct syslog sink.
type Output struct {
	conn *Connection
}

// New creates a syslog Output over conn.
func New(conn *Connection) *Output {
	return &Output{conn: conn}
}

func (o *Output) Write(_ context.Context, entry model.LogEntry) error {
	if err := o.conn.Log(entry.Severity, entry.Message); err != nil {
		return fmt.Errorf("syslog output: %w", err)
	}
	return nil
}

// Close is a no-op; the connection stays open until the process exits.
func (o *Output) Close() error {
	return nil
}
