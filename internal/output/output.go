package output

import (
	"context"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// Output is a sink for classified log entries. Direct adapters (console,
// syslog) and the host logging channel all implement it, so the router can
// treat them uniformly.
type Output interface {
	Write(ctx context.Context, entry model.LogEntry) error
	Close() error
}
