package output

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Settings carries everything a channel backend constructor may need.
// Each backend reads only its own fields.
type Settings struct {
	Verbosity Verbosity
	Logger    zerolog.Logger

	// AsyncBuffer > 0 queues channel writes in a buffer of that size and
	// drops entries when it is full.
	AsyncBuffer int

	FilePath    string
	FileMaxSize int64

	WebhookURL     string
	WebhookHeaders map[string]string
	WebhookTimeout time.Duration

	RedisAddr   string
	RedisStream string
	RedisMaxLen int64
}

// Constructor builds a backend from settings.
type Constructor func(Settings) (Output, error)

var registry = map[string]Constructor{}

// Register adds a backend constructor under the given name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the backend constructor for the given name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown output backend: %s", name)
	}
	return ctor, nil
}

// Backends returns the names of all registered backends, sorted.
func Backends() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
