package eventlog_test

import (
	"context"
	"log"

	"github.com/crimson-sun/eventlogtrack/pkg/eventlog"
)

func Example() {
	t, err := eventlog.New(eventlog.WithStdout(eventlog.DefaultFormat))
	if err != nil {
		log.Fatal(err)
	}
	defer t.Close()

	t.LogEvent(context.Background(), eventlog.Event{
		Operation:   "save",
		Type:        "config",
		RefChar:     "event_log_track.settings",
		Path:        "admin/config/development/logging",
		Description: "x",
		User:        eventlog.User{UID: 1, Name: "admin", Roles: []string{"administrator"}},
	})
	// Output:
	// ELT [config] [event_log_track.settings] [save] ON [admin/config/development/logging] BY [user:1:admin:administrator] [x]
}
