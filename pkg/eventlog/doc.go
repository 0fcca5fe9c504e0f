// Package eventlog renders tracked site events into single-line audit
// messages and writes them to the console, to syslog or to a generic
// logging channel.
//
// Quick start:
//
//	t, err := eventlog.New(eventlog.WithSyslog(""), eventlog.WithFacility("LOG_LOCAL0"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Close()
//
//	t.LogEvent(ctx, eventlog.Event{
//	    Operation: "fail",
//	    Type:      "authorization",
//	    Path:      "user/1/edit",
//	    User:      eventlog.User{Name: "anonymous"},
//	})
//
// Failed operations are logged at warning severity, everything else at
// notice. A Tracker is safe for concurrent use; LogEvent never fails.
package eventlog
