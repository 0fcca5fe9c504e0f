//go:build !windows && !plan9

package syslog

import (
	"fmt"
	"log/syslog"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// Dial connects to the local system logger. log/syslog dials immediately,
// matching openlog's no-delay option.
func Dial(facility Facility, identity string) (Writer, error) {
	w, err := syslog.New(syslog.Priority(facility)|syslog.LOG_NOTICE, identity)
	if err != nil {
		return nil, fmt.Errorf("syslog: dial: %w", err)
	}
	return &sysWriter{w: w}, nil
}

type sysWriter struct {
	w *syslog.Writer
}

func (s *sysWriter) Log(sev model.Severity, msg string) error {
	switch sev {
	case model.Emergency:
		return s.w.Emerg(msg)
	case model.Alert:
		return s.w.Alert(msg)
	case model.Critical:
		return s.w.Crit(msg)
	case model.Error:
		return s.w.Err(msg)
	case model.Warning:
		return s.w.Warning(msg)
	case model.Notice:
		return s.w.Notice(msg)
	case model.Info:
		return s.w.Info(msg)
	default:
		return s.w.Debug(msg)
	}
}
