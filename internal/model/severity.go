package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity is an RFC 5424 level. Lower values are more severe.
type Severity int

const (
	Emergency Severity = iota
	Alert
	Critical
	Error
	Warning
	Notice
	Info
	Debug
)

var severityNames = [...]string{"emergency", "alert", "critical", "error", "warning", "notice", "info", "debug"}

func (s Severity) String() string {
	if s < Emergency || s > Debug {
		return "severity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// Valid reports whether s is one of the eight standard levels.
func (s Severity) Valid() bool {
	return s >= Emergency && s <= Debug
}

// ParseSeverity accepts a level name ("warning", "WARN", "err") or its numeric code.
func ParseSeverity(s string) (Severity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		sev := Severity(n)
		if !sev.Valid() {
			return 0, fmt.Errorf("severity %d out of range", n)
		}
		return sev, nil
	}
	switch s {
	case "emerg":
		return Emergency, nil
	case "crit":
		return Critical, nil
	case "err":
		return Error, nil
	case "warn":
		return Warning, nil
	}
	for i, name := range severityNames {
		if name == s {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}
