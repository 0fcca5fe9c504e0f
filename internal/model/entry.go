package model

import "time"

// LogEntry is what every sink receives: a classified message plus the
// structured context it came from.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Channel   string         `json:"channel,omitempty"`
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
}
