package model

import (
	"strconv"
	"time"
)

// User identifies who triggered an event.
type User struct {
	UID   int64    `json:"uid"`
	Name  string   `json:"name"`
	Mail  string   `json:"mail,omitempty"`
	Roles []string `json:"roles"`
}

// EventRecord is one tracked action handed over by the host. It is treated as
// immutable for the duration of a single log call.
type EventRecord struct {
	Operation   string         `json:"operation"`
	Type        string         `json:"type"`
	Path        string         `json:"path"`
	Description string         `json:"description"`
	RefNumeric  int64          `json:"ref_numeric,omitempty"`
	RefChar     string         `json:"ref_char"`
	IP          string         `json:"ip,omitempty"`
	Created     time.Time      `json:"created,omitzero"`
	User        User           `json:"user"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// ID returns the numeric reference when set, then the character reference,
// then "".
func (r EventRecord) ID() string {
	if r.RefNumeric != 0 {
		return strconv.FormatInt(r.RefNumeric, 10)
	}
	return r.RefChar
}

// Context flattens the record into the passthrough map handed to the host
// logging channel. Extra keys never override the record's own fields.
func (r EventRecord) Context() map[string]any {
	roles := make([]string, len(r.User.Roles))
	copy(roles, r.User.Roles)

	ctx := map[string]any{
		"operation":   r.Operation,
		"type":        r.Type,
		"path":        r.Path,
		"description": r.Description,
		"ref_numeric": r.RefNumeric,
		"ref_char":    r.RefChar,
		"uid":         r.User.UID,
		"name":        r.User.Name,
		"roles":       roles,
	}
	if r.IP != "" {
		ctx["ip"] = r.IP
	}
	for k, v := range r.Extra {
		if _, taken := ctx[k]; !taken {
			ctx[k] = v
		}
	}
	return ctx
}

// RenderedMessage is the final text line for one event and the severity it
// was classified at.
type RenderedMessage struct {
	Text     string
	Severity Severity
}
