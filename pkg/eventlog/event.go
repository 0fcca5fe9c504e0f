package eventlog

import (
	"time"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// User identifies who triggered an event.
type User struct {
	UID   int64    `json:"uid"`
	Name  string   `json:"name"`
	Mail  string   `json:"mail,omitempty"`
	Roles []string `json:"roles"`
}

// Event is one tracked action.
// This is the stable public type; internal representations may evolve
// independently without breaking consumers.
type Event struct {
	Operation   string         `json:"operation"`             // insert, update, delete, fail, ...
	Type        string         `json:"type"`                  // entity or subsystem: node, user, config, authorization
	Path        string         `json:"path"`                  // request path that triggered the event
	Description string         `json:"description"`           // free text
	RefNumeric  int64          `json:"ref_numeric,omitempty"` // numeric id of the affected object
	RefChar     string         `json:"ref_char"`              // string id of the affected object
	IP          string         `json:"ip,omitempty"`          // client address
	Created     time.Time      `json:"created,omitzero"`      // zero means now
	User        User           `json:"user"`
	Extra       map[string]any `json:"extra,omitempty"` // resolvable as [event-log:<key>]
}

func (e Event) record() model.EventRecord {
	return model.EventRecord{
		Operation:   e.Operation,
		Type:        e.Type,
		Path:        e.Path,
		Description: e.Description,
		RefNumeric:  e.RefNumeric,
		RefChar:     e.RefChar,
		IP:          e.IP,
		Created:     e.Created,
		User: model.User{
			UID:   e.User.UID,
			Name:  e.User.Name,
			Mail:  e.User.Mail,
			Roles: e.User.Roles,
		},
		Extra: e.Extra,
	}
}
