package token

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// EventNamespace is the token type under which an event record is exposed.
const EventNamespace = "event-log"

// EventResolver resolves [event-log:...] tokens against one record and the
// severity it was classified at.
type EventResolver struct {
	Record   model.EventRecord
	Severity model.Severity
}

// EventData returns Data exposing rec under EventNamespace.
func EventData(rec model.EventRecord, sev model.Severity) Data {
	return Data{EventNamespace: EventResolver{Record: rec, Severity: sev}}
}

func (r EventResolver) Resolve(name string) (string, bool, error) {
	head, rest, _ := strings.Cut(name, ":")
	rec := r.Record

	switch head {
	case "operation":
		return scalar(head, rec.Operation, rest)
	case "type":
		return scalar(head, rec.Type, rest)
	case "path":
		return scalar(head, rec.Path, rest)
	case "description":
		return scalar(head, rec.Description, rest)
	case "ref_char":
		return scalar(head, rec.RefChar, rest)
	case "ref_numeric":
		v := ""
		if rec.RefNumeric != 0 {
			v = strconv.FormatInt(rec.RefNumeric, 10)
		}
		return scalar(head, v, rest)
	case "id":
		return scalar(head, rec.ID(), rest)
	case "ip":
		return scalar(head, rec.IP, rest)
	case "severity":
		return scalar(head, strconv.Itoa(int(r.Severity)), rest)
	case "created":
		v := ""
		if !rec.Created.IsZero() {
			v = rec.Created.Format(time.RFC3339)
		}
		return scalar(head, v, rest)
	case "user":
		return resolveUser(rec.User, rest)
	}

	if v, ok := rec.Extra[head]; ok {
		return resolveValue(head, v, rest)
	}
	return "", false, nil
}

func resolveUser(u model.User, name string) (string, bool, error) {
	head, rest, _ := strings.Cut(name, ":")
	switch head {
	case "", "name":
		return scalar("user:name", u.Name, rest)
	case "uid":
		return scalar("user:uid", strconv.FormatInt(u.UID, 10), rest)
	case "mail":
		return scalar("user:mail", u.Mail, rest)
	case "roles":
		return list(u.Roles, rest)
	}
	return "", false, nil
}

// resolveValue handles passthrough values whose shape is only known at runtime.
func resolveValue(field string, v any, rest string) (string, bool, error) {
	switch t := v.(type) {
	case []string:
		return list(t, rest)
	case []any:
		items := make([]string, len(t))
		for i, e := range t {
			items[i] = fmt.Sprint(e)
		}
		return list(items, rest)
	case map[string]any:
		if rest == "" {
			return "", false, nil
		}
		key, sub, _ := strings.Cut(rest, ":")
		nested, ok := t[key]
		if !ok {
			return "", false, nil
		}
		return resolveValue(field+":"+key, nested, sub)
	case nil:
		return scalar(field, "", rest)
	}
	return scalar(field, fmt.Sprint(v), rest)
}

func scalar(field, v, rest string) (string, bool, error) {
	if rest != "" {
		return "", false, fmt.Errorf("field %q has no subfield %q", field, rest)
	}
	return v, true, nil
}

// list applies a chain of array modifiers: join:<sep>, first, last, count,
// reversed, value:<index>. With no modifier the items are joined by ", ".
func list(items []string, chain string) (string, bool, error) {
	if chain == "" {
		return strings.Join(items, ", "), true, nil
	}
	mod, rest, _ := strings.Cut(chain, ":")
	switch mod {
	case "join":
		// The separator is everything after "join:", colons included.
		return strings.Join(items, rest), true, nil
	case "first":
		if len(items) == 0 {
			return scalar("first", "", rest)
		}
		return scalar("first", items[0], rest)
	case "last":
		if len(items) == 0 {
			return scalar("last", "", rest)
		}
		return scalar("last", items[len(items)-1], rest)
	case "count":
		return scalar("count", strconv.Itoa(len(items)), rest)
	case "reversed":
		rev := slices.Clone(items)
		slices.Reverse(rev)
		return list(rev, rest)
	case "value":
		idxStr, sub, _ := strings.Cut(rest, ":")
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return "", false, fmt.Errorf("invalid list index %q", idxStr)
		}
		if idx < 0 || idx >= len(items) {
			return "", false, nil
		}
		return scalar("value", items[idx], sub)
	}
	return "", false, fmt.Errorf("unknown list modifier %q", mod)
}
