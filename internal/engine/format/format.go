// Package format holds the built-in message template and the guardrail that
// falls back to it when a configured template is unusable.
package format

import "strings"

// Default is the template used whenever a configured one fails validation.
const Default = "ELT [[event-log:type]] [[event-log:ref_char]] [[event-log:operation]] ON [[event-log:path]] BY [user:[event-log:user:uid]:[event-log:user:name]:[event-log:user:roles:join:,]] [[event-log:description]]"

// Required lists the placeholders every accepted template must contain: the
// log type, the acting user's ID and the log description.
var Required = []string{
	"[event-log:type]",
	"[event-log:user:uid]",
	"[event-log:description]",
}

// Validate returns candidate when it is non-empty and contains every
// Required placeholder. Otherwise it returns Default and false. Stored
// configuration is never touched.
func Validate(candidate string) (string, bool) {
	if candidate == "" {
		return Default, false
	}
	for _, p := range Required {
		if !strings.Contains(candidate, p) {
			return Default, false
		}
	}
	return candidate, true
}
