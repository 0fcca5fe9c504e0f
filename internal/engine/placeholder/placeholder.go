// Package placeholder interpolates host-style message variables (@name,
// %name, :name) from a context map into an already rendered message.
//
// PSR-3 style "{name}" placeholders are accepted too when the context holds
// an unprefixed "name" key; they are rewritten to "@name" before substitution.
package placeholder

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/crimson-sun/eventlogtrack/internal/engine/token"
)

var braced = regexp.MustCompile(`\{([A-Za-z0-9_.]+)\}`)

// Parse returns message with PSR-3 placeholders rewritten, and the
// placeholders of ctx that occur in it mapped to their string values. Only
// keys prefixed with @, % or :, or bare keys named by a rewritten "{key}",
// take part, and only when they carry a scalar value. Values are escaped so they cannot break the message across lines.
func Parse(message string, ctx map[string]any) (string, map[string]string) {
	if len(ctx) == 0 {
		return message, nil
	}
	var rewritten map[string]bool
	message = braced.ReplaceAllStringFunc(message, func(m string) string {
		key := m[1 : len(m)-1]
		if _, ok := ctx[key]; !ok {
			return m
		}
		if rewritten == nil {
			rewritten = make(map[string]bool)
		}
		rewritten[key] = true
		return "@" + key
	})

	var out map[string]string
	for k, v := range ctx {
		if rewritten[k] {
			if _, clash := ctx["@"+k]; clash {
				continue
			}
			k = "@" + k
		}
		if len(k) < 2 || !strings.ContainsRune("@%:", rune(k[0])) || !strings.Contains(message, k) {
			continue
		}
		s, ok := stringify(v)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = token.Escape(s)
	}
	return message, out
}

// Interpolate replaces every placeholder found by Parse. Longer keys win
// over their prefixes, so "@name" never clobbers "@name_full".
func Interpolate(message string, ctx map[string]any) string {
	message, placeholders := Parse(message, ctx)
	if len(placeholders) == 0 {
		return message
	}

	keys := make([]string, 0, len(placeholders))
	for k := range placeholders {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, placeholders[k])
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t), true
	}
	return "", false
}
