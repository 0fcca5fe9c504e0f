// Package token replaces bracketed placeholders such as [event-log:type] in a
// format string with values from structured data.
//
// A token is "[" type ":" name "]" where type contains no whitespace, colons
// or brackets and name contains no brackets. Scanning happens once, so a
// token nested inside literal brackets is replaced while the surrounding
// text stays as written:
//
//	[user:[event-log:user:uid]]  ->  [user:1]
package token

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\[([^\s\[\]:]+):([^\[\]]+)\]`)

var lineBreaks = strings.NewReplacer("\n", "#012", "\r", "#015")

// Resolver looks up the name part of a token inside one namespace.
// ok=false means the name is unknown and renders as "". A non-nil error
// means the token is malformed.
type Resolver interface {
	Resolve(name string) (value string, ok bool, err error)
}

// Data maps a token type (namespace) to its resolver.
type Data map[string]Resolver

// RenderError reports a token that could not be resolved because it is malformed.
type RenderError struct {
	Token string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("token %s: %v", e.Token, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Token is one placeholder found in a template.
type Token struct {
	Raw  string // full text including brackets
	Type string
	Name string
}

// Scan returns the tokens in template in order of appearance.
func Scan(template string) []Token {
	matches := tokenPattern.FindAllStringSubmatch(template, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, Token{Raw: m[0], Type: m[1], Name: m[2]})
	}
	return tokens
}

// Render substitutes every token in template and escapes line breaks in the
// result. Unknown tokens become "". Malformed tokens also become "" and are
// reported as *RenderError values joined into the returned error, so callers
// may use the best-effort text or discard it.
func Render(template string, data Data) (string, error) {
	var (
		b    strings.Builder
		errs []error
		last int
	)
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(template, -1) {
		b.WriteString(template[last:loc[0]])
		last = loc[1]

		typ, name := template[loc[2]:loc[3]], template[loc[4]:loc[5]]
		r, ok := data[typ]
		if !ok {
			continue
		}
		v, _, err := r.Resolve(name)
		if err != nil {
			errs = append(errs, &RenderError{Token: template[loc[0]:loc[1]], Err: err})
			continue
		}
		b.WriteString(v)
	}
	b.WriteString(template[last:])

	return Escape(b.String()), errors.Join(errs...)
}

// Escape keeps a message on one physical line: LF becomes #012 and CR
// becomes #015. Nothing else is altered.
func Escape(s string) string {
	return lineBreaks.Replace(s)
}
