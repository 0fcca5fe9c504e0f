//go:build windows || plan9

package syslog

import "errors"

// Dial always fails: there is no system logger on this platform.
func Dial(Facility, string) (Writer, error) {
	return nil, errors.New("syslog: not supported on this platform")
}
