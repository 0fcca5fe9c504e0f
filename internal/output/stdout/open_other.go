//go:build !unix

package stdout

import (
	"io"
	"os"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func openStream(s Stream) (io.WriteCloser, error) {
	if s == Err {
		return nopCloser{os.Stderr}, nil
	}
	return nopCloser{os.Stdout}, nil
}
