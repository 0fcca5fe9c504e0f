//go:build unix

package stdout

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// openStream duplicates the current stdout or stderr descriptor so that
// closing the returned handle leaves the process stream open.
func openStream(s Stream) (io.WriteCloser, error) {
	src := os.Stdout
	if s == Err {
		src = os.Stderr
	}
	fd, err := unix.Dup(int(src.Fd()))
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), src.Name()), nil
}
