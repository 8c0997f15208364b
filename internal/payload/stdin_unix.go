//go:build unix

package payload

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// inputReady reports whether a read on f would return without blocking:
// data is buffered, the writer has closed, or f is a regular file.
func inputReady(f *os.File) bool {
	fds := []unix.PollFd{{Fd: int32(f.Fd()), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			// Readiness unknown; read as if data were there.
			return true
		}
		return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0
	}
}
