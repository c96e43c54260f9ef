//go:build unix

package fsenv

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// errnoName returns the symbolic name of an errno (e.g. "ENOENT"),
// or "" if the value has no name on this platform.
func errnoName(errno syscall.Errno) string {
	return unix.ErrnoName(errno)
}
