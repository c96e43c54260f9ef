//go:build windows

package fsenv

import "syscall"

// errnoName is a no-op on Windows; system error codes have no portable
// symbolic names there and the formatted message already carries the
// description.
func errnoName(syscall.Errno) string { return "" }
