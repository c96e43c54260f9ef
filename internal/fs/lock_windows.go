//go:build windows

package fs

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
)

// lockFile holds a LockFileEx-backed advisory lock until closed.
type lockFile struct {
	f *os.File
}

func (l *lockFile) Close() error {
	ol := new(windows.Overlapped)
	_ = windows.UnlockFileEx(windows.Handle(l.f.Fd()), 0, 1, 0, ol)
	return l.f.Close()
}

func createLockFile(name string, perm os.FileMode) (io.Closer, error) {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_RDWR, perm)
	if err != nil {
		return nil, err
	}
	ol := new(windows.Overlapped)
	err = windows.LockFileEx(windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, ol)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &lockFile{f: f}, nil
}
