//go:build unix

package fs

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// lockFile holds an flock-backed advisory lock until closed.
type lockFile struct {
	f *os.File
}

func (l *lockFile) Close() error {
	// Closing the descriptor drops the flock; unlock explicitly anyway so
	// duplicated descriptors in the same process cannot keep it alive.
	_ = unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	return l.f.Close()
}

func createLockFile(name string, perm os.FileMode) (io.Closer, error) {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_RDWR, perm)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &lockFile{f: f}, nil
}
