package fsenv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hupe1980/fsenv/internal/fs"
)

// LocalEnv is an Env backed by the local file system.
type LocalEnv struct {
	fs     fs.FileSystem
	logger *Logger

	testDirOnce sync.Once
	testDir     string
	testDirErr  error
}

// NewLocalEnv creates an environment backed by the local file system.
// Most callers should use [Default] instead and share the process-wide
// instance.
func NewLocalEnv(optFns ...func(*Options)) *LocalEnv {
	opts := Options{
		Logger: NoopLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &LocalEnv{
		fs:     fs.Default,
		logger: opts.Logger,
	}
}

// newLocalEnv wires an explicit FileSystem; used by tests for fault
// injection.
func newLocalEnv(fsys fs.FileSystem, optFns ...func(*Options)) *LocalEnv {
	e := NewLocalEnv(optFns...)
	e.fs = fsys
	return e
}

// NewSequentialFile opens fname read-only for forward reads.
func (e *LocalEnv) NewSequentialFile(fname string) (SequentialFile, error) {
	f, err := e.fs.OpenFile(fname, os.O_RDONLY, 0)
	if err != nil {
		e.logger.Debug("open for sequential read failed", "path", fname, "error", err)
		return nil, NewIOError(fname, err)
	}
	return &sequentialFile{name: fname, f: f}, nil
}

// NewRandomAccessFile opens fname read-only for positioned reads.
func (e *LocalEnv) NewRandomAccessFile(fname string) (RandomAccessFile, error) {
	f, err := e.fs.OpenFile(fname, os.O_RDONLY, 0)
	if err != nil {
		e.logger.Debug("open for random access failed", "path", fname, "error", err)
		return nil, NewIOError(fname, err)
	}
	return &randomAccessFile{name: fname, f: f}, nil
}

// NewWritableFile creates fname for appending, truncating any existing
// file with the same name.
func (e *LocalEnv) NewWritableFile(fname string) (WritableFile, error) {
	f, err := e.fs.OpenFile(fname, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		e.logger.Debug("open for write failed", "path", fname, "error", err)
		return nil, NewIOError(fname, err)
	}
	return &writableFile{name: fname, f: f}, nil
}

// NewAppendableFile is a recognized but unimplemented capability of the
// local environment.
func (e *LocalEnv) NewAppendableFile(fname string) (WritableFile, error) {
	return nil, NewNotSupported(fname, "appending is not supported by this environment")
}

// FileExists reports whether fname names an existing regular file. A
// directory does not exist as a file.
func (e *LocalEnv) FileExists(fname string) bool {
	info, err := e.fs.Stat(fname)
	return err == nil && !info.IsDir()
}

// GetChildren returns the names of dir's immediate children, relative
// to dir.
func (e *LocalEnv) GetChildren(dir string) ([]string, error) {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, NewIOError(dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		// Pseudo-entries for the directory itself and its parent are
		// never part of the result, whatever the FileSystem reports.
		if name == "." || name == ".." {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// RemoveFile deletes the named file.
func (e *LocalEnv) RemoveFile(fname string) error {
	if err := e.fs.Remove(fname); err != nil {
		return NewIOError(fname, err)
	}
	return nil
}

// CreateDir creates the named directory.
func (e *LocalEnv) CreateDir(dirname string) error {
	if err := e.fs.Mkdir(dirname, 0755); err != nil {
		return NewIOError(dirname, err)
	}
	return nil
}

// RemoveDir deletes the named directory.
func (e *LocalEnv) RemoveDir(dirname string) error {
	if err := e.fs.Remove(dirname); err != nil {
		return NewIOError(dirname, err)
	}
	return nil
}

// GetFileSize returns the size of fname in bytes.
func (e *LocalEnv) GetFileSize(fname string) (int64, error) {
	info, err := e.fs.Stat(fname)
	if err != nil {
		return 0, NewIOError(fname, err)
	}
	return info.Size(), nil
}

// RenameFile renames src to target.
func (e *LocalEnv) RenameFile(src, target string) error {
	if err := e.fs.Rename(src, target); err != nil {
		return NewIOError(src, err)
	}
	return nil
}

// fileLock pairs a lock name with the handle holding it.
type fileLock struct {
	name   string
	closer io.Closer
}

// LockFile acquires a non-blocking advisory lock on fname, creating the
// file if needed. Used to prevent concurrent access to the same store by
// multiple processes; the lock dies with the process.
func (e *LocalEnv) LockFile(fname string) (FileLock, error) {
	closer, err := e.fs.CreateLockFile(fname, 0644)
	if err != nil {
		return nil, NewIOError(fname, err)
	}
	return &fileLock{name: fname, closer: closer}, nil
}

// UnlockFile releases a lock returned by LockFile.
func (e *LocalEnv) UnlockFile(lock FileLock) error {
	fl, ok := lock.(*fileLock)
	if !ok || fl.closer == nil {
		return NewIOError("unlock", errors.New("not a lock issued by this environment"))
	}
	c := fl.closer
	fl.closer = nil
	if err := c.Close(); err != nil {
		return NewIOError(fl.name, err)
	}
	return nil
}

// Schedule arranges to run fn once in a background goroutine. Items
// scheduled on the same Env may run concurrently.
func (e *LocalEnv) Schedule(fn func()) {
	go fn()
}

// StartThread runs fn in a new goroutine.
func (e *LocalEnv) StartThread(fn func()) {
	go fn()
}

// GetTestDirectory returns a per-user scratch directory, creating it on
// first use. Subsequent calls return the same directory.
func (e *LocalEnv) GetTestDirectory() (string, error) {
	e.testDirOnce.Do(func() {
		dir := filepath.Join(os.TempDir(), fmt.Sprintf("fsenvtest-%d", os.Getuid()))
		if err := e.fs.MkdirAll(dir, 0755); err != nil {
			e.testDirErr = NewIOError(dir, err)
			return
		}
		e.testDir = dir
	})
	return e.testDir, e.testDirErr
}

// NewLogger creates a logger writing structured text to the named file.
func (e *LocalEnv) NewLogger(fname string) (*Logger, error) {
	f, err := e.fs.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, NewIOError(fname, err)
	}
	return newFileLogger(f), nil
}

// NowMicros returns microseconds since the Unix epoch.
func (e *LocalEnv) NowMicros() int64 {
	return time.Now().UnixMicro()
}

// SleepForMicroseconds suspends the calling goroutine.
func (e *LocalEnv) SleepForMicroseconds(micros int) {
	time.Sleep(time.Duration(micros) * time.Microsecond)
}
