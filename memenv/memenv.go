package memenv

import (
	"errors"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/fsenv"
)

var (
	errLockHeld      = errors.New("lock already held")
	errNotEmpty      = errors.New("directory not empty")
	errIsDirectory   = errors.New("is a directory")
	errParentMissing = errors.New("parent directory does not exist")
)

// Env is an in-memory fsenv.Env. Thread-safe for concurrent use.
type Env struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}
	locks map[string]struct{}
}

// New creates an empty in-memory environment containing only the root
// directory.
func New() *Env {
	return &Env{
		files: make(map[string][]byte),
		dirs:  map[string]struct{}{"/": {}},
		locks: make(map[string]struct{}),
	}
}

// normalize maps any incoming path to a cleaned absolute form so that
// "a/b", "/a/b" and "/a//b/" all address the same entry.
func normalize(name string) string {
	return path.Clean("/" + name)
}

func (e *Env) open(fname string, truncate bool) (*writableFile, error) {
	key := normalize(fname)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.dirs[key]; ok {
		return nil, fsenv.NewIOError(fname, errIsDirectory)
	}
	if _, ok := e.dirs[path.Dir(key)]; !ok {
		return nil, fsenv.NewIOError(fname, errParentMissing)
	}

	data, exists := e.files[key]
	if truncate || !exists {
		data = nil
	}
	e.files[key] = data

	return &writableFile{env: e, name: fname, key: key}, nil
}

// NewSequentialFile opens fname for forward reads over a snapshot of its
// current contents.
func (e *Env) NewSequentialFile(fname string) (fsenv.SequentialFile, error) {
	data, err := e.snapshot(fname)
	if err != nil {
		return nil, err
	}
	return &sequentialFile{name: fname, data: data}, nil
}

// NewRandomAccessFile opens fname for positioned reads over a snapshot
// of its current contents. The snapshot is immutable, so reads need no
// synchronization.
func (e *Env) NewRandomAccessFile(fname string) (fsenv.RandomAccessFile, error) {
	data, err := e.snapshot(fname)
	if err != nil {
		return nil, err
	}
	return &randomAccessFile{name: fname, data: data}, nil
}

// NewWritableFile creates fname, truncating any existing content.
func (e *Env) NewWritableFile(fname string) (fsenv.WritableFile, error) {
	return e.open(fname, true)
}

// NewAppendableFile opens fname for appending, creating it if absent.
// Appending is supported by the in-memory environment.
func (e *Env) NewAppendableFile(fname string) (fsenv.WritableFile, error) {
	return e.open(fname, false)
}

func (e *Env) snapshot(fname string) ([]byte, error) {
	key := normalize(fname)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.dirs[key]; ok {
		return nil, fsenv.NewIOError(fname, errIsDirectory)
	}
	data, ok := e.files[key]
	if !ok {
		return nil, fsenv.NewIOError(fname, os.ErrNotExist)
	}

	// Copy so later writes cannot leak into open readers.
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// FileExists reports whether fname names a file. Directories do not
// exist as files.
func (e *Env) FileExists(fname string) bool {
	key := normalize(fname)

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.files[key]
	return ok
}

// GetChildren returns the names of dir's immediate children.
func (e *Env) GetChildren(dir string) ([]string, error) {
	key := normalize(dir)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.dirs[key]; !ok {
		return nil, fsenv.NewIOError(dir, os.ErrNotExist)
	}

	seen := make(map[string]struct{})
	collect := func(candidate string) {
		rest, ok := strings.CutPrefix(candidate, withSlash(key))
		if !ok || rest == "" {
			return
		}
		name, _, _ := strings.Cut(rest, "/")
		seen[name] = struct{}{}
	}
	for f := range e.files {
		collect(f)
	}
	for d := range e.dirs {
		collect(d)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names, nil
}

func withSlash(dir string) string {
	if dir == "/" {
		return "/"
	}
	return dir + "/"
}

// RemoveFile deletes the named file.
func (e *Env) RemoveFile(fname string) error {
	key := normalize(fname)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.files[key]; !ok {
		return fsenv.NewIOError(fname, os.ErrNotExist)
	}
	delete(e.files, key)
	return nil
}

// CreateDir creates the named directory. The parent must exist.
func (e *Env) CreateDir(dirname string) error {
	key := normalize(dirname)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.dirs[key]; ok {
		return fsenv.NewIOError(dirname, os.ErrExist)
	}
	if _, ok := e.dirs[path.Dir(key)]; !ok {
		return fsenv.NewIOError(dirname, errParentMissing)
	}
	e.dirs[key] = struct{}{}
	return nil
}

// RemoveDir deletes the named directory, which must be empty.
func (e *Env) RemoveDir(dirname string) error {
	key := normalize(dirname)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.dirs[key]; !ok {
		return fsenv.NewIOError(dirname, os.ErrNotExist)
	}
	prefix := withSlash(key)
	for f := range e.files {
		if strings.HasPrefix(f, prefix) {
			return fsenv.NewIOError(dirname, errNotEmpty)
		}
	}
	for d := range e.dirs {
		if strings.HasPrefix(d, prefix) {
			return fsenv.NewIOError(dirname, errNotEmpty)
		}
	}
	delete(e.dirs, key)
	return nil
}

// GetFileSize returns the size of fname in bytes.
func (e *Env) GetFileSize(fname string) (int64, error) {
	key := normalize(fname)

	e.mu.RLock()
	defer e.mu.RUnlock()

	data, ok := e.files[key]
	if !ok {
		return 0, fsenv.NewIOError(fname, os.ErrNotExist)
	}
	return int64(len(data)), nil
}

// RenameFile renames src to target, replacing target if present. The
// target's parent directory must exist.
func (e *Env) RenameFile(src, target string) error {
	srcKey, targetKey := normalize(src), normalize(target)

	e.mu.Lock()
	defer e.mu.Unlock()

	data, ok := e.files[srcKey]
	if !ok {
		return fsenv.NewIOError(src, os.ErrNotExist)
	}
	if _, ok := e.dirs[path.Dir(targetKey)]; !ok {
		return fsenv.NewIOError(target, errParentMissing)
	}
	delete(e.files, srcKey)
	e.files[targetKey] = data
	return nil
}

// memLock identifies a held in-memory lock.
type memLock struct {
	key string
}

// LockFile acquires an exclusive in-process lock on fname. A second
// acquisition fails immediately.
func (e *Env) LockFile(fname string) (fsenv.FileLock, error) {
	key := normalize(fname)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, held := e.locks[key]; held {
		return nil, fsenv.NewIOError(fname, errLockHeld)
	}
	e.locks[key] = struct{}{}
	if _, ok := e.files[key]; !ok {
		e.files[key] = nil
	}
	return &memLock{key: key}, nil
}

// UnlockFile releases a lock returned by LockFile.
func (e *Env) UnlockFile(lock fsenv.FileLock) error {
	ml, ok := lock.(*memLock)
	if !ok {
		return fsenv.NewIOError("unlock", errors.New("not a lock issued by this environment"))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.locks, ml.key)
	return nil
}

// Schedule arranges to run fn once in a background goroutine.
func (e *Env) Schedule(fn func()) { go fn() }

// StartThread runs fn in a new goroutine.
func (e *Env) StartThread(fn func()) { go fn() }

// GetTestDirectory returns "/test", creating it if needed.
func (e *Env) GetTestDirectory() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirs["/test"] = struct{}{}
	return "/test", nil
}

// NewLogger creates a logger appending structured text to the named
// in-memory file.
func (e *Env) NewLogger(fname string) (*fsenv.Logger, error) {
	wf, err := e.NewAppendableFile(fname)
	if err != nil {
		return nil, err
	}
	return fsenv.NewWritableFileLogger(wf), nil
}

// NowMicros returns microseconds since the Unix epoch.
func (e *Env) NowMicros() int64 { return time.Now().UnixMicro() }

// SleepForMicroseconds suspends the calling goroutine.
func (e *Env) SleepForMicroseconds(micros int) {
	time.Sleep(time.Duration(micros) * time.Microsecond)
}
