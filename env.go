package fsenv

import "sync"

// SequentialFile reads a file from front to back.
//
// A SequentialFile performs no internal locking; a single instance must
// never be used from more than one goroutine at a time.
type SequentialFile interface {
	// Read reads up to len(p) bytes into p with a single native call; it
	// never loops to satisfy short reads. It returns the number of bytes
	// produced, which may be less than len(p). At end-of-file it returns
	// (0, nil): end-of-file is not an error.
	Read(p []byte) (int, error)

	// Skip advances the read cursor by n bytes. Skipping past end-of-file
	// clamps at end-of-file and returns nil.
	Skip(n int64) error

	// Close releases the underlying handle. Close is idempotent; only the
	// first call releases the handle.
	Close() error
}

// RandomAccessFile reads a file at arbitrary offsets.
//
// A RandomAccessFile is safe for concurrent use by multiple goroutines
// sharing one instance.
type RandomAccessFile interface {
	// ReadAt reads up to len(p) bytes into p starting at offset off.
	// Short reads are allowed; reading at or past end-of-file returns
	// (0, nil).
	ReadAt(p []byte, off int64) (int, error)

	// Close releases the underlying handle. Close is idempotent.
	Close() error
}

// WritableFile appends to a file.
//
// A WritableFile performs no buffering of its own and no internal
// locking; a single instance must never be used from more than one
// goroutine at a time.
type WritableFile interface {
	// Append writes p with a single direct write. Accepting fewer bytes
	// than requested is an I/O error.
	Append(p []byte) error

	// Flush flushes buffers held by this layer. Since nothing is buffered
	// here, Flush always returns nil.
	Flush() error

	// Sync forces the platform to persist written data to stable storage.
	Sync() error

	// Close releases the underlying handle. Close is idempotent; only the
	// first call releases the handle.
	Close() error
}

// FileLock is an acquired advisory whole-file lock, released via
// [Env.UnlockFile]. The lock is also released if the process exits.
type FileLock interface{}

// Env is the environment used to access the file system and other
// operating-system functionality. Callers may wrap an Env to add
// behavior (see resource.Throttle) or substitute one entirely (memenv,
// minioenv, s3env).
type Env interface {
	// NewSequentialFile opens fname for sequential reading. The file must
	// already exist.
	NewSequentialFile(fname string) (SequentialFile, error)

	// NewRandomAccessFile opens fname for positioned reads. The file must
	// already exist. The returned file may be used concurrently.
	NewRandomAccessFile(fname string) (RandomAccessFile, error)

	// NewWritableFile creates a writable file, truncating any existing
	// file with the same name.
	NewWritableFile(fname string) (WritableFile, error)

	// NewAppendableFile opens fname for appending, creating it if absent.
	// Appending is an optional capability: environments that do not
	// support it return a CodeNotSupported error, and callers must be
	// prepared for that.
	NewAppendableFile(fname string) (WritableFile, error)

	// FileExists reports whether fname names an existing regular file.
	// A path that resolves to a directory does not exist as a file.
	FileExists(fname string) bool

	// GetChildren returns the names of the immediate children of dir,
	// relative to dir, excluding the self and parent pseudo-entries.
	GetChildren(dir string) ([]string, error)

	// RemoveFile deletes the named file.
	RemoveFile(fname string) error

	// CreateDir creates the named directory.
	CreateDir(dirname string) error

	// RemoveDir deletes the named directory.
	RemoveDir(dirname string) error

	// GetFileSize returns the size of fname in bytes.
	GetFileSize(fname string) (int64, error)

	// RenameFile renames src to target.
	RenameFile(src, target string) error

	// LockFile acquires an advisory whole-file lock on fname, creating
	// the file if needed. If the lock is already held the call fails
	// immediately instead of waiting.
	LockFile(fname string) (FileLock, error)

	// UnlockFile releases a lock acquired by a successful LockFile call.
	UnlockFile(lock FileLock) error

	// Schedule arranges to run fn once in a background goroutine. Work
	// items scheduled on the same Env may run concurrently; no ordering
	// is implied.
	Schedule(fn func())

	// StartThread runs fn in a new goroutine.
	StartThread(fn func())

	// GetTestDirectory returns a directory usable for testing. Subsequent
	// calls return the same directory.
	GetTestDirectory() (string, error)

	// NewLogger creates a logger writing to the named file.
	NewLogger(fname string) (*Logger, error)

	// NowMicros returns microseconds since some fixed point in time; only
	// useful for computing deltas.
	NowMicros() int64

	// SleepForMicroseconds suspends the calling goroutine.
	SleepForMicroseconds(micros int)
}

var (
	defaultOnce sync.Once
	defaultEnv  *LocalEnv
)

// Default returns the process-wide environment backed by the local file
// system. It is created lazily, exactly once, and lives for the lifetime
// of the process.
func Default() Env {
	defaultOnce.Do(func() {
		defaultEnv = NewLocalEnv()
	})
	return defaultEnv
}
