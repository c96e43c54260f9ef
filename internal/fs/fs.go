package fs

import (
	"io"
	"os"
)

// File represents an open file. Positioning and reading are separate
// operations sharing the handle's single cursor; callers that need
// atomic positioned reads must serialize seek+read themselves.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Sync() error
	Stat() (os.FileInfo, error)
}

// FileSystem abstracts the native filesystem operations the local Env
// performs, for testability and fault injection.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
	Stat(name string) (os.FileInfo, error)
	Mkdir(name string, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(name string) ([]os.DirEntry, error)

	// CreateLockFile opens (creating if needed) name and acquires a
	// non-blocking exclusive advisory lock on it. Closing the returned
	// handle releases the lock.
	CreateLockFile(name string, perm os.FileMode) (io.Closer, error)
}

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

func (LocalFS) Remove(name string) error              { return os.Remove(name) }
func (LocalFS) Rename(oldpath, newpath string) error  { return os.Rename(oldpath, newpath) }
func (LocalFS) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }
func (LocalFS) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(name, perm)
}
func (LocalFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
func (LocalFS) ReadDir(name string) ([]os.DirEntry, error) { return os.ReadDir(name) }

func (LocalFS) CreateLockFile(name string, perm os.FileMode) (io.Closer, error) {
	return createLockFile(name, perm)
}

// Default is the default local file system.
var Default FileSystem = LocalFS{}
