package memenv

import (
	"os"

	"github.com/hupe1980/fsenv"
)

// sequentialFile reads a contents snapshot front to back.
type sequentialFile struct {
	name   string
	data   []byte
	pos    int64
	closed bool
}

func (s *sequentialFile) Read(p []byte) (int, error) {
	if s.closed {
		return 0, fsenv.NewIOError(s.name, os.ErrClosed)
	}
	if s.pos >= int64(len(s.data)) {
		return 0, nil
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *sequentialFile) Skip(n int64) error {
	if s.closed {
		return fsenv.NewIOError(s.name, os.ErrClosed)
	}
	s.pos += n
	if s.pos > int64(len(s.data)) {
		s.pos = int64(len(s.data))
	}
	if s.pos < 0 {
		s.pos = 0
	}
	return nil
}

func (s *sequentialFile) Close() error {
	s.closed = true
	s.data = nil
	return nil
}

// randomAccessFile reads a contents snapshot at arbitrary offsets. The
// snapshot is immutable, so no locking is needed for concurrent reads.
type randomAccessFile struct {
	name string
	data []byte
}

func (r *randomAccessFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fsenv.NewIOError(r.name, os.ErrInvalid)
	}
	if off >= int64(len(r.data)) {
		return 0, nil
	}
	return copy(p, r.data[off:]), nil
}

func (r *randomAccessFile) Close() error {
	r.data = nil
	return nil
}

// writableFile appends straight into the environment's file map; this
// layer buffers nothing.
type writableFile struct {
	env  *Env
	name string
	key  string

	closed bool
}

func (w *writableFile) Append(p []byte) error {
	if w.closed {
		return fsenv.NewIOError(w.name, os.ErrClosed)
	}

	w.env.mu.Lock()
	defer w.env.mu.Unlock()
	w.env.files[w.key] = append(w.env.files[w.key], p...)
	return nil
}

func (w *writableFile) Flush() error {
	// Nothing is buffered at this layer.
	return nil
}

func (w *writableFile) Sync() error {
	if w.closed {
		return fsenv.NewIOError(w.name, os.ErrClosed)
	}
	// Memory is as stable as this environment gets.
	return nil
}

func (w *writableFile) Close() error {
	w.closed = true
	return nil
}
