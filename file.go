package fsenv

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/hupe1980/fsenv/internal/fs"
)

// sequentialFile reads a local file front to back through the handle's
// implicit cursor. It stores no cursor of its own.
type sequentialFile struct {
	name string
	f    fs.File
}

func (s *sequentialFile) Read(p []byte) (int, error) {
	if s.f == nil {
		return 0, NewIOError(s.name, os.ErrClosed)
	}

	n, err := s.f.Read(p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		return n, NewIOError(s.name, err)
	}
	return n, nil
}

func (s *sequentialFile) Skip(n int64) error {
	if s.f == nil {
		return NewIOError(s.name, os.ErrClosed)
	}

	cur, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return NewIOError(s.name, err)
	}
	info, err := s.f.Stat()
	if err != nil {
		return NewIOError(s.name, err)
	}

	target := cur + n
	if target > info.Size() {
		target = info.Size()
	}
	if target < 0 {
		target = 0
	}
	if err := seekTo(s.f, target); err != nil {
		return NewIOError(s.name, err)
	}
	return nil
}

func (s *sequentialFile) Close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	if err := f.Close(); err != nil {
		return NewIOError(s.name, err)
	}
	return nil
}

// randomAccessFile reads a local file at arbitrary offsets. Positioning
// and reading are two separate native calls against the handle's single
// cursor, so both execute under an exclusive lock; concurrent readers on
// one instance are serialized rather than parallel. The lock is released
// before any error is returned.
type randomAccessFile struct {
	name string

	mu sync.Mutex // guards f and its cursor
	f  fs.File
}

func (r *randomAccessFile) ReadAt(p []byte, off int64) (int, error) {
	r.mu.Lock()

	if r.f == nil {
		r.mu.Unlock()
		return 0, NewIOError(r.name, os.ErrClosed)
	}

	if err := seekTo(r.f, off); err != nil {
		// Positioning failed; the read is not attempted.
		r.mu.Unlock()
		return 0, NewIOError(r.name, err)
	}

	n, err := r.f.Read(p)
	r.mu.Unlock()

	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		return n, NewIOError(r.name, err)
	}
	return n, nil
}

func (r *randomAccessFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f == nil {
		return nil
	}
	f := r.f
	r.f = nil
	if err := f.Close(); err != nil {
		return NewIOError(r.name, err)
	}
	return nil
}

// writableFile appends to a local file. Writes go straight to the
// native call; the platform's own write buffering is relied upon.
// TODO: add an optional user-space buffer if benchmarks show the
// platform buffering insufficient for small fragment appends.
type writableFile struct {
	name string
	f    fs.File
}

func (w *writableFile) Append(p []byte) error {
	if w.f == nil {
		return NewIOError(w.name, os.ErrClosed)
	}

	n, err := w.f.Write(p)
	if err != nil {
		return NewIOError(w.name, err)
	}
	if n < len(p) {
		return NewIOError(w.name, io.ErrShortWrite)
	}
	return nil
}

func (w *writableFile) Flush() error {
	// Nothing is buffered at this layer.
	return nil
}

func (w *writableFile) Sync() error {
	if w.f == nil {
		return NewIOError(w.name, os.ErrClosed)
	}
	if err := w.f.Sync(); err != nil {
		return NewIOError(w.name, err)
	}
	return nil
}

func (w *writableFile) Close() error {
	if w.f == nil {
		return nil
	}
	f := w.f
	w.f = nil
	if err := f.Close(); err != nil {
		return NewIOError(w.name, err)
	}
	return nil
}
