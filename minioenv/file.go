package minioenv

import (
	"errors"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/fsenv"
)

var errClosed = errors.New("file already closed")

// sequentialFile streams an object from front to back.
type sequentialFile struct {
	name string
	obj  *minio.Object
	size int64
	pos  int64
}

func (f *sequentialFile) Read(p []byte) (int, error) {
	if f.obj == nil {
		return 0, fsenv.NewIOError(f.name, errClosed)
	}

	n, err := f.obj.Read(p)
	f.pos += int64(n)
	if err != nil && err != io.EOF {
		return n, fsenv.NewIOError(f.name, err)
	}
	// End of object is an ordinary short read.
	return n, nil
}

func (f *sequentialFile) Skip(n int64) error {
	if f.obj == nil {
		return fsenv.NewIOError(f.name, errClosed)
	}

	target := f.pos + n
	if target > f.size {
		target = f.size
	}
	if _, err := f.obj.Seek(target, io.SeekStart); err != nil {
		return fsenv.NewIOError(f.name, err)
	}
	f.pos = target
	return nil
}

func (f *sequentialFile) Close() error {
	if f.obj == nil {
		return nil
	}
	obj := f.obj
	f.obj = nil
	if err := obj.Close(); err != nil {
		return fsenv.NewIOError(f.name, err)
	}
	return nil
}

// randomAccessFile issues one range request per read. Requests are
// independent, so concurrent ReadAt calls never contend.
type randomAccessFile struct {
	name string
	env  *Env
	key  string
	size int64

	once   sync.Once
	closed chan struct{}
}

func (f *randomAccessFile) ReadAt(p []byte, off int64) (int, error) {
	select {
	case <-f.closed:
		return 0, fsenv.NewIOError(f.name, errClosed)
	default:
	}

	if off >= f.size || len(p) == 0 {
		return 0, nil
	}

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, off+int64(len(p))-1); err != nil {
		return 0, fsenv.NewIOError(f.name, err)
	}

	obj, err := f.env.client.GetObject(f.env.ctx, f.env.bucket, f.key, opts)
	if err != nil {
		return 0, translate(f.name, err)
	}
	defer obj.Close()

	n, err := io.ReadFull(obj, p)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		// Reading past the end yields the bytes that exist.
		return n, nil
	}
	if err != nil {
		return n, translate(f.name, err)
	}
	return n, nil
}

func (f *randomAccessFile) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

// writableFile streams appended bytes through a pipe into a single
// upload. The upload finishes, and the object becomes visible, when
// Close returns.
type writableFile struct {
	name string
	pw   *io.PipeWriter

	done chan struct{} // closed when the upload goroutine returns
	err  error         // upload outcome, valid after done

	closed bool
}

func newWritableFile(e *Env, fname string) *writableFile {
	pr, pw := io.Pipe()

	f := &writableFile{
		name: fname,
		pw:   pw,
		done: make(chan struct{}),
	}

	go func() {
		defer close(f.done)
		_, err := e.client.PutObject(e.ctx, e.bucket, e.key(fname), pr, -1, minio.PutObjectOptions{})
		if err != nil {
			f.err = err
			pr.CloseWithError(err)
			return
		}
		pr.Close()
	}()

	return f
}

func (f *writableFile) Append(p []byte) error {
	if f.closed {
		return fsenv.NewIOError(f.name, errClosed)
	}
	if _, err := f.pw.Write(p); err != nil {
		return translate(f.name, err)
	}
	return nil
}

// Flush is a no-op: bytes are already in the upload stream.
func (f *writableFile) Flush() error {
	if f.closed {
		return fsenv.NewIOError(f.name, errClosed)
	}
	return nil
}

// Sync reports success, but the object is only durable once Close has
// completed the upload.
func (f *writableFile) Sync() error {
	if f.closed {
		return fsenv.NewIOError(f.name, errClosed)
	}
	return nil
}

func (f *writableFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	f.pw.Close()
	<-f.done
	if f.err != nil {
		return translate(f.name, f.err)
	}
	return nil
}
