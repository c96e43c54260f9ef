package s3env

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hupe1980/fsenv"
)

var errClosed = errors.New("file already closed")

// sequentialFile streams an object from front to back. The response
// body is not seekable, so Skip discards bytes from the stream.
type sequentialFile struct {
	name string
	body io.ReadCloser
	size int64
	pos  int64
}

func (f *sequentialFile) Read(p []byte) (int, error) {
	if f.body == nil {
		return 0, fsenv.NewIOError(f.name, errClosed)
	}

	n, err := f.body.Read(p)
	f.pos += int64(n)
	if err != nil && err != io.EOF {
		return n, fsenv.NewIOError(f.name, err)
	}
	// End of object is an ordinary short read.
	return n, nil
}

func (f *sequentialFile) Skip(n int64) error {
	if f.body == nil {
		return fsenv.NewIOError(f.name, errClosed)
	}
	if n <= 0 {
		return nil
	}
	if remaining := f.size - f.pos; n > remaining {
		n = remaining
	}

	discarded, err := io.CopyN(io.Discard, f.body, n)
	f.pos += discarded
	if err != nil && err != io.EOF {
		return fsenv.NewIOError(f.name, err)
	}
	return nil
}

func (f *sequentialFile) Close() error {
	if f.body == nil {
		return nil
	}
	body := f.body
	f.body = nil
	if err := body.Close(); err != nil {
		return fsenv.NewIOError(f.name, err)
	}
	return nil
}

// randomAccessFile issues one ranged GetObject per read. Requests are
// independent, so concurrent ReadAt calls never contend.
type randomAccessFile struct {
	name string
	env  *Env
	key  string
	size int64

	closed atomic.Bool
}

func (f *randomAccessFile) ReadAt(p []byte, off int64) (int, error) {
	if f.closed.Load() {
		return 0, fsenv.NewIOError(f.name, errClosed)
	}

	if off >= f.size || len(p) == 0 {
		return 0, nil
	}

	end := off + int64(len(p)) - 1
	if end >= f.size {
		end = f.size - 1
	}

	out, err := f.env.client.GetObject(f.env.ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.env.bucket),
		Key:    aws.String(f.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		return 0, translate(f.name, err)
	}
	defer out.Body.Close()

	n, err := io.ReadFull(out.Body, p)
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
	f.closed.Store(true)
	return nil
}

// writableFile streams appended bytes through a pipe into a multipart
// upload. The upload finishes, and the object becomes visible, when
// Close returns.
type writableFile struct {
	name string
	pw   *io.PipeWriter
	done chan error

	closed atomic.Bool
}

func newWritableFile(e *Env, fname string) *writableFile {
	pr, pw := io.Pipe()
	uploader := manager.NewUploader(e.client)

	f := &writableFile{
		name: fname,
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		_, err := uploader.Upload(e.ctx, &s3.PutObjectInput{
			Bucket: aws.String(e.bucket),
			Key:    aws.String(e.key(fname)),
			Body:   pr,
		})
		// Unblock any writer still feeding the pipe.
		_ = pr.CloseWithError(err)
		f.done <- err
	}()

	return f
}

func (f *writableFile) Append(p []byte) error {
	if f.closed.Load() {
		return fsenv.NewIOError(f.name, errClosed)
	}
	if _, err := f.pw.Write(p); err != nil {
		return translate(f.name, err)
	}
	return nil
}

// Flush is a no-op: bytes are already in the upload stream.
func (f *writableFile) Flush() error {
	if f.closed.Load() {
		return fsenv.NewIOError(f.name, errClosed)
	}
	return nil
}

// Sync reports success, but the object is only durable once Close has
// completed the upload.
func (f *writableFile) Sync() error {
	if f.closed.Load() {
		return fsenv.NewIOError(f.name, errClosed)
	}
	return nil
}

func (f *writableFile) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.pw.Close()
	if err := <-f.done; err != nil {
		return translate(f.name, err)
	}
	return nil
}
