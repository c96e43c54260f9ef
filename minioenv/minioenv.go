package minioenv

import (
	"context"
	"os"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/fsenv"
)

// Options configures a MinIO environment.
type Options struct {
	// Prefix is prepended to all keys (e.g. "db/").
	Prefix string

	// Context is the base context for all object-store calls.
	// Defaults to context.Background().
	Context context.Context
}

// WithPrefix sets the root key prefix.
func WithPrefix(prefix string) func(*Options) {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithContext sets the base context used for object-store calls.
func WithContext(ctx context.Context) func(*Options) {
	return func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}

// Env is an fsenv.Env over a MinIO bucket.
type Env struct {
	client *minio.Client
	bucket string
	prefix string
	ctx    context.Context
}

// New creates a MinIO-backed environment over the given bucket.
func New(client *minio.Client, bucket string, optFns ...func(*Options)) *Env {
	opts := Options{
		Context: context.Background(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Env{
		client: client,
		bucket: bucket,
		prefix: opts.Prefix,
		ctx:    opts.Context,
	}
}

// key maps an environment path to an object key.
func (e *Env) key(name string) string {
	return path.Join(e.prefix, strings.TrimPrefix(name, "/"))
}

// dirKey maps an environment path to a directory marker key.
func (e *Env) dirKey(name string) string {
	return e.key(name) + "/"
}

// translate converts a MinIO failure into a portable status. Missing
// keys surface as a not-exist cause so messages stay readable.
func translate(context string, err error) error {
	errResp := minio.ToErrorResponse(err)
	if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" || errResp.Code == "NoSuchBucket" {
		return fsenv.NewIOError(context, os.ErrNotExist)
	}
	return fsenv.NewIOError(context, err)
}

// NewSequentialFile opens the object named fname for forward reads.
func (e *Env) NewSequentialFile(fname string) (fsenv.SequentialFile, error) {
	key := e.key(fname)

	// Verify existence up front; GetObject defers errors to first read.
	info, err := e.client.StatObject(e.ctx, e.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translate(fname, err)
	}

	obj, err := e.client.GetObject(e.ctx, e.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(fname, err)
	}

	return &sequentialFile{name: fname, obj: obj, size: info.Size}, nil
}

// NewRandomAccessFile opens the object named fname for positioned
// reads. Every ReadAt issues an independent range request, so the
// returned file is safe for concurrent use without locking.
func (e *Env) NewRandomAccessFile(fname string) (fsenv.RandomAccessFile, error) {
	key := e.key(fname)

	info, err := e.client.StatObject(e.ctx, e.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translate(fname, err)
	}

	return &randomAccessFile{
		name:   fname,
		env:    e,
		key:    key,
		size:   info.Size,
		closed: make(chan struct{}),
	}, nil
}

// NewWritableFile creates the object named fname. Bytes stream through
// a pipe into a single upload that completes on Close; any existing
// object is replaced.
func (e *Env) NewWritableFile(fname string) (fsenv.WritableFile, error) {
	return newWritableFile(e, fname), nil
}

// NewAppendableFile is not supported: objects are immutable once
// written.
func (e *Env) NewAppendableFile(fname string) (fsenv.WritableFile, error) {
	return nil, fsenv.NewNotSupported(fname, "object storage does not support appending")
}

// FileExists reports whether fname names an object. Directory markers
// do not exist as files.
func (e *Env) FileExists(fname string) bool {
	_, err := e.client.StatObject(e.ctx, e.bucket, e.key(fname), minio.StatObjectOptions{})
	return err == nil
}

// GetChildren returns the names of dir's immediate children: objects
// directly under the prefix plus first-level sub-prefixes. The
// directory's own marker is never part of the result.
func (e *Env) GetChildren(dir string) ([]string, error) {
	dirKey := e.dirKey(dir)

	var names []string
	for obj := range e.client.ListObjects(e.ctx, e.bucket, minio.ListObjectsOptions{
		Prefix:    dirKey,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, translate(dir, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, dirKey)
		name = strings.TrimSuffix(name, "/")
		if name == "" {
			continue // the directory's own marker
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		// Distinguish an empty directory from a missing one.
		if _, err := e.client.StatObject(e.ctx, e.bucket, dirKey, minio.StatObjectOptions{}); err != nil {
			return nil, translate(dir, err)
		}
	}
	return names, nil
}

// RemoveFile deletes the object named fname.
func (e *Env) RemoveFile(fname string) error {
	key := e.key(fname)

	// RemoveObject succeeds on missing keys; stat first so
	// non-existence surfaces as an error like on a real filesystem.
	if _, err := e.client.StatObject(e.ctx, e.bucket, key, minio.StatObjectOptions{}); err != nil {
		return translate(fname, err)
	}
	if err := e.client.RemoveObject(e.ctx, e.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return translate(fname, err)
	}
	return nil
}

// CreateDir writes a zero-byte directory marker.
func (e *Env) CreateDir(dirname string) error {
	_, err := e.client.PutObject(e.ctx, e.bucket, e.dirKey(dirname), strings.NewReader(""), 0, minio.PutObjectOptions{})
	if err != nil {
		return translate(dirname, err)
	}
	return nil
}

// RemoveDir deletes the directory marker.
func (e *Env) RemoveDir(dirname string) error {
	dirKey := e.dirKey(dirname)

	if _, err := e.client.StatObject(e.ctx, e.bucket, dirKey, minio.StatObjectOptions{}); err != nil {
		return translate(dirname, err)
	}
	if err := e.client.RemoveObject(e.ctx, e.bucket, dirKey, minio.RemoveObjectOptions{}); err != nil {
		return translate(dirname, err)
	}
	return nil
}

// GetFileSize returns the object's size in bytes.
func (e *Env) GetFileSize(fname string) (int64, error) {
	info, err := e.client.StatObject(e.ctx, e.bucket, e.key(fname), minio.StatObjectOptions{})
	if err != nil {
		return 0, translate(fname, err)
	}
	return info.Size, nil
}

// RenameFile renames src to target via copy+delete.
func (e *Env) RenameFile(src, target string) error {
	_, err := e.client.CopyObject(e.ctx,
		minio.CopyDestOptions{Bucket: e.bucket, Object: e.key(target)},
		minio.CopySrcOptions{Bucket: e.bucket, Object: e.key(src)},
	)
	if err != nil {
		return translate(src, err)
	}
	if err := e.client.RemoveObject(e.ctx, e.bucket, e.key(src), minio.RemoveObjectOptions{}); err != nil {
		return translate(src, err)
	}
	return nil
}

// LockFile is not supported: object storage provides no advisory locks.
// Use s3env with a DynamoDB lock table when coordination is required.
func (e *Env) LockFile(fname string) (fsenv.FileLock, error) {
	return nil, fsenv.NewNotSupported(fname, "object storage provides no advisory locks")
}

// UnlockFile is not supported.
func (e *Env) UnlockFile(fsenv.FileLock) error {
	return fsenv.NewNotSupported("unlock", "object storage provides no advisory locks")
}

// Schedule arranges to run fn once in a background goroutine.
func (e *Env) Schedule(fn func()) { go fn() }

// StartThread runs fn in a new goroutine.
func (e *Env) StartThread(fn func()) { go fn() }

// GetTestDirectory returns a scratch prefix, creating its marker.
func (e *Env) GetTestDirectory() (string, error) {
	const dir = "tmp"
	if err := e.CreateDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// NewLogger creates a logger streaming structured text into the named
// object; the log becomes readable once the logger is closed.
func (e *Env) NewLogger(fname string) (*fsenv.Logger, error) {
	wf, err := e.NewWritableFile(fname)
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
