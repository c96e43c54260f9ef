package s3env

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/fsenv"
)

// Options configures an S3 environment.
type Options struct {
	// Prefix is prepended to all keys (e.g. "db/").
	Prefix string

	// Context is the base context for all S3 calls.
	// Defaults to context.Background().
	Context context.Context

	// LockTable names a DynamoDB table used for advisory lease locks.
	// Empty means LockFile is not supported.
	LockTable string

	// LockClient performs the DynamoDB lock operations. Required when
	// LockTable is set.
	LockClient DDBClient
}

// WithPrefix sets the root key prefix.
func WithPrefix(prefix string) func(*Options) {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithContext sets the base context used for S3 calls.
func WithContext(ctx context.Context) func(*Options) {
	return func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}

// WithLockTable enables DynamoDB-backed advisory locks.
func WithLockTable(client DDBClient, table string) func(*Options) {
	return func(o *Options) {
		o.LockClient = client
		o.LockTable = table
	}
}

// Env is an fsenv.Env over an S3 bucket.
type Env struct {
	client *s3.Client
	bucket string
	prefix string
	ctx    context.Context

	lockClient DDBClient
	lockTable  string
}

// New creates an S3-backed environment over the given bucket.
func New(client *s3.Client, bucket string, optFns ...func(*Options)) *Env {
	opts := Options{
		Context: context.Background(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Env{
		client:     client,
		bucket:     bucket,
		prefix:     opts.Prefix,
		ctx:        opts.Context,
		lockClient: opts.LockClient,
		lockTable:  opts.LockTable,
	}
}

// NewFromConfig creates an environment using the default AWS
// credential chain.
func NewFromConfig(ctx context.Context, bucket string, optFns ...func(*Options)) (*Env, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fsenv.NewIOError(bucket, err)
	}
	return New(s3.NewFromConfig(cfg), bucket, optFns...), nil
}

// key maps an environment path to an object key.
func (e *Env) key(name string) string {
	return path.Join(e.prefix, strings.TrimPrefix(name, "/"))
}

// dirKey maps an environment path to a directory marker key.
func (e *Env) dirKey(name string) string {
	return e.key(name) + "/"
}

// translate converts an S3 failure into a portable status. Missing
// keys surface as a not-exist cause so messages stay readable.
func translate(context string, err error) error {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return fsenv.NewIOError(context, os.ErrNotExist)
	}
	return fsenv.NewIOError(context, err)
}

func (e *Env) head(key string) (int64, error) {
	out, err := e.client.HeadObject(e.ctx, &s3.HeadObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, err
	}
	return aws.ToInt64(out.ContentLength), nil
}

// NewSequentialFile opens the object named fname for forward reads.
func (e *Env) NewSequentialFile(fname string) (fsenv.SequentialFile, error) {
	key := e.key(fname)

	size, err := e.head(key)
	if err != nil {
		return nil, translate(fname, err)
	}

	out, err := e.client.GetObject(e.ctx, &s3.GetObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translate(fname, err)
	}

	return &sequentialFile{name: fname, body: out.Body, size: size}, nil
}

// NewRandomAccessFile opens the object named fname for positioned
// reads. Every ReadAt issues an independent ranged request, so the
// returned file is safe for concurrent use without locking.
func (e *Env) NewRandomAccessFile(fname string) (fsenv.RandomAccessFile, error) {
	key := e.key(fname)

	size, err := e.head(key)
	if err != nil {
		return nil, translate(fname, err)
	}

	return &randomAccessFile{name: fname, env: e, key: key, size: size}, nil
}

// NewWritableFile creates the object named fname. Bytes stream through
// a pipe into a multipart upload that completes on Close; any existing
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
	_, err := e.head(e.key(fname))
	return err == nil
}

// GetChildren returns the names of dir's immediate children: objects
// directly under the prefix plus first-level sub-prefixes. The
// directory's own marker is never part of the result.
func (e *Env) GetChildren(dir string) ([]string, error) {
	dirKey := e.dirKey(dir)

	var names []string
	paginator := s3.NewListObjectsV2Paginator(e.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(e.bucket),
		Prefix:    aws.String(dirKey),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(e.ctx)
		if err != nil {
			return nil, translate(dir, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), dirKey)
			if name == "" {
				continue // the directory's own marker
			}
			names = append(names, name)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimPrefix(aws.ToString(cp.Prefix), dirKey)
			names = append(names, strings.TrimSuffix(name, "/"))
		}
	}

	if len(names) == 0 {
		// Distinguish an empty directory from a missing one.
		if _, err := e.head(dirKey); err != nil {
			return nil, translate(dir, err)
		}
	}
	return names, nil
}

// RemoveFile deletes the object named fname.
func (e *Env) RemoveFile(fname string) error {
	key := e.key(fname)

	// DeleteObject succeeds on missing keys; head first so
	// non-existence surfaces as an error like on a real filesystem.
	if _, err := e.head(key); err != nil {
		return translate(fname, err)
	}
	_, err := e.client.DeleteObject(e.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return translate(fname, err)
	}
	return nil
}

// CreateDir writes a zero-byte directory marker.
func (e *Env) CreateDir(dirname string) error {
	_, err := e.client.PutObject(e.ctx, &s3.PutObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(e.dirKey(dirname)),
		Body:   strings.NewReader(""),
	})
	if err != nil {
		return translate(dirname, err)
	}
	return nil
}

// RemoveDir deletes the directory marker.
func (e *Env) RemoveDir(dirname string) error {
	dirKey := e.dirKey(dirname)

	if _, err := e.head(dirKey); err != nil {
		return translate(dirname, err)
	}
	_, err := e.client.DeleteObject(e.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(dirKey),
	})
	if err != nil {
		return translate(dirname, err)
	}
	return nil
}

// GetFileSize returns the object's size in bytes.
func (e *Env) GetFileSize(fname string) (int64, error) {
	size, err := e.head(e.key(fname))
	if err != nil {
		return 0, translate(fname, err)
	}
	return size, nil
}

// RenameFile renames src to target via copy+delete.
func (e *Env) RenameFile(src, target string) error {
	_, err := e.client.CopyObject(e.ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(e.bucket),
		Key:        aws.String(e.key(target)),
		CopySource: aws.String(e.bucket + "/" + e.key(src)),
	})
	if err != nil {
		return translate(src, err)
	}
	_, err = e.client.DeleteObject(e.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(e.key(src)),
	})
	if err != nil {
		return translate(src, err)
	}
	return nil
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
