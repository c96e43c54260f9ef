// Package fsenv provides a portable file-I/O environment for storage engines.
//
// An [Env] is the single entry point for all file operations a storage
// engine needs: opening files for sequential or random-access reading,
// creating writable files, enumerating directories, checking existence,
// and translating native operating-system failures into portable,
// diagnosable errors. Higher layers issue file operations against an Env
// without depending on any particular platform's I/O primitives.
//
// # Quick Start
//
// Local mode (process-wide default environment):
//
//	env := fsenv.Default()
//	wf, _ := env.NewWritableFile("t.log")
//	_ = wf.Append([]byte("hello world"))
//	_ = wf.Sync()
//	_ = wf.Close()
//
//	sf, _ := env.NewSequentialFile("t.log")
//	buf := make([]byte, 11)
//	n, _ := sf.Read(buf)
//	_ = sf.Close()
//
// Cloud mode:
//
//	env := minioenv.New(client, "my-bucket", minioenv.WithPrefix("db/"))
//	env, _ := s3env.NewFromConfig(ctx, "my-bucket", s3env.WithPrefix("db/"))
//
// # File Kinds
//
// The environment produces exactly three file kinds:
//
//   - [SequentialFile] — forward-only reads plus skip-ahead. Not safe for
//     concurrent use; the caller serializes access.
//   - [RandomAccessFile] — positioned reads from any offset. Safe for
//     concurrent use by multiple goroutines sharing one instance.
//   - [WritableFile] — unbuffered appends, explicit flush, durable sync,
//     idempotent close. Not safe for concurrent use.
//
// # Error Model
//
// Every failing operation returns an [*Error] carrying a [Code], the
// context (path or operation) where the failure originated, and a
// human-readable system message. nil means Ok. Short reads, including
// zero bytes at end-of-file, are not errors.
//
// # Buffering
//
// This layer performs direct pass-through I/O. It never buffers, caches,
// or batches writes; buffering policy belongs to the caller.
package fsenv
