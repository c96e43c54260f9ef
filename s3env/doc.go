// Package s3env provides an fsenv.Env backed by Amazon S3.
//
// The object mapping matches package minioenv: files are objects under
// an optional key prefix, directories are zero-byte "key/" markers,
// and renames are copy+delete. Random-access reads issue one ranged
// GetObject per call; writable files stream through a pipe into a
// multipart upload that completes on Close.
//
// Unlike plain object storage, s3env can offer advisory locks: when a
// DynamoDB lock table is configured with WithLockTable, LockFile takes
// a lease via a conditional write and UnlockFile releases it. Without
// a lock table, LockFile returns CodeNotSupported.
package s3env
