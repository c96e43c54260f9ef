// Package fs is the native-filesystem seam underneath the local Env.
//
// The package defines two key interfaces:
//
//   - [File]: an open file handle with read/write/seek/sync capabilities
//   - [FileSystem]: the filesystem operations the local Env needs
//     (open, remove, rename, stat, mkdir, readdir, lock)
//
// # Implementations
//
//   - [LocalFS]: production implementation using the standard os package
//   - [FaultyFS]: test utility for fault injection (simulate I/O errors)
//
// Production code should use fs.Default (which is [LocalFS]). Tests can
// inject [FaultyFS] to simulate failures on specific paths:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("MANIFEST", fs.Fault{FailOnSync: true})
//	// inject ffs into the Env under test
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// Local filesystem operations are non-interruptible at the syscall level;
// adding context would add overhead without meaningful cancellation
// capability. Object-store environments (minioenv, s3env) carry their own
// base context instead.
package fs
