// Package minioenv provides an fsenv.Env backed by MinIO or any
// S3-compatible object store.
//
// Files map to objects under an optional key prefix; directories are
// zero-byte marker objects whose key ends in "/". Sequential files
// stream the object, random-access files issue a range read per call
// (object reads are naturally positioned, so no locking is needed), and
// writable files stream through a pipe into a single background upload
// that completes on Close.
//
// Capability notes: Sync reports success but durability is only
// reached when Close finishes the upload; appending to an existing
// object and advisory file locks are not supported and return
// CodeNotSupported. Renames are copy+delete and can be expensive for
// large objects.
package minioenv
