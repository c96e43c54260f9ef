// Package memenv provides an in-memory fsenv.Env implementation.
//
// It stores files in process memory without any filesystem dependency
// and is intended for tests of components built on top of an Env, where
// real disk I/O would only add flakiness and cleanup burden.
//
// Reader semantics: sequential and random-access files capture the file
// contents at open time; writes performed after a reader is opened are
// not visible through that reader. Random-access reads therefore need no
// locking at all.
//
// Unlike the local environment, memenv supports NewAppendableFile.
package memenv
