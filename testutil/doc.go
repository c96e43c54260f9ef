// Package testutil provides testing utilities for fsenv.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for writing and reading whole files through an
// Env, deterministic random data generation, and a conformance suite
// that any Env implementation can run.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Bytes(4096)
//
// # Whole-File Helpers
//
//	testutil.WriteFile(t, env, path, data)
//	got := testutil.ReadFileSequential(t, env, path)
//
// # Conformance Suite
//
//	testutil.RunEnvSuite(t, func(t *testing.T) fsenv.Env {
//	    return memenv.New()
//	})
package testutil
