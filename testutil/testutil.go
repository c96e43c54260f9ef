package testutil

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fsenv"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Bytes returns n random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := make([]byte, n)
	r.r.Read(b)
	return b
}

// Intn returns a random int in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Intn(n)
}

// WriteFile creates name through env and writes data via a single
// append, syncing and closing before returning.
func WriteFile(t *testing.T, env fsenv.Env, name string, data []byte) {
	t.Helper()

	wf, err := env.NewWritableFile(name)
	require.NoError(t, err)
	require.NoError(t, wf.Append(data))
	require.NoError(t, wf.Sync())
	require.NoError(t, wf.Close())
}

// ReadFileSequential reads name through env front to back in small
// chunks, exercising short reads, and returns the concatenated bytes.
func ReadFileSequential(t *testing.T, env fsenv.Env, name string) []byte {
	t.Helper()

	sf, err := env.NewSequentialFile(name)
	require.NoError(t, err)
	defer func() { require.NoError(t, sf.Close()) }()

	var out []byte
	buf := make([]byte, 7)
	for {
		n, err := sf.Read(buf)
		require.NoError(t, err)
		if n == 0 {
			// End-of-file is a zero-byte read, not an error.
			return out
		}
		out = append(out, buf[:n]...)
	}
}
