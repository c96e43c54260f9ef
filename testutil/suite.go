package testutil

import (
	"bytes"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/fsenv"
)

var suiteSeq atomic.Int64

// suiteDir returns a directory name under base that is unique across
// processes and across calls within one process. The test directory of
// a local environment persists between runs, so names derived from a
// seeded source would collide on the next run.
func suiteDir(base string) string {
	return fmt.Sprintf("%s/suite-%d-%d-%d", base, os.Getpid(), time.Now().UnixNano(), suiteSeq.Add(1))
}

// removeTree removes dir and everything below it through env, best
// effort. Entries that cannot be classified or removed are left behind.
func removeTree(env fsenv.Env, dir string) {
	names, err := env.GetChildren(dir)
	if err != nil {
		return
	}
	for _, name := range names {
		child := dir + "/" + name
		if env.FileExists(child) {
			_ = env.RemoveFile(child)
			continue
		}
		removeTree(env, child)
	}
	_ = env.RemoveDir(dir)
}

// RunEnvSuite runs the shared conformance checks against the Env
// produced by newEnv. The factory is invoked once per subtest; each
// subtest works inside a fresh directory under the env's test
// directory, so implementations backed by shared state stay isolated.
// Suite directories are removed when the subtest finishes.
func RunEnvSuite(t *testing.T, newEnv func(t *testing.T) fsenv.Env) {
	rng := NewRNG(42)

	setup := func(t *testing.T) (fsenv.Env, string) {
		t.Helper()
		env := newEnv(t)
		base, err := env.GetTestDirectory()
		require.NoError(t, err)
		dir := suiteDir(base)
		require.NoError(t, env.CreateDir(dir))
		t.Cleanup(func() { removeTree(env, dir) })
		return env, dir
	}

	t.Run("RoundTrip", func(t *testing.T) {
		env, dir := setup(t)

		want := rng.Bytes(3333)
		WriteFile(t, env, dir+"/roundtrip.dat", want)

		got := ReadFileSequential(t, env, dir+"/roundtrip.dat")
		assert.Equal(t, want, got)

		size, err := env.GetFileSize(dir + "/roundtrip.dat")
		require.NoError(t, err)
		assert.Equal(t, int64(len(want)), size)
	})

	t.Run("AppendFragments", func(t *testing.T) {
		env, dir := setup(t)

		wf, err := env.NewWritableFile(dir + "/t.log")
		require.NoError(t, err)
		require.NoError(t, wf.Append([]byte("hello")))
		require.NoError(t, wf.Append([]byte(" world")))
		require.NoError(t, wf.Sync())
		require.NoError(t, wf.Close())

		sf, err := env.NewSequentialFile(dir + "/t.log")
		require.NoError(t, err)
		buf := make([]byte, 11)
		n, err := sf.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(buf[:n]))
		require.NoError(t, sf.Close())
	})

	t.Run("GetChildren", func(t *testing.T) {
		env, dir := setup(t)

		kids := dir + "/kids"
		require.NoError(t, env.CreateDir(kids))
		WriteFile(t, env, kids+"/a", []byte("a"))
		WriteFile(t, env, kids+"/b", []byte("b"))

		names, err := env.GetChildren(kids)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, names)
		assert.NotContains(t, names, ".")
		assert.NotContains(t, names, "..")
	})

	t.Run("SkipPastEOF", func(t *testing.T) {
		env, dir := setup(t)

		WriteFile(t, env, dir+"/short.dat", []byte("12345"))

		sf, err := env.NewSequentialFile(dir + "/short.dat")
		require.NoError(t, err)
		defer func() { require.NoError(t, sf.Close()) }()

		// Skipping past end-of-file clamps and succeeds.
		require.NoError(t, sf.Skip(100))

		buf := make([]byte, 16)
		n, err := sf.Read(buf)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("FileExists", func(t *testing.T) {
		env, dir := setup(t)

		WriteFile(t, env, dir+"/present", []byte("x"))

		assert.True(t, env.FileExists(dir+"/present"))
		assert.False(t, env.FileExists(dir), "a directory does not exist as a file")
		assert.False(t, env.FileExists(dir+"/absent"))
	})

	t.Run("OpenMissing", func(t *testing.T) {
		env, dir := setup(t)
		missing := dir + "/no-such-file"

		_, err := env.NewSequentialFile(missing)
		require.Error(t, err)
		assert.True(t, fsenv.IsIOError(err))
		assert.Contains(t, err.Error(), missing)

		_, err = env.NewRandomAccessFile(missing)
		require.Error(t, err)
		assert.True(t, fsenv.IsIOError(err))
		assert.Contains(t, err.Error(), missing)
	})

	t.Run("ConcurrentRandomReads", func(t *testing.T) {
		env, dir := setup(t)

		const regions = 8
		const regionSize = 4096
		want := rng.Bytes(regions * regionSize)
		WriteFile(t, env, dir+"/random.dat", want)

		rf, err := env.NewRandomAccessFile(dir + "/random.dat")
		require.NoError(t, err)
		defer func() { require.NoError(t, rf.Close()) }()

		var g errgroup.Group
		for i := 0; i < regions; i++ {
			off := int64(i * regionSize)
			g.Go(func() error {
				buf := make([]byte, regionSize)
				read := 0
				for read < regionSize {
					n, err := rf.ReadAt(buf[read:], off+int64(read))
					if err != nil {
						return err
					}
					if n == 0 {
						return fmt.Errorf("unexpected end-of-file at offset %d", off+int64(read))
					}
					read += n
				}
				if !bytes.Equal(buf, want[off:off+regionSize]) {
					return fmt.Errorf("region at offset %d differs", off)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
	})

	t.Run("ReadAtPastEOF", func(t *testing.T) {
		env, dir := setup(t)

		WriteFile(t, env, dir+"/small.dat", []byte("abc"))

		rf, err := env.NewRandomAccessFile(dir + "/small.dat")
		require.NoError(t, err)
		defer func() { require.NoError(t, rf.Close()) }()

		buf := make([]byte, 8)
		n, err := rf.ReadAt(buf, 100)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("RenameFile", func(t *testing.T) {
		env, dir := setup(t)

		WriteFile(t, env, dir+"/old", []byte("payload"))
		require.NoError(t, env.RenameFile(dir+"/old", dir+"/new"))

		assert.False(t, env.FileExists(dir+"/old"))
		assert.Equal(t, []byte("payload"), ReadFileSequential(t, env, dir+"/new"))
	})

	t.Run("RemoveFileAndDir", func(t *testing.T) {
		env, dir := setup(t)

		sub := dir + "/sub"
		require.NoError(t, env.CreateDir(sub))
		WriteFile(t, env, sub+"/f", []byte("f"))

		require.NoError(t, env.RemoveFile(sub+"/f"))
		assert.False(t, env.FileExists(sub+"/f"))
		require.NoError(t, env.RemoveDir(sub))

		names, err := env.GetChildren(dir)
		require.NoError(t, err)
		assert.NotContains(t, names, "sub")
	})

	t.Run("WritableLifecycle", func(t *testing.T) {
		env, dir := setup(t)

		wf, err := env.NewWritableFile(dir + "/life.log")
		require.NoError(t, err)
		require.NoError(t, wf.Append([]byte("data")))
		require.NoError(t, wf.Flush())
		require.NoError(t, wf.Sync())
		require.NoError(t, wf.Close())

		// A second Close must not double-release.
		assert.NoError(t, wf.Close())
	})

	t.Run("Appendable", func(t *testing.T) {
		env, dir := setup(t)

		wf, err := env.NewAppendableFile(dir + "/append.log")
		if err != nil {
			// Appending is an optional Env capability.
			assert.True(t, fsenv.IsNotSupported(err))
			return
		}
		require.NoError(t, wf.Append([]byte("one")))
		require.NoError(t, wf.Close())

		wf, err = env.NewAppendableFile(dir + "/append.log")
		require.NoError(t, err)
		require.NoError(t, wf.Append([]byte("two")))
		require.NoError(t, wf.Close())

		assert.Equal(t, []byte("onetwo"), ReadFileSequential(t, env, dir+"/append.log"))
	})
}
