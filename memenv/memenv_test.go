package memenv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fsenv"
	"github.com/hupe1980/fsenv/memenv"
	"github.com/hupe1980/fsenv/testutil"
)

func TestMemEnvConformance(t *testing.T) {
	testutil.RunEnvSuite(t, func(t *testing.T) fsenv.Env {
		return memenv.New()
	})
}

func TestSnapshotIsolation(t *testing.T) {
	env := memenv.New()

	testutil.WriteFile(t, env, "/data", []byte("before"))

	sf, err := env.NewSequentialFile("/data")
	require.NoError(t, err)
	defer sf.Close()

	// Later writes are not visible through an already-open reader.
	wf, err := env.NewAppendableFile("/data")
	require.NoError(t, err)
	require.NoError(t, wf.Append([]byte(" after")))
	require.NoError(t, wf.Close())

	buf := make([]byte, 64)
	n, err := sf.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "before", string(buf[:n]))

	assert.Equal(t, []byte("before after"), testutil.ReadFileSequential(t, env, "/data"))
}

func TestPathNormalization(t *testing.T) {
	env := memenv.New()

	testutil.WriteFile(t, env, "data", []byte("x"))
	assert.True(t, env.FileExists("/data"))
	assert.True(t, env.FileExists("//data"))

	size, err := env.GetFileSize("/./data")
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)
}

func TestCreateDirRequiresParent(t *testing.T) {
	env := memenv.New()

	err := env.CreateDir("/a/b")
	require.Error(t, err)
	assert.True(t, fsenv.IsIOError(err))

	require.NoError(t, env.CreateDir("/a"))
	require.NoError(t, env.CreateDir("/a/b"))

	// Removing a non-empty directory fails.
	testutil.WriteFile(t, env, "/a/b/f", []byte("x"))
	assert.Error(t, env.RemoveDir("/a/b"))
	require.NoError(t, env.RemoveFile("/a/b/f"))
	assert.NoError(t, env.RemoveDir("/a/b"))
}

func TestRenameFileRequiresTargetParent(t *testing.T) {
	env := memenv.New()

	testutil.WriteFile(t, env, "/src", []byte("payload"))

	// Renaming into a directory that was never created fails instead
	// of parking the file where no listing can reach it.
	err := env.RenameFile("/src", "/ghost/dst")
	require.Error(t, err)
	assert.True(t, fsenv.IsIOError(err))
	assert.True(t, env.FileExists("/src"))

	require.NoError(t, env.CreateDir("/ghost"))
	require.NoError(t, env.RenameFile("/src", "/ghost/dst"))

	names, err := env.GetChildren("/ghost")
	require.NoError(t, err)
	assert.Equal(t, []string{"dst"}, names)
}

func TestLocking(t *testing.T) {
	env := memenv.New()

	lock, err := env.LockFile("/LOCK")
	require.NoError(t, err)

	_, err = env.LockFile("/LOCK")
	require.Error(t, err)
	assert.True(t, fsenv.IsIOError(err))

	require.NoError(t, env.UnlockFile(lock))
	lock, err = env.LockFile("/LOCK")
	require.NoError(t, err)
	require.NoError(t, env.UnlockFile(lock))
}

func TestNewLogger(t *testing.T) {
	env := memenv.New()

	logger, err := env.NewLogger("/LOG")
	require.NoError(t, err)
	logger.Info("recovery complete", "entries", 12)

	data := testutil.ReadFileSequential(t, env, "/LOG")
	assert.Contains(t, string(data), "recovery complete")
}
