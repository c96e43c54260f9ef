package fsenv_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fsenv"
	"github.com/hupe1980/fsenv/testutil"
)

func TestLocalEnvConformance(t *testing.T) {
	testutil.RunEnvSuite(t, func(t *testing.T) fsenv.Env {
		return fsenv.NewLocalEnv()
	})
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, fsenv.Default(), fsenv.Default())
}

func TestLocalEnvAppendableNotSupported(t *testing.T) {
	env := fsenv.NewLocalEnv()

	_, err := env.NewAppendableFile(filepath.Join(t.TempDir(), "a.log"))
	require.Error(t, err)
	assert.True(t, fsenv.IsNotSupported(err))
}

func TestLocalEnvGetChildrenMissingDir(t *testing.T) {
	env := fsenv.NewLocalEnv()
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := env.GetChildren(missing)
	require.Error(t, err)
	assert.True(t, fsenv.IsIOError(err))
	assert.Contains(t, err.Error(), missing)
}

func TestLocalEnvLockFile(t *testing.T) {
	env := fsenv.NewLocalEnv()
	lockPath := filepath.Join(t.TempDir(), "LOCK")

	lock, err := env.LockFile(lockPath)
	require.NoError(t, err)

	// A second acquisition fails immediately instead of waiting.
	_, err = env.LockFile(lockPath)
	require.Error(t, err)
	assert.True(t, fsenv.IsIOError(err))

	require.NoError(t, env.UnlockFile(lock))

	// Released locks can be re-acquired.
	lock, err = env.LockFile(lockPath)
	require.NoError(t, err)
	require.NoError(t, env.UnlockFile(lock))
}

func TestLocalEnvUnlockForeignValue(t *testing.T) {
	env := fsenv.NewLocalEnv()

	err := env.UnlockFile(struct{}{})
	require.Error(t, err)
	assert.True(t, fsenv.IsIOError(err))
}

func TestLocalEnvGetTestDirectoryStable(t *testing.T) {
	env := fsenv.NewLocalEnv()

	dir1, err := env.GetTestDirectory()
	require.NoError(t, err)
	require.NotEmpty(t, dir1)

	dir2, err := env.GetTestDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir1, dir2)
}

func TestLocalEnvNowMicrosMonotonicDelta(t *testing.T) {
	env := fsenv.NewLocalEnv()

	start := env.NowMicros()
	env.SleepForMicroseconds(2000)
	assert.GreaterOrEqual(t, env.NowMicros()-start, int64(1000))
}

func TestLocalEnvScheduleRuns(t *testing.T) {
	env := fsenv.NewLocalEnv()

	done := make(chan struct{})
	env.Schedule(func() { close(done) })
	<-done

	started := make(chan struct{})
	env.StartThread(func() { close(started) })
	<-started
}
