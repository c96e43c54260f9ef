package fsenv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fsenv/internal/fs"
)

func TestWritableFileSyncFailurePropagates(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("nosync", fs.Fault{FailOnSync: true})
	env := newLocalEnv(ffs)

	wf, err := env.NewWritableFile(filepath.Join(t.TempDir(), "nosync.log"))
	require.NoError(t, err)
	require.NoError(t, wf.Append([]byte("data")))

	err = wf.Sync()
	require.Error(t, err)
	assert.True(t, IsIOError(err))
	assert.Contains(t, err.Error(), "nosync.log")

	require.NoError(t, wf.Close())
}

func TestWritableFileWriteFailure(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("limited", fs.Fault{FailAfterBytes: 4})
	env := newLocalEnv(ffs)

	wf, err := env.NewWritableFile(filepath.Join(t.TempDir(), "limited.log"))
	require.NoError(t, err)
	require.NoError(t, wf.Append([]byte("1234")))

	err = wf.Append([]byte("56789"))
	require.Error(t, err)
	assert.True(t, IsIOError(err))
}

func TestOpenFailureTranslated(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("broken", fs.Fault{FailOpen: true})
	env := newLocalEnv(ffs)

	path := filepath.Join(t.TempDir(), "broken.dat")
	_, err := env.NewWritableFile(path)
	require.Error(t, err)
	assert.True(t, IsIOError(err))
	assert.Contains(t, err.Error(), path)
}

func TestFileOperationsAfterClose(t *testing.T) {
	env := NewLocalEnv()
	dir := t.TempDir()

	wf, err := env.NewWritableFile(filepath.Join(dir, "f.dat"))
	require.NoError(t, err)
	require.NoError(t, wf.Append([]byte("abc")))
	require.NoError(t, wf.Close())
	require.NoError(t, wf.Close(), "second close must not double-release")
	assert.True(t, IsIOError(wf.Append([]byte("x"))))
	assert.True(t, IsIOError(wf.Sync()))

	sf, err := env.NewSequentialFile(filepath.Join(dir, "f.dat"))
	require.NoError(t, err)
	require.NoError(t, sf.Close())
	require.NoError(t, sf.Close())
	_, err = sf.Read(make([]byte, 4))
	assert.True(t, IsIOError(err))

	rf, err := env.NewRandomAccessFile(filepath.Join(dir, "f.dat"))
	require.NoError(t, err)
	require.NoError(t, rf.Close())
	require.NoError(t, rf.Close())
	_, err = rf.ReadAt(make([]byte, 4), 0)
	assert.True(t, IsIOError(err))
}

func TestSequentialReadIsSingleCall(t *testing.T) {
	// A short read is returned as-is; the wrapper never loops to fill
	// the buffer.
	env := NewLocalEnv()
	path := filepath.Join(t.TempDir(), "short.dat")

	wf, err := env.NewWritableFile(path)
	require.NoError(t, err)
	require.NoError(t, wf.Append([]byte("abc")))
	require.NoError(t, wf.Close())

	sf, err := env.NewSequentialFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, sf.Close()) }()

	buf := make([]byte, 1024)
	n, err := sf.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
