package minioenv_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fsenv"
	"github.com/hupe1980/fsenv/minioenv"
	"github.com/hupe1980/fsenv/testutil"
)

const minioEndpoint = "localhost:9000"

var (
	probeOnce sync.Once
	probeErr  error
)

// probeMinio checks reachability once per package so that a run
// without a MinIO instance skips quickly instead of letting every
// subtest exhaust the client's retry budget.
func probeMinio() error {
	probeOnce.Do(func() {
		conn, err := net.DialTimeout("tcp", minioEndpoint, time.Second)
		if err != nil {
			probeErr = err
			return
		}
		conn.Close()
	})
	return probeErr
}

// newTestEnv requires a running MinIO instance. Skip if not available.
func newTestEnv(t *testing.T) *minioenv.Env {
	t.Helper()

	if err := probeMinio(); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-fsenv"

	client, err := minio.New(minioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The port answering does not guarantee a usable endpoint.
	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	return minioenv.New(client, bucket, minioenv.WithPrefix("envtest"))
}

func TestEnvSuite_Integration(t *testing.T) {
	testutil.RunEnvSuite(t, func(t *testing.T) fsenv.Env {
		return newTestEnv(t)
	})
}

func TestLockFileNotSupported_Integration(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.LockFile("LOCK")
	require.Error(t, err)
	assert.True(t, fsenv.IsNotSupported(err))
}

func TestRenameFile_Integration(t *testing.T) {
	env := newTestEnv(t)

	testutil.WriteFile(t, env, "rename-src", []byte("payload"))
	require.NoError(t, env.RenameFile("rename-src", "rename-dst"))

	assert.False(t, env.FileExists("rename-src"))
	assert.Equal(t, []byte("payload"), testutil.ReadFileSequential(t, env, "rename-dst"))

	require.NoError(t, env.RemoveFile("rename-dst"))
}
