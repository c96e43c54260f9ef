package s3env_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fsenv"
	"github.com/hupe1980/fsenv/s3env"
	"github.com/hupe1980/fsenv/testutil"
)

// newTestEnv requires AWS credentials and a test bucket.
// Skip if not configured.
func newTestEnv(t *testing.T) *s3env.Env {
	t.Helper()

	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	// Unique prefix per run so concurrent runs cannot collide.
	prefix := fmt.Sprintf("test-fsenv-%d", time.Now().UnixNano())

	env, err := s3env.NewFromConfig(context.Background(), bucket, s3env.WithPrefix(prefix))
	require.NoError(t, err)
	return env
}

func TestEnvSuite_Integration(t *testing.T) {
	testutil.RunEnvSuite(t, func(t *testing.T) fsenv.Env {
		return newTestEnv(t)
	})
}

func TestRenameFile_Integration(t *testing.T) {
	env := newTestEnv(t)

	testutil.WriteFile(t, env, "rename-src", []byte("payload"))
	require.NoError(t, env.RenameFile("rename-src", "rename-dst"))

	assert.False(t, env.FileExists("rename-src"))
	assert.Equal(t, []byte("payload"), testutil.ReadFileSequential(t, env, "rename-dst"))

	require.NoError(t, env.RemoveFile("rename-dst"))
}
