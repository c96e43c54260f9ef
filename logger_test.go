package fsenv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fsenv"
)

func TestEnvNewLogger(t *testing.T) {
	env := fsenv.NewLocalEnv()
	logPath := filepath.Join(t.TempDir(), "LOG")

	logger, err := env.NewLogger(logPath)
	require.NoError(t, err)

	logger.Info("compaction started", "level", 2)
	logger.WithPath("000001.sst").Warn("table checksum mismatch")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close(), "close is idempotent")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "compaction started")
	assert.Contains(t, string(data), "table checksum mismatch")
	assert.Contains(t, string(data), "000001.sst")
}

func TestNoopLogger(t *testing.T) {
	logger := fsenv.NoopLogger()
	logger.Info("discarded")
	logger.WithOp("open").Error("also discarded")
	assert.NoError(t, logger.Close())
}
