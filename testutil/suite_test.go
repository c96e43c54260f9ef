package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/fsenv"
	"github.com/hupe1980/fsenv/memenv"
	"github.com/hupe1980/fsenv/testutil"
)

// The test directory of a persistent environment survives between
// suite runs, so running the suite twice against the same backing
// state must not collide on directory names and must not leave suite
// directories behind.
func TestSuiteRepeatableOnPersistentEnv(t *testing.T) {
	env := memenv.New()
	newEnv := func(t *testing.T) fsenv.Env { return env }

	testutil.RunEnvSuite(t, newEnv)
	testutil.RunEnvSuite(t, newEnv)
}

func TestSuiteCleansUpDirectories(t *testing.T) {
	env := memenv.New()

	testutil.RunEnvSuite(t, func(t *testing.T) fsenv.Env { return env })

	base, err := env.GetTestDirectory()
	assert.NoError(t, err)
	names, err := env.GetChildren(base)
	assert.NoError(t, err)
	assert.Empty(t, names)
}
