package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/mindlang/internal/config"
)

func TestLoadDefaultsWithNoPath(t *testing.T) {
	lim, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRecursionLimit, lim.RecursionLimit)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	lim, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRecursionLimit, lim.RecursionLimit)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recursion_limit: 42\n"), 0o644))

	lim, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, lim.RecursionLimit)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recursion_limit: 42\n"), 0o644))

	t.Setenv("MINDLANGC_RECURSION_LIMIT", "7")

	lim, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, lim.RecursionLimit)
}
