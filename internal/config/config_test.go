package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\ncluster_count: 5\nrandom_seed: 7\n"), 0o600))

	t.Setenv("CLUSTER_COUNT", "4")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4, cfg.ClusterCount)
	assert.Equal(t, int64(7), cfg.RandomSeed)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("NODE_COUNT", "many")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("NODE_COUNT", "")
	t.Setenv("CLUSTER_COUNT", "0")
	_, err = Load("")
	require.Error(t, err)

	t.Setenv("CLUSTER_COUNT", "")
	t.Setenv("PARTITIONER", "spectral")
	_, err = Load("")
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	t.Setenv("VRPTW_TEST_KEY", "  value ")
	assert.Equal(t, "value", Get("VRPTW_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("VRPTW_TEST_UNSET", "fallback"))
}
