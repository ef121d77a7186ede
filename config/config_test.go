package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		config, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), config)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bench.yaml")
		data := []byte("index:\n  omega: 2.5\n  k: 6\n  looseDelete: true\nbench:\n  radius: 3\nmetrics: \":9090\"\n")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		config, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2.5, config.Index.Omega)
		assert.Equal(t, 6, config.Index.K)
		assert.True(t, config.Index.LooseDelete)
		assert.Equal(t, 100, config.Index.Dims, "missing values keep the defaults")
		assert.Equal(t, 3.0, config.Bench.Radius)
		assert.Equal(t, ":9090", config.Metrics)
	})

	t.Run("Env", func(t *testing.T) {
		t.Setenv("LSH_OMEGA", "8")
		t.Setenv("LSH_K", "2")
		t.Setenv("LSH_SEED", "77")
		t.Setenv("LSH_INNER_EVERY", "10")
		config, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 8.0, config.Index.Omega)
		assert.Equal(t, 2, config.Index.K)
		assert.Equal(t, uint64(77), config.Index.Seed)
		assert.Equal(t, 10, config.Bench.InnerEvery)

		lshConfig := config.Index.LSH()
		assert.Equal(t, 8.0, lshConfig.Omega)
		assert.Equal(t, uint64(77), lshConfig.Seed)
	})

	t.Run("BadEnv", func(t *testing.T) {
		t.Setenv("LSH_DIMS", "many")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("BadFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)

		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("index: [1, 2"), 0o644))
		_, err = Load(path)
		assert.Error(t, err)
	})
}
