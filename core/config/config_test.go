package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "minio", cfg.Storage.Driver)
		assert.Equal(t, "replays", cfg.Storage.Bucket)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 3, cfg.Pipeline.Retries)
		assert.False(t, cfg.Pipeline.Consecutive)
		assert.Equal(t, "8080", cfg.Server.Port)
	})

	t.Run("EnvFile", func(t *testing.T) {
		dir := t.TempDir()
		content := "DATABASE_DRIVER=postgres\nPIPELINE_WORKERS=6\nPLATFORM_VOOBLY_KEY=secret\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
		t.Cleanup(func() {
			os.Unsetenv("DATABASE_DRIVER")
			os.Unsetenv("PIPELINE_WORKERS")
			os.Unsetenv("PLATFORM_VOOBLY_KEY")
		})

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)

		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, 6, cfg.Pipeline.Workers)
		assert.Equal(t, "secret", cfg.Platform.Voobly.Key)
	})
}
