package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         "mysql",
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "mgzdb",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("SQLite File", func(t *testing.T) {
		db, err := Connect(Config{Driver: "sqlite", Name: filepath.Join(t.TempDir(), "test.sqlite")})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())
		assert.NoError(t, Close(db))
	})
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", sqliteDSN(":memory:", 5))
	assert.Equal(t, "file:x?mode=memory&cache=shared", sqliteDSN("file:x?mode=memory&cache=shared", 5))
	assert.Equal(t, "file:data.sqlite?_busy_timeout=5000&_txlock=immediate&_foreign_keys=off", sqliteDSN("data.sqlite", 5))
}
