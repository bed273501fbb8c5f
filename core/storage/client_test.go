package storage_test

import (
	"testing"

	"mgzdb/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("MinioEndpointWithScheme", func(t *testing.T) {
		cfg := storage.Config{
			Driver:    "minio",
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("DefaultDriverIsMinio", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{Endpoint: "localhost:9000"})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("S3CompatibleEndpoint", func(t *testing.T) {
		cfg := storage.Config{
			Driver:    "s3",
			Endpoint:  "account.r2.cloudflarestorage.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		_, err := storage.NewClient(storage.Config{Driver: "ftp"})
		assert.Error(t, err)
	})
}
