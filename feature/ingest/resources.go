package ingest

import (
	"context"
	"fmt"

	"mgzdb/core/codec"
	"mgzdb/core/database"
	"mgzdb/core/parser"
	"mgzdb/core/platform"
	"mgzdb/core/storage"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"
)

// Resources is the bundle a worker owns for its lifetime. None of it is
// shared with other workers.
type Resources struct {
	DB        *gorm.DB
	Store     *storage.BlobStore
	Codec     *codec.Codec
	Parser    parser.Parser
	Platforms *platform.Registry
}

// Settings is what Provision needs to build a bundle.
type Settings struct {
	Database database.Config
	Storage  storage.Config
	Codec    codec.Config
	Parser   parser.Config
	Platform platform.Config
}

// Provision builds a fresh bundle: its own database handle, store client,
// codec, parser and platform clients.
func Provision(_ context.Context, s Settings) (*Resources, error) {
	db, err := database.Connect(s.Database)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(s.Storage)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	c, err := codec.New(s.Codec)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	p, err := parser.NewCommand(s.Parser)
	if err != nil {
		database.Close(db)
		c.Close()
		return nil, err
	}

	return &Resources{
		DB:        db,
		Store:     storage.NewBlobStore(client, s.Storage, codec.Extension),
		Codec:     c,
		Parser:    p,
		Platforms: platform.NewRegistry(s.Platform),
	}, nil
}

// Close releases the bundle.
func (r *Resources) Close() error {
	var result *multierror.Error
	if r.Codec != nil {
		if err := r.Codec.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close codec: %w", err))
		}
	}
	if err := database.Close(r.DB); err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to close database: %w", err))
	}
	return result.ErrorOrNil()
}
