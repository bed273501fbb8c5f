// Package storage provides an abstraction layer for object storage services.
//
// Two backends implement the Client interface: the MinIO Go client (default)
// and the AWS SDK v2 S3 client, which also reaches S3-compatible services
// such as Cloudflare R2. Both translate a missing key into ErrObjectNotFound.
//
// # Blob Store
//
// BlobStore layers content addressing on top of a Client. Every replay is
// stored once under <root>/<sha1><extension>, so the path for a given file is
// derivable from its hash alone:
//
//	store := storage.NewBlobStore(client, cfg.Storage, codec.Extension)
//	err := store.Put(ctx, store.Path(hash), compressed)
//
// # Mocks
//
// core/storage/mocks holds a testify mock of Client for unit tests.
package storage
