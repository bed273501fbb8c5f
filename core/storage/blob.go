package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

const blobContentType = "application/octet-stream"

// BlobStore is a content-addressed view over a bucket: one object per content
// hash at <root>/<hash><extension>. It holds no mutable state, so every call
// is independent of the previous one.
type BlobStore struct {
	client    Client
	bucket    string
	root      string
	extension string
}

// NewBlobStore creates a blob store rooted at cfg.Root inside cfg.Bucket.
func NewBlobStore(client Client, cfg Config, extension string) *BlobStore {
	return &BlobStore{
		client:    client,
		bucket:    cfg.Bucket,
		root:      strings.Trim(cfg.Root, "/"),
		extension: extension,
	}
}

// Path returns the deterministic object path for a content hash.
func (b *BlobStore) Path(hash string) string {
	if b.root == "" {
		return hash + b.extension
	}
	return path.Join(b.root, hash+b.extension)
}

// HashOf extracts the content hash from an object path, if it is a blob path.
func (b *BlobStore) HashOf(objectPath string) (string, bool) {
	name := objectPath
	if b.root != "" {
		if !strings.HasPrefix(objectPath, b.root+"/") {
			return "", false
		}
		name = strings.TrimPrefix(objectPath, b.root+"/")
	}
	if strings.Contains(name, "/") || !strings.HasSuffix(name, b.extension) {
		return "", false
	}
	hash := strings.TrimSuffix(name, b.extension)
	return hash, hash != ""
}

// EnsureBucket creates the bucket if it does not exist yet.
func (b *BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.bucket); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
	}
	return nil
}

// Put stores data at objectPath. Nothing is retried here; a failure leaves the caller free to retry.
func (b *BlobStore) Put(ctx context.Context, objectPath string, data []byte) error {
	if err := b.client.PutObject(ctx, b.bucket, objectPath, bytes.NewReader(data), int64(len(data)), blobContentType); err != nil {
		return fmt.Errorf("failed to put blob %s: %w", objectPath, err)
	}
	return nil
}

// Get retrieves the bytes stored at objectPath.
func (b *BlobStore) Get(ctx context.Context, objectPath string) ([]byte, error) {
	reader, err := b.client.GetObject(ctx, b.bucket, objectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", objectPath, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", objectPath, err)
	}
	return data, nil
}

// Remove deletes the blob at objectPath.
func (b *BlobStore) Remove(ctx context.Context, objectPath string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, objectPath); err != nil {
		return fmt.Errorf("failed to remove blob %s: %w", objectPath, err)
	}
	return nil
}

// List returns the content hashes of every blob under the root.
func (b *BlobStore) List(ctx context.Context) ([]string, error) {
	prefix := ""
	if b.root != "" {
		prefix = b.root + "/"
	}
	objects, err := b.client.ListObjects(ctx, b.bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	hashes := make([]string, 0, len(objects))
	for _, obj := range objects {
		if hash, ok := b.HashOf(obj.Key); ok {
			hashes = append(hashes, hash)
		}
	}
	return hashes, nil
}
