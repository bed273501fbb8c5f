package audit

import (
	"context"
	"fmt"
	"strconv"

	"mgzdb/core/reconcile"
	"mgzdb/core/storage"
	"mgzdb/feature/records"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileAdapter reconciles File rows against blobs, keyed by content hash.
type FileAdapter struct {
	db     *gorm.DB
	store  *storage.BlobStore
	logger *zap.Logger
}

// NewAdapter creates a file adapter.
func NewAdapter(db *gorm.DB, store *storage.BlobStore, logger *zap.Logger) *FileAdapter {
	return &FileAdapter{db: db, store: store, logger: logger}
}

// Name returns the unique name of this adapter.
func (a *FileAdapter) Name() string {
	return "files"
}

// LoadDBIndex loads the id and match of every file, keyed by hash.
func (a *FileAdapter) LoadDBIndex(ctx context.Context) (map[string]reconcile.DBItem, error) {
	var files []records.File
	if err := a.db.WithContext(ctx).Select("id", "hash", "match_id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	index := make(map[string]reconcile.DBItem, len(files))
	for _, f := range files {
		index[f.Hash] = f
	}
	return index, nil
}

// LoadStorageSet lists every blob once.
func (a *FileAdapter) LoadStorageSet(ctx context.Context) (map[string]struct{}, error) {
	hashes, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		set[h] = struct{}{}
	}
	return set, nil
}

// GetMetadata returns the file and match ids.
func (a *FileAdapter) GetMetadata(item reconcile.DBItem) map[string]string {
	f, ok := item.(records.File)
	if !ok {
		return nil
	}
	return map[string]string{
		"file_id":  strconv.FormatUint(uint64(f.ID), 10),
		"match_id": strconv.FormatUint(uint64(f.MatchID), 10),
	}
}

// DeleteDB removes the files whose blob is gone. A match losing its last
// file is removed with it.
func (a *FileAdapter) DeleteDB(ctx context.Context, keys []string) error {
	db := a.db.WithContext(ctx)
	files, err := records.FilesByHash(db, keys)
	if err != nil {
		return err
	}
	for _, f := range files {
		result, err := records.DeleteFile(db, f.ID)
		if err != nil {
			return fmt.Errorf("failed to delete file %d: %w", f.ID, err)
		}
		a.logger.Info("Deleted file without blob",
			zap.String("file_hash", f.Hash),
			zap.Uints("match_ids", result.MatchIDs))
	}
	return nil
}

// DeleteStorage removes orphan blobs. Every key is attempted.
func (a *FileAdapter) DeleteStorage(ctx context.Context, keys []string) error {
	var result *multierror.Error
	for _, hash := range keys {
		if err := a.store.Remove(ctx, a.store.Path(hash)); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		a.logger.Info("Deleted orphan blob", zap.String("file_hash", hash))
	}
	return result.ErrorOrNil()
}
