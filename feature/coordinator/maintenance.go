package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mgzdb/core/database"
	"mgzdb/feature/peer"
	"mgzdb/feature/query"
	"mgzdb/feature/records"

	"go.uber.org/zap"
)

// ErrInvalidRemove is returned unless exactly one target is given.
var ErrInvalidRemove = errors.New("exactly one of file, match or series must be given")

// RemoveRequest names what to remove. Exactly one field must be set.
type RemoveRequest struct {
	FileID   uint
	MatchID  uint
	SeriesID string
}

// RemoveResult lists what was removed.
type RemoveResult = records.DeleteResult

// Remove deletes a file, a match or a series together with the rows that
// hang off it, then removes the blobs nothing references any more. Blob
// removal is best effort.
func (c *Coordinator) Remove(ctx context.Context, req RemoveRequest) (RemoveResult, error) {
	targets := 0
	if req.FileID != 0 {
		targets++
	}
	if req.MatchID != 0 {
		targets++
	}
	if req.SeriesID != "" {
		targets++
	}
	if targets != 1 {
		return RemoveResult{}, ErrInvalidRemove
	}

	db := c.deps.DB.WithContext(ctx)
	var (
		result RemoveResult
		err    error
	)
	switch {
	case req.FileID != 0:
		result, err = records.DeleteFile(db, req.FileID)
	case req.MatchID != 0:
		result, err = records.DeleteMatch(db, req.MatchID)
	default:
		result, err = records.DeleteSeries(db, req.SeriesID)
	}
	if err != nil {
		return RemoveResult{}, err
	}

	for _, hash := range result.FileHashes {
		if err := c.deps.Store.Remove(ctx, c.deps.Store.Path(hash)); err != nil {
			c.log.Warn("Failed to remove blob", zap.String("file_hash", hash), zap.Error(err))
		}
	}
	c.log.Info("Removed",
		zap.Uints("file_ids", result.FileIDs),
		zap.Uints("match_ids", result.MatchIDs),
		zap.String("series_id", result.SeriesID))
	return result, nil
}

// Tag attaches tags to a match.
func (c *Coordinator) Tag(ctx context.Context, matchID uint, tags []string) error {
	return records.AddTags(c.deps.DB.WithContext(ctx), matchID, tags)
}

// Get returns the original filename and the decompressed bytes of a file.
func (c *Coordinator) Get(ctx context.Context, fileID uint) (string, []byte, error) {
	if c.deps.Codec == nil {
		return "", nil, errors.New("coordinator has no codec")
	}
	return peer.NewLocal(c.deps.DB, c.deps.Store, c.deps.Codec).GetFileBytes(ctx, fileID)
}

// Reset drops every table, creates them again and bootstraps.
func (c *Coordinator) Reset(ctx context.Context) error {
	if err := database.Reset(c.deps.DB.WithContext(ctx), records.Models()...); err != nil {
		return err
	}
	c.log.Warn("Database reset")
	return c.Bootstrap(ctx)
}

// Bootstrap migrates the schema, seeds reference rows, verifies the
// resulting schema and makes sure the bucket exists. It is idempotent.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	db := c.deps.DB.WithContext(ctx)
	if err := database.Migrate(db, records.Models()...); err != nil {
		return err
	}
	if err := records.Seed(db); err != nil {
		return fmt.Errorf("failed to seed reference rows: %w", err)
	}

	expected, err := records.ExpectedSchema(db)
	if err != nil {
		return err
	}
	problems, err := database.VerifySchema(db, expected)
	if err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}
	if len(problems) > 0 {
		return fmt.Errorf("schema verification failed: %s", strings.Join(problems, "; "))
	}

	if err := c.deps.Store.EnsureBucket(ctx); err != nil {
		return err
	}
	c.log.Info("Bootstrap complete")
	return nil
}

// Query builds a report: match, file, series or summary.
func (c *Coordinator) Query(ctx context.Context, kind, id string) (any, error) {
	return query.NewService(c.deps.DB).Run(ctx, kind, id)
}
