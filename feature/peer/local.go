package peer

import (
	"context"
	"fmt"

	"mgzdb/core/codec"
	"mgzdb/core/storage"
	"mgzdb/feature/records"

	"gorm.io/gorm"
)

// Local serves peer reads from a database and blob store directly.
type Local struct {
	db    *gorm.DB
	store *storage.BlobStore
	codec *codec.Codec
}

// NewLocal creates a peer over the given resources.
func NewLocal(db *gorm.DB, store *storage.BlobStore, c *codec.Codec) *Local {
	return &Local{db: db, store: store, codec: c}
}

// ListMatches returns every match with its files, ordered by match id.
func (l *Local) ListMatches(ctx context.Context) ([]Match, error) {
	db := l.db.WithContext(ctx)
	ids, err := records.ListMatchIDs(db)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(ids))
	for _, id := range ids {
		report, err := records.GetMatchReport(db, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load match %d: %w", id, err)
		}
		matches = append(matches, fromReport(report))
	}
	return matches, nil
}

// GetFileBytes reads and decompresses the blob of a file.
func (l *Local) GetFileBytes(ctx context.Context, fileID uint) (string, []byte, error) {
	file, err := records.FindByID[records.File](l.db.WithContext(ctx), fileID)
	if err != nil {
		return "", nil, err
	}
	blob, err := l.store.Get(ctx, l.store.Path(file.Hash))
	if err != nil {
		return "", nil, err
	}
	data, err := l.codec.Decompress(blob)
	if err != nil {
		return "", nil, err
	}
	name := file.OriginalFilename
	if name == "" {
		name = file.Filename
	}
	return name, data, nil
}

func fromReport(r *records.MatchReport) Match {
	m := Match{
		ID:     r.Match.ID,
		Hash:   r.Match.Hash,
		Rated:  r.Match.Rated,
		Played: r.Match.Played,
		Files:  make([]File, 0, len(r.Files)),
	}
	if r.Match.PlatformID != nil {
		m.PlatformID = *r.Match.PlatformID
	}
	if r.Match.PlatformMatchID != nil {
		m.PlatformMatchID = *r.Match.PlatformMatchID
	}
	if r.Ladder != nil {
		m.Ladder = r.Ladder.Name
	}
	if r.Series != nil {
		m.Series = &Series{Name: r.Series.Name}
		if r.Series.ChallongeID != nil {
			m.Series.ChallongeID = *r.Series.ChallongeID
		}
	}

	for _, f := range r.Files {
		file := File{ID: f.ID, Hash: f.Hash, OriginalFilename: f.OriginalFilename}
		if p := r.Owner(f); p != nil {
			file.Owner = ownerOf(p)
		}
		m.Files = append(m.Files, file)
	}
	return m
}

func ownerOf(p *records.Player) *Owner {
	o := &Owner{
		ColorID:      p.ColorID,
		RateBefore:   p.RateBefore,
		RateAfter:    p.RateAfter,
		RateSnapshot: p.RateSnapshot,
	}
	if p.UserID != nil {
		o.UserID = *p.UserID
	}
	if p.Clan != nil {
		o.Clan = *p.Clan
	}
	return o
}
