package records

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// MatchReport is a match with everything attached to it.
type MatchReport struct {
	Match   Match    `json:"match"`
	Series  *Series  `json:"series,omitempty"`
	Ladder  *Ladder  `json:"ladder,omitempty"`
	Teams   []Team   `json:"teams"`
	Players []Player `json:"players"`
	Files   []File   `json:"files"`
	Tags    []string `json:"tags"`
}

// Owner returns the player who recorded f, if known.
func (r *MatchReport) Owner(f File) *Player {
	for i := range r.Players {
		if r.Players[i].Number == f.OwnerNumber {
			return &r.Players[i]
		}
	}
	return nil
}

// FileReport is a file with its owner and provenance.
type FileReport struct {
	File      File    `json:"file"`
	MatchHash string  `json:"match_hash"`
	Source    string  `json:"source"`
	Owner     *Player `json:"owner,omitempty"`
}

// SeriesReport is a series with its matches.
type SeriesReport struct {
	Series  Series  `json:"series"`
	Matches []Match `json:"matches"`
}

// PlatformCount is the number of matches from one platform.
type PlatformCount struct {
	PlatformID *string `json:"platform_id"`
	Matches    int64   `json:"matches"`
}

// Summary counts every entity.
type Summary struct {
	Files     int64           `json:"files"`
	Matches   int64           `json:"matches"`
	Players   int64           `json:"players"`
	Series    int64           `json:"series"`
	Tags      int64           `json:"tags"`
	Platforms []PlatformCount `json:"platforms"`
}

// GetMatchReport loads a match report.
func GetMatchReport(db *gorm.DB, matchID uint) (*MatchReport, error) {
	match, err := FindByID[Match](db, matchID)
	if err != nil {
		return nil, err
	}
	report := &MatchReport{Match: *match, Tags: []string{}}

	if match.SeriesID != nil {
		if report.Series, err = FindByID[Series](db, *match.SeriesID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if match.LadderID != nil {
		if report.Ladder, err = FindByID[Ladder](db, *match.LadderID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if err := db.Where("match_id = ?", matchID).Order("team_id").Find(&report.Teams).Error; err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	if err := db.Where("match_id = ?", matchID).Order("number").Find(&report.Players).Error; err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	if err := db.Where("match_id = ?", matchID).Order("id").Find(&report.Files).Error; err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	if err := db.Model(&Tag{}).Where("match_id = ?", matchID).Order("name").Pluck("name", &report.Tags).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	return report, nil
}

// GetFileReport loads a file report.
func GetFileReport(db *gorm.DB, fileID uint) (*FileReport, error) {
	file, err := FindByID[File](db, fileID)
	if err != nil {
		return nil, err
	}
	report := &FileReport{File: *file}

	var match Match
	if err := db.Select("hash").Take(&match, "id = ?", file.MatchID).Error; err == nil {
		report.MatchHash = match.Hash
	}
	if file.SourceID != nil {
		if source, err := FindByID[Source](db, *file.SourceID); err == nil {
			report.Source = source.Name
		}
	}
	var owner Player
	if err := db.Where("match_id = ? AND number = ?", file.MatchID, file.OwnerNumber).Take(&owner).Error; err == nil {
		report.Owner = &owner
	}
	return report, nil
}

// GetSeriesReport loads a series report.
func GetSeriesReport(db *gorm.DB, seriesID string) (*SeriesReport, error) {
	series, err := FindByID[Series](db, seriesID)
	if err != nil {
		return nil, err
	}
	report := &SeriesReport{Series: *series}
	if err := db.Where("series_id = ?", seriesID).Order("played, id").Find(&report.Matches).Error; err != nil {
		return nil, fmt.Errorf("failed to load series matches: %w", err)
	}
	return report, nil
}

// GetSummary counts every entity.
func GetSummary(db *gorm.DB) (*Summary, error) {
	s := &Summary{}
	counts := []struct {
		model any
		dst   *int64
	}{
		{&File{}, &s.Files},
		{&Match{}, &s.Matches},
		{&Player{}, &s.Players},
		{&Series{}, &s.Series},
		{&Tag{}, &s.Tags},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to count %T: %w", c.model, err)
		}
	}
	if err := db.Model(&Match{}).
		Select("platform_id, count(*) as matches").
		Group("platform_id").
		Order("platform_id").
		Scan(&s.Platforms).Error; err != nil {
		return nil, fmt.Errorf("failed to count matches per platform: %w", err)
	}
	return s, nil
}

// ListMatchIDs returns every match id in ascending order.
func ListMatchIDs(db *gorm.DB) ([]uint, error) {
	var ids []uint
	if err := db.Model(&Match{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return ids, nil
}

// ListFileHashes returns the content hash of every file.
func ListFileHashes(db *gorm.DB) ([]string, error) {
	var hashes []string
	if err := db.Model(&File{}).Order("id").Pluck("hash", &hashes).Error; err != nil {
		return nil, fmt.Errorf("failed to list file hashes: %w", err)
	}
	return hashes, nil
}

// FilesByHash returns the files whose hash is in hashes.
func FilesByHash(db *gorm.DB, hashes []string) ([]File, error) {
	if len(hashes) == 0 {
		return nil, nil
	}
	var files []File
	if err := db.Where("hash IN ?", hashes).Order("id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	return files, nil
}
