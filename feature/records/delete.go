package records

import (
	"fmt"

	"gorm.io/gorm"
)

// DeleteResult lists what a delete removed. FileHashes are the content
// hashes whose blobs are no longer referenced.
type DeleteResult struct {
	FileIDs    []uint   `json:"file_ids"`
	FileHashes []string `json:"file_hashes"`
	MatchIDs   []uint   `json:"match_ids"`
	SeriesID   string   `json:"series_id,omitempty"`
}

func (r *DeleteResult) merge(other DeleteResult) {
	r.FileIDs = append(r.FileIDs, other.FileIDs...)
	r.FileHashes = append(r.FileHashes, other.FileHashes...)
	r.MatchIDs = append(r.MatchIDs, other.MatchIDs...)
}

// DeleteFile removes a File. When it was the last File of its Match, the
// Match goes with it.
func DeleteFile(db *gorm.DB, fileID uint) (DeleteResult, error) {
	var result DeleteResult
	err := db.Transaction(func(tx *gorm.DB) error {
		file, err := FindByID[File](tx, fileID)
		if err != nil {
			return err
		}

		var siblings int64
		if err := tx.Model(&File{}).Where("match_id = ?", file.MatchID).Count(&siblings).Error; err != nil {
			return fmt.Errorf("failed to count files of match %d: %w", file.MatchID, err)
		}
		if siblings <= 1 {
			result, err = deleteMatch(tx, file.MatchID)
			return err
		}

		if err := tx.Delete(&File{}, file.ID).Error; err != nil {
			return fmt.Errorf("failed to delete file %d: %w", file.ID, err)
		}
		result = DeleteResult{FileIDs: []uint{file.ID}, FileHashes: []string{file.Hash}}
		return nil
	})
	return result, err
}

// DeleteMatch removes a Match and everything hanging off it.
func DeleteMatch(db *gorm.DB, matchID uint) (DeleteResult, error) {
	var result DeleteResult
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := FindByID[Match](tx, matchID); err != nil {
			return err
		}
		var err error
		result, err = deleteMatch(tx, matchID)
		return err
	})
	return result, err
}

// DeleteSeries removes every Match of a series, then the series itself.
func DeleteSeries(db *gorm.DB, seriesID string) (DeleteResult, error) {
	result := DeleteResult{SeriesID: seriesID}
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := FindByID[Series](tx, seriesID); err != nil {
			return err
		}
		var matchIDs []uint
		if err := tx.Model(&Match{}).Where("series_id = ?", seriesID).Order("id").Pluck("id", &matchIDs).Error; err != nil {
			return fmt.Errorf("failed to list matches of series %s: %w", seriesID, err)
		}
		for _, id := range matchIDs {
			removed, err := deleteMatch(tx, id)
			if err != nil {
				return err
			}
			result.merge(removed)
		}
		if err := tx.Delete(&Series{}, "id = ?", seriesID).Error; err != nil {
			return fmt.Errorf("failed to delete series %s: %w", seriesID, err)
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}

// deleteMatch runs the cascade files, tags, players, teams, match inside tx.
func deleteMatch(tx *gorm.DB, matchID uint) (DeleteResult, error) {
	result := DeleteResult{MatchIDs: []uint{matchID}}

	var files []File
	if err := tx.Where("match_id = ?", matchID).Order("id").Find(&files).Error; err != nil {
		return result, fmt.Errorf("failed to list files of match %d: %w", matchID, err)
	}
	for _, f := range files {
		result.FileIDs = append(result.FileIDs, f.ID)
		result.FileHashes = append(result.FileHashes, f.Hash)
	}

	steps := []struct {
		name  string
		model any
	}{
		{"files", &File{}},
		{"tags", &Tag{}},
		{"players", &Player{}},
		{"teams", &Team{}},
	}
	for _, step := range steps {
		if err := tx.Where("match_id = ?", matchID).Delete(step.model).Error; err != nil {
			return result, fmt.Errorf("failed to delete %s of match %d: %w", step.name, matchID, err)
		}
	}
	if err := tx.Delete(&Match{}, matchID).Error; err != nil {
		return result, fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	return result, nil
}
