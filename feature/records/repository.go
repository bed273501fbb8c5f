package records

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// GetOrCreate returns the row matching key, creating it with build when
// absent. The insert runs in a nested transaction (a savepoint when db is
// already a transaction) so that losing a race on a unique key leaves the
// outer transaction usable; the winner's row is then returned. The boolean
// reports whether this call created the row.
func GetOrCreate[T any](db *gorm.DB, key map[string]any, build func() *T) (*T, bool, error) {
	var existing T
	err := db.Where(key).Take(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up %T: %w", existing, err)
	}

	obj := build()
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(obj).Error
	})
	if err == nil {
		return obj, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, fmt.Errorf("failed to create %T: %w", existing, err)
	}

	var winner T
	if err := db.Where(key).Take(&winner).Error; err != nil {
		return nil, false, fmt.Errorf("failed to re-query %T after conflict: %w", winner, err)
	}
	return &winner, false, nil
}

// FindByID loads one row by primary key, mapping a miss to ErrNotFound.
func FindByID[T any](db *gorm.DB, id any) (*T, error) {
	var obj T
	if err := db.Take(&obj, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %T %v: %w", obj, id, err)
	}
	return &obj, nil
}

// FileByHash returns the File with the given content hash, or nil.
func FileByHash(db *gorm.DB, hash string) (*File, error) {
	var f File
	err := db.Where("hash = ?", hash).Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up file %s: %w", hash, err)
	}
	return &f, nil
}

// MatchByHash returns the Match with the given match hash, or nil.
func MatchByHash(db *gorm.DB, hash string) (*Match, error) {
	var m Match
	err := db.Where("hash = ?", hash).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up match %s: %w", hash, err)
	}
	return &m, nil
}

// AddTags attaches tags to a match. Tags already present are left alone.
func AddTags(db *gorm.DB, matchID uint, names []string) error {
	if _, err := FindByID[Match](db, matchID); err != nil {
		return err
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		_, _, err := GetOrCreate(db, map[string]any{"name": name, "match_id": matchID}, func() *Tag {
			return &Tag{Name: name, MatchID: matchID}
		})
		if err != nil {
			return fmt.Errorf("failed to tag match %d with %q: %w", matchID, name, err)
		}
	}
	return nil
}

// Source names.
const (
	SourceCLI      = "cli"
	SourcePlatform = "platform"
	SourceZip      = "zip"
	SourceDB       = "db"
	SourceArchive  = "archive"
)

var defaultSources = []string{SourceCLI, SourcePlatform, SourceZip, SourceDB, SourceArchive}

var defaultPlatforms = []Platform{
	{ID: "voobly", Name: "Voobly", URL: "https://www.voobly.com"},
	{ID: "vooblycn", Name: "Voobly China", URL: "https://www.voobly.cn"},
	{ID: "igz", Name: "IGZones", URL: "https://www.igzones.com"},
	{ID: "qq", Name: "AoC QQ", URL: "https://www.aocrec.com"},
	{ID: "de", Name: "Definitive Edition", URL: "https://www.ageofempires.com"},
}

// Seed inserts the reference rows (sources, platforms). It is idempotent.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, name := range defaultSources {
			if _, _, err := GetOrCreate(tx, map[string]any{"name": name}, func() *Source {
				return &Source{Name: name}
			}); err != nil {
				return err
			}
		}
		for _, p := range defaultPlatforms {
			if _, _, err := GetOrCreate(tx, map[string]any{"id": p.ID}, func() *Platform {
				return &p
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExpectedSchema lists the table and column names the models map to.
func ExpectedSchema(db *gorm.DB) (map[string][]string, error) {
	expected := make(map[string][]string)
	for _, model := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		expected[stmt.Schema.Table] = stmt.Schema.DBNames
	}
	return expected, nil
}
