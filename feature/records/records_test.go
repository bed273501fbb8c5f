package records_test

import (
	"testing"
	"time"

	"mgzdb/core/database"
	"mgzdb/feature/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, records.Models()...))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func seedMatch(t *testing.T, db *gorm.DB, hash string, files ...string) *records.Match {
	t.Helper()
	m := &records.Match{Hash: hash, Completed: true}
	require.NoError(t, db.Create(m).Error)
	require.NoError(t, db.Create(&records.Team{MatchID: m.ID, TeamID: 1, Winner: true}).Error)
	require.NoError(t, db.Create(&records.Player{MatchID: m.ID, Number: 1, Name: "a", TeamID: 1}).Error)
	require.NoError(t, db.Create(&records.Player{MatchID: m.ID, Number: 2, Name: "b", TeamID: 2}).Error)
	for i, h := range files {
		require.NoError(t, db.Create(&records.File{MatchID: m.ID, Hash: h, Filename: h + ".zst", OwnerNumber: i + 1, ParserVersion: "1"}).Error)
	}
	return m
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestGetOrCreate(t *testing.T) {
	db := newDB(t)
	key := map[string]any{"name": "cli"}
	build := func() *records.Source { return &records.Source{Name: "cli"} }

	first, created, err := records.GetOrCreate(db, key, build)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := records.GetOrCreate(db, key, build)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateLosesRace(t *testing.T) {
	db := newDB(t)
	var winner records.Source

	src, created, err := records.GetOrCreate(db, map[string]any{"name": "zip"}, func() *records.Source {
		// Another writer commits the same key between lookup and insert.
		winner = records.Source{Name: "zip"}
		require.NoError(t, db.Create(&winner).Error)
		return &records.Source{Name: "zip"}
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, src.ID)
	assert.Equal(t, int64(1), count(t, db, &records.Source{}))
}

func TestGetOrCreateInsideTransaction(t *testing.T) {
	db := newDB(t)
	require.NoError(t, db.Create(&records.Source{Name: "db"}).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, created, err := records.GetOrCreate(tx, map[string]any{"name": "db"}, func() *records.Source {
			return &records.Source{Name: "db"}
		})
		assert.False(t, created)
		if err != nil {
			return err
		}
		return tx.Create(&records.Source{Name: "archive"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count(t, db, &records.Source{}))
}

func TestAddTags(t *testing.T) {
	db := newDB(t)
	m := seedMatch(t, db, "m1", "f1")

	require.NoError(t, records.AddTags(db, m.ID, []string{"final", "final", ""}))
	require.NoError(t, records.AddTags(db, m.ID, []string{"final", "rm"}))
	assert.Equal(t, int64(2), count(t, db, &records.Tag{}))

	err := records.AddTags(db, 999, []string{"x"})
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestDeleteFile(t *testing.T) {
	t.Run("SiblingKeepsMatch", func(t *testing.T) {
		db := newDB(t)
		m := seedMatch(t, db, "m1", "f1", "f2")
		f1, err := records.FileByHash(db, "f1")
		require.NoError(t, err)

		res, err := records.DeleteFile(db, f1.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"f1"}, res.FileHashes)
		assert.Empty(t, res.MatchIDs)

		got, err := records.MatchByHash(db, "m1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, m.ID, got.ID)
		assert.Equal(t, int64(1), count(t, db, &records.File{}))
	})

	t.Run("LastFileCascades", func(t *testing.T) {
		db := newDB(t)
		m := seedMatch(t, db, "m1", "f1")
		require.NoError(t, records.AddTags(db, m.ID, []string{"t"}))
		f1, err := records.FileByHash(db, "f1")
		require.NoError(t, err)

		res, err := records.DeleteFile(db, f1.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{m.ID}, res.MatchIDs)
		assert.Equal(t, []string{"f1"}, res.FileHashes)

		for _, model := range []any{&records.Match{}, &records.Player{}, &records.Team{}, &records.Tag{}, &records.File{}} {
			assert.Equal(t, int64(0), count(t, db, model), "%T", model)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		db := newDB(t)
		_, err := records.DeleteFile(db, 42)
		assert.ErrorIs(t, err, records.ErrNotFound)
	})
}

func TestDeleteMatch(t *testing.T) {
	db := newDB(t)
	m := seedMatch(t, db, "m1", "f1", "f2")
	other := seedMatch(t, db, "m2", "f3")

	res, err := records.DeleteMatch(db, m.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"f1", "f2"}, res.FileHashes)
	assert.Equal(t, int64(1), count(t, db, &records.Match{}))
	assert.Equal(t, int64(2), count(t, db, &records.Player{}))

	report, err := records.GetMatchReport(db, other.ID)
	require.NoError(t, err)
	assert.Len(t, report.Files, 1)

	_, err = records.DeleteMatch(db, m.ID)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestDeleteSeries(t *testing.T) {
	db := newDB(t)
	series := records.Series{ID: "nac-final", Name: "NAC Final"}
	require.NoError(t, db.Create(&series).Error)
	a := seedMatch(t, db, "m1", "f1")
	b := seedMatch(t, db, "m2", "f2")
	seedMatch(t, db, "m3", "f3")
	require.NoError(t, db.Model(&records.Match{}).Where("id IN ?", []uint{a.ID, b.ID}).Update("series_id", series.ID).Error)

	res, err := records.DeleteSeries(db, series.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, res.MatchIDs)
	assert.Equal(t, int64(1), count(t, db, &records.Match{}))
	assert.Equal(t, int64(0), count(t, db, &records.Series{}))

	_, err = records.DeleteSeries(db, series.ID)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestReports(t *testing.T) {
	db := newDB(t)
	require.NoError(t, records.Seed(db))
	played := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	m := seedMatch(t, db, "m1", "f1", "f2")
	require.NoError(t, db.Model(m).Update("played", played).Error)
	require.NoError(t, records.AddTags(db, m.ID, []string{"b", "a"}))

	report, err := records.GetMatchReport(db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, report.Tags)
	assert.Len(t, report.Players, 2)
	assert.Len(t, report.Teams, 1)
	require.Len(t, report.Files, 2)
	owner := report.Owner(report.Files[1])
	require.NotNil(t, owner)
	assert.Equal(t, "b", owner.Name)

	f, err := records.FileByHash(db, "f1")
	require.NoError(t, err)
	fileReport, err := records.GetFileReport(db, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "m1", fileReport.MatchHash)
	require.NotNil(t, fileReport.Owner)
	assert.Equal(t, "a", fileReport.Owner.Name)

	summary, err := records.GetSummary(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Files)
	assert.Equal(t, int64(1), summary.Matches)
	assert.Equal(t, int64(2), summary.Tags)
	require.Len(t, summary.Platforms, 1)
	assert.Equal(t, int64(1), summary.Platforms[0].Matches)

	_, err = records.GetMatchReport(db, 999)
	assert.ErrorIs(t, err, records.ErrNotFound)
	_, err = records.GetSeriesReport(db, "none")
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestSeedAndSchema(t *testing.T) {
	db := newDB(t)
	require.NoError(t, records.Seed(db))
	require.NoError(t, records.Seed(db))
	assert.Equal(t, int64(5), count(t, db, &records.Source{}))
	assert.Equal(t, int64(5), count(t, db, &records.Platform{}))

	expected, err := records.ExpectedSchema(db)
	require.NoError(t, err)
	assert.Contains(t, expected, "files")
	assert.Contains(t, expected["matches"], "hash")

	problems, err := database.VerifySchema(db, expected)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
