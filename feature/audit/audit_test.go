package audit

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"mgzdb/core/codec"
	"mgzdb/core/database"
	"mgzdb/core/reconcile"
	"mgzdb/core/storage"
	"mgzdb/core/storage/mocks"
	"mgzdb/feature/records"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var storageCfg = storage.Config{Bucket: "replays", Root: "mgz"}

type fixture struct {
	db     *gorm.DB
	client *mocks.Memory
	store  *storage.BlobStore
}

// setup stores two matches. Match 1 has a served file (f1) and a file whose
// blob is gone (f2). Match 2 only has a file whose blob is gone (f3). One
// blob (orphan) has no row at all.
func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, records.Models()...))
	t.Cleanup(func() { database.Close(db) })

	m1 := &records.Match{Hash: "m1"}
	m2 := &records.Match{Hash: "m2"}
	require.NoError(t, db.Create(m1).Error)
	require.NoError(t, db.Create(m2).Error)
	for _, f := range []records.File{
		{MatchID: m1.ID, Hash: "f1", Filename: "f1.zst", OwnerNumber: 1, ParserVersion: "1"},
		{MatchID: m1.ID, Hash: "f2", Filename: "f2.zst", OwnerNumber: 2, ParserVersion: "1"},
		{MatchID: m2.ID, Hash: "f3", Filename: "f3.zst", OwnerNumber: 1, ParserVersion: "1"},
	} {
		require.NoError(t, db.Create(&f).Error)
	}

	client := mocks.NewMemory()
	store := storage.NewBlobStore(client, storageCfg, codec.Extension)
	ctx := context.Background()
	require.NoError(t, store.EnsureBucket(ctx))
	require.NoError(t, store.Put(ctx, store.Path("f1"), []byte("one")))
	require.NoError(t, store.Put(ctx, store.Path("orphan"), []byte("lost")))

	return &fixture{db: db, client: client, store: store}
}

func (f *fixture) service() *Service {
	return NewService(f.db, f.store, zap.NewNop(), 0)
}

func TestAdapter(t *testing.T) {
	f := setup(t)
	a := NewAdapter(f.db, f.store, zap.NewNop())
	ctx := context.Background()

	index, err := a.LoadDBIndex(ctx)
	require.NoError(t, err)
	assert.Len(t, index, 3)
	assert.Equal(t, map[string]string{"file_id": "1", "match_id": "1"}, a.GetMetadata(index["f1"]))
	assert.Nil(t, a.GetMetadata("not a file"))

	set, err := a.LoadStorageSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"f1": {}, "orphan": {}}, set)
}

func TestServiceRun(t *testing.T) {
	t.Run("ReportOnly", func(t *testing.T) {
		f := setup(t)
		plan, executed, err := f.service().Run(context.Background(), reconcile.Options{})
		require.NoError(t, err)

		assert.Zero(t, executed)
		assert.Equal(t, 4, plan.Summary.TotalItems)
		assert.Equal(t, 2, plan.Summary.MissingStorage)
		assert.Equal(t, 1, plan.Summary.MissingDB)
		assert.Empty(t, plan.Actions)
	})

	t.Run("DryRunLeavesEverything", func(t *testing.T) {
		f := setup(t)
		plan, executed, err := f.service().Run(context.Background(), reconcile.Options{DoPurge: true, DryRun: true, Confirmed: true})
		require.NoError(t, err)

		assert.Zero(t, executed)
		assert.Equal(t, 3, plan.Summary.PurgeActions)

		var files int64
		require.NoError(t, f.db.Model(&records.File{}).Count(&files).Error)
		assert.EqualValues(t, 3, files)
		assert.Len(t, f.client.Keys(storageCfg.Bucket), 2)
	})

	t.Run("ConfirmedPurge", func(t *testing.T) {
		f := setup(t)
		_, executed, err := f.service().Run(context.Background(), reconcile.Options{DoPurge: true, Confirmed: true})
		require.NoError(t, err)
		assert.Equal(t, 3, executed)

		var hashes []string
		require.NoError(t, f.db.Model(&records.File{}).Order("hash").Pluck("hash", &hashes).Error)
		assert.Equal(t, []string{"f1"}, hashes)

		var matches []string
		require.NoError(t, f.db.Model(&records.Match{}).Order("hash").Pluck("hash", &matches).Error)
		assert.Equal(t, []string{"m1"}, matches)

		assert.Equal(t, []string{"mgz/f1.zst"}, f.client.Keys(storageCfg.Bucket))

		plan, _, err := f.service().Run(context.Background(), reconcile.Options{})
		require.NoError(t, err)
		assert.Zero(t, plan.Summary.MissingStorage)
		assert.Zero(t, plan.Summary.MissingDB)
	})
}

func TestServiceApply(t *testing.T) {
	f := setup(t)
	svc := f.service()
	ctx := context.Background()

	opts := reconcile.Options{DoPurge: true}
	plan, _, err := svc.Run(ctx, opts)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 3)

	executed, err := svc.Apply(ctx, plan, opts)
	require.NoError(t, err)
	assert.Zero(t, executed, "unconfirmed plans never run")

	opts.Confirmed = true
	executed, err = svc.Apply(ctx, plan, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, executed)
	assert.Equal(t, []string{"mgz/f1.zst"}, f.client.Keys(storageCfg.Bucket))
}

func TestHandler(t *testing.T) {
	f := setup(t)
	app := fiber.New()
	require.NoError(t, NewFeature(f.service()).Load(app))

	t.Run("Summary", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/audit?details=true", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Summary reconcile.PlanSummary `json:"summary"`
			Results []reconcile.Result    `json:"results"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 2, body.Summary.MissingStorage)
		assert.Len(t, body.Results, 3)
	})

	t.Run("Check", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/audit/f2", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result reconcile.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.True(t, result.DBPresent)
		assert.False(t, result.StoragePresent)
	})

	// Report endpoints never purge.
	var files int64
	require.NoError(t, f.db.Model(&records.File{}).Count(&files).Error)
	assert.EqualValues(t, 3, files)
}
