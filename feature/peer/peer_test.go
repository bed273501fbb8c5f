package peer_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"mgzdb/core/codec"
	"mgzdb/core/database"
	"mgzdb/core/storage"
	"mgzdb/core/storage/mocks"
	"mgzdb/feature/peer"
	"mgzdb/feature/records"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocal(t *testing.T) *peer.Local {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, records.Models()...))
	t.Cleanup(func() { database.Close(db) })

	c, err := codec.New(codec.Config{Level: "fastest"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	store := storage.NewBlobStore(mocks.NewMemory(), storage.Config{Bucket: "replays", Root: "mgz"}, codec.Extension)

	challonge := "abc"
	require.NoError(t, db.Create(&records.Series{ID: "finals", Name: "Finals", ChallongeID: &challonge}).Error)
	series := "finals"
	platformID, matchID := "voobly", "123"
	m := &records.Match{Hash: "match-1", Completed: true, SeriesID: &series, PlatformID: &platformID, PlatformMatchID: &matchID}
	require.NoError(t, db.Create(m).Error)

	userID, clan := "42", "KOTL"
	require.NoError(t, db.Create(&records.Player{MatchID: m.ID, Number: 1, Name: "alpha", ColorID: 3, UserID: &userID, Clan: &clan}).Error)
	require.NoError(t, db.Create(&records.Player{MatchID: m.ID, Number: 2, Name: "beta", ColorID: 1}).Error)
	require.NoError(t, db.Create(&records.File{
		MatchID: m.ID, Hash: "file-1", Filename: "file-1.zst", OriginalFilename: "game.mgz",
		OwnerNumber: 1, ParserVersion: "1",
	}).Error)
	require.NoError(t, store.Put(context.Background(), store.Path("file-1"), c.Compress([]byte("replay bytes"))))

	return peer.NewLocal(db, store, c)
}

func TestLocal(t *testing.T) {
	local := newLocal(t)
	ctx := context.Background()

	matches, err := local.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "match-1", m.Hash)
	assert.Equal(t, "voobly", m.PlatformID)
	assert.Equal(t, "123", m.PlatformMatchID)
	require.NotNil(t, m.Series)
	assert.Equal(t, "Finals", m.Series.Name)
	assert.Equal(t, "abc", m.Series.ChallongeID)
	require.Len(t, m.Files, 1)
	require.NotNil(t, m.Files[0].Owner)
	assert.Equal(t, 3, m.Files[0].Owner.ColorID)
	assert.Equal(t, "42", m.Files[0].Owner.UserID)
	assert.Equal(t, "KOTL", m.Files[0].Owner.Clan)

	name, data, err := local.GetFileBytes(ctx, m.Files[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "game.mgz", name)
	assert.Equal(t, "replay bytes", string(data))

	_, _, err = local.GetFileBytes(ctx, 999)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestHandler(t *testing.T) {
	app := fiber.New()
	require.NoError(t, peer.NewFeature(newLocal(t), zap.NewNop()).Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/peer/matches", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var matches []peer.Match
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&matches))
	assert.Len(t, matches, 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/peer/files/999", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/peer/files/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestClientAgainstHandler(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	require.NoError(t, peer.NewFeature(newLocal(t), zap.NewNop()).Load(app))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	client := peer.NewClient("http://"+ln.Addr().String(), "", 5*time.Second)
	ctx := context.Background()

	matches, err := client.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Len(t, matches[0].Files, 1)

	name, data, err := client.GetFileBytes(ctx, matches[0].Files[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "game.mgz", name)
	assert.Equal(t, "replay bytes", string(data))

	_, _, err = client.GetFileBytes(ctx, 999)
	assert.ErrorIs(t, err, records.ErrNotFound)
}
