package parser_test

import (
	"context"
	"os/exec"
	"testing"

	"mgzdb/core/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
	"hash": "m1",
	"completed": true,
	"owner": 2,
	"players": [
		{"number": 1, "color_id": 0, "name": "a", "winner": true},
		{"number": 2, "color_id": 1, "name": "b"}
	],
	"teams": [{"id": 1, "players": [1]}, {"id": 2, "players": [2]}]
}`

func TestDecode(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		s, err := parser.Decode([]byte(sample))
		require.NoError(t, err)
		assert.Equal(t, "m1", s.MatchHash)
		assert.Equal(t, 2, s.OwnerNumber)
		assert.Equal(t, 1, s.WinningTeam())
		assert.Equal(t, 2, s.TeamOf(2))
		assert.Equal(t, 0, s.TeamOf(9))
		assert.False(t, s.Flagged())
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := parser.Decode([]byte("\x00\x01not json"))
		assert.ErrorIs(t, err, parser.ErrInvalidFormat)
	})

	t.Run("NoHash", func(t *testing.T) {
		_, err := parser.Decode([]byte(`{"players":[{"number":1}]}`))
		assert.ErrorIs(t, err, parser.ErrInvalidFormat)
	})

	t.Run("DuplicatePlayers", func(t *testing.T) {
		_, err := parser.Decode([]byte(`{"hash":"x","players":[{"number":1},{"number":1}]}`))
		assert.ErrorIs(t, err, parser.ErrInvalidFormat)
	})
}

func TestSummaryFlags(t *testing.T) {
	assert.True(t, (&parser.Summary{Completed: false}).Flagged())
	assert.True(t, (&parser.Summary{Completed: true, Restored: true}).Flagged())
	assert.False(t, (&parser.Summary{Completed: true}).Flagged())
}

func TestCommand(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	t.Run("EchoesSummary", func(t *testing.T) {
		p, err := parser.NewCommand(parser.Config{Command: "cat", Version: "1.0"})
		require.NoError(t, err)
		assert.Equal(t, "1.0", p.Version())

		s, err := p.Parse(context.Background(), []byte(sample))
		require.NoError(t, err)
		assert.Len(t, s.Players, 2)
	})

	t.Run("FailingCommand", func(t *testing.T) {
		if _, err := exec.LookPath("false"); err != nil {
			t.Skip("false not available")
		}
		p, err := parser.NewCommand(parser.Config{Command: "false"})
		require.NoError(t, err)

		_, err = p.Parse(context.Background(), []byte("anything"))
		assert.ErrorIs(t, err, parser.ErrInvalidFormat)
	})

	t.Run("MissingCommand", func(t *testing.T) {
		_, err := parser.NewCommand(parser.Config{Command: "definitely-not-a-parser-binary"})
		assert.Error(t, err)

		_, err = parser.NewCommand(parser.Config{})
		assert.Error(t, err)
	})
}
