package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playAll(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		promo := NoPieceType
		if len(m) == 5 {
			promo = ParsePromotion(m[4:])
		}
		_, err := g.MakeMove(m[:2], m[2:4], promo)
		require.NoError(t, err, m)
	}
}

func TestHistoryGrowsOnePerMove(t *testing.T) {
	game := NewGame()
	playAll(t, game, "e2e4", "e7e5", "g1f3")

	history := game.State().History()
	require.Len(t, history, 4)
	assert.Equal(t, StandardStartPositionFEN, history[0])
	assert.Equal(t, game.GetFEN(), history[3])
}

func TestRevertRestoresEarlierPosition(t *testing.T) {
	game := NewGame()
	playAll(t, game, "e2e4", "d7d5", "e4d5", "d8d5")
	history := game.State().History()
	require.Len(t, game.State().CapturedPieces(), 2)

	require.NoError(t, game.Revert(3))

	assert.Equal(t, history[3], game.GetFEN())
	assert.Equal(t, history[:4], game.State().History())
	assert.Equal(t, Black, game.GetActiveColor())
	assert.Equal(t, []ColoredPiece{{Type: Pawn, Color: Black}}, game.State().CapturedPieces())

	require.NoError(t, game.Revert(0))
	assert.Equal(t, StandardStartPositionFEN, game.GetFEN())
	assert.Equal(t, []string{StandardStartPositionFEN}, game.State().History())
	assert.Empty(t, game.State().CapturedPieces())
}

func TestRevertToCurrentIndexIsNoop(t *testing.T) {
	game := NewGame()
	playAll(t, game, "e2e4")
	before := game.State().History()

	require.NoError(t, game.Revert(1))
	assert.Equal(t, before, game.State().History())
	assert.Equal(t, before[1], game.GetFEN())
}

func TestRevertOutOfRange(t *testing.T) {
	game := NewGame()
	playAll(t, game, "e2e4", "e7e5")
	fen := game.GetFEN()

	for _, index := range []int{-1, 3, 10} {
		err := game.Revert(index)
		assert.ErrorIs(t, err, ErrInvalidHistoryIndex, "index %d", index)
		assert.Equal(t, fen, game.GetFEN())
		assert.Len(t, game.State().History(), 3)
	}
}

func TestPlayContinuesAfterRevert(t *testing.T) {
	game := NewGame()
	playAll(t, game, "e2e4", "e7e5")
	require.NoError(t, game.Revert(1))

	playAll(t, game, "c7c5")
	history := game.State().History()
	require.Len(t, history, 3)
	assert.Equal(t, "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2", history[2])
}

func TestRevertOutOfCheckmate(t *testing.T) {
	game := NewGame()
	playAll(t, game, "f2f3", "e7e5", "g2g4", "d8h4")
	require.Equal(t, StatusCheckmate, game.GetStatus())

	require.NoError(t, game.Revert(3))
	assert.Equal(t, StatusOngoing, game.GetStatus())
	assert.NotEmpty(t, game.LegalMoves())

	playAll(t, game, "b8c6")
	assert.Equal(t, StatusOngoing, game.GetStatus())
}

func TestRevertRestoresCastlingAndEnPassant(t *testing.T) {
	game, err := NewGameFromFEN("r3k2r/8/8/8/4p3/8/3P4/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	playAll(t, game, "d2d4", "e8g8")

	require.NoError(t, game.Revert(1))
	ep, ok := game.State().EnPassantTarget()
	require.True(t, ok)
	assert.Equal(t, "d3", ep.String())
	assert.True(t, game.State().CastlingRights().BlackKingSide)

	_, err = game.MakeMove("e4", "d3", NoPieceType)
	require.NoError(t, err)
}

func TestHistoryAccessors(t *testing.T) {
	var h History
	h.append("a", 0)
	h.append("b", 1)

	assert.Equal(t, 2, h.Len())
	fen, ok := h.At(1)
	assert.True(t, ok)
	assert.Equal(t, "b", fen)
	_, ok = h.At(2)
	assert.False(t, ok)

	cut := h.truncated(0)
	assert.Equal(t, []string{"a"}, cut.Snapshots())
	assert.Equal(t, []string{"a", "b"}, h.Snapshots())
}
