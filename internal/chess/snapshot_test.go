package chess

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestore(t *testing.T) {
	game := NewGame()
	playAll(t, game, "e2e4", "d7d5", "e4d5", "d8d5", "b1c3")

	snap := game.Snapshot()
	assert.Len(t, snap.History, 6)
	assert.Equal(t, []int{0, 0, 0, 1, 2, 2}, snap.CaptureCounts)
	assert.Equal(t, "pP", snap.Captured)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := RestoreGame(decoded)
	require.NoError(t, err)
	assert.Equal(t, game.GetFEN(), restored.GetFEN())
	assert.Equal(t, game.GetStatus(), restored.GetStatus())
	assert.Equal(t, game.State().History(), restored.State().History())
	assert.Equal(t, game.State().CapturedPieces(), restored.State().CapturedPieces())

	// A restored game keeps full revert support.
	require.NoError(t, restored.Revert(3))
	assert.Equal(t, []ColoredPiece{{Type: Pawn, Color: Black}}, restored.State().CapturedPieces())
}

func TestSnapshotRestoresStatus(t *testing.T) {
	game := NewGame()
	playAll(t, game, "f2f3", "e7e5", "g2g4", "d8h4")

	restored, err := RestoreGame(game.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, StatusCheckmate, restored.GetStatus())
}

func TestRestoreGameRejectsInvalidSnapshots(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"empty history", Snapshot{}},
		{"count mismatch", Snapshot{History: []string{StandardStartPositionFEN}}},
		{"bad fen", Snapshot{History: []string{"not a fen"}, CaptureCounts: []int{0}}},
		{"bad captured letter", Snapshot{History: []string{StandardStartPositionFEN}, CaptureCounts: []int{1}, Captured: "x"}},
		{"decreasing counts", Snapshot{
			History:       []string{StandardStartPositionFEN, StandardStartPositionFEN},
			CaptureCounts: []int{1, 0},
			Captured:      "p",
		}},
		{"count beyond log", Snapshot{History: []string{StandardStartPositionFEN}, CaptureCounts: []int{2}, Captured: "p"}},
		{"unaccounted captures", Snapshot{History: []string{StandardStartPositionFEN}, CaptureCounts: []int{0}, Captured: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RestoreGame(tt.snap)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}
