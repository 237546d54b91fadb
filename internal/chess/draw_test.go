package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawDetection(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		moves    []string
		wantDraw bool
		drawType string
	}{
		{
			name:     "Stalemate position",
			fen:      "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", // Black king in stalemate
			wantDraw: true,
			drawType: "Stalemate",
		},
		{
			name:     "Insufficient material - King vs King",
			fen:      "8/8/8/4k3/8/3K4/8/8 w - - 0 1",
			wantDraw: true,
			drawType: "InsufficientMaterial",
		},
		{
			name:     "Insufficient material - King and Bishop vs King",
			fen:      "8/8/8/4k3/8/3KB3/8/8 w - - 0 1",
			wantDraw: true,
			drawType: "InsufficientMaterial",
		},
		{
			name:     "Insufficient material - King and Knight vs King",
			fen:      "8/8/8/4k3/8/3KN3/8/8 w - - 0 1",
			wantDraw: true,
			drawType: "InsufficientMaterial",
		},
		{
			name:     "Insufficient material - same colored bishops",
			fen:      "8/8/2b5/4k3/8/3K4/4B3/8 w - - 0 1",
			wantDraw: true,
			drawType: "InsufficientMaterial",
		},
		{
			name:     "Opposite colored bishops can still mate",
			fen:      "8/8/3b4/4k3/8/3K4/4B3/8 w - - 0 1",
			wantDraw: false,
		},
		{
			name:     "Two knights are not insufficient",
			fen:      "8/8/8/4k3/8/3K4/3NN3/8 w - - 0 1",
			wantDraw: false,
		},
		{
			name:     "Capture into bare kings",
			fen:      "8/8/8/8/k3r3/3K4/8/8 w - - 0 1",
			moves:    []string{"d3e4"},
			wantDraw: true,
			drawType: "InsufficientMaterial",
		},
		{
			name:     "Fifty move rule",
			fen:      "4k3/8/8/8/8/8/8/R3K3 w - - 99 80",
			moves:    []string{"a1a2"},
			wantDraw: true,
			drawType: "FiftyMoveRule",
		},
		{
			name:     "Starting position",
			fen:      StandardStartPositionFEN,
			wantDraw: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := NewGameFromFEN(tt.fen)
			require.NoError(t, err)
			playAll(t, game, tt.moves...)

			assert.Equal(t, tt.wantDraw, game.IsDrawn())
			assert.Equal(t, tt.drawType, game.GetDrawReason())
		})
	}
}

// TestDrawsDoNotEndTheGame checks that insufficient material and the
// fifty-move rule are reported without changing the status.
func TestDrawsDoNotEndTheGame(t *testing.T) {
	game, err := NewGameFromFEN("8/8/8/4k3/8/3KN3/8/8 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, game.State().InsufficientMaterial())
	assert.Equal(t, StatusOngoing, game.GetStatus())
	playAll(t, game, "e3c4")

	game, err = NewGameFromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 120 90")
	require.NoError(t, err)
	assert.True(t, game.State().FiftyMoveRule())
	assert.Equal(t, StatusOngoing, game.GetStatus())
	playAll(t, game, "a1a7")
}

func TestHalfmoveClockResetsOnPawnMoveAndCapture(t *testing.T) {
	game, err := NewGameFromFEN("4k3/8/8/3p4/8/8/4P3/R3K3 w - - 40 30")
	require.NoError(t, err)

	playAll(t, game, "a1a2")
	assert.Equal(t, 41, game.State().HalfmoveClock())
	playAll(t, game, "d5d4")
	assert.Equal(t, 0, game.State().HalfmoveClock())
	playAll(t, game, "a2a3", "e8d7", "a3d3")
	assert.Equal(t, 3, game.State().HalfmoveClock())
	playAll(t, game, "d7c6", "d3d4")
	assert.Equal(t, 0, game.State().HalfmoveClock())
}
