package chess

import (
	"errors"
	"fmt"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the persistable form of a game: every history entry with the
// capture-log length at that entry, and the captured pieces as FEN letters in
// capture order.
type Snapshot struct {
	History       []string `json:"history"`
	CaptureCounts []int    `json:"captureCounts"`
	Captured      string   `json:"captured"`
}

func (g *Game) Snapshot() Snapshot {
	s := g.state
	snap := Snapshot{
		History:       make([]string, 0, s.history.Len()),
		CaptureCounts: make([]int, 0, s.history.Len()),
	}
	for _, e := range s.history.entries {
		snap.History = append(snap.History, e.fen)
		snap.CaptureCounts = append(snap.CaptureCounts, e.captured)
	}
	letters := make([]byte, len(s.captured))
	for i, pc := range s.captured {
		letters[i] = pc.Letter()
	}
	snap.Captured = string(letters)
	return snap
}

// RestoreGame rebuilds a game from a snapshot. The live position is the last
// history entry.
func RestoreGame(snap Snapshot) (*Game, error) {
	if len(snap.History) == 0 {
		return nil, fmt.Errorf("%w: empty history", ErrInvalidSnapshot)
	}
	if len(snap.CaptureCounts) != len(snap.History) {
		return nil, fmt.Errorf("%w: %d capture counts for %d history entries", ErrInvalidSnapshot, len(snap.CaptureCounts), len(snap.History))
	}

	captured := make([]ColoredPiece, len(snap.Captured))
	for i := 0; i < len(snap.Captured); i++ {
		pc, ok := PieceFromLetter(snap.Captured[i])
		if !ok {
			return nil, fmt.Errorf("%w: invalid captured piece %q", ErrInvalidSnapshot, snap.Captured[i])
		}
		captured[i] = pc
	}

	var history History
	prev := 0
	for i, fen := range snap.History {
		if err := ValidateFEN(fen); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidSnapshot, i, err)
		}
		n := snap.CaptureCounts[i]
		if n < prev || n > len(captured) {
			return nil, fmt.Errorf("%w: capture count %d at entry %d", ErrInvalidSnapshot, n, i)
		}
		prev = n
		history.append(fen, n)
	}
	if prev != len(captured) {
		return nil, fmt.Errorf("%w: %d captured pieces, last entry expects %d", ErrInvalidSnapshot, len(captured), prev)
	}

	state, err := DeserializeWithStatus(snap.History[len(snap.History)-1], true)
	if err != nil {
		return nil, err
	}
	state.history = history
	state.captured = captured
	return &Game{state: state}, nil
}
