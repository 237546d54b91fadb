package chess

import "fmt"

// History is the append-only log of FEN snapshots, one per committed
// position. Each entry also remembers how long the capture log was at that
// point so a revert can restore it.
type History struct {
	entries []historyEntry
}

type historyEntry struct {
	fen      string
	captured int
}

func (h *History) Len() int {
	return len(h.entries)
}

// At returns the snapshot at index i.
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i].fen, true
}

func (h *History) Snapshots() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.fen
	}
	return out
}

func (h *History) append(fen string, captured int) {
	h.entries = append(h.entries, historyEntry{fen: fen, captured: captured})
}

// truncated returns a copy holding entries 0..index.
func (h *History) truncated(index int) History {
	return History{entries: append([]historyEntry(nil), h.entries[:index+1]...)}
}

func (h *History) clone() History {
	return History{entries: append([]historyEntry(nil), h.entries...)}
}

// revertedState builds the state at history[index]: the snapshot decoded
// with its status re-derived, the history cut after index and the capture log
// cut to its length at that point. s is not modified.
func (s *GameState) revertedState(index int) (*GameState, error) {
	fen, ok := s.history.At(index)
	if !ok {
		return nil, fmt.Errorf("%w: %d (history has %d entries)", ErrInvalidHistoryIndex, index, s.history.Len())
	}
	restored, err := DeserializeWithStatus(fen, true)
	if err != nil {
		return nil, err
	}
	entry := s.history.entries[index]
	restored.history = s.history.truncated(index)
	restored.captured = append([]ColoredPiece(nil), s.captured[:entry.captured]...)
	return restored, nil
}
