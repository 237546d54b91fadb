package chess

import (
	"fmt"
)

// Game owns exactly one GameState and is the only way to change it.
type Game struct {
	state *GameState
}

func NewGame() *Game {
	return &Game{
		state: NewGameState(),
	}
}

// NewGameFromFEN starts a game from FEN text with its status derived from
// the board.
func NewGameFromFEN(fen string) (*Game, error) {
	state, err := DeserializeWithStatus(fen, true)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}

	return &Game{
		state: state,
	}, nil
}

// State exposes the current position read-only.
func (g *Game) State() *GameState {
	return g.state
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	return &Game{state: g.state.clone()}
}

// Move executes from→to for the side to move. It fails without touching the
// game when the move is not legal or, for a pawn reaching the last rank,
// when promotion is NoPieceType (ErrPromotionRequired).
func (g *Game) Move(from, to Position, promotion PieceType) (*ExecutedMove, error) {
	s := g.state
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("%w: %v to %v", ErrMalformedPosition, from, to)
	}
	if s.status.IsGameOver() {
		return nil, fmt.Errorf("%w: %s", ErrGameOver, s.status)
	}

	pc, ok := s.board.PieceAt(from)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPieceAtSource, from)
	}
	if pc.Color != s.activeColor {
		return nil, fmt.Errorf("%w: %s on %s, %s to move", ErrNotActiveColor, pc, from, s.activeColor)
	}

	var candidates []Move
	for _, m := range s.MovesFrom(from) {
		if m.To == to {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to)
	}

	if !candidates[0].Flags.Has(FlagPromotion) {
		if promotion != NoPieceType {
			return nil, fmt.Errorf("%w: %s to %s does not promote", ErrInvalidPromotionPiece, from, to)
		}
		return s.execute(candidates[0]), nil
	}

	if promotion == NoPieceType {
		return nil, fmt.Errorf("%w: %s to %s", ErrPromotionRequired, from, to)
	}
	if !promotion.IsPromotionTarget() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPromotionPiece, promotion)
	}
	for _, m := range candidates {
		if m.Promotion == promotion {
			return s.execute(m), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidPromotionPiece, promotion)
}

// MakeMove is Move with squares given in algebraic notation.
func (g *Game) MakeMove(from, to string, promotion PieceType) (*ExecutedMove, error) {
	fromPos, err := ParsePosition(from)
	if err != nil {
		return nil, err
	}
	toPos, err := ParsePosition(to)
	if err != nil {
		return nil, err
	}
	return g.Move(fromPos, toPos, promotion)
}

// Play executes a generated move.
func (g *Game) Play(m Move) (*ExecutedMove, error) {
	return g.Move(m.From, m.To, m.Promotion)
}

// Revert restores the game to history[index] and discards later entries.
func (g *Game) Revert(index int) error {
	restored, err := g.state.revertedState(index)
	if err != nil {
		return err
	}
	g.state = restored
	return nil
}

func (g *Game) LegalMoves() []Move {
	return g.state.LegalMoves()
}

func (g *Game) MovesFrom(p Position) []Move {
	return g.state.MovesFrom(p)
}

func (g *Game) GetFEN() string {
	return Serialize(g.state)
}

func (g *Game) GetStatus() GameStatus {
	return g.state.status
}

func (g *Game) GetActiveColor() Color {
	return g.state.activeColor
}

func (g *Game) GetMaterialCount() MaterialCount {
	return g.state.Material()
}

func (g *Game) GetMaterialBalance() int {
	return g.state.MaterialBalance()
}

func (g *Game) GetPieceValues() map[string]int {
	values := make(map[string]int, len(StandardPieceValues))
	for t, v := range StandardPieceValues {
		values[t.String()] = v
	}
	return values
}

// IsDrawn reports stalemate or insufficient material.
func (g *Game) IsDrawn() bool {
	return g.GetDrawReason() != ""
}

func (g *Game) GetDrawReason() string {
	switch {
	case g.state.status == StatusStalemate:
		return "Stalemate"
	case g.state.InsufficientMaterial():
		return "InsufficientMaterial"
	case g.state.FiftyMoveRule():
		return "FiftyMoveRule"
	default:
		return ""
	}
}

// ValidateFEN checks that fen decodes without error.
func ValidateFEN(fen string) error {
	_, err := Deserialize(fen)
	return err
}
