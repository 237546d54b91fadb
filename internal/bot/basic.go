package bot

import (
	"math"
	"math/rand"

	"github.com/justinabrahms/chessengine/internal/chess"
)

const (
	mateScore  = 1000
	checkBonus = 1
)

// Basic looks one ply ahead: it plays the move leaving the best material
// balance for its color, counting a piece left en prise as lost.
type Basic struct {
	color chess.Color
	rng   *rand.Rand
}

func (b *Basic) Kind() Kind {
	return KindBasic
}

func (b *Basic) Color() chess.Color {
	return b.color
}

func (b *Basic) Decide(g *chess.Game) (chess.Move, error) {
	moves, err := legalMoves(g, b.color)
	if err != nil {
		return chess.Move{}, err
	}

	best := math.MinInt
	var candidates []chess.Move
	for _, m := range moves {
		score := b.score(g, m)
		switch {
		case score > best:
			best = score
			candidates = append(candidates[:0], m)
		case score == best:
			candidates = append(candidates, m)
		}
	}
	return candidates[b.rng.Intn(len(candidates))], nil
}

// score plays m on a copy of g and evaluates the result for b's color.
func (b *Basic) score(g *chess.Game, m chess.Move) int {
	next := g.Clone()
	result, err := next.Play(m)
	if err != nil {
		return math.MinInt
	}

	switch result.Status {
	case chess.StatusCheckmate:
		return mateScore
	case chess.StatusStalemate:
		return 0
	}

	score := next.GetMaterialBalance()
	if b.color == chess.Black {
		score = -score
	}
	if result.Status == chess.StatusCheck {
		score += checkBonus
	}

	state := next.State()
	if state.IsSquareAttacked(m.To, b.color.Opposite()) && !state.IsSquareAttacked(m.To, b.color) {
		moved := m.Piece.Type
		if m.Promotion != chess.NoPieceType {
			moved = m.Promotion
		}
		score -= chess.StandardPieceValues[moved]
	}
	return score
}
