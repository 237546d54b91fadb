package bot

import (
	"math/rand"

	"github.com/justinabrahms/chessengine/internal/chess"
)

// Random plays a uniformly random legal move.
type Random struct {
	color chess.Color
	rng   *rand.Rand
}

func (b *Random) Kind() Kind {
	return KindRandom
}

func (b *Random) Color() chess.Color {
	return b.color
}

func (b *Random) Decide(g *chess.Game) (chess.Move, error) {
	moves, err := legalMoves(g, b.color)
	if err != nil {
		return chess.Move{}, err
	}
	return moves[b.rng.Intn(len(moves))], nil
}
