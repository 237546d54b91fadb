// Package bot selects moves automatically for one side of a game.
package bot

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/justinabrahms/chessengine/internal/chess"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownKind = errors.New("unknown bot kind")
	ErrNoLegalMove = errors.New("no legal move")
	ErrNotBotTurn  = errors.New("not the bot's turn")
)

// Kind names one of the available strategies.
type Kind string

const (
	KindRandom Kind = "random"
	KindBasic  Kind = "basic"
)

// Kinds lists every strategy New can build.
var Kinds = []Kind{KindRandom, KindBasic}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Strategy chooses a move for its color. Decide never returns a move that
// is not in the game's legal move set.
type Strategy interface {
	Kind() Kind
	Color() chess.Color
	Decide(g *chess.Game) (chess.Move, error)
}

// New builds the strategy of the given kind playing color. rng supplies all
// randomness so a fixed seed reproduces the same choices.
func New(kind Kind, color chess.Color, rng *rand.Rand) (Strategy, error) {
	if rng == nil {
		return nil, errors.New("bot: nil random source")
	}
	switch kind {
	case KindRandom:
		return &Random{color: color, rng: rng}, nil
	case KindBasic:
		return &Basic{color: color, rng: rng}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// HandleTurn lets s decide and plays the move on g.
func HandleTurn(s Strategy, g *chess.Game) (*chess.ExecutedMove, error) {
	m, err := s.Decide(g)
	if err != nil {
		return nil, err
	}

	result, err := g.Play(m)
	if err != nil {
		return nil, fmt.Errorf("bot %s played %s: %w", s.Kind(), m.UCI(), err)
	}

	log.Debug().
		Str("bot", string(s.Kind())).
		Str("color", s.Color().String()).
		Str("move", result.SAN).
		Str("status", string(result.Status)).
		Msg("Bot moved")

	return result, nil
}

// legalMoves returns the moves color may choose from, or the reason there
// are none.
func legalMoves(g *chess.Game, color chess.Color) ([]chess.Move, error) {
	if g.GetActiveColor() != color {
		return nil, fmt.Errorf("%w: %s to move", ErrNotBotTurn, g.GetActiveColor())
	}
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: %s is %s", ErrNoLegalMove, color, g.GetStatus())
	}
	return moves, nil
}
