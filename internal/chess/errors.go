package chess

import "errors"

var (
	ErrMalformedPosition     = errors.New("malformed position")
	ErrMalformedNotation     = errors.New("malformed notation")
	ErrNoPieceAtSource       = errors.New("no piece at source square")
	ErrNotActiveColor        = errors.New("piece does not belong to the side to move")
	ErrIllegalMove           = errors.New("illegal move")
	ErrGameOver              = errors.New("game is over")
	ErrPromotionRequired     = errors.New("promotion required")
	ErrInvalidPromotionPiece = errors.New("invalid promotion piece")
	ErrInvalidHistoryIndex   = errors.New("invalid history index")
)
