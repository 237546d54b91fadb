package chess

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", text)
	}
	*c = parsed
	return nil
}

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return White, false
	}
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

var pieceLetters = [...]byte{0, 'p', 'n', 'b', 'r', 'q', 'k'}

func (t PieceType) String() string {
	if int(t) >= len(pieceTypeNames) {
		return ""
	}
	return pieceTypeNames[t]
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	for i, name := range pieceTypeNames {
		if name == string(text) {
			*t = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("invalid piece type %q", text)
}

// IsPromotionTarget reports whether a pawn may promote to t.
func (t PieceType) IsPromotionTarget() bool {
	switch t {
	case Queen, Rook, Bishop, Knight:
		return true
	default:
		return false
	}
}

// PromotionPieces lists promotion choices in the order moves are generated.
var PromotionPieces = [...]PieceType{Queen, Rook, Bishop, Knight}

// ParsePromotion maps a lowercase letter to its promotion piece.
// Anything else yields NoPieceType.
func ParsePromotion(p string) PieceType {
	switch p {
	case "q":
		return Queen
	case "r":
		return Rook
	case "b":
		return Bishop
	case "n":
		return Knight
	default:
		return NoPieceType
	}
}

// ColoredPiece is an immutable piece value.
type ColoredPiece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Letter returns the FEN letter: uppercase for white, lowercase for black.
func (p ColoredPiece) Letter() byte {
	l := pieceLetters[p.Type]
	if p.Color == White {
		return l - 'a' + 'A'
	}
	return l
}

func (p ColoredPiece) String() string {
	return p.Color.String() + " " + p.Type.String()
}

// PieceFromLetter is the inverse of Letter.
func PieceFromLetter(c byte) (ColoredPiece, bool) {
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
		c = c - 'A' + 'a'
	}
	for t := Pawn; t <= King; t++ {
		if pieceLetters[t] == c {
			return ColoredPiece{Type: t, Color: color}, true
		}
	}
	return ColoredPiece{}, false
}

type GameStatus string

const (
	StatusOngoing   GameStatus = "ongoing"
	StatusCheck     GameStatus = "check"
	StatusCheckmate GameStatus = "checkmate"
	StatusStalemate GameStatus = "stalemate"
)

// IsGameOver reports whether no further moves may be played.
func (s GameStatus) IsGameOver() bool {
	return s == StatusCheckmate || s == StatusStalemate
}

type CastlingRights struct {
	WhiteKingSide  bool `json:"whiteKingSide"`
	WhiteQueenSide bool `json:"whiteQueenSide"`
	BlackKingSide  bool `json:"blackKingSide"`
	BlackQueenSide bool `json:"blackQueenSide"`
}

func (r CastlingRights) kingSide(c Color) bool {
	if c == White {
		return r.WhiteKingSide
	}
	return r.BlackKingSide
}

func (r CastlingRights) queenSide(c Color) bool {
	if c == White {
		return r.WhiteQueenSide
	}
	return r.BlackQueenSide
}

func (r *CastlingRights) revoke(c Color) {
	if c == White {
		r.WhiteKingSide, r.WhiteQueenSide = false, false
	} else {
		r.BlackKingSide, r.BlackQueenSide = false, false
	}
}

// String renders the FEN castling field.
func (r CastlingRights) String() string {
	var b strings.Builder
	if r.WhiteKingSide {
		b.WriteByte('K')
	}
	if r.WhiteQueenSide {
		b.WriteByte('Q')
	}
	if r.BlackKingSide {
		b.WriteByte('k')
	}
	if r.BlackQueenSide {
		b.WriteByte('q')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// ExecutedMove describes a move that was applied to a game.
type ExecutedMove struct {
	From      Position      `json:"from"`
	To        Position      `json:"to"`
	Piece     ColoredPiece  `json:"piece"`
	Captured  *ColoredPiece `json:"captured,omitempty"`
	Promotion PieceType     `json:"promotion,omitempty"`
	Flags     MoveFlag      `json:"flags"`
	SAN       string        `json:"san"`
	FEN       string        `json:"fen"`
	Status    GameStatus    `json:"status"`
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// StandardPieceValues maps piece types to their standard values
var StandardPieceValues = map[PieceType]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0, // King has no material value
}
