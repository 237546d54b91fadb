package chess

import "strings"

// MoveFlag marks the special properties of a move.
type MoveFlag uint8

const (
	FlagCapture MoveFlag = 1 << iota
	FlagDoublePush
	FlagEnPassant
	FlagKingSideCastle
	FlagQueenSideCastle
	FlagPromotion
)

var flagNames = []struct {
	flag MoveFlag
	name string
}{
	{FlagCapture, "capture"},
	{FlagDoublePush, "double_push"},
	{FlagEnPassant, "en_passant"},
	{FlagKingSideCastle, "castle_king_side"},
	{FlagQueenSideCastle, "castle_queen_side"},
	{FlagPromotion, "promotion"},
}

func (f MoveFlag) Has(flag MoveFlag) bool {
	return f&flag != 0
}

func (f MoveFlag) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

func (f MoveFlag) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Move is a candidate move produced by move generation. Promoting pawn moves
// carry the chosen piece in Promotion; all other moves leave it NoPieceType.
type Move struct {
	From      Position     `json:"from"`
	To        Position     `json:"to"`
	Piece     ColoredPiece `json:"piece"`
	Flags     MoveFlag     `json:"flags"`
	Promotion PieceType    `json:"promotion,omitempty"`
}

func (m Move) IsCapture() bool {
	return m.Flags.Has(FlagCapture)
}

func (m Move) IsCastle() bool {
	return m.Flags.Has(FlagKingSideCastle) || m.Flags.Has(FlagQueenSideCastle)
}

// UCI renders the move as coordinate text, e.g. "e7e8q".
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(pieceLetters[m.Promotion])
	}
	return s
}

func (m Move) String() string {
	return m.UCI()
}

// enPassantVictim is the square of the pawn removed by an en-passant capture.
func (m Move) enPassantVictim() Position {
	return Position{File: m.To.File, Rank: m.From.Rank}
}

// castleRookSquares returns the rook's origin and destination for a castle.
func (m Move) castleRookSquares() (Position, Position) {
	rank := m.From.Rank
	if m.Flags.Has(FlagKingSideCastle) {
		return Position{File: 7, Rank: rank}, Position{File: 5, Rank: rank}
	}
	return Position{File: 0, Rank: rank}, Position{File: 3, Rank: rank}
}

// apply performs the piece movement of m on b and returns the captured
// piece, if any. Bookkeeping outside the board is left to the caller.
func (b *Board) apply(m Move) (ColoredPiece, bool) {
	var captured ColoredPiece
	var didCapture bool
	if m.Flags.Has(FlagEnPassant) {
		victim := m.enPassantVictim()
		captured, didCapture = b.PieceAt(victim)
		b.Clear(victim)
	} else {
		captured, didCapture = b.PieceAt(m.To)
	}

	moved := m.Piece
	if m.Promotion != NoPieceType {
		moved = ColoredPiece{Type: m.Promotion, Color: m.Piece.Color}
	}
	b.Clear(m.From)
	b.Put(m.To, moved)

	if m.IsCastle() {
		rookFrom, rookTo := m.castleRookSquares()
		if rook, ok := b.PieceAt(rookFrom); ok {
			b.Clear(rookFrom)
			b.Put(rookTo, rook)
		}
	}
	return captured, didCapture
}
