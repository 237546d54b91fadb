package chess

// Square is one board cell: either empty or holding exactly one piece.
type Square struct {
	piece    ColoredPiece
	occupied bool
}

// Empty is the unoccupied cell.
var Empty = Square{}

func Occupied(p ColoredPiece) Square {
	return Square{piece: p, occupied: true}
}

func (s Square) IsEmpty() bool {
	return !s.occupied
}

// Piece returns the occupant and true, or false for an empty cell.
func (s Square) Piece() (ColoredPiece, bool) {
	return s.piece, s.occupied
}

// Board maps each of the 64 positions to a cell. It is a value type:
// assignment copies the whole board.
type Board [64]Square

func (b *Board) At(p Position) Square {
	return b[p.Index()]
}

// PieceAt returns the piece on p, if any.
func (b *Board) PieceAt(p Position) (ColoredPiece, bool) {
	return b[p.Index()].Piece()
}

func (b *Board) Put(p Position, piece ColoredPiece) {
	b[p.Index()] = Occupied(piece)
}

func (b *Board) Clear(p Position) {
	b[p.Index()] = Empty
}

// KingPosition finds the king of color c.
func (b *Board) KingPosition(c Color) (Position, bool) {
	for i, sq := range b {
		if pc, ok := sq.Piece(); ok && pc.Type == King && pc.Color == c {
			pos, _ := PositionFromIndex(i)
			return pos, true
		}
	}
	return Position{}, false
}

// Pieces lists the positions occupied by color c in index order.
func (b *Board) Pieces(c Color) []Position {
	var out []Position
	for i, sq := range b {
		if pc, ok := sq.Piece(); ok && pc.Color == c {
			pos, _ := PositionFromIndex(i)
			out = append(out, pos)
		}
	}
	return out
}

func (b *Board) count(pc ColoredPiece) int {
	n := 0
	for _, sq := range b {
		if got, ok := sq.Piece(); ok && got == pc {
			n++
		}
	}
	return n
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StandardBoard returns the initial arrangement.
func StandardBoard() Board {
	var b Board
	for f := 0; f < 8; f++ {
		b[f] = Occupied(ColoredPiece{Type: backRank[f], Color: White})
		b[8+f] = Occupied(ColoredPiece{Type: Pawn, Color: White})
		b[48+f] = Occupied(ColoredPiece{Type: Pawn, Color: Black})
		b[56+f] = Occupied(ColoredPiece{Type: backRank[f], Color: Black})
	}
	return b
}

// Draw renders the board rank 8 first with '.' for empty cells.
func (b *Board) Draw() string {
	buf := make([]byte, 0, 8*9)
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if pc, ok := b[r*8+f].Piece(); ok {
				buf = append(buf, pc.Letter())
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
