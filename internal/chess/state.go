package chess

import "strings"

// StandardStartPositionFEN is the FEN of the initial position.
const StandardStartPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// GameState is the full position plus the bookkeeping needed to continue
// play. Exported methods only read; mutation goes through Game.
type GameState struct {
	board          Board
	activeColor    Color
	castling       CastlingRights
	enPassant      Position
	hasEnPassant   bool
	halfmoveClock  int
	fullmoveNumber int
	status         GameStatus
	captured       []ColoredPiece
	history        History
}

// NewGameState returns the standard starting position.
func NewGameState() *GameState {
	s := &GameState{
		board:       StandardBoard(),
		activeColor: White,
		castling: CastlingRights{
			WhiteKingSide:  true,
			WhiteQueenSide: true,
			BlackKingSide:  true,
			BlackQueenSide: true,
		},
		fullmoveNumber: 1,
		status:         StatusOngoing,
	}
	s.history.append(Serialize(s), 0)
	return s
}

func (s *GameState) Board() Board {
	return s.board
}

func (s *GameState) ActiveColor() Color {
	return s.activeColor
}

func (s *GameState) CastlingRights() CastlingRights {
	return s.castling
}

// EnPassantTarget returns the square a pawn may capture onto en passant on
// this move only.
func (s *GameState) EnPassantTarget() (Position, bool) {
	return s.enPassant, s.hasEnPassant
}

func (s *GameState) HalfmoveClock() int {
	return s.halfmoveClock
}

func (s *GameState) FullmoveNumber() int {
	return s.fullmoveNumber
}

func (s *GameState) Status() GameStatus {
	return s.status
}

// CapturedPieces returns a copy of the capture log in capture order.
func (s *GameState) CapturedPieces() []ColoredPiece {
	return append([]ColoredPiece(nil), s.captured...)
}

// History returns a copy of the FEN snapshots, index 0 being the initial
// position.
func (s *GameState) History() []string {
	return s.history.Snapshots()
}

func (s *GameState) PieceAt(p Position) (ColoredPiece, bool) {
	return s.board.PieceAt(p)
}

func (s *GameState) clone() *GameState {
	c := *s
	c.captured = append([]ColoredPiece(nil), s.captured...)
	c.history = s.history.clone()
	return &c
}

// refreshStatus derives the status for the side to move from the board.
func (s *GameState) refreshStatus() {
	inCheck := s.InCheck()
	hasMove := s.hasLegalMove()
	switch {
	case inCheck && !hasMove:
		s.status = StatusCheckmate
	case !hasMove:
		s.status = StatusStalemate
	case inCheck:
		s.status = StatusCheck
	default:
		s.status = StatusOngoing
	}
}

// revokedRights maps squares to the castling rights lost when a piece moves
// from or onto them.
var revokedRights = map[Position]func(*CastlingRights){
	{File: 4, Rank: 0}: func(r *CastlingRights) { r.revoke(White) },
	{File: 0, Rank: 0}: func(r *CastlingRights) { r.WhiteQueenSide = false },
	{File: 7, Rank: 0}: func(r *CastlingRights) { r.WhiteKingSide = false },
	{File: 4, Rank: 7}: func(r *CastlingRights) { r.revoke(Black) },
	{File: 0, Rank: 7}: func(r *CastlingRights) { r.BlackQueenSide = false },
	{File: 7, Rank: 7}: func(r *CastlingRights) { r.BlackKingSide = false },
}

// execute applies a move already known to be legal and returns its record.
func (s *GameState) execute(m Move) *ExecutedMove {
	san := s.sanBase(m)

	captured, didCapture := s.board.apply(m)
	if didCapture {
		s.captured = append(s.captured, captured)
	}

	for _, sq := range [2]Position{m.From, m.To} {
		if revoke, ok := revokedRights[sq]; ok {
			revoke(&s.castling)
		}
	}

	s.hasEnPassant = false
	if m.Flags.Has(FlagDoublePush) {
		s.enPassant = Position{File: m.From.File, Rank: (m.From.Rank + m.To.Rank) / 2}
		s.hasEnPassant = true
	}

	if m.Piece.Type == Pawn || didCapture {
		s.halfmoveClock = 0
	} else {
		s.halfmoveClock++
	}
	if s.activeColor == Black {
		s.fullmoveNumber++
	}
	s.activeColor = s.activeColor.Opposite()
	s.refreshStatus()

	switch s.status {
	case StatusCheckmate:
		san += "#"
	case StatusCheck:
		san += "+"
	}

	fen := Serialize(s)
	s.history.append(fen, len(s.captured))

	em := &ExecutedMove{
		From:      m.From,
		To:        m.To,
		Piece:     m.Piece,
		Promotion: m.Promotion,
		Flags:     m.Flags,
		SAN:       san,
		FEN:       fen,
		Status:    s.status,
	}
	if didCapture {
		em.Captured = &captured
	}
	return em
}

// sanBase renders m in standard algebraic notation without the check suffix.
func (s *GameState) sanBase(m Move) string {
	switch {
	case m.Flags.Has(FlagKingSideCastle):
		return "O-O"
	case m.Flags.Has(FlagQueenSideCastle):
		return "O-O-O"
	}

	var b strings.Builder
	if m.Piece.Type == Pawn {
		if m.IsCapture() {
			b.WriteByte(m.From.String()[0])
		}
	} else {
		b.WriteByte(pieceLetters[m.Piece.Type] - 'a' + 'A')
		b.WriteString(s.disambiguation(m))
	}
	if m.IsCapture() {
		b.WriteByte('x')
	}
	b.WriteString(m.To.String())
	if m.Promotion != NoPieceType {
		b.WriteByte('=')
		b.WriteByte(pieceLetters[m.Promotion] - 'a' + 'A')
	}
	return b.String()
}

func (s *GameState) disambiguation(m Move) string {
	var rivals []Position
	for _, from := range s.board.Pieces(m.Piece.Color) {
		if from == m.From {
			continue
		}
		if pc, _ := s.board.PieceAt(from); pc != m.Piece {
			continue
		}
		for _, other := range s.MovesFrom(from) {
			if other.To == m.To {
				rivals = append(rivals, from)
				break
			}
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, r := range rivals {
		if r.File == m.From.File {
			sameFile = true
		}
		if r.Rank == m.From.Rank {
			sameRank = true
		}
	}
	from := m.From.String()
	switch {
	case !sameFile:
		return from[:1]
	case !sameRank:
		return from[1:]
	default:
		return from
	}
}

// Material sums the standard piece values on the board per side.
func (s *GameState) Material() MaterialCount {
	var count MaterialCount
	for _, sq := range s.board {
		pc, ok := sq.Piece()
		if !ok {
			continue
		}
		if pc.Color == White {
			count.White += StandardPieceValues[pc.Type]
		} else {
			count.Black += StandardPieceValues[pc.Type]
		}
	}
	return count
}

// MaterialBalance is white's material minus black's.
func (s *GameState) MaterialBalance() int {
	m := s.Material()
	return m.White - m.Black
}

// InsufficientMaterial reports king vs king, king and minor piece vs king,
// and king and bishop vs king and bishop with same-colored bishops.
// The status is not changed by it.
func (s *GameState) InsufficientMaterial() bool {
	var minors []Position
	var minorPieces []ColoredPiece
	for i, sq := range s.board {
		pc, ok := sq.Piece()
		if !ok || pc.Type == King {
			continue
		}
		if pc.Type != Knight && pc.Type != Bishop {
			return false
		}
		pos, _ := PositionFromIndex(i)
		minors = append(minors, pos)
		minorPieces = append(minorPieces, pc)
	}
	switch len(minors) {
	case 0, 1:
		return true
	case 2:
		a, b := minorPieces[0], minorPieces[1]
		if a.Type != Bishop || b.Type != Bishop || a.Color == b.Color {
			return false
		}
		return (minors[0].File+minors[0].Rank)%2 == (minors[1].File+minors[1].Rank)%2
	default:
		return false
	}
}

// FiftyMoveRule reports whether a draw may be claimed under the fifty-move
// rule. The status is not changed by it.
func (s *GameState) FiftyMoveRule() bool {
	return s.halfmoveClock >= 100
}
