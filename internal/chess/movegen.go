package chess

type offset struct{ df, dr int }

var (
	rookDirections   = []offset{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	bishopDirections = []offset{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	queenDirections  = append(append([]offset{}, rookDirections...), bishopDirections...)
	knightOffsets    = []offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets      = []offset{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
)

func slidingDirections(t PieceType) []offset {
	switch t {
	case Rook:
		return rookDirections
	case Bishop:
		return bishopDirections
	case Queen:
		return queenDirections
	default:
		return nil
	}
}

// pawnDirection is the rank step of a pawn of color c.
func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func pawnStartRank(c Color) int8 {
	if c == White {
		return 1
	}
	return 6
}

func lastRank(c Color) int8 {
	if c == White {
		return 7
	}
	return 0
}

func homeRank(c Color) int8 {
	if c == White {
		return 0
	}
	return 7
}

// squareSet is a membership table over board indices.
type squareSet [64]bool

func (s *squareSet) Has(p Position) bool {
	return s[p.Index()]
}

// attackMap returns every square a piece of color by attacks on b. Pawn
// pushes and castling are not attacks; squares holding by's own pieces are
// included so that defended pieces count as covered.
func attackMap(b *Board, by Color) squareSet {
	var set squareSet
	for i, sq := range b {
		pc, ok := sq.Piece()
		if !ok || pc.Color != by {
			continue
		}
		from, _ := PositionFromIndex(i)
		switch pc.Type {
		case Pawn:
			dr := pawnDirection(by)
			for _, df := range [2]int{-1, 1} {
				if to, ok := from.Offset(df, dr); ok {
					set[to.Index()] = true
				}
			}
		case Knight:
			markOffsets(&set, from, knightOffsets)
		case King:
			markOffsets(&set, from, kingOffsets)
		default:
			for _, d := range slidingDirections(pc.Type) {
				to := from
				for {
					var ok bool
					to, ok = to.Offset(d.df, d.dr)
					if !ok {
						break
					}
					set[to.Index()] = true
					if !b.At(to).IsEmpty() {
						break
					}
				}
			}
		}
	}
	return set
}

func markOffsets(set *squareSet, from Position, offsets []offset) {
	for _, o := range offsets {
		if to, ok := from.Offset(o.df, o.dr); ok {
			set[to.Index()] = true
		}
	}
}

func isAttacked(b *Board, target Position, by Color) bool {
	set := attackMap(b, by)
	return set.Has(target)
}

// IsSquareAttacked reports whether any piece of color by attacks pos.
func (s *GameState) IsSquareAttacked(pos Position, by Color) bool {
	if !pos.Valid() {
		return false
	}
	return isAttacked(&s.board, pos, by)
}

// InCheck reports whether the side to move has its king attacked.
func (s *GameState) InCheck() bool {
	king, ok := s.board.KingPosition(s.activeColor)
	if !ok {
		return false
	}
	return s.IsSquareAttacked(king, s.activeColor.Opposite())
}

// pseudoLegalMoves generates the moves of the piece on from that obey its
// movement rules, without checking the mover's king safety.
func (s *GameState) pseudoLegalMoves(from Position, pc ColoredPiece) []Move {
	switch pc.Type {
	case Pawn:
		return s.pawnMoves(from, pc)
	case Knight:
		return s.stepMoves(from, pc, knightOffsets)
	case King:
		return append(s.stepMoves(from, pc, kingOffsets), s.castlingMoves(from, pc)...)
	default:
		return s.slidingMoves(from, pc)
	}
}

func (s *GameState) slidingMoves(from Position, pc ColoredPiece) []Move {
	var moves []Move
	for _, d := range slidingDirections(pc.Type) {
		to := from
		for {
			var ok bool
			to, ok = to.Offset(d.df, d.dr)
			if !ok {
				break
			}
			occupant, occupied := s.board.PieceAt(to)
			if !occupied {
				moves = append(moves, Move{From: from, To: to, Piece: pc})
				continue
			}
			if occupant.Color != pc.Color {
				moves = append(moves, Move{From: from, To: to, Piece: pc, Flags: FlagCapture})
			}
			break
		}
	}
	return moves
}

func (s *GameState) stepMoves(from Position, pc ColoredPiece, offsets []offset) []Move {
	var moves []Move
	for _, o := range offsets {
		to, ok := from.Offset(o.df, o.dr)
		if !ok {
			continue
		}
		occupant, occupied := s.board.PieceAt(to)
		switch {
		case !occupied:
			moves = append(moves, Move{From: from, To: to, Piece: pc})
		case occupant.Color != pc.Color:
			moves = append(moves, Move{From: from, To: to, Piece: pc, Flags: FlagCapture})
		}
	}
	return moves
}

func (s *GameState) pawnMoves(from Position, pc ColoredPiece) []Move {
	var moves []Move
	dr := pawnDirection(pc.Color)

	if one, ok := from.Offset(0, dr); ok && s.board.At(one).IsEmpty() {
		moves = appendPawnMove(moves, Move{From: from, To: one, Piece: pc})
		if from.Rank == pawnStartRank(pc.Color) {
			if two, ok := from.Offset(0, 2*dr); ok && s.board.At(two).IsEmpty() {
				moves = append(moves, Move{From: from, To: two, Piece: pc, Flags: FlagDoublePush})
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, dr)
		if !ok {
			continue
		}
		if occupant, occupied := s.board.PieceAt(to); occupied {
			if occupant.Color != pc.Color {
				moves = appendPawnMove(moves, Move{From: from, To: to, Piece: pc, Flags: FlagCapture})
			}
			continue
		}
		if s.hasEnPassant && to == s.enPassant && pc.Color == s.activeColor {
			victim, ok := s.board.PieceAt(Position{File: to.File, Rank: from.Rank})
			if ok && victim.Type == Pawn && victim.Color != pc.Color {
				moves = append(moves, Move{From: from, To: to, Piece: pc, Flags: FlagCapture | FlagEnPassant})
			}
		}
	}
	return moves
}

// appendPawnMove expands a move onto the last rank into one move per
// promotion piece.
func appendPawnMove(moves []Move, m Move) []Move {
	if m.To.Rank != lastRank(m.Piece.Color) {
		return append(moves, m)
	}
	for _, promo := range PromotionPieces {
		pm := m
		pm.Flags |= FlagPromotion
		pm.Promotion = promo
		moves = append(moves, pm)
	}
	return moves
}

func (s *GameState) castlingMoves(from Position, pc ColoredPiece) []Move {
	rank := homeRank(pc.Color)
	if from != (Position{File: 4, Rank: rank}) {
		return nil
	}
	kingSide := s.castling.kingSide(pc.Color)
	queenSide := s.castling.queenSide(pc.Color)
	if !kingSide && !queenSide {
		return nil
	}

	enemy := pc.Color.Opposite()
	attacked := attackMap(&s.board, enemy)
	if attacked.Has(from) {
		return nil
	}

	rookAt := func(file int8) bool {
		rook, ok := s.board.PieceAt(Position{File: file, Rank: rank})
		return ok && rook == ColoredPiece{Type: Rook, Color: pc.Color}
	}
	emptyFiles := func(files ...int8) bool {
		for _, f := range files {
			if !s.board.At(Position{File: f, Rank: rank}).IsEmpty() {
				return false
			}
		}
		return true
	}
	safeFiles := func(files ...int8) bool {
		for _, f := range files {
			if attacked.Has(Position{File: f, Rank: rank}) {
				return false
			}
		}
		return true
	}

	var moves []Move
	if kingSide && rookAt(7) && emptyFiles(5, 6) && safeFiles(5, 6) {
		moves = append(moves, Move{From: from, To: Position{File: 6, Rank: rank}, Piece: pc, Flags: FlagKingSideCastle})
	}
	if queenSide && rookAt(0) && emptyFiles(1, 2, 3) && safeFiles(2, 3) {
		moves = append(moves, Move{From: from, To: Position{File: 2, Rank: rank}, Piece: pc, Flags: FlagQueenSideCastle})
	}
	return moves
}

// leavesKingSafe applies m to a scratch board and reports whether the
// mover's king is unattacked afterwards.
func (s *GameState) leavesKingSafe(m Move) bool {
	scratch := s.board
	scratch.apply(m)
	king, ok := scratch.KingPosition(m.Piece.Color)
	if !ok {
		return true
	}
	return !isAttacked(&scratch, king, m.Piece.Color.Opposite())
}

// MovesFrom returns the legal moves of the piece standing on from, in a
// stable order. An empty or off-board square yields no moves.
func (s *GameState) MovesFrom(from Position) []Move {
	if !from.Valid() {
		return nil
	}
	pc, ok := s.board.PieceAt(from)
	if !ok {
		return nil
	}
	pseudo := s.pseudoLegalMoves(from, pc)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if s.leavesKingSafe(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMoves returns every legal move for the side to move.
func (s *GameState) LegalMoves() []Move {
	var moves []Move
	for _, from := range s.board.Pieces(s.activeColor) {
		moves = append(moves, s.MovesFrom(from)...)
	}
	return moves
}

func (s *GameState) hasLegalMove() bool {
	for _, from := range s.board.Pieces(s.activeColor) {
		if len(s.MovesFrom(from)) > 0 {
			return true
		}
	}
	return false
}
