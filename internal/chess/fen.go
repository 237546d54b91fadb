package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize encodes the position as FEN.
func Serialize(s *GameState) string {
	var b strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pc, ok := s.board[r*8+f].Piece()
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			b.WriteByte(pc.Letter())
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	if s.activeColor == White {
		b.WriteByte('w')
	} else {
		b.WriteByte('b')
	}
	b.WriteByte(' ')
	b.WriteString(s.castling.String())
	b.WriteByte(' ')
	if s.hasEnPassant {
		b.WriteString(s.enPassant.String())
	} else {
		b.WriteByte('-')
	}
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(s.halfmoveClock))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(s.fullmoveNumber))
	return b.String()
}

// Deserialize decodes FEN text. The status is left as StatusOngoing; use
// DeserializeWithStatus to derive it from the board.
func Deserialize(text string) (*GameState, error) {
	return DeserializeWithStatus(text, false)
}

// DeserializeWithStatus decodes FEN text and, when recomputeStatus is set,
// derives check, checkmate and stalemate from the decoded position. The
// returned state's history holds text as its only entry.
func DeserializeWithStatus(text string, recomputeStatus bool) (*GameState, error) {
	fields := strings.Split(text, " ")
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: expected 6 fields, got %d", ErrMalformedNotation, len(fields))
	}

	s := &GameState{status: StatusOngoing}
	var err error
	if s.board, err = parsePlacement(fields[0]); err != nil {
		return nil, err
	}
	if s.activeColor, err = parseActiveColor(fields[1]); err != nil {
		return nil, err
	}
	// The side that just moved cannot have left its king attacked.
	if king, ok := s.board.KingPosition(s.activeColor.Opposite()); ok && isAttacked(&s.board, king, s.activeColor) {
		return nil, fmt.Errorf("%w: %s king is attacked with %s to move", ErrMalformedNotation, s.activeColor.Opposite(), s.activeColor)
	}
	if s.castling, err = parseCastling(fields[2]); err != nil {
		return nil, err
	}
	if s.enPassant, s.hasEnPassant, err = parseEnPassant(fields[3], s.activeColor); err != nil {
		return nil, err
	}
	if s.halfmoveClock, err = parseCounter(fields[4], 0); err != nil {
		return nil, err
	}
	if s.fullmoveNumber, err = parseCounter(fields[5], 1); err != nil {
		return nil, err
	}

	if recomputeStatus {
		s.refreshStatus()
	}
	s.history.append(text, 0)
	return s, nil
}

func parsePlacement(field string) (Board, error) {
	var b Board
	rows := strings.Split(field, "/")
	if len(rows) != 8 {
		return b, fmt.Errorf("%w: expected 8 ranks, got %d", ErrMalformedNotation, len(rows))
	}
	for i, row := range rows {
		rank := 7 - i
		file := 0
		prevDigit := false
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				if prevDigit {
					return b, fmt.Errorf("%w: consecutive empty-square digits in rank %d", ErrMalformedNotation, rank+1)
				}
				file += int(c - '0')
				prevDigit = true
			} else {
				pc, ok := PieceFromLetter(c)
				if !ok {
					return b, fmt.Errorf("%w: invalid piece letter %q", ErrMalformedNotation, c)
				}
				if file > 7 {
					return b, fmt.Errorf("%w: rank %d has more than 8 files", ErrMalformedNotation, rank+1)
				}
				if pc.Type == Pawn && (rank == 0 || rank == 7) {
					return b, fmt.Errorf("%w: pawn on rank %d", ErrMalformedNotation, rank+1)
				}
				b[rank*8+file] = Occupied(pc)
				file++
				prevDigit = false
			}
			if file > 8 {
				return b, fmt.Errorf("%w: rank %d has more than 8 files", ErrMalformedNotation, rank+1)
			}
		}
		if file != 8 {
			return b, fmt.Errorf("%w: rank %d has %d files", ErrMalformedNotation, rank+1, file)
		}
	}

	for _, c := range [2]Color{White, Black} {
		if n := b.count(ColoredPiece{Type: King, Color: c}); n != 1 {
			return b, fmt.Errorf("%w: %s has %d kings", ErrMalformedNotation, c, n)
		}
	}
	return b, nil
}

func parseActiveColor(field string) (Color, error) {
	switch field {
	case "w":
		return White, nil
	case "b":
		return Black, nil
	default:
		return White, fmt.Errorf("%w: invalid active color %q", ErrMalformedNotation, field)
	}
}

func parseCastling(field string) (CastlingRights, error) {
	var r CastlingRights
	if field == "-" {
		return r, nil
	}
	if field == "" {
		return r, fmt.Errorf("%w: empty castling field", ErrMalformedNotation)
	}
	// Letters must appear at most once and in KQkq order.
	order := "KQkq"
	last := -1
	for i := 0; i < len(field); i++ {
		idx := strings.IndexByte(order, field[i])
		if idx < 0 || idx <= last {
			return r, fmt.Errorf("%w: invalid castling field %q", ErrMalformedNotation, field)
		}
		last = idx
		switch field[i] {
		case 'K':
			r.WhiteKingSide = true
		case 'Q':
			r.WhiteQueenSide = true
		case 'k':
			r.BlackKingSide = true
		case 'q':
			r.BlackQueenSide = true
		}
	}
	return r, nil
}

func parseEnPassant(field string, active Color) (Position, bool, error) {
	if field == "-" {
		return Position{}, false, nil
	}
	p, err := ParsePosition(field)
	if err != nil {
		return Position{}, false, fmt.Errorf("%w: invalid en passant square %q", ErrMalformedNotation, field)
	}
	// The target sits behind a pawn that just double-stepped.
	want := int8(5)
	if active == Black {
		want = 2
	}
	if p.Rank != want {
		return Position{}, false, fmt.Errorf("%w: en passant square %s is not on rank %d", ErrMalformedNotation, p, want+1)
	}
	return p, true, nil
}

func parseCounter(field string, min int) (int, error) {
	if field == "" || (len(field) > 1 && field[0] == '0') {
		return 0, fmt.Errorf("%w: invalid counter %q", ErrMalformedNotation, field)
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, fmt.Errorf("%w: invalid counter %q", ErrMalformedNotation, field)
		}
	}
	n, err := strconv.Atoi(field)
	if err != nil || n < min {
		return 0, fmt.Errorf("%w: invalid counter %q", ErrMalformedNotation, field)
	}
	return n, nil
}
