package chess

import "fmt"

// Position is a board coordinate. File 0..7 maps to a..h and Rank 0..7 to 1..8.
type Position struct {
	File int8
	Rank int8
}

// ParsePosition parses algebraic text such as "e4".
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrMalformedPosition, s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return Position{}, fmt.Errorf("%w: %q", ErrMalformedPosition, s)
	}
	return Position{File: int8(file), Rank: int8(rank)}, nil
}

// MustParsePosition is ParsePosition for literals; it panics on bad input.
func MustParsePosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PositionFromIndex maps 0..63 (a1 = 0, h8 = 63) to a position.
func PositionFromIndex(i int) (Position, bool) {
	if i < 0 || i > 63 {
		return Position{}, false
	}
	return Position{File: int8(i % 8), Rank: int8(i / 8)}, true
}

// PositionFromCoords builds a position from zero-based file and rank.
func PositionFromCoords(file, rank int) (Position, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return Position{}, false
	}
	return Position{File: int8(file), Rank: int8(rank)}, true
}

func (p Position) Index() int {
	return int(p.Rank)*8 + int(p.File)
}

func (p Position) Valid() bool {
	return p.File >= 0 && p.File <= 7 && p.Rank >= 0 && p.Rank <= 7
}

// Offset returns the position df files and dr ranks away, if on the board.
func (p Position) Offset(df, dr int) (Position, bool) {
	return PositionFromCoords(int(p.File)+df, int(p.Rank)+dr)
}

func (p Position) String() string {
	return string([]byte{byte('a' + p.File), byte('1' + p.Rank)})
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
