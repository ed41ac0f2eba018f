package board

import (
	"fmt"
	"strings"
)

var promotionLetters = map[byte]PieceType{
	'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight,
}

// ParseMove parses a UCI long-algebraic move string ("e2e4", "e7e8q",
// "0000") into a bare Move shell carrying only From/To/Promotion -- enough
// to compare by Equal against a pseudo-legal move from GenerateMoves, which
// is how the engine/book layers resolve a UCI move string into a fully
// packed Move (Kind/MVVLVA included).
func ParseMove(s string) (Move, error) {
	if s == "0000" {
		return Move{Kind: NullMove}, nil
	}
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("board: invalid move %q", s)
	}

	from, err := ParseSquareStr(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("board: invalid move %q: %w", s, err)
	}
	to, err := ParseSquareStr(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("board: invalid move %q: %w", s, err)
	}

	m := Move{Kind: PieceMove, From: ToSq120(from), To: ToSq120(to)}
	if len(s) == 5 {
		pt, ok := promotionLetters[strings.ToLower(s)[4]]
		if !ok {
			return Move{}, fmt.Errorf("board: invalid promotion piece in %q", s)
		}
		m.Kind = Promotion
		m.Promotion = pt
	}
	return m, nil
}

// Resolve finds the pseudo-legal move in moves matching m's from/to/promo,
// returning its fully packed form (correct Kind, MVVLVA), or false if m
// isn't among them.
func Resolve(m Move, moves []Move) (Move, bool) {
	for _, c := range moves {
		if c.Equal(m) {
			return c, true
		}
	}
	return Move{}, false
}

// ByMVVLVA sorts moves best-capture-first (highest MVVLVA first), used by
// the opening book to order its candidates; the order among moves with
// equal MVVLVA is not defined.
type ByMVVLVA []Move

func (b ByMVVLVA) Len() int           { return len(b) }
func (b ByMVVLVA) Less(i, j int) bool { return b[i].MVVLVA > b[j].MVVLVA }
func (b ByMVVLVA) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
