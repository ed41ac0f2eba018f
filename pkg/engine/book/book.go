// Package book implements the opening-book collaborator: a lookup from a
// cropped FEN (board + turn + castling + en-passant, ignoring the move
// clocks) to a set of known-good replies, per SPEC_FULL.md §6.2.
package book

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
)

// Book answers opening-theory lookups for a position.
type Book interface {
	// Find returns the moves known for the position at fen, possibly
	// empty. Once it returns empty for a line, the caller should stop
	// consulting the book for the rest of that game.
	Find(ctx context.Context, fenStr string) ([]board.Move, error)
}

// Line is one full line of moves from the starting position, in UCI
// long-algebraic form: []string{"e2e4", "e7e5", "g1f3"}.
type Line []string

func (l Line) String() string { return strings.Join(l, " ") }

// NoBook never has anything to say.
var NoBook Book = &memBook{moves: map[string][]board.Move{}}

// New builds an in-memory Book by replaying each line from the starting
// position, recording at every reached position the set of moves that
// continue a known line.
func New(zt *board.ZobristTable, lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}

	for _, line := range lines {
		pos, err := fen.Decode(zt, fen.Initial)
		if err != nil {
			return nil, err
		}

		for _, str := range line {
			candidate, err := board.ParseMove(str)
			if err != nil {
				return nil, fmt.Errorf("book: invalid line %v: %w", line, err)
			}

			var buf [256]board.Move
			moves := pos.GenerateMoves(buf[:0])
			resolved, ok := board.Resolve(candidate, moves)
			if !ok {
				return nil, fmt.Errorf("book: invalid line %v: move %v not legal", line, str)
			}

			key := key(fen.Encode(pos))
			if m[key] == nil {
				m[key] = map[board.Move]bool{}
			}
			m[key][resolved] = true

			pos.Make(resolved)
		}
	}

	dedup := map[string][]board.Move{}
	for k, v := range m {
		var list []board.Move
		for move := range v {
			list = append(list, move)
		}
		sort.Sort(board.ByMVVLVA(list))
		dedup[k] = list
	}
	return &memBook{moves: dedup}, nil
}

type memBook struct {
	moves map[string][]board.Move // cropped fen -> known replies
}

func (b *memBook) Find(ctx context.Context, fenStr string) ([]board.Move, error) {
	return b.moves[key(fenStr)], nil
}

// key crops a FEN down to the fields that affect move legality (board,
// turn, castling rights, en-passant square), ignoring the halfmove/fullmove
// counters so the same position reached by different move orders or move
// counts still hits.
func key(fenStr string) string {
	parts := strings.Fields(fenStr)
	if len(parts) < 4 {
		return fenStr
	}
	return strings.Join(parts[:4], " ")
}
