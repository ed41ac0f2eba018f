package search

import "github.com/herohde/ct800uci/pkg/board"

// Perft walks the pseudo-legal move tree to depth, discarding branches that
// leave the mover's own king in check, and returns the leaf count. Used for
// move generator correctness/performance testing and exposed over UCI as
// the non-standard "perft N" command.
func Perft(pos *board.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	us := pos.Turn()
	var nodes int64
	var buf [256]board.Move
	for _, m := range pos.GenerateMoves(buf[:0]) {
		pos.Make(m)
		if !pos.InCheck(us) {
			nodes += Perft(pos, depth-1)
		}
		pos.Retract()
	}
	return nodes
}

// PerftDivide is Perft but broken down by the move played at the root, the
// "divide" mode used to localize a move generator bug to a specific line.
func PerftDivide(pos *board.Position, depth int) map[string]int64 {
	us := pos.Turn()
	out := map[string]int64{}
	var buf [256]board.Move
	for _, m := range pos.GenerateMoves(buf[:0]) {
		pos.Make(m)
		if !pos.InCheck(us) {
			out[m.String()] = Perft(pos, depth-1)
		}
		pos.Retract()
	}
	return out
}
