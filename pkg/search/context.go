package search

import (
	"sync/atomic"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/eval"
	"github.com/herohde/ct800uci/pkg/tt"
)

// maxPly bounds the killer/history tables and the mate-search recursion
// depth, matching the original's MAX_DEPTH.
const maxPly = 43

// TranspositionTable is the subset of *tt.Table the search needs, declared
// as an interface so a no-op implementation can stand in when hashing is
// disabled (UCI "Hash 0").
type TranspositionTable interface {
	Probe(hash board.ZobristHash) (tt.Entry, bool)
	Store(hash board.ZobristHash, move board.CompressedMove, bound tt.Bound, depth int16, score int32)
	NewGeneration()
	Size() uint64
	Used() float64
}

// NoTranspositionTable is a TranspositionTable that never hits and never
// stores, used when the engine is configured with zero hash memory.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Probe(board.ZobristHash) (tt.Entry, bool)               { return tt.Entry{}, false }
func (NoTranspositionTable) Store(board.ZobristHash, board.CompressedMove, tt.Bound, int16, int32) {}
func (NoTranspositionTable) NewGeneration()                                        {}
func (NoTranspositionTable) Size() uint64                                          { return 0 }
func (NoTranspositionTable) Used() float64                                         { return 0 }

// Context carries everything a single search run shares across its whole
// recursion: the transposition tables (own position-hash table plus the
// shared pawn-hash table and rook-file cache), the evaluator, move-ordering
// memory and the halt switch. One Context is built per Launch and threaded
// through every recursive call by pointer.
type Context struct {
	Own TranspositionTable // keyed for nodes with the root side to move
	Opp TranspositionTable // keyed for nodes with the opponent to move, per spec.md §4.5

	PawnTT    *tt.PawnTable
	RookCache *tt.RookFileCache
	Evaluator eval.Evaluator
	Noise     eval.Noise

	// RootColor is the side to move at the search root, used to sign the
	// contempt score (the draw score is only a bonus from this side's view).
	RootColor board.Color
	// ContemptValue/ContemptEnd implement the UCI "Contempt Value"/"Contempt
	// End" options: a centipawn bonus/malus applied to draws found inside
	// search for the first ContemptEnd plies from the start of the game.
	ContemptValue int32
	ContemptEnd   int

	Nodes uint64 // atomic

	killers [maxPly][2]board.Move
	history [2][64][64]int32 // [color][from][to], Square-indexed

	halted atomic.Bool
}

// NewContext builds a fresh search context for one Launch.
func NewContext(own, opp TranspositionTable, pawnTT *tt.PawnTable, rookCache *tt.RookFileCache, evaluator eval.Evaluator, noise eval.Noise, rootColor board.Color, contemptValue int32, contemptEnd int) *Context {
	return &Context{
		Own: own, Opp: opp,
		PawnTT: pawnTT, RookCache: rookCache,
		Evaluator: evaluator, Noise: noise,
		RootColor: rootColor, ContemptValue: contemptValue, ContemptEnd: contemptEnd,
	}
}

// tableFor returns the transposition table to probe/store at ply: per
// spec.md §4.5's own/opponent split, even plies (the root side to move) use
// Own, odd plies (the opponent to move) use Opp.
func (c *Context) tableFor(ply int) TranspositionTable {
	if ply%2 == 0 {
		return c.Own
	}
	return c.Opp
}

// contemptScore returns the draw score to use inside search: a configurable
// bonus/malus from RootColor's point of view for the first ContemptEnd
// plies of the game, 0 thereafter, per spec.md §4.6's "Repetition handling
// inside search".
func (c *Context) contemptScore(pos *board.Position) int32 {
	plies := 2 * (pos.FullMoveNumber() - 1)
	if pos.Turn() == board.Black {
		plies++
	}
	if c.ContemptEnd <= 0 || plies >= c.ContemptEnd {
		return 0
	}
	if pos.Turn() == c.RootColor {
		return c.ContemptValue
	}
	return -c.ContemptValue
}

// Halt requests that the search stop as soon as it next checks in.
func (c *Context) Halt() { c.halted.Store(true) }

// IsHalted reports whether Halt has been called.
func (c *Context) IsHalted() bool { return c.halted.Load() }

func (c *Context) bumpNodes() uint64 {
	return atomic.AddUint64(&c.Nodes, 1)
}

// Killer returns the two killer moves recorded at ply.
func (c *Context) Killer(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= maxPly {
		return board.Move{}, board.Move{}
	}
	return c.killers[ply][0], c.killers[ply][1]
}

// RecordKiller pushes m into ply's killer slots if it isn't already the
// first slot, displacing the older killer to the second slot.
func (c *Context) RecordKiller(ply int, m board.Move) {
	if ply < 0 || ply >= maxPly {
		return
	}
	if c.killers[ply][0].Equal(m) {
		return
	}
	c.killers[ply][1] = c.killers[ply][0]
	c.killers[ply][0] = m
}

// History returns the history heuristic score for a quiet move by color.
func (c *Context) History(color board.Color, m board.Move) int32 {
	return c.history[color][m.From.ToSquare()][m.To.ToSquare()]
}

// RecordHistory bumps a quiet move's history score on a beta cutoff,
// weighted by the remaining depth so deeper cutoffs count for more.
func (c *Context) RecordHistory(color board.Color, m board.Move, depth int) {
	sq := m.From.ToSquare()
	to := m.To.ToSquare()
	c.history[color][sq][to] += int32(depth * depth)
}
