// Package search implements the engine's move search: NegaScout/PVS with a
// transposition table, mate-distance and reverse-futility pruning,
// null-move pruning, internal iterative deepening, late-move reductions,
// futility pruning, check/passed-pawn/equal-exchange extensions,
// quiescence search and a dedicated mate solver, per SPEC_FULL.md §4.6. The
// top-level iterative-deepening loop (aspiration windows, easy-move
// detection, PV continuation) lives in pkg/search/searchctl.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/eval"
)

// ErrHalted is returned by Search when it was stopped by its context being
// canceled rather than by exhausting the requested depth.
var ErrHalted = errors.New("search halted")

// PV is the principal variation produced by one completed iterative
// deepening pass.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // main table utilization [0;1], for the UCI "hashfull" field
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, board.FormatMoves(p.Moves))
}

// TimeControl mirrors the UCI "go" clock fields.
type TimeControl struct {
	White, Black   time.Duration
	WhiteInc, BlackInc time.Duration
	Moves          int // moves to next time control, 0 = sudden death
}

// Options holds the dynamic, per-search UCI options.
type Options struct {
	DepthLimit  *int
	NodeLimit   *uint64
	MateLimit   *int
	TimeControl *TimeControl
	MoveTime    time.Duration
	Infinite    bool
	SearchMoves []board.Move
}

// Search is one ply-bound search routine: given a position at a fixed
// depth, return the node count, score and principal variation.
type Search interface {
	Search(ctx context.Context, sctx *Context, pos *board.Position, depth int) (uint64, eval.Score, []board.Move, error)
}

// WindowedSearch is implemented by Search routines that can search a
// caller-supplied alpha-beta window directly (rather than always searching
// the maximal [-Inf, Inf] window), letting searchctl.Iterative try a narrow
// aspiration window before committing to a full-width research, per
// spec.md §4.6 step 7. Not every Search implements it -- search.Mate, for
// one, doesn't need windowed search.
type WindowedSearch interface {
	SearchWindow(ctx context.Context, sctx *Context, pos *board.Position, depth int, alpha, beta int32) (uint64, eval.Score, []board.Move, error)
}
