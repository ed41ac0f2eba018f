// Package engine ties together the board, evaluator, transposition tables
// and search launcher into the single stateful object a UCI (or console)
// driver talks to, per SPEC_FULL.md §5's "Engine owns the SearchContext"
// aggregate boundary.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/herohde/ct800uci/pkg/engine/book"
	"github.com/herohde/ct800uci/pkg/eval"
	"github.com/herohde/ct800uci/pkg/eval/kpk"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/herohde/ct800uci/pkg/search/searchctl"
	"github.com/herohde/ct800uci/pkg/tt"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are the dynamic, UCI-settable engine options (as opposed to the
// per-search searchctl.Options), per SPEC_FULL.md §6.1's extended
// setoption table.
type Options struct {
	Depth uint // Depth limit override; 0 == no limit

	HashMB       uint // main TT size in MiB; 0 == no TT
	KeepHashTables bool

	ContemptValue int // centipawns, -300..300, inverted sign internally
	ContemptEnd   int // plies from game start after which contempt stops

	OwnBook bool

	ShowCurrentMoveEverySecond bool // false == continuously

	LimitStrength bool
	Elo           uint

	CPUPercent uint // 1..100, 0 == unset
	CPUKNPS    uint // 0 == unset

	MoveOverhead time.Duration
	NoiseMillipawns uint // "Eval Noise [%]", pre-scaled to millipawns by the caller
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v hash=%vMB contempt=%v/%v book=%v elo=%v(%v) cpu=%v%%/%vkNPS overhead=%v noise=%v}",
		o.Depth, o.HashMB, o.ContemptValue, o.ContemptEnd, o.OwnBook, o.Elo, o.LimitStrength, o.CPUPercent, o.CPUKNPS, o.MoveOverhead, o.NoiseMillipawns)
}

// Engine encapsulates game state, search and evaluation for one UCI
// session: it owns the mutable *board.Position exclusively except while a
// search has been handed it (searchctl.Launcher takes ownership until
// halted).
type Engine struct {
	name, author string

	launcher searchctl.Launcher
	zt       *board.ZobristTable
	seed     int64
	opts     Options
	book     book.Book

	pos   *board.Position
	own   search.TranspositionTable
	opp   search.TranspositionTable
	pawnTT *tt.PawnTable
	rooks  *tt.RookFileCache
	noise  eval.Noise
	evaluator eval.Evaluator

	// pvHint is the tail of the last search's principal variation, carried
	// forward across Move calls as long as the actual moves played keep
	// matching it (PV continuation, spec.md §4.6 step 6).
	pvHint []board.Move

	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine construction option.
type Option func(*Engine)

// WithOptions sets the engine's initial dynamic options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithZobrist overrides the default Zobrist seed (useful for reproducible
// tests).
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithBook installs an opening book.
func WithBook(b book.Book) Option {
	return func(e *Engine) { e.book = b }
}

// New constructs an engine around the given search and iterative-deepening
// launcher, reset to the standard starting position.
func New(ctx context.Context, name, author string, root, mate search.Search, opts ...Option) *Engine {
	e := &Engine{
		name:      name,
		author:    author,
		book:      book.NoBook,
		evaluator: eval.Classic{KPK: kpk.Stub{}},
		seed:      board.DefaultZobristSeed,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.launcher = &searchctl.Iterative{Root: root, Mate: mate}
	e.zt = board.NewZobristTable(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version, per the UCI "id name" reply.
func (e *Engine) Name() string { return fmt.Sprintf("%v %v", e.name, version) }

// Author returns the author, per the UCI "id author" reply.
func (e *Engine) Author() string { return e.author }

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// SetOptions replaces the dynamic options wholesale; callers read-modify-
// write via Options()/SetOptions() under the UCI driver's own
// setoption-name dispatch.
func (e *Engine) SetOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = opts
	e.noise = eval.NewNoise(int(opts.NoiseMillipawns), e.seed)
}

// ClearHash replaces both transposition tables with fresh, empty tables of
// the same size.
func (e *Engine) ClearHash() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.own != nil {
		e.own = tt.New(e.own.Size())
	}
	if e.opp != nil {
		e.opp = tt.New(e.opp.Size())
	}
}

// Position returns the current position in FEN.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fen.Encode(e.pos)
}

// BookMoves returns the currently known book line for the position, if any.
func (e *Engine) BookMoves(ctx context.Context) []board.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.opts.OwnBook {
		return nil
	}
	moves, _ := e.book.Find(ctx, fen.Encode(e.pos))
	return moves
}

// PickBookMove selects a uniformly random move from the first 12 of the
// book's candidates for the current position.
func (e *Engine) PickBookMove(ctx context.Context) (board.Move, bool) {
	moves := e.BookMoves(ctx)
	if len(moves) == 0 {
		return board.Move{}, false
	}
	if len(moves) > 12 {
		moves = moves[:12]
	}
	return moves[rand.Intn(len(moves))], true
}

// Reset reinitializes the engine to the position given in FEN, reallocating
// the transposition tables per the current Hash option.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, hash=%vMB", position, e.opts.Depth, e.opts.HashMB)

	e.haltSearchIfActiveLocked(ctx)

	pos, err := fen.Decode(e.zt, position)
	if err != nil {
		return err
	}
	e.pos = pos
	e.pvHint = nil

	if e.opts.HashMB > 0 && !e.opts.KeepHashTables {
		size := uint64(e.opts.HashMB) << 20
		e.own = tt.New(size)
		e.opp = tt.New(size)
		e.pawnTT = tt.NewPawnTable()
		e.rooks = tt.NewRookFileCache()
	} else if e.opts.HashMB == 0 {
		e.own, e.opp, e.pawnTT, e.rooks = nil, nil, nil, nil
	}

	e.noise = eval.NewNoise(int(e.opts.NoiseMillipawns), e.seed)

	logw.Infof(ctx, "New position: %v", e.pos)
	return nil
}

// Move plays move (usually the opponent's, or a GUI-forced move) on the
// current position.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	e.haltSearchIfActiveLocked(ctx)

	var buf [256]board.Move
	moves := e.pos.GenerateMoves(buf[:0])
	resolved, ok := board.Resolve(candidate, moves)
	if !ok {
		return fmt.Errorf("invalid move: %v", move)
	}

	e.pos.Make(resolved)
	if e.pos.InCheck(e.pos.Turn().Opponent()) {
		e.pos.Retract()
		return fmt.Errorf("illegal move: %v", move)
	}

	if len(e.pvHint) > 0 && e.pvHint[0].Equal(resolved) {
		e.pvHint = e.pvHint[1:]
	} else {
		e.pvHint = nil
	}

	logw.Infof(ctx, "Move %v: %v", resolved, e.pos)
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	if e.pos.Ply() == 0 {
		return fmt.Errorf("no move to take back")
	}
	e.pos.Retract()
	e.pvHint = nil
	return nil
}

// Analyze launches a search from the current position.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}
	if len(opt.PVHint) == 0 {
		opt.PVHint = e.pvHint
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.pos, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	own, opp := e.ownTT(), e.oppTT()

	sctx := search.NewContext(own, opp, e.pawnTTOrNew(), e.rooksOrNew(), e.evaluator, e.noise, e.pos.Turn(), -int32(e.opts.ContemptValue), e.opts.ContemptEnd)
	handle, out := e.launcher.Launch(ctx, e.pos, sctx, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns its last principal variation.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pv, ok := e.haltSearchIfActiveLocked(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActiveLocked(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.pos, pv)
		e.active = nil
		e.pvHint = pv.Moves
		return pv, true
	}
	return search.PV{}, false
}

func (e *Engine) ownTT() search.TranspositionTable {
	if e.own == nil {
		return search.NoTranspositionTable{}
	}
	return e.own
}

func (e *Engine) oppTT() search.TranspositionTable {
	if e.opp == nil {
		return search.NoTranspositionTable{}
	}
	return e.opp
}

func (e *Engine) rooksOrNew() *tt.RookFileCache {
	if e.rooks == nil {
		e.rooks = tt.NewRookFileCache()
	}
	return e.rooks
}

func (e *Engine) pawnTTOrNew() *tt.PawnTable {
	if e.pawnTT == nil {
		e.pawnTT = tt.NewPawnTable()
	}
	return e.pawnTT
}
