package searchctl

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/eval"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/herohde/ct800uci/pkg/tt"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Aspiration window and easy-move-detection constants, per spec.md §4.6's
// top-level search flow (steps 2, 4, 5 and 7).
const (
	idWindowSize  int32 = 50  // ID_WINDOW_SIZE
	idWindowDepth       = 4   // ID_WINDOW_DEPTH
	easyThreshold int32 = 200 // EASY_THRESHOLD
	easyDepth           = 6   // EASY_DEPTH
	fiftyMovePresortAt  = 99  // fifty_moves >= this triggers the quiet-move presort
)

// Iterative is a Launcher that deepens a fixed-depth search.Search one ply
// at a time, publishing a PV after each completed iteration, until a limit
// is hit or Halt is called.
type Iterative struct {
	Root search.Search // full-width evaluator-driven search (e.g. search.PVS)
	Mate search.Search // dedicated mate solver (e.g. search.Mate), used when MateLimit is set
}

func (it *Iterative) Launch(ctx context.Context, pos *board.Position, sctx *search.Context, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, it, pos, sctx, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

// rootScore is one candidate root move's score from the depth-1-equivalent
// presearch (play_and_sort_moves), plus the cheap properties needed for the
// 50-move presort without having to Make/Retract the move again.
type rootScore struct {
	move       board.Move
	score      int32
	quiet      bool
	givesCheck bool
}

func (h *handle) process(ctx context.Context, it *Iterative, pos *board.Position, sctx *search.Context, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	root := it.Root
	maxDepth := 0
	isMateSearch := false
	if ml, ok := opt.MateLimit.V(); ok {
		root = it.Mate
		isMateSearch = true
		maxDepth = 2*int(ml) - 1
	}

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, opt.MoveTime, pos.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	// Hash aging: mark the previous move's TT generation stale before this
	// search starts writing new entries, per spec.md §4.6 step 3. A no-op
	// when hashing is disabled (NoTranspositionTable.NewGeneration).
	sctx.Own.NewGeneration()
	sctx.Opp.NewGeneration()

	var pvHint []board.Move
	if len(opt.PVHint) > 0 {
		pvHint = opt.PVHint
	}

	presortBest := board.Move{}
	scoreDrop := int32(-1)

	if !isMateSearch {
		ranked := presearchRoot(wctx, root, sctx, pos)

		if pos.HalfmoveClock() >= fiftyMovePresortAt {
			// 50-move pre-sort: steer toward safe quiet moves and discard
			// whatever continuation the previous search's PV suggested, per
			// spec.md §4.6 step 2.
			sort.SliceStable(ranked, func(i, j int) bool {
				si, sj := ranked[i].quiet && !ranked[i].givesCheck, ranked[j].quiet && !ranked[j].givesCheck
				return si && !sj
			})
			pvHint = nil
		}

		var hint board.Move
		switch {
		case len(pvHint) > 0:
			hint = pvHint[0]
		case len(ranked) > 0:
			hint = ranked[0].move
		}
		if !hint.IsNull() {
			// Seed the root move-ordering hint via the normal TT-probe path:
			// a sentinel depth that never satisfies a real depth request, so
			// this only ever contributes the move hint, never a score.
			sctx.Own.Store(pos.Hash(), board.Compress(hint), tt.Lower, -1, 0)
		}

		if len(ranked) > 0 {
			presortBest = ranked[0].move
		}
		scoreDrop = easyScoreDrop(ranked)
	}

	h.runDepthLoop(wctx, ctx, root, sctx, pos, opt, out, soft, useSoft, pvHint, presortBest, scoreDrop, maxDepth, isMateSearch)
}

// easyScoreDrop returns best-minus-second-best from the ranked presearch
// scores, or -1 if there weren't at least two candidates to compare.
func easyScoreDrop(ranked []rootScore) int32 {
	if len(ranked) < 2 {
		return -1
	}
	return ranked[0].score - ranked[1].score
}

func (h *handle) runDepthLoop(wctx, ctx context.Context, root search.Search, sctx *search.Context, pos *board.Position, opt Options, out chan search.PV, soft time.Duration, useSoft bool, pvHint []board.Move, presortBest board.Move, scoreDrop int32, maxDepth int, isMateSearch bool) {
	depth := 1
	var prevScore eval.Score
	havePrev := false
	launched := time.Now()

	for !h.quit.IsClosed() {
		start := time.Now()

		var nodes uint64
		var score eval.Score
		var moves []board.Move
		var err error

		ws, windowed := root.(search.WindowedSearch)
		if windowed && havePrev && depth >= idWindowDepth {
			nodes, score, moves, err = searchAspirated(wctx, ws, sctx, pos, depth, prevScore)
		} else {
			nodes, score, moves, err = root.Search(wctx, sctx, pos, depth)
		}
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", pos, depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}
		if sctx.Own != nil {
			pv.Hash = sctx.Own.Used()
		}

		logw.Debugf(ctx, "Searched %v: %v", pos, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()

		if len(moves) == 0 && len(pv.Moves) == 0 && isMateSearch && depth >= maxDepth {
			return // mate solver exhausted depth without finding one: nothing more to report
		}
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if maxDepth > 0 && depth >= maxDepth {
			return // halt: exhausted the requested mate-in-N search window
		}
		if md, ok := score.MateDistance(); ok && int(md) <= depth {
			return // halt: forced mate found within full-width search. Exact result.
		}

		if !opt.Infinite && !isMateSearch && scoreDrop >= 0 && depth >= easyDepth && len(moves) > 0 {
			pvHit := (len(pvHint) > 0 && moves[0].Equal(pvHint[0])) || moves[0].Equal(presortBest)
			mateIn1 := func() bool { md, ok := score.MateDistance(); return ok && (md == 1 || md == -1) }()
			withinBand := havePrev && abs32(score.Int32()-prevScore.Int32()) <= 50
			if scoreDrop >= easyThreshold && pvHit && (mateIn1 || withinBand) {
				return // easy move: the position was already decisively clear
			}
		}

		if !opt.Infinite && useSoft && soft < time.Since(launched) {
			return // halt: exceeded soft time limit. Do not start new search.
		}

		havePrev = true
		prevScore = score
		depth++
	}
}

// searchAspirated tries progressively wider windows around prev, the last
// iteration's score, per spec.md §4.6 step 7: on fail-low widen alpha to
// -Inf, on fail-high widen beta to +Inf, otherwise the result stands.
func searchAspirated(ctx context.Context, ws search.WindowedSearch, sctx *search.Context, pos *board.Position, depth int, prev eval.Score) (uint64, eval.Score, []board.Move, error) {
	base := prev.Int32()
	alpha, beta := base-idWindowSize, base+idWindowSize

	for {
		nodes, score, moves, err := ws.SearchWindow(ctx, sctx, pos, depth, alpha, beta)
		if err != nil {
			return nodes, score, moves, err
		}

		v := score.Int32()
		switch {
		case v <= alpha && alpha > -eval.Inf:
			alpha = -eval.Inf
		case v >= beta && beta < eval.Inf:
			beta = eval.Inf
		default:
			return nodes, score, moves, err
		}
	}
}

// presearchRoot plays each legal root move and resolves it with a
// depth-0 (quiescence-only) search, using the result as the root move
// ordering/easy-move-detection signal, per spec.md §4.6 step 4's
// play_and_sort_moves.
func presearchRoot(ctx context.Context, root search.Search, sctx *search.Context, pos *board.Position) []rootScore {
	us := pos.Turn()
	var buf [256]board.Move
	moves := pos.GenerateMoves(buf[:0])

	out := make([]rootScore, 0, len(moves))
	for _, m := range moves {
		quiet := search.CapturedValue(pos, m) == 0 && m.Kind != board.Promotion

		pos.Make(m)
		if pos.InCheck(us) {
			pos.Retract()
			continue
		}
		givesCheck := pos.InCheck(pos.Turn())

		_, sc, _, err := root.Search(ctx, sctx, pos, 0)
		pos.Retract()
		if err != nil {
			continue
		}

		out = append(out, rootScore{move: m, score: -sc.Int32(), quiet: quiet, givesCheck: givesCheck})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
