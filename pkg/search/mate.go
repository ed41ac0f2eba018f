package search

import (
	"context"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/eval"
)

// Mate is a dedicated forced-mate solver, a secondary search routine
// separate from PVS: since it only needs to distinguish mate/no-mate rather
// than grade quiet positions, it can search far deeper than the full
// evaluator-driven search for the same node budget, per SPEC_FULL.md §4.6
// ("go mate N").
type Mate struct{}

// Search looks for forced mate within depth plies, alternating full move
// generation for the side to mate and the defender's best try. depth is a
// ply count, not a move count (UCI "go mate N" means mate in N full moves,
// i.e. 2N-1 plies for the side to move).
func (Mate) Search(ctx context.Context, sctx *Context, pos *board.Position, depth int) (uint64, eval.Score, []board.Move, error) {
	var pv []board.Move
	score := negamate(ctx, sctx, pos, depth, 0, -eval.Inf, eval.Inf, &pv)

	if sctx.IsHalted() || ctx.Err() != nil {
		return sctx.Nodes, eval.Score{}, nil, ErrHalted
	}
	if score <= -eval.Inf+int32(maxPly) || score >= eval.Inf-int32(maxPly) {
		return sctx.Nodes, eval.Absolute(score), pv, nil
	}
	return sctx.Nodes, eval.Score{}, nil, nil // no forced mate found within depth
}

// negamate returns a score in the same Int32 domain as negascout, but one
// that is only meaningful near the mate extremes: non-mate lines are all
// folded to 0, since the solver doesn't care how good a non-mating line is.
func negamate(ctx context.Context, sctx *Context, pos *board.Position, depth, ply int, alpha, beta int32, pvOut *[]board.Move) int32 {
	n := sctx.bumpNodes()
	if n%checkNodeInterval == 0 && (sctx.IsHalted() || ctx.Err() != nil) {
		return 0
	}

	us := pos.Turn()
	inCheck := pos.InCheck(us)

	if ply > 0 && (pos.IsFiftyMoveDraw() || pos.IsRepetitionDraw(3)) {
		return 0
	}
	if depth <= 0 {
		if inCheck && !hasLegalMove(pos) {
			return -eval.Inf + int32(ply) // checkmate on the board at the horizon
		}
		return 0 // no mate found at the horizon; this is not a quiescence-style eval search
	}

	var buf [256]board.Move
	moves := pos.GenerateMoves(buf[:0])
	ordered := OrderMoves(sctx, us, ply, board.Move{}, board.Move{}, moves)

	legalCount := 0
	best := int32(-eval.Inf)
	var bestMove board.Move
	var childPV []board.Move

	for _, m := range ordered {
		pos.Make(m)
		if pos.InCheck(us) {
			pos.Retract()
			continue
		}
		legalCount++

		var line []board.Move
		score := -negamate(ctx, sctx, pos, depth-1, ply+1, -beta, -alpha, &line)
		pos.Retract()

		if score > best {
			best = score
			bestMove = m
			childPV = line
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -eval.Inf + int32(ply)
		}
		return 0 // stalemate: not a mate, but not worth searching past either
	}

	*pvOut = append([]board.Move{bestMove}, childPV...)
	return best
}
