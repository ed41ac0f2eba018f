package search

import (
	"context"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/eval"
)

// quiescenceCheckPlies caps how many plies into quiescence the engine still
// extends through checks, after which only captures are considered even if
// the side to move is in check -- unbounded check extensions inside
// quiescence can otherwise blow the search horizon open indefinitely. Mirrors
// spec.md §4.6's QS_CHECK_DEPTH.
const quiescenceCheckPlies = 4

// quiescenceRecaptureDepth is the qply beyond which quiescence stops
// considering all captures and restricts itself to recaptures on the square
// of the move that led into the current node, per spec.md §4.6's
// QS_RECAPT_DEPTH.
const quiescenceRecaptureDepth = 5

// deltaMargin is the safety margin added on top of a capture's victim value
// in quiescence's delta pruning, per spec.md §4.6's DELTAMARGIN.
const deltaMargin = 200

// quiescence resolves tactical noise (captures, checks, promotions) beyond
// the main search's horizon with a stand-pat baseline and delta pruning, so
// the static evaluation at the leaf isn't fooled by a hanging piece one ply
// deep. lastMove is the move that led into this node, used for the
// recapture-only restriction past quiescenceRecaptureDepth.
func quiescence(ctx context.Context, sctx *Context, pos *board.Position, ply int, alpha, beta int32, qply int, lastMove board.Move) int32 {
	sctx.bumpNodes()

	us := pos.Turn()
	inCheck := pos.InCheck(us)

	if !inCheck && isBareKing(pos, us) && !hasLegalMove(pos) {
		return 0 // lone-king stalemate: capture-only generation below would never find this
	}

	var standPat int32
	if !inCheck {
		standPat = evaluate(sctx, pos).Int32()
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var buf [64]board.Move
	var moves []board.Move
	if inCheck && qply < quiescenceCheckPlies {
		moves = pos.GenerateMoves(buf[:0]) // extend through check: consider all replies, not just captures
	} else {
		moves = pos.GenerateCaptures(buf[:0])
		if !inCheck && qply >= quiescenceRecaptureDepth && !lastMove.IsNull() {
			moves = recapturesOnly(moves, lastMove.To)
		}
	}
	ordered := OrderMoves(sctx, us, 0, board.Move{}, board.Move{}, moves)

	legalCount := 0
	best := standPat
	for _, m := range ordered {
		// Delta pruning: skip captures that can't possibly raise alpha even
		// with a generous safety margin, once we're not in check.
		if !inCheck {
			victim := CapturedValue(pos, m)
			if victim != 0 && standPat+victim+deltaMargin < alpha {
				continue
			}
		}

		pos.Make(m)
		if pos.InCheck(us) {
			pos.Retract()
			continue
		}
		legalCount++

		score := -quiescence(ctx, sctx, pos, ply+1, -beta, -alpha, qply+1, m)
		pos.Retract()

		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	if inCheck && legalCount == 0 {
		return -eval.Inf + int32(ply)
	}
	return best
}

// recapturesOnly filters moves down to captures landing on sq.
func recapturesOnly(moves []board.Move, sq board.Sq120) []board.Move {
	out := moves[:0]
	for _, m := range moves {
		if m.To == sq {
			out = append(out, m)
		}
	}
	return out
}

// isBareKing reports whether side has no piece left besides its king.
func isBareKing(pos *board.Position, side board.Color) bool {
	for sq := board.Sq120(21); sq <= 98; sq++ {
		if !sq.IsOnBoard() {
			continue
		}
		k := pos.At(sq)
		if k.IsPiece() && k.Color() == side && k.Type() != board.King {
			return false
		}
	}
	return true
}

// hasLegalMove reports whether the side to move has any legal move at all,
// used by the lone-king stalemate check quiescence's capture-only move
// generation would otherwise never exercise.
func hasLegalMove(pos *board.Position) bool {
	us := pos.Turn()
	var buf [256]board.Move
	for _, m := range pos.GenerateMoves(buf[:0]) {
		pos.Make(m)
		legal := !pos.InCheck(us)
		pos.Retract()
		if legal {
			return true
		}
	}
	return false
}

func evaluate(sctx *Context, pos *board.Position) eval.Score {
	r := sctx.Evaluator.Evaluate(pos, sctx.PawnTT, sctx.RookCache)
	cp := sctx.Noise.Apply(r.Score.CP)
	return eval.HeuristicScore(cp)
}
