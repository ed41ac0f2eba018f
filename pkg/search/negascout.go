package search

import (
	"context"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/eval"
	"github.com/herohde/ct800uci/pkg/tt"
)

// PVS is the engine's main search routine: NegaScout with a transposition
// table, mate-distance and reverse-futility pruning, null-move pruning,
// internal iterative deepening, late-move reductions, futility pruning and
// check/passed-pawn/equal-exchange extensions, per SPEC_FULL.md §4.6.
type PVS struct{}

// checkNodeInterval bounds how often the recursion checks the context and
// halt switch, so cancellation is prompt without making every node pay for
// a channel/atomic read.
const checkNodeInterval = 2048

// nullMovePieces is the MaterialEnough threshold a side must clear before
// null-move pruning is attempted on its behalf (the original's NULL_PIECES).
const nullMovePieces = eval.NullMovePieces

// futilityMargins indexes by remaining depth (1..3); margins[0] is unused
// since both reverse futility and futility pruning only fire for depth < 4.
var futilityMargins = [4]int32{0, 240, 450, 600}

// lmrMoves is the move index (0-based) from which quiet moves become
// eligible for late-move reduction (the original's LMR_MOVES).
const lmrMoves = 4

func (PVS) Search(ctx context.Context, sctx *Context, pos *board.Position, depth int) (uint64, eval.Score, []board.Move, error) {
	return PVS{}.SearchWindow(ctx, sctx, pos, depth, -eval.Inf, eval.Inf)
}

// SearchWindow searches with a caller-supplied alpha-beta window, letting
// searchctl.Iterative probe a narrow aspiration window before committing to
// a full-width research, per spec.md §4.6 step 7.
func (PVS) SearchWindow(ctx context.Context, sctx *Context, pos *board.Position, depth int, alpha, beta int32) (uint64, eval.Score, []board.Move, error) {
	var pv []board.Move
	score := negascout(ctx, sctx, pos, depth, 0, alpha, beta, true, 0, board.Move{}, &pv)

	if sctx.IsHalted() || ctx.Err() != nil {
		return sctx.Nodes, eval.Score{}, nil, ErrHalted
	}
	return sctx.Nodes, eval.Absolute(score), pv, nil
}

// CapturedValue returns the nominal value of the piece m would capture, read
// from the board before the move is made (Position.Make destroys the
// captured piece's identity), or 0 for a non-capture. Quiet promotions carry
// a nonzero Move.MVVLVA too, so that field alone can't distinguish a capture
// from a quiet move -- this looks at the actual board instead.
func CapturedValue(pos *board.Position, m board.Move) int32 {
	if m.Kind == board.CastleShort || m.Kind == board.CastleLong {
		return 0
	}
	if k := pos.At(m.To); k.IsPiece() {
		return eval.NominalValue(k.Type())
	}
	if m.Kind == board.PawnMove {
		if ep, ok := pos.EnPassant(); ok && m.To.ToSquare() == ep {
			return eval.NominalValue(board.Pawn)
		}
	}
	return 0
}

func negascout(ctx context.Context, sctx *Context, pos *board.Position, depth, ply int, alpha, beta int32, canNull bool, parentCapVal int32, lastMove board.Move, pvOut *[]board.Move) int32 {
	n := sctx.bumpNodes()
	if n%checkNodeInterval == 0 && (sctx.IsHalted() || ctx.Err() != nil) {
		return alpha
	}

	us := pos.Turn()
	inCheck := pos.InCheck(us)
	isPV := beta-alpha > 1

	if ply > 0 {
		if pos.IsFiftyMoveDraw() || pos.IsRepetitionDraw(3) {
			return sctx.contemptScore(pos)
		}

		// Mate distance pruning: a shallower mate already found elsewhere in
		// the tree can't be beaten from here, so there's no point searching
		// a window wider than what's still reachable.
		matedScore := -eval.Inf + int32(ply)
		mateScore := eval.Inf - int32(ply)
		if alpha < matedScore {
			alpha = matedScore
		}
		if beta > mateScore {
			beta = mateScore
		}
		if alpha >= beta {
			return alpha
		}
	}

	// Check extension: search one ply deeper rather than dropping straight
	// to quiescence while in check, so the engine doesn't misjudge a
	// position mid-check as quiet. Capped to shallow depths so it can't
	// chain indefinitely against a checking side with no real threat.
	if inCheck && depth <= 4 {
		depth++
	}

	if depth <= 0 {
		return quiescence(ctx, sctx, pos, ply, alpha, beta, 0, lastMove)
	}

	alphaOrig := alpha
	var ttMove board.Move
	if e, ok := sctx.tableFor(ply).Probe(pos.Hash()); ok {
		if m, ok := board.Decompress(e.Move); ok {
			ttMove = m
		}
		if !isPV && int(e.Depth) >= depth {
			switch e.Bound {
			case tt.Exact:
				return e.Score
			case tt.Lower:
				if e.Score >= beta {
					return e.Score
				}
			}
		}
	}

	r := sctx.Evaluator.Evaluate(pos, sctx.PawnTT, sctx.RookCache)
	staticEval := sctx.Noise.Apply(r.Score.CP)

	if !isPV && !inCheck && depth < 4 && r.MaterialEnough > 0 {
		// Reverse futility pruning: if the static eval already clears beta
		// by more than the depth's margin, a full search isn't going to
		// disagree often enough to be worth running.
		if staticEval-futilityMargins[depth] >= beta {
			return staticEval
		}
	}

	var nullThreat board.Move

	// Null-move pruning: if passing still fails high, the position is
	// almost certainly winning enough to prune, skipped in check, at the
	// root and when material is too thin for the zugzwang risk to be worth
	// ignoring.
	if !isPV && !inCheck && canNull && ply > 0 && depth >= 2 && r.MaterialEnough >= nullMovePieces {
		reduction := 3 + depth/4
		if staticEval >= beta+eval.NominalValue(board.Pawn) {
			reduction++
		}
		if next := depth - reduction; next >= 0 {
			var threatPV []board.Move
			null := negascoutNullMove(ctx, sctx, pos, next, ply+1, -beta, -beta+1, &threatPV)
			if -null >= beta {
				return beta
			}
			if len(threatPV) > 0 {
				nullThreat = threatPV[0]
			}
		}
	}

	// Internal iterative deepening: with no PV/hash/threat hint to order by
	// and enough depth left to make it worthwhile, do a cheap shallow search
	// just to get a best-move guess to search first.
	if ttMove.IsNull() && nullThreat.IsNull() && !inCheck && depth > 5 && ply > 0 {
		var iidPV []board.Move
		negascout(ctx, sctx, pos, depth/3, ply, alpha, beta, true, parentCapVal, lastMove, &iidPV)
		if len(iidPV) > 0 {
			ttMove = iidPV[0]
		}
	}

	var buf [256]board.Move
	moves := pos.GenerateMoves(buf[:0])
	ordered := OrderMoves(sctx, us, ply, ttMove, nullThreat, moves)

	legalCount := 0
	best := -eval.Inf
	var bestMove board.Move
	var childPV []board.Move

	for i, m := range ordered {
		capVal := CapturedValue(pos, m)
		isQuiet := capVal == 0 && m.Kind != board.Promotion

		pos.Make(m)
		if pos.InCheck(us) {
			pos.Retract()
			continue
		}
		legalCount++
		givesCheck := pos.InCheck(pos.Turn())

		if !isPV && !inCheck && !givesCheck && isQuiet && depth < 4 && legalCount > 1 &&
			staticEval+futilityMargins[depth] < alpha {
			// Futility pruning: this quiet move can't plausibly raise alpha
			// even with a generous margin, so don't bother searching it.
			pos.Retract()
			continue
		}

		ext := 0
		switch {
		case givesCheck && depth <= 4:
			ext = 1
		case r.EndGame && depth <= 2 && m.Kind == board.PawnMove && onPassedFile(m, us, r):
			ext = 1 // mutual passed-pawn race: keep racing at full depth
		case isPV && depth <= 1 && parentCapVal > 0 && capVal == parentCapVal:
			ext = 1 // equal-exchange: don't let a recapture look like a quieter position
		}

		reduction := 0
		if ext == 0 && !inCheck && isQuiet && depth >= 3 && i >= lmrMoves {
			reduction = 1
			if i >= 2*lmrMoves {
				reduction = 2
			}
		}

		nextFull := depth - 1
		if ext == 1 {
			nextFull = depth
		}

		var score int32
		var line []board.Move
		if legalCount == 1 {
			score = -negascout(ctx, sctx, pos, nextFull, ply+1, -beta, -alpha, true, capVal, m, &line)
		} else {
			score = -negascout(ctx, sctx, pos, nextFull-reduction, ply+1, -alpha-1, -alpha, true, capVal, m, &line)
			if score > alpha && (score < beta || reduction > 0) {
				score = -negascout(ctx, sctx, pos, nextFull, ply+1, -beta, -alpha, true, capVal, m, &line)
			}
		}

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
			if m.MVVLVA == 0 && m.Kind != board.CastleShort && m.Kind != board.CastleLong {
				sctx.RecordKiller(ply, m)
				sctx.RecordHistory(us, m, depth)
			}
			break
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -eval.Inf + int32(ply) // mated: closer mates score worse for the side delivering from the root
		}
		return 0 // stalemate
	}

	*pvOut = append([]board.Move{bestMove}, childPV...)

	bound := tt.Exact
	storeDepth := int16(depth)
	if best >= beta {
		bound = tt.Lower
	} else if best <= alphaOrig {
		// Fail-low: the score is only an upper bound, which the table has no
		// kind for, so store at the sentinel depth -1 that no probe accepts
		// for a cutoff; the entry still serves as a move hint.
		bound = tt.Lower
		storeDepth = -1
	}
	sctx.tableFor(ply).Store(pos.Hash(), board.Compress(bestMove), bound, storeDepth, best)

	return best
}

// onPassedFile reports whether m (a pawn move by color) lands on a file
// flagged as passed in r for that color, feeding the mutual passed-pawn
// race extension.
func onPassedFile(m board.Move, color board.Color, r eval.Result) bool {
	file := uint8(1) << uint(m.To.ToSquare().File())
	if color == board.White {
		return r.WhitePassedFiles&file != 0
	}
	return r.BlackPassedFiles&file != 0
}

// negascoutNullMove plays a null move (side to move passes) and searches the
// opponent's reply at reduced depth, used by null-move pruning to test
// whether the position is so good that even skipping a turn still fails
// high. canNull is forced false on the recursive call so two null moves
// never chain back to back.
func negascoutNullMove(ctx context.Context, sctx *Context, pos *board.Position, depth, ply int, alpha, beta int32, pvOut *[]board.Move) int32 {
	pos.MakeNull()
	var score int32
	if depth <= 0 {
		score = quiescence(ctx, sctx, pos, ply, alpha, beta, 0, board.Move{})
	} else {
		score = negascout(ctx, sctx, pos, depth, ply, alpha, beta, false, 0, board.Move{}, pvOut)
	}
	pos.RetractNull()
	return score
}
