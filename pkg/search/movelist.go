package search

import (
	"container/heap"

	"github.com/herohde/ct800uci/pkg/board"
)

// scoredMove pairs a move with its one-off ordering priority: the
// transposition-table move, the null-move threat and captures get tried
// first, then castling and killers, then quiets ranked by the history
// heuristic.
type scoredMove struct {
	move  board.Move
	score int64
}

type priorityQueue []scoredMove

func (q priorityQueue) Len() int            { return len(q) }
func (q priorityQueue) Less(i, j int) bool  { return q[i].score > q[j].score } // max-heap
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(scoredMove)) }
func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Ordering tiers, widely spaced so a capture's MVV-LVA score or a quiet
// move's history score can never cross into a higher tier, per spec.md
// §4.6's "PV move (126) -> hash move (125) -> null-threat move (110) ->
// captures by MVV-LVA -> castling (91/85) -> killers (2/1) -> quiet moves by
// history" ordering (collapsing the PV-move/hash-move tiers into one, since
// this engine probes a single ttMove hint rather than tracking them
// separately).
const (
	ttMoveBonus     int64 = 1 << 60
	nullThreatBonus int64 = 1 << 55
	captureBonus    int64 = 1 << 50
	castleBonus     int64 = 1 << 45
	killerBonus1    int64 = 1 << 40
	killerBonus2    int64 = 1<<40 - 1
)

// OrderMoves ranks moves best-first: hash move, then the null-move threat
// reply, then captures/promotions by MVV-LVA, then castling, then killers,
// then quiets by history score.
func OrderMoves(sctx *Context, color board.Color, ply int, ttMove board.Move, nullThreat board.Move, moves []board.Move) []board.Move {
	k1, k2 := sctx.Killer(ply)

	pq := make(priorityQueue, 0, len(moves))
	for _, m := range moves {
		var score int64
		switch {
		case !ttMove.IsNull() && m.Equal(ttMove):
			score = ttMoveBonus
		case !nullThreat.IsNull() && m.Equal(nullThreat):
			score = nullThreatBonus
		case m.MVVLVA != 0:
			score = captureBonus + int64(m.MVVLVA)
		case m.Kind == board.CastleShort || m.Kind == board.CastleLong:
			score = castleBonus
		case !k1.IsNull() && m.Equal(k1):
			score = killerBonus1
		case !k2.IsNull() && m.Equal(k2):
			score = killerBonus2
		default:
			score = int64(sctx.History(color, m))
		}
		pq = append(pq, scoredMove{move: m, score: score})
	}
	heap.Init(&pq)

	out := make([]board.Move, 0, len(moves))
	for pq.Len() > 0 {
		out = append(out, heap.Pop(&pq).(scoredMove).move)
	}
	return out
}
