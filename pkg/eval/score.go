// Package eval contains position evaluation: static scoring, the KPK
// endgame collaborator and the small evaluation-noise generator used for
// engines that intentionally play a little below their full strength.
package eval

import "fmt"

// Score is a search-relative score, always from the point of view of the
// side to move at the node it was computed at (negamax convention). Mate
// carries the number of plies to mate when nonzero; CP is a heuristic
// centipawn value otherwise.
type Score struct {
	CP   int32
	Mate int32
}

const (
	// Inf is larger in magnitude than any real evaluation or mate score,
	// used to seed alpha-beta windows.
	Inf    int32 = 1 << 20
	mateCP int32 = 1 << 19
)

// HeuristicScore builds a plain centipawn score.
func HeuristicScore(cp int32) Score { return Score{CP: cp} }

// MateIn builds a "we deliver mate in plies plies" score.
func MateIn(plies int32) Score { return Score{Mate: plies} }

// MatedIn builds a "we get mated in plies plies" score.
func MatedIn(plies int32) Score { return Score{Mate: -plies} }

// IsHeuristic reports whether the score is a plain heuristic value rather
// than a forced mate.
func (s Score) IsHeuristic() bool { return s.Mate == 0 }

// MateDistance returns the number of plies to mate (positive: we mate,
// negative: we get mated) and true, or (0, false) if this isn't a mate score.
func (s Score) MateDistance() (int32, bool) {
	if s.Mate == 0 {
		return 0, false
	}
	return s.Mate, true
}

// Negate flips a score to the opponent's point of view and, for a mate
// score, pushes the mate one ply further away (the ply just unwound).
func Negate(s Score) Score {
	if s.Mate == 0 {
		return Score{CP: -s.CP}
	}
	if s.Mate > 0 {
		return Score{Mate: -(s.Mate + 1)}
	}
	return Score{Mate: -(s.Mate - 1)}
}

// Absolute converts an Int32 alpha-beta bound value back into a Score,
// recovering the mate-ply count from the encoded magnitude.
func Absolute(v int32) Score {
	if v > mateCP-1000 {
		return Score{Mate: Inf - v}
	}
	if v < -(mateCP - 1000) {
		return Score{Mate: -(Inf + v)}
	}
	return Score{CP: v}
}

// Int32 encodes the score into alpha-beta's single comparable integer
// domain: heuristic scores pass through, mate scores are pushed to the
// extreme ends of the range so any mate always outranks any heuristic
// score, nearer mates outranking farther ones.
func (s Score) Int32() int32 {
	if s.Mate == 0 {
		return s.CP
	}
	if s.Mate > 0 {
		return Inf - s.Mate
	}
	return -Inf - s.Mate
}

func (s Score) String() string {
	if s.Mate != 0 {
		return fmt.Sprintf("mate %d", s.Mate)
	}
	return fmt.Sprintf("cp %d", s.CP)
}

// Max returns the larger of two scores by their Int32 ordering.
func Max(a, b Score) Score {
	if a.Int32() < b.Int32() {
		return b
	}
	return a
}

// Min returns the smaller of two scores by their Int32 ordering.
func Min(a, b Score) Score {
	if a.Int32() > b.Int32() {
		return b
	}
	return a
}
