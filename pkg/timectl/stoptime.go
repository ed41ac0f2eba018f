// Package timectl computes move stop-times from UCI clock parameters and
// throttles search node throughput to a configured CPU percentage or NPS
// ceiling, per SPEC_FULL.md §4.7.
package timectl

import "time"

// overheadMargin is subtracted from the remaining clock before any other
// arithmetic, a safety margin against GUI/OS scheduling jitter around the
// flag.
const overheadMargin = 100 * time.Millisecond

// Clock is one side's view of the UCI "go" clock fields.
type Clock struct {
	Remaining  time.Duration
	Increment  time.Duration
	MovesToGo  int // 0 == rest of game (sudden death)
	MoveNumber int // current full-move number, 1-based
}

// StopTime computes the move's time budget from the clock, following the
// original engine's formula: a base allocation from either the
// moves-to-go count or an estimated-remaining-moves curve, scaled up in
// the early-middlegame move-number window, plus a slice of the increment,
// capped by the remaining clock and floored by a bullet-safety minimum.
func StopTime(c Clock) time.Duration {
	remaining := c.Remaining - overheadMargin
	if remaining < 0 {
		remaining = 0
	}

	var base time.Duration
	if c.MovesToGo > 0 {
		base = remaining / time.Duration(c.MovesToGo)
		if c.MoveNumber >= 10 {
			base = base * 5 / 4
		}
	} else {
		expected := 48 - (c.MoveNumber*2)/5
		if c.MoveNumber >= 70 {
			expected = 20
		}
		if expected < 1 {
			expected = 1
		}
		base = remaining / time.Duration(expected)
		if c.MoveNumber >= 10 && c.MoveNumber <= 30 {
			base = base * 5 / 4
		}
	}

	base += incrementShare(c.Remaining, c.Increment)

	if cap := c.Remaining - overheadMargin; base > cap {
		base = cap
	}
	if min := minimumMoveTime(c.MoveNumber); base < min {
		base = min
	}
	if base < 0 {
		base = minimumMoveTime(c.MoveNumber)
	}
	return base
}

// incrementShare returns the fraction of the increment to add to the move
// budget, generous when the clock holds many multiples of the increment in
// reserve and conservative as it thins out, so increments don't get eaten
// by a budget that's about to run dry.
func incrementShare(remaining, inc time.Duration) time.Duration {
	if inc <= 0 {
		return 0
	}
	switch {
	case remaining >= inc*12/5: // 2.4x
		return inc * 7 / 5 // 1.4x
	case remaining >= inc*3/2: // 1.5x
		return inc
	case remaining >= inc:
		return inc * 3 / 4
	default:
		return inc / 2
	}
}

// minimumMoveTime is the bullet-safety floor: very low move numbers (likely
// still well-stocked on time) get a slightly larger floor than the deep
// endgame scramble.
func minimumMoveTime(moveNumber int) time.Duration {
	if moveNumber <= 10 {
		return 20 * time.Millisecond
	}
	return 5 * time.Millisecond
}
