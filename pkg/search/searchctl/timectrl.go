package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl mirrors the UCI "go wtime/btime/winc/binc/movestogo" fields.
type TimeControl struct {
	White, Black         time.Duration
	WhiteInc, BlackInc   time.Duration
	Moves                int // 0 == rest of game
}

// Limits returns a soft and hard deadline for the side to move. After the
// soft limit, the search should not start a new iteration; at the hard
// limit, it is force-halted regardless of where it is.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder, inc := t.White, t.WhiteInc
	if c == board.Black {
		remainder, inc = t.Black, t.BlackInc
	}

	// Assume 40 moves to the time control if the GUI didn't say otherwise.
	// Budget B = remainder/(2*moves) + inc as the soft timeout; hard is 3B.
	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft := remainder/(2*moves) + inc
	hard := 3 * soft
	if hard > remainder {
		hard = remainder - remainder/20 // leave a flag-fall safety margin
	}
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// EnforceTimeControl schedules a hard halt derived from tc or moveTime, and
// returns the soft limit (if any) for the caller's iteration loop to check.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], moveTime lang.Optional[time.Duration], turn board.Color) (time.Duration, bool) {
	if mt, ok := moveTime.V(); ok {
		time.AfterFunc(mt, func() { h.Halt() })
		return mt, true
	}

	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() { h.Halt() })

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
