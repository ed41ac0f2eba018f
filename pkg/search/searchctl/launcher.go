// Package searchctl wraps a raw search.Search in iterative deepening, time
// control and a stoppable handle, so the engine layer never has to call the
// fixed-depth search directly.
package searchctl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold the dynamic, per-search limits a UCI "go" command may set.
// The zero value means "no limit on this dimension".
type Options struct {
	// DepthLimit, if set, stops iterative deepening after this ply depth.
	DepthLimit lang.Optional[uint]
	// MateLimit, if set, switches the search to the dedicated mate solver
	// looking for mate in this many full moves.
	MateLimit lang.Optional[uint]
	// TimeControl, if set, derives soft/hard deadlines from the remaining
	// clock per EnforceTimeControl.
	TimeControl lang.Optional[TimeControl]
	// MoveTime, if set, is a fixed per-move time budget (UCI "movetime"),
	// applied as both the soft and hard limit.
	MoveTime lang.Optional[time.Duration]
	// Infinite disables the soft time limit and the easy-move stop; the
	// search then runs until Halt, a forced mate, or a DepthLimit, MoveTime
	// or TimeControl set alongside it.
	Infinite bool
	// PVHint, if set, is the tail of the previous search's principal
	// variation still believed valid (the opponent played the expected
	// reply), seeding the root move-ordering hint per spec.md §4.6 step 6's
	// PV continuation. Set by the caller, not parsed from UCI "go" itself.
	PVHint []board.Move
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.MateLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("mate=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	if v, ok := o.MoveTime.V(); ok {
		ret = append(ret, fmt.Sprintf("movetime=%v", v))
	}
	if o.Infinite {
		ret = append(ret, "infinite")
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages iteratively-deepened searches over a position.
type Launcher interface {
	// Launch starts a new search from pos, which the launcher takes
	// exclusive ownership of until the returned handle is halted: the
	// search thread calls Position.Make/Retract on it directly rather than
	// forking a copy, so the caller must not touch pos concurrently.
	// Returns a handle to stop the search and a channel of progressively
	// deeper principal variations, closed when the search is exhausted.
	Launch(ctx context.Context, pos *board.Position, sctx *search.Context, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the caller stop a launched search and retrieve its best
// result so far.
type Handle interface {
	// Halt stops the search, if running, and returns its last completed PV.
	// Idempotent.
	Halt() search.PV
}
