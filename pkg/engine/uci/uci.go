// Package uci contains a driver for using the engine under the UCI
// protocol. See http://wbec-ridderkerk.nl/html/UCIProtocol.html and
// SPEC_FULL.md §6.1 for the extended setoption surface this driver adds
// on top of the baseline protocol.
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/herohde/ct800uci/pkg/engine"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/herohde/ct800uci/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

// ProtocolName identifies the protocol this driver speaks, matched against
// the first line of input by the binary's command dispatcher.
const ProtocolName = "uci"

// Driver implements a UCI driver for an Engine. It is activated once "uci"
// is received on its input channel.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active atomic.Bool    // a "go" is outstanding and expects a bestmove
	ponder chan search.PV // intermediate search info, forwarded as "info" lines

	lastPosition string // last "position ..." line verbatim, for continuation detection

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts a driver reading UCI command lines from in and writing
// protocol lines to the returned channel, until in closes or "quit" is
// received.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

// Close stops the driver, idempotently.
func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

// Closed reports when the driver has stopped.
func (d *Driver) Closed() <-chan struct{} { return d.quit }

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	for _, line := range optionAdvertisements() {
		d.out <- line
	}

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if !d.dispatch(ctx, line) {
				return
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// dispatch handles one input line, returning false if the driver should
// stop (a "quit" was received).
func (d *Driver) dispatch(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]

	switch strings.ToLower(cmd) {
	case "isready":
		d.out <- "readyok"

	case "debug":
		// Debug logging toggling is handled by the process's own -v flag;
		// this engine doesn't have a runtime verbosity switch to flip.

	case "setoption":
		d.handleSetOption(ctx, args)

	case "register":
		// No registration scheme; silently accepted.

	case "ucinewgame":
		d.ensureInactive(ctx)
		d.lastPosition = ""

	case "position":
		d.handlePosition(ctx, line, args)

	case "go":
		d.handleGo(ctx, line, args)

	case "stop":
		pv, err := d.e.Halt(ctx)
		if err == nil {
			d.searchCompleted(ctx, pv)
		}

	case "ponderhit":
		// Ponder mode isn't advertised (no "option name Ponder"), so the
		// GUI shouldn't send this; if it does, there's nothing to switch.

	case "perft":
		d.handlePerft(ctx, args)

	case "quit":
		return false

	default:
		logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
	}
	return true
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
				return
			}
		}
		d.lastPosition = line
		return
	}

	position := fen.Initial
	rest := args
	if len(args) >= 1 && args[0] == "fen" {
		end := 1
		for end < len(args) && args[end] != "moves" {
			end++
		}
		position = strings.Join(args[1:end], " ")
		rest = args[end:]
	} else if len(args) >= 1 && args[0] == "startpos" {
		rest = args[1:]
	}

	if err := d.e.Reset(ctx, position); err != nil {
		logw.Errorf(ctx, "Invalid position %q: %v", position, err)
		return
	}

	move := false
	for _, arg := range rest {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			logw.Errorf(ctx, "Invalid position move %q: %v", arg, err)
			return
		}
	}
	d.lastPosition = line
}

func (d *Driver) handleGo(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	var opt searchctl.Options
	var tc searchctl.TimeControl
	haveTC := false
	var moveTime time.Duration

	for i := 0; i < len(args); i++ {
		cmd := args[i]
		switch cmd {
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "mate", "movetime", "nodes":
			i++
			if i == len(args) {
				logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
				return
			}

			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(uint(n))
			case "mate":
				opt.MateLimit = lang.Some(uint(n))
			case "movetime":
				moveTime = time.Millisecond * time.Duration(n)
			case "wtime":
				haveTC = true
				tc.White = time.Millisecond * time.Duration(n)
			case "btime":
				haveTC = true
				tc.Black = time.Millisecond * time.Duration(n)
			case "winc":
				haveTC = true
				tc.WhiteInc = time.Millisecond * time.Duration(n)
			case "binc":
				haveTC = true
				tc.BlackInc = time.Millisecond * time.Duration(n)
			case "movestogo":
				haveTC = true
				tc.Moves = n
			case "nodes":
				// Node limits are not enforced by the PVS loop in this build.
			}

		case "infinite":
			opt.Infinite = true

		default:
			// searchmoves / ponder and unrecognized tokens silently ignored.
		}
	}

	if haveTC {
		opt.TimeControl = lang.Some(tc)
	}
	if moveTime > 0 {
		opt.MoveTime = lang.Some(moveTime)
	}

	if _, ok := opt.MateLimit.V(); !ok {
		if m, ok := d.e.PickBookMove(ctx); ok {
			pv := search.PV{Moves: []board.Move{m}}
			d.active.Store(true)
			d.searchCompleted(ctx, pv)
			return
		}
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	infinite := opt.Infinite
	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite {
			d.searchCompleted(ctx, last)
		}
	}()
}

func (d *Driver) handlePerft(ctx context.Context, args []string) {
	n := 4
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			n = v
		}
	}

	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pos, err := fen.Decode(zt, d.e.Position())
	if err != nil {
		logw.Errorf(ctx, "perft: %v", err)
		return
	}

	start := time.Now()
	nodes := search.Perft(pos, n)
	d.out <- fmt.Sprintf("info string perft depth %v nodes %v time %v", n, nodes, time.Since(start).Milliseconds())
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	}
}

func printPV(pv search.PV) string {
	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if md, ok := pv.Score.MateDistance(); ok {
		moves := (md + 1) / 2
		if md < 0 {
			moves = -((-md + 1) / 2)
		}
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", pv.Score.CP))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if pv.Hash > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %v", int(pv.Hash*1000)))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv", board.FormatMoves(pv.Moves))
	}
	return strings.Join(parts, " ")
}
