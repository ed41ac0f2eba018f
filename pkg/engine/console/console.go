// Package console implements a line-oriented debug driver for the engine,
// independent of the UCI protocol: useful for interactive testing from a
// terminal without a GUI.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/herohde/ct800uci/pkg/engine"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/herohde/ct800uci/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// ProtocolName identifies this driver to the binary's command dispatcher.
const ProtocolName = "console"

// Driver is a line-oriented debug driver: reset/undo/print/analyze [depth]/
// hash/nohash/noise/nonoise/perft/halt/quit commands plus bare moves,
// mirroring the teacher's
// interactive console for manual testing outside a GUI.
type Driver struct {
	iox.AsyncCloser

	e *engine.Engine

	out chan<- string

	active atomic.Bool
}

// NewDriver starts a console driver over in, writing to the returned channel.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard(ctx)

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				break
			}
			cmd, args := parts[0], parts[1:]

			switch strings.ToLower(cmd) {
			case "reset", "r":
				d.ensureInactive(ctx)

				pos := fen.Initial
				move := false
				var fenParts []string
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						fenParts = append(fenParts, arg)
					}
				}
				if len(fenParts) > 0 {
					pos = strings.Join(fenParts, " ")
				}
				if err := d.e.Reset(ctx, pos); err != nil {
					d.out <- fmt.Sprintf("invalid position: %v", err)
					break
				}

				move = false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}
					if err := d.e.Move(ctx, arg); err != nil {
						d.out <- fmt.Sprintf("invalid move %q: %v", arg, err)
						break
					}
				}
				d.printBoard(ctx)

			case "undo", "u":
				d.ensureInactive(ctx)
				_ = d.e.TakeBack(ctx)
				d.printBoard(ctx)

			case "print", "p":
				d.printBoard(ctx)

			case "analyze", "a":
				d.ensureInactive(ctx)

				var opt searchctl.Options
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					opt.DepthLimit = lang.Some(uint(depth))
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					d.out <- fmt.Sprintf("analyze failed: %v", err)
					break
				}
				d.active.Store(true)

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.out <- pv.String()
					}
					d.searchCompleted(last)
				}()

			case "hash":
				if len(args) > 0 {
					h, _ := strconv.Atoi(args[0])
					opt := d.e.Options()
					opt.HashMB = uint(h)
					d.e.SetOptions(opt)
				}

			case "nohash":
				opt := d.e.Options()
				opt.HashMB = 0
				d.e.SetOptions(opt)

			case "noise":
				if len(args) > 0 {
					n, _ := strconv.Atoi(args[0])
					opt := d.e.Options()
					opt.NoiseMillipawns = uint(n)
					d.e.SetOptions(opt)
				}

			case "nonoise":
				opt := d.e.Options()
				opt.NoiseMillipawns = 0
				d.e.SetOptions(opt)

			case "perft":
				depth := 4
				if len(args) > 0 {
					if v, err := strconv.Atoi(args[0]); err == nil {
						depth = v
					}
				}
				d.printPerft(ctx, depth)

			case "halt", "stop":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(pv)
				}

			case "quit", "exit", "q":
				d.ensureInactive(ctx)
				return

			default:
				// Assume a bare move if not a recognized command.
				d.ensureInactive(ctx)
				if err := d.e.Move(ctx, cmd); err != nil {
					d.out <- fmt.Sprintf("invalid move: %q", cmd)
				} else {
					d.printBoard(ctx)
				}
			}

		case <-d.Closed():
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(pv search.PV) {
	if d.active.CompareAndSwap(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	}
}

func (d *Driver) printBoard(ctx context.Context) {
	position := d.e.Position()
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pos, err := fen.Decode(zt, position)
	if err != nil {
		logw.Errorf(ctx, "print: %v", err)
		return
	}

	d.out <- ""
	d.out <- pos.String()
	d.out <- fmt.Sprintf("fen: %v", position)
	d.out <- ""
}

func (d *Driver) printPerft(ctx context.Context, depth int) {
	position := d.e.Position()
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pos, err := fen.Decode(zt, position)
	if err != nil {
		logw.Errorf(ctx, "perft: %v", err)
		return
	}

	for i := 1; i <= depth; i++ {
		d.out <- fmt.Sprintf("perft %v: %v", i, search.Perft(pos, i))
	}
}
