// Command ct800uci is a UCI chess engine, an idiomatic-Go reimplementation
// of the CT800/NGPlay mailbox engine's search and evaluation.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herohde/ct800uci/pkg/engine"
	"github.com/herohde/ct800uci/pkg/engine/book"
	"github.com/herohde/ct800uci/pkg/engine/console"
	"github.com/herohde/ct800uci/pkg/engine/uci"
	"github.com/herohde/ct800uci/pkg/ioc"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/seekerror/logw"
)

var (
	hash  = flag.Uint("hash", 16, "Transposition table size in MiB (0 disables)")
	noise = flag.Uint("noise", 0, "Evaluation noise in millipawns (0 if deterministic)")
	seed  = flag.Int64("seed", 3571, "Zobrist/random seed")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: ct800uci [options]

ct800uci is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts := engine.Options{
		Depth:           0,
		HashMB:          *hash,
		NoiseMillipawns: *noise,
		ContemptEnd:     40,
	}

	e := engine.New(ctx, "ct800uci", "morlock-derived", search.PVS{}, search.Mate{},
		engine.WithOptions(opts),
		engine.WithZobrist(*seed),
		engine.WithBook(book.NoBook))

	ch := ioc.NewChannel(os.Stdout)
	in := make(chan string)
	go readStdinLines(ctx, ch, in)

	select {
	case protocol := <-in:
		switch protocol {
		case uci.ProtocolName:
			driver, out := uci.NewDriver(ctx, e, in)
			go writeLines(ch, out)
			<-driver.Closed()

		case console.ProtocolName:
			driver, out := console.NewDriver(ctx, e, in)
			go writeLines(ch, out)
			<-driver.Closed()

		default:
			flag.Usage()
			logw.Exitf(ctx, "Protocol not supported: %v", protocol)
		}
	case <-ctx.Done():
	}
}

// readStdinLines reads newline-delimited commands from stdin through the
// ring-buffered ioc.Channel (exercising its FEN-preserving case folding and
// overflow handling) and forwards each to in.
func readStdinLines(ctx context.Context, ch *ioc.Channel, in chan<- string) {
	defer close(in)

	scanner := bufio.NewScanner(os.Stdin)
	go func() {
		for scanner.Scan() {
			ch.Enqueue(scanner.Text())
		}
	}()

	for {
		cmd := ch.Dequeue()
		select {
		case in <- cmd:
		case <-ctx.Done():
			return
		}
		if cmd == "quit" {
			return
		}
	}
}

func writeLines(ch *ioc.Channel, out <-chan string) {
	for line := range out {
		ch.Println("%v", line)
	}
}
