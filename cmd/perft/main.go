// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pos, err := fen.Decode(zt, *position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()

		if *divide && i == *depth {
			counts := search.PerftDivide(pos, i)
			var total int64
			for move, count := range counts {
				fmt.Printf("%v: %v\n", move, count)
				total += count
			}
			fmt.Printf("perft,%v,%v,%v,%v\n", *position, i, total, time.Since(start).Microseconds())
			continue
		}

		nodes := search.Perft(pos, i)
		fmt.Printf("perft,%v,%v,%v,%v\n", *position, i, nodes, time.Since(start).Microseconds())
	}
}
