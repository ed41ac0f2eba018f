package search_test

import (
	"testing"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Standard perft node counts from the start position. See
// https://www.chessprogramming.org/Perft_Results.
func TestPerftStartPosition(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pos, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	tests := []struct {
		depth int
		nodes int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.nodes, search.Perft(pos, tt.depth), "depth %d", tt.depth)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pos, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	counts := search.PerftDivide(pos, 2)
	var total int64
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, search.Perft(pos, 2), total)
	assert.Len(t, counts, 20) // 20 distinct root moves from the start position
}

// Kiwipete, a well-known perft stress position exercising castling, en
// passant and promotions.
func TestPerftKiwipete(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pos, err := fen.Decode(zt, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	assert.Equal(t, int64(48), search.Perft(pos, 1))
	assert.Equal(t, int64(2039), search.Perft(pos, 2))
}
