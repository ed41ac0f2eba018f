package fen_test

import (
	"testing"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
	}

	zt := board.NewZobristTable(board.DefaultZobristSeed)
	for _, s := range tests {
		pos, err := fen.Decode(zt, s)
		require.NoError(t, err, s)
		assert.Equal(t, s, fen.Encode(pos))
	}
}

func TestDecodeInvalid(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	_, err := fen.Decode(zt, "not a fen")
	assert.Error(t, err)
}
