package board_test

import (
	"testing"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	m, err := board.ParseMove("e2e4")
	require.NoError(t, err)

	e2, err := board.ParseSquareStr("e2")
	require.NoError(t, err)
	e4, err := board.ParseSquareStr("e4")
	require.NoError(t, err)
	assert.Equal(t, board.ToSq120(e2), m.From)
	assert.Equal(t, board.ToSq120(e4), m.To)

	promo, err := board.ParseMove("e7e8q")
	require.NoError(t, err)
	assert.Equal(t, board.Queen, promo.Promotion)

	null, err := board.ParseMove("0000")
	require.NoError(t, err)
	assert.Equal(t, board.NullMove, null.Kind)

	_, err = board.ParseMove("e2e9")
	assert.Error(t, err)

	_, err = board.ParseMove("e2e4x")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pos, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	var buf [256]board.Move
	moves := pos.GenerateMoves(buf[:0])

	candidate, err := board.ParseMove("e2e4")
	require.NoError(t, err)

	resolved, ok := board.Resolve(candidate, moves)
	require.True(t, ok)
	assert.True(t, resolved.Equal(candidate))

	_, ok = board.Resolve(board.Move{From: candidate.From, To: candidate.From}, moves)
	assert.False(t, ok)
}

func TestByMVVLVAOrdersBestCaptureFirst(t *testing.T) {
	moves := []board.Move{
		{MVVLVA: 10},
		{MVVLVA: 90},
		{MVVLVA: 40},
	}
	board.ByMVVLVA(moves).Swap(0, 0) // sanity: Swap/Len wired to the right slice
	assert.Equal(t, 3, board.ByMVVLVA(moves).Len())
	assert.True(t, board.ByMVVLVA(moves).Less(1, 0))
}
