package book_test

import (
	"context"
	"testing"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/herohde/ct800uci/pkg/engine/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoBookIsAlwaysEmpty(t *testing.T) {
	moves, err := book.NoBook.Find(context.Background(), fen.Initial)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestBookFindsKnownLine(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	b, err := book.New(zt, []book.Line{
		{"e2e4", "e7e5"},
		{"e2e4", "c7c5"},
		{"d2d4"},
	})
	require.NoError(t, err)

	moves, err := b.Find(context.Background(), fen.Initial)
	require.NoError(t, err)
	assert.Len(t, moves, 2) // e2e4 and d2d4, deduped

	e4, err := board.ParseMove("e2e4")
	require.NoError(t, err)

	pos, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)
	var buf [256]board.Move
	resolved, ok := board.Resolve(e4, pos.GenerateMoves(buf[:0]))
	require.True(t, ok)
	pos.Make(resolved)

	replies, err := b.Find(context.Background(), fen.Encode(pos))
	require.NoError(t, err)
	assert.Len(t, replies, 2) // e7e5 and c7c5
}

func TestBookRejectsIllegalLine(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	_, err := book.New(zt, []book.Line{{"e2e5"}})
	assert.Error(t, err)
}

func TestBookUnknownPositionReturnsEmpty(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	b, err := book.New(zt, []book.Line{{"e2e4"}})
	require.NoError(t, err)

	moves, err := b.Find(context.Background(), "8/8/8/4k3/8/4K3/8/8 w - - 0 1")
	require.NoError(t, err)
	assert.Empty(t, moves)
}
