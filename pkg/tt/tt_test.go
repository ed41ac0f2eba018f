package tt_test

import (
	"testing"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/tt"
	"github.com/stretchr/testify/assert"
)

func TestTableStoreProbeRoundTrip(t *testing.T) {
	table := tt.New(1 << 16)

	h := board.ZobristHash(12345)
	table.Store(h, 0, tt.Exact, 4, 120)

	e, ok := table.Probe(h)
	assert.True(t, ok)
	assert.Equal(t, h, e.Hash)
	assert.EqualValues(t, 4, e.Depth)
	assert.EqualValues(t, 120, e.Score)
	assert.Equal(t, tt.Exact, e.Bound)

	_, ok = table.Probe(board.ZobristHash(99999))
	assert.False(t, ok)
}

func TestTableUsedTracksStores(t *testing.T) {
	table := tt.New(1 << 16)
	assert.Zero(t, table.Used())

	table.Store(board.ZobristHash(1), 0, tt.Exact, 1, 10)
	assert.Greater(t, table.Used(), float64(0))
}

func TestPawnTableRoundTrip(t *testing.T) {
	pt := tt.NewPawnTable()

	e := tt.PawnEntry{Hash: board.ZobristHash(7), Score: 15, WhitePassedFiles: 0x1}
	pt.Store(e)

	got, ok := pt.Probe(board.ZobristHash(7))
	assert.True(t, ok)
	assert.Equal(t, e, got)

	_, ok = pt.Probe(board.ZobristHash(8))
	assert.False(t, ok)
}

func TestRookFileCache(t *testing.T) {
	c := tt.NewRookFileCache()

	var v [2][8]tt.FileStatus
	v[board.White][0] = tt.Open

	c.Put(board.ZobristHash(1), v)
	got, ok := c.Get(board.ZobristHash(1))
	assert.True(t, ok)
	assert.Equal(t, tt.Open, got[board.White][0])

	_, ok = c.Get(board.ZobristHash(2))
	assert.False(t, ok)
}
