package ioc_test

import (
	"testing"

	"github.com/herohde/ct800uci/pkg/ioc"
	"github.com/stretchr/testify/assert"
)

func TestRingBufferPushPopRoundTrip(t *testing.T) {
	r := ioc.NewRingBuffer()
	assert.True(t, r.Empty())

	dropped := r.Push("ISReady")
	assert.False(t, dropped)
	assert.False(t, r.Empty())

	cmd, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, "isready", cmd)
	assert.True(t, r.Empty())

	_, ok = r.Pop()
	assert.False(t, ok)
}

func TestRingBufferFIFOOrder(t *testing.T) {
	r := ioc.NewRingBuffer()
	r.Push("go infinite")
	r.Push("stop")

	first, _ := r.Pop()
	second, _ := r.Pop()
	assert.Equal(t, "go infinite", first)
	assert.Equal(t, "stop", second)
}

func TestRingBufferPreservesFenCase(t *testing.T) {
	r := ioc.NewRingBuffer()
	r.Push("Position FEN rnBQkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 Moves E2E4")

	cmd, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, "position fen rnBQkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 moves e2e4", cmd)
}

func TestRingBufferLowercasesNonFenCommands(t *testing.T) {
	r := ioc.NewRingBuffer()
	r.Push("SetOption Name OwnBook Value True")

	cmd, _ := r.Pop()
	assert.Equal(t, "setoption name ownbook value true", cmd)
}
