package engine_test

import (
	"context"
	"testing"

	"github.com/herohde/ct800uci/pkg/board/fen"
	"github.com/herohde/ct800uci/pkg/engine"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *engine.Engine {
	return engine.New(context.Background(), "test", "tester", search.PVS{}, search.Mate{},
		engine.WithZobrist(3571))
}

func TestEngineResetsToInitialPosition(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, fen.Initial, e.Position())
}

func TestEngineMoveAndTakeBack(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.NotEqual(t, fen.Initial, e.Position())

	require.NoError(t, e.TakeBack(ctx))
	assert.Equal(t, fen.Initial, e.Position())
}

func TestEngineRejectsIllegalMove(t *testing.T) {
	e := newTestEngine()
	assert.Error(t, e.Move(context.Background(), "e2e5"))
}

func TestEngineResetToArbitraryPosition(t *testing.T) {
	e := newTestEngine()
	kiwipete := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	require.NoError(t, e.Reset(context.Background(), kiwipete))
	assert.Equal(t, kiwipete, e.Position())
}

func TestEngineSetOptionsAppliesNoise(t *testing.T) {
	e := newTestEngine()

	opts := e.Options()
	opts.NoiseMillipawns = 25
	e.SetOptions(opts)

	assert.EqualValues(t, 25, e.Options().NoiseMillipawns)
}

func TestEngineHaltWithNoActiveSearchErrors(t *testing.T) {
	e := newTestEngine()
	_, err := e.Halt(context.Background())
	assert.Error(t, err)
}
