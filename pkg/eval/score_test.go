package eval_test

import (
	"testing"

	"github.com/herohde/ct800uci/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestScoreMateDistance(t *testing.T) {
	s := eval.MateIn(3)
	d, ok := s.MateDistance()
	assert.True(t, ok)
	assert.EqualValues(t, 3, d)

	h := eval.HeuristicScore(42)
	_, ok = h.MateDistance()
	assert.False(t, ok)
	assert.True(t, h.IsHeuristic())
}

func TestScoreNegate(t *testing.T) {
	assert.Equal(t, eval.HeuristicScore(-42), eval.Negate(eval.HeuristicScore(42)))
	assert.Equal(t, eval.MatedIn(4), eval.Negate(eval.MateIn(3)))
	assert.Equal(t, eval.MateIn(4), eval.Negate(eval.MatedIn(3)))
}

func TestScoreInt32OrderingPrefersNearerMate(t *testing.T) {
	near := eval.MateIn(1)
	far := eval.MateIn(5)
	cp := eval.HeuristicScore(900)

	assert.True(t, near.Int32() > far.Int32())
	assert.True(t, far.Int32() > cp.Int32())
	assert.True(t, eval.MatedIn(1).Int32() < eval.MatedIn(5).Int32())
}

func TestScoreAbsoluteRoundTrip(t *testing.T) {
	for _, s := range []eval.Score{eval.HeuristicScore(123), eval.HeuristicScore(-55), eval.MateIn(2), eval.MatedIn(7)} {
		assert.Equal(t, s, eval.Absolute(s.Int32()))
	}
}

func TestScoreMaxMin(t *testing.T) {
	a := eval.HeuristicScore(10)
	b := eval.HeuristicScore(20)
	assert.Equal(t, b, eval.Max(a, b))
	assert.Equal(t, a, eval.Min(a, b))
}
