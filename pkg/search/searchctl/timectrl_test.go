package searchctl_test

import (
	"testing"
	"time"

	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
)

func TestTimeControlLimitsSuddenDeath(t *testing.T) {
	tc := searchctl.TimeControl{
		White: 60 * time.Second,
		Black: 60 * time.Second,
	}
	soft, hard := tc.Limits(board.White)
	assert.True(t, soft > 0)
	assert.True(t, hard > soft)
	assert.True(t, hard <= tc.White)
}

func TestTimeControlLimitsMovesToGo(t *testing.T) {
	tc := searchctl.TimeControl{
		White: 10 * time.Second,
		Black: 10 * time.Second,
		Moves: 5,
	}
	soft, hard := tc.Limits(board.White)
	assert.True(t, soft > 0)
	assert.True(t, hard > 0)
}

func TestTimeControlUsesCorrectSideClock(t *testing.T) {
	tc := searchctl.TimeControl{
		White: 100 * time.Second,
		Black: 5 * time.Second,
	}
	wSoft, _ := tc.Limits(board.White)
	bSoft, _ := tc.Limits(board.Black)
	assert.True(t, wSoft > bSoft)
}

func TestOptionsString(t *testing.T) {
	opt := searchctl.Options{DepthLimit: lang.Some(uint(6))}
	assert.Contains(t, opt.String(), "depth=6")
}
