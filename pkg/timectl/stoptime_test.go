package timectl_test

import (
	"testing"
	"time"

	"github.com/herohde/ct800uci/pkg/timectl"
	"github.com/stretchr/testify/assert"
)

func TestStopTimeMovesToGo(t *testing.T) {
	d := timectl.StopTime(timectl.Clock{
		Remaining:  30 * time.Second,
		MovesToGo:  10,
		MoveNumber: 12,
	})
	assert.True(t, d > 0)
	assert.True(t, d < 30*time.Second)
}

func TestStopTimeSuddenDeathPositiveEarlyAndLate(t *testing.T) {
	early := timectl.StopTime(timectl.Clock{Remaining: 60 * time.Second, MoveNumber: 5})
	late := timectl.StopTime(timectl.Clock{Remaining: 60 * time.Second, MoveNumber: 80})
	assert.True(t, early > 0)
	assert.True(t, late > 0)
}

func TestStopTimeIncrementAddsBudget(t *testing.T) {
	noInc := timectl.StopTime(timectl.Clock{Remaining: 20 * time.Second, MoveNumber: 20})
	withInc := timectl.StopTime(timectl.Clock{Remaining: 20 * time.Second, MoveNumber: 20, Increment: 2 * time.Second})
	assert.True(t, withInc >= noInc)
}

func TestStopTimeFloorsOnLowRemaining(t *testing.T) {
	d := timectl.StopTime(timectl.Clock{Remaining: 50 * time.Millisecond, MoveNumber: 50})
	assert.True(t, d >= 0)
}
