package timectl_test

import (
	"testing"
	"time"

	"github.com/herohde/ct800uci/pkg/timectl"
	"github.com/stretchr/testify/assert"
)

type fakeAbort struct{ aborted bool }

func (f fakeAbort) Sleep(d time.Duration) (aborted bool) { return f.aborted }

func TestCalibratorFixesRateAfterWarmup(t *testing.T) {
	start := time.Now()
	c := timectl.NewCalibrator(start, 0)
	assert.False(t, c.Ready())

	c.Sample(start.Add(5*time.Millisecond), 1000)
	assert.False(t, c.Ready(), "too early to calibrate")

	c.Sample(start.Add(20*time.Millisecond), 4000)
	assert.True(t, c.Ready())
	assert.EqualValues(t, 200, c.NodesPerMillisecond())

	c.Sample(start.Add(50*time.Millisecond), 999999)
	assert.EqualValues(t, 200, c.NodesPerMillisecond(), "fixed after first calibration")
}

func TestThrottleNoThrottleNeverAborts(t *testing.T) {
	th := timectl.NewThrottle()
	th.BeginFrame(time.Now(), 0)
	assert.False(t, th.Poll(time.Now(), 1000, fakeAbort{}))
}

func TestThrottleNPSThrottleHonorsAbort(t *testing.T) {
	th := &timectl.Throttle{Mode: timectl.NPSThrottle, MaxNPS: 100}
	now := time.Now()
	th.BeginFrame(now, 0)

	aborted := th.Poll(now.Add(10*time.Millisecond), 1000, fakeAbort{aborted: true})
	assert.True(t, aborted)
}
