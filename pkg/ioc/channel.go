package ioc

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Channel is the shared aggregate between the UCI input goroutine and the
// worker goroutine: the command ring buffer, the print lock serializing
// stdout writes, the abort flag and the event quartet, per SPEC_FULL.md
// §5's "IoChannel" shared-state list.
type Channel struct {
	Out io.Writer

	ring *RingBuffer

	printMu sync.Mutex

	abort     atomic.Bool
	UCIEvent      *Event // wakes the worker when the ring becomes non-empty
	CmdWorkEvent  *Event // signaled by the worker after ucinewgame / a hash-size change
	AbortEvent    *Event // input thread requests the worker stop immediately
	AbortConfEvent *Event // worker acknowledges the stop request
}

// NewChannel builds a Channel writing UCI output to out.
func NewChannel(out io.Writer) *Channel {
	return &Channel{
		Out:            out,
		ring:           NewRingBuffer(),
		UCIEvent:       NewEvent(),
		CmdWorkEvent:   NewEvent(),
		AbortEvent:     NewEvent(),
		AbortConfEvent: NewEvent(),
	}
}

// Enqueue is called by the input goroutine for every line read from stdin.
// It pushes the frame and wakes the worker.
func (c *Channel) Enqueue(cmd string) {
	c.ring.Push(cmd)
	c.UCIEvent.Set()
}

// Dequeue is called by the worker goroutine to fetch the next command,
// blocking until one is available.
func (c *Channel) Dequeue() string {
	for {
		if cmd, ok := c.ring.Pop(); ok {
			if c.ring.Empty() {
				c.UCIEvent.Clear()
			}
			return cmd
		}
		c.UCIEvent.Wait()
	}
}

// RequestStop raises the abort flag and event, then blocks up to 5s for the
// worker's acknowledgement -- the ordering guarantee that a stop between two
// go commands finishes the first search before the second begins.
func (c *Channel) RequestStop() (acked bool) {
	c.abort.Store(true)
	c.AbortConfEvent.Clear()
	c.AbortEvent.Set()
	return c.AbortConfEvent.WaitUntil(time.Now().Add(5 * time.Second))
}

// ResetStop lowers the abort flag and event ahead of a new search.
func (c *Channel) ResetStop() {
	c.abort.Store(false)
	c.AbortEvent.Clear()
}

// AcknowledgeStop is called by the worker once it has actually returned
// from the search, unblocking anyone in RequestStop.
func (c *Channel) AcknowledgeStop() {
	c.AbortConfEvent.Set()
}

// IsAborted is the cheap, hot-path-safe check the search polls.
func (c *Channel) IsAborted() bool { return c.abort.Load() }

// Sleep blocks for d or until the abort event fires, implementing
// timectl.Abort so the throttle can wake early on stop.
func (c *Channel) Sleep(d time.Duration) (aborted bool) {
	if c.abort.Load() {
		return true
	}
	return c.AbortEvent.WaitUntil(time.Now().Add(d))
}

// Println serializes one line of UCI output under the print lock, so
// concurrent info/bestmove/readyok writes from the worker never interleave.
func (c *Channel) Println(format string, args ...interface{}) {
	c.printMu.Lock()
	defer c.printMu.Unlock()
	fmt.Fprintf(c.Out, format+"\n", args...)
}
