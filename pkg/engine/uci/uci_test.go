package uci_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/herohde/ct800uci/pkg/engine"
	"github.com/herohde/ct800uci/pkg/engine/uci"
	"github.com/herohde/ct800uci/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T) (chan string, <-chan string, *uci.Driver) {
	t.Helper()
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester", search.PVS{}, search.Mate{}, engine.WithZobrist(3571))

	in := make(chan string)
	d, out := uci.NewDriver(ctx, e, in)
	return in, out, d
}

func drainUntil(t *testing.T, out <-chan string, want string, timeout time.Duration) []string {
	t.Helper()
	var lines []string
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-out:
			if !ok {
				t.Fatalf("output closed before seeing %q, got %v", want, lines)
			}
			lines = append(lines, line)
			if line == want || strings.HasPrefix(line, want) {
				return lines
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q, got %v", want, lines)
		}
	}
}

func TestUCIHandshake(t *testing.T) {
	in, out, d := newTestDriver(t)
	defer d.Close()

	lines := drainUntil(t, out, "uciok", time.Second)
	assert.True(t, strings.HasPrefix(lines[0], "id name"))

	in <- "isready"
	drainUntil(t, out, "readyok", time.Second)
}

func TestUCIPositionAndGoDepthProducesBestmove(t *testing.T) {
	in, out, d := newTestDriver(t)
	defer d.Close()

	drainUntil(t, out, "uciok", time.Second)

	in <- "position startpos"
	in <- "go depth 1"

	lines := drainUntil(t, out, "bestmove", 5*time.Second)
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "bestmove"))
}

func TestUCIQuitClosesDriver(t *testing.T) {
	in, out, d := newTestDriver(t)
	defer d.Close()

	drainUntil(t, out, "uciok", time.Second)
	in <- "quit"

	select {
	case <-d.Closed():
	case <-time.After(time.Second):
		t.Fatal("driver did not close after quit")
	}
}
