// Package tt implements the search's transposition tables: the main
// position table (kept as two independently aged instances, "own" for
// nodes with the root side to move and "opp" for nodes with the opponent
// to move) plus the separate pawn-structure table and
// rook-file cache, per SPEC_FULL.md §4.5.
package tt

import (
	"sync"

	"github.com/herohde/ct800uci/pkg/board"
)

// Bound records whether a stored score is exact or was produced by a
// fail-high cutoff (a lower bound on the true score). There is no
// upper-bound kind: this engine's NegaScout stores a fail-low result at
// depth -1, which no probe accepts for a cutoff, so such an entry only
// supplies its move.
type Bound uint8

const (
	Exact Bound = iota
	Lower
)

// Entry is one transposition-table slot.
type Entry struct {
	Hash  board.ZobristHash
	Move  board.CompressedMove
	Score int32
	Depth int16
	Bound Bound
	Age   uint8
}

func (e Entry) empty() bool { return e.Hash == 0 }

// clusterSize matches the original's CLUSTER_SIZE: probing and storing
// operate on a 3-slot bucket rather than a single entry, trading a little
// probe cost for a much lower overwrite rate.
const clusterSize = 3

type cluster [clusterSize]Entry

// Table is a clustered, depth-preferred transposition table.
type Table struct {
	mu      sync.Mutex
	buckets []cluster
	age     uint8
	used    int
}

// New builds a table sized to hold roughly sizeBytes worth of entries.
func New(sizeBytes uint64) *Table {
	n := int(sizeBytes / (clusterSize * entrySize))
	if n < 1 {
		n = 1
	}
	return &Table{buckets: make([]cluster, n)}
}

const entrySize = 24 // approximate Entry footprint in bytes

func (t *Table) index(hash board.ZobristHash) int {
	return int(uint64(hash) % uint64(len(t.buckets)))
}

// NewGeneration bumps the aging counter (mod 3, per the original's
// MAX_AGE_CNT), marking all prior entries as one generation staler without
// touching their contents.
func (t *Table) NewGeneration() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.age = (t.age + 1) % 3
}

// Probe looks up hash, returning the entry and whether it was found.
func (t *Table) Probe(hash board.ZobristHash) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := &t.buckets[t.index(hash)]
	for _, e := range c {
		if !e.empty() && e.Hash == hash {
			return e, true
		}
	}
	return Entry{}, false
}

// Store writes an entry using the cluster replacement policy: slot 0 is
// depth-preferred (only overwritten by an equal-or-deeper search, a same-key
// refresh, or a stale generation), slot 1 prefers an empty or same-key slot,
// slot 2 always replaces.
func (t *Table) Store(hash board.ZobristHash, move board.CompressedMove, bound Bound, depth int16, score int32) {
	e := Entry{Hash: hash, Move: move, Score: score, Depth: depth, Bound: bound, Age: t.age}

	t.mu.Lock()
	defer t.mu.Unlock()

	c := &t.buckets[t.index(hash)]
	switch {
	case c[0].empty() || c[0].Hash == hash || c[0].Age != t.age || depth >= c[0].Depth:
		if c[0].empty() {
			t.used++
		}
		c[0] = e
	case c[1].empty() || c[1].Hash == hash:
		if c[1].empty() {
			t.used++
		}
		c[1] = e
	default:
		if c[2].empty() {
			t.used++
		}
		c[2] = e
	}
}

// Size returns the table's footprint in bytes.
func (t *Table) Size() uint64 {
	return uint64(len(t.buckets)) * clusterSize * entrySize
}

// Used returns utilization as a fraction in [0;1], the UCI "hashfull" signal.
func (t *Table) Used() float64 {
	total := len(t.buckets) * clusterSize
	if total == 0 {
		return 0
	}
	return float64(t.used) / float64(total)
}

// PawnEntry caches the expensive parts of pawn-structure evaluation,
// decoupled from the main table since pawn structure changes far less
// often than the rest of the position.
type PawnEntry struct {
	Hash             board.ZobristHash
	Score            int32
	WhitePassedFiles uint8
	BlackPassedFiles uint8
}

// PawnTable is a direct-mapped (no clustering, single slot per bucket)
// cache keyed by Position.PawnHash, per the original's PMAX_TT sizing.
type PawnTable struct {
	mu      sync.Mutex
	entries []PawnEntry
}

// DefaultPawnTableSize mirrors the original's PMAX_TT constant.
const DefaultPawnTableSize = 0x2FFF

func NewPawnTable() *PawnTable {
	return &PawnTable{entries: make([]PawnEntry, DefaultPawnTableSize)}
}

func (t *PawnTable) Probe(hash board.ZobristHash) (PawnEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entries[uint64(hash)%uint64(len(t.entries))]
	return e, e.Hash == hash
}

func (t *PawnTable) Store(e PawnEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[uint64(e.Hash)%uint64(len(t.entries))] = e
}

// RookFileCache remembers, per pawn structure, whether each file is open or
// semi-open for either side -- a small derived table that would otherwise
// be recomputed on every rook evaluation.
type RookFileCache struct {
	mu      sync.Mutex
	entries map[board.ZobristHash][2][8]FileStatus
}

// FileStatus classifies a file for rook placement evaluation.
type FileStatus uint8

const (
	Closed FileStatus = iota
	SemiOpen
	Open
)

func NewRookFileCache() *RookFileCache {
	return &RookFileCache{entries: make(map[board.ZobristHash][2][8]FileStatus)}
}

func (c *RookFileCache) Get(pawnHash board.ZobristHash) ([2][8]FileStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[pawnHash]
	return v, ok
}

func (c *RookFileCache) Put(pawnHash board.ZobristHash, v [2][8]FileStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) > 1<<16 {
		c.entries = make(map[board.ZobristHash][2][8]FileStatus)
	}
	c.entries[pawnHash] = v
}

