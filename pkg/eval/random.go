package eval

import "math/rand"

// Noise adds small deterministic-per-seed jitter to leaf evaluations, so an
// engine configured to play below its full strength doesn't play
// identically every game.
type Noise struct {
	millipawns int
	r          *rand.Rand
}

// NewNoise builds a Noise generator with the given amplitude in millipawns
// and a seed (use a fixed seed for reproducible test runs).
func NewNoise(millipawns int, seed int64) Noise {
	return Noise{millipawns: millipawns, r: rand.New(rand.NewSource(seed))}
}

// Apply adds centered jitter in [-millipawns/20, +millipawns/20]
// centipawns to a score.
func (n Noise) Apply(cp int32) int32 {
	if n.r == nil || n.millipawns == 0 {
		return cp
	}
	return cp + int32(n.r.Intn(n.millipawns+1)-n.millipawns/2)/10
}
