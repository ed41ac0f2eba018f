package board

// IsFiftyMoveDraw reports whether the 50-move rule applies (100 plies since
// the last pawn move or capture).
func (p *Position) IsFiftyMoveDraw() bool {
	return p.halfmove >= 100
}

// IsRepetitionDraw reports whether the current hash occurs at least count
// times, the current position itself included, within the irreversible-move
// horizon (the ply stack since the last pawn move or capture, where
// repetition is even possible). The search and the mate solver both call it
// with count 3.
func (p *Position) IsRepetitionDraw(count int) bool {
	horizon := len(p.stack) - p.halfmove
	if horizon < 0 {
		horizon = 0
	}
	seen := 1 // the current position itself
	for i := len(p.stack) - 1; i >= horizon; i-- {
		if p.stack[i].hash == p.hash {
			seen++
			if seen >= count {
				return true
			}
		}
	}
	return false
}
