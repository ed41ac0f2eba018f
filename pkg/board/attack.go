package board

// Mailbox step tables. Sliding offsets (rook/bishop) terminate naturally at
// the fence ring; the knight and king tables are single-step jump tables.
var (
	knightOffsets = [8]int{-21, -19, -12, -8, 8, 12, 19, 21}
	kingOffsets   = [8]int{-11, -10, -9, -1, 1, 9, 10, 11}
	rookOffsets   = [4]int{-10, -1, 1, 10}
	bishopOffsets = [4]int{-11, -9, 9, 11}
)

// IsAttacked reports whether sq is attacked by any piece of color by.
func (p *Position) IsAttacked(sq Sq120, by Color) bool {
	if by == White {
		if p.sq[sq-9] == WPawn || p.sq[sq-11] == WPawn {
			return true
		}
	} else {
		if p.sq[sq+9] == BPawn || p.sq[sq+11] == BPawn {
			return true
		}
	}
	for _, o := range knightOffsets {
		t := sq + Sq120(o)
		if t.IsOnBoard() && p.sq[t] == NewKind(by, Knight) {
			return true
		}
	}
	for _, o := range kingOffsets {
		t := sq + Sq120(o)
		if t.IsOnBoard() && p.sq[t] == NewKind(by, King) {
			return true
		}
	}
	for _, o := range rookOffsets {
		if p.slideAttacks(sq, o, by, Rook) {
			return true
		}
	}
	for _, o := range bishopOffsets {
		if p.slideAttacks(sq, o, by, Bishop) {
			return true
		}
	}
	return false
}

// slideAttacks walks from sq along offset until it leaves the board or hits
// an occupant, reporting whether that first occupant is a by-colored piece
// of kind or a queen.
func (p *Position) slideAttacks(sq Sq120, offset int, by Color, kind PieceType) bool {
	for t := sq + Sq120(offset); t.IsOnBoard(); t += Sq120(offset) {
		occ := p.sq[t]
		if occ == Empty {
			continue
		}
		return occ.IsPiece() && occ.Color() == by && (occ.Type() == kind || occ.Type() == Queen)
	}
	return false
}

// InCheck reports whether side's king is currently attacked.
func (p *Position) InCheck(side Color) bool {
	return p.IsAttacked(p.king[side], side.Opponent())
}

// CheckerCount counts attackers of side's king, capping at 2 (double check
// only ever needs to be distinguished from single check -- the search reacts
// identically to any count above one: king moves only, per spec.md §4.6).
func (p *Position) CheckerCount(side Color) int {
	sq := p.king[side]
	by := side.Opponent()
	n := 0

	countPawn := func(at Sq120, want Kind) {
		if p.sq[at] == want {
			n++
		}
	}
	if by == White {
		countPawn(sq-9, WPawn)
		countPawn(sq-11, WPawn)
	} else {
		countPawn(sq+9, BPawn)
		countPawn(sq+11, BPawn)
	}
	for _, o := range knightOffsets {
		t := sq + Sq120(o)
		if t.IsOnBoard() && p.sq[t] == NewKind(by, Knight) {
			n++
		}
	}
	for _, o := range rookOffsets {
		if p.slideAttacks(sq, o, by, Rook) {
			n++
		}
	}
	for _, o := range bishopOffsets {
		if p.slideAttacks(sq, o, by, Bishop) {
			n++
		}
	}
	if n >= 2 {
		return 2
	}
	return n
}
