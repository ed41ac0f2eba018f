package board

// pieceValue gives each piece type's nominal weight for MVV-LVA ordering.
// Values follow the common pawn=1 scale rather than centipawns: MVV-LVA only
// needs to rank captures relative to each other.
func pieceValue(pt PieceType) int16 {
	switch pt {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return 20
	default:
		return 0
	}
}

// mvvlva scores a capture as "most valuable victim, least valuable
// attacker": the victim dominates the ordering, the attacker's own value is
// subtracted to prefer cheap attackers among equal victims.
func mvvlva(victim, attacker PieceType) int16 {
	return pieceValue(victim)*16 - pieceValue(attacker)
}

// promotionOrder lists promotion targets queen-first, the move-ordering
// convention: a queen promotion is almost always the best choice, so trying
// it first maximizes early cutoffs.
var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// GenerateMoves appends the side to move's pseudo-legal moves to dst and
// returns the extended slice. Pseudo-legal means board-geometry-legal only:
// a move that leaves its own king in check is filtered by the caller via
// Make + InCheck, not by the generator (the simpler generate-then-test-in-
// check discipline, traded for the complexity of precomputed pins).
func (p *Position) GenerateMoves(dst []Move) []Move {
	return p.generate(dst, false)
}

// GenerateCaptures appends only captures, en-passant captures and queen
// promotions (queen promotions of quiet pawn pushes included, since they
// are tactically forcing; under-promotions are left out) -- the quiescence
// search's move set.
func (p *Position) GenerateCaptures(dst []Move) []Move {
	return p.generate(dst, true)
}

func (p *Position) generate(dst []Move, capturesOnly bool) []Move {
	us := p.turn
	for idx := p.head[us]; idx != nilSlot; idx = p.arena[us][idx].next {
		slot := p.arena[us][idx]
		switch slot.kind.Type() {
		case Pawn:
			dst = p.genPawnMoves(dst, us, slot.sq, capturesOnly)
		case Knight:
			dst = p.genJump(dst, us, slot.sq, knightOffsets[:], Knight, capturesOnly)
		case Bishop:
			dst = p.genSlide(dst, us, slot.sq, bishopOffsets[:], Bishop, capturesOnly)
		case Rook:
			dst = p.genSlide(dst, us, slot.sq, rookOffsets[:], Rook, capturesOnly)
		case Queen:
			dst = p.genSlide(dst, us, slot.sq, rookOffsets[:], Queen, capturesOnly)
			dst = p.genSlide(dst, us, slot.sq, bishopOffsets[:], Queen, capturesOnly)
		case King:
			dst = p.genJump(dst, us, slot.sq, kingOffsets[:], King, capturesOnly)
			if !capturesOnly {
				dst = p.genCastling(dst, us)
			}
		}
	}
	return dst
}

func (p *Position) genJump(dst []Move, us Color, from Sq120, offsets []int, moverType PieceType, capturesOnly bool) []Move {
	for _, o := range offsets {
		to := from + Sq120(o)
		if !to.IsOnBoard() {
			continue
		}
		occ := p.sq[to]
		if occ == Empty {
			if !capturesOnly {
				dst = append(dst, Move{Kind: PieceMove, From: from, To: to})
			}
		} else if occ.IsPiece() && occ.Color() != us {
			dst = append(dst, Move{Kind: PieceMove, From: from, To: to, MVVLVA: mvvlva(occ.Type(), moverType)})
		}
	}
	return dst
}

func (p *Position) genSlide(dst []Move, us Color, from Sq120, offsets []int, moverType PieceType, capturesOnly bool) []Move {
	for _, o := range offsets {
		for to := from + Sq120(o); to.IsOnBoard(); to += Sq120(o) {
			occ := p.sq[to]
			if occ == Empty {
				if !capturesOnly {
					dst = append(dst, Move{Kind: PieceMove, From: from, To: to})
				}
				continue
			}
			if occ.IsPiece() && occ.Color() != us {
				dst = append(dst, Move{Kind: PieceMove, From: from, To: to, MVVLVA: mvvlva(occ.Type(), moverType)})
			}
			break
		}
	}
	return dst
}

func (p *Position) genPawnMoves(dst []Move, us Color, from Sq120, capturesOnly bool) []Move {
	dir := 10
	startRank, promoRank := Rank2, Rank7
	if us == Black {
		dir, startRank, promoRank = -10, Rank7, Rank2
	}

	one := from + Sq120(dir)
	if one.IsOnBoard() && p.sq[one] == Empty {
		onPromoRank := from.ToSquare().Rank() == promoRank
		if onPromoRank {
			dst = p.appendPromotions(dst, from, one, 0, capturesOnly)
		} else if !capturesOnly {
			dst = append(dst, Move{Kind: PawnMove, From: from, To: one})
			if from.ToSquare().Rank() == startRank {
				two := from + Sq120(2*dir)
				if p.sq[two] == Empty {
					dst = append(dst, Move{Kind: PawnMove, From: from, To: two})
				}
			}
		}
	}

	for _, capOff := range [2]int{dir - 1, dir + 1} {
		to := from + Sq120(capOff)
		if !to.IsOnBoard() {
			continue
		}
		occ := p.sq[to]
		onPromoRank := from.ToSquare().Rank() == promoRank
		if occ.IsPiece() && occ.Color() != us {
			if onPromoRank {
				dst = p.appendPromotions(dst, from, to, mvvlva(occ.Type(), Pawn), capturesOnly)
			} else {
				dst = append(dst, Move{Kind: PawnMove, From: from, To: to, MVVLVA: mvvlva(occ.Type(), Pawn)})
			}
		} else if p.epSq != 0 && to == p.epSq {
			dst = append(dst, Move{Kind: PawnMove, From: from, To: to, MVVLVA: mvvlva(Pawn, Pawn)})
		}
	}
	return dst
}

// appendPromotions emits the four under/over-promotion choices, queen
// first (only the queen promotion when queenOnly is set), carrying
// capturedBonus through so a promoting capture still sorts above a
// same-target quiet promotion.
func (p *Position) appendPromotions(dst []Move, from, to Sq120, capturedBonus int16, queenOnly bool) []Move {
	for _, pt := range promotionOrder {
		bonus := capturedBonus + pieceValue(pt)*4
		dst = append(dst, Move{Kind: Promotion, From: from, To: to, Promotion: pt, MVVLVA: bonus})
		if queenOnly {
			break
		}
	}
	return dst
}

// genCastling appends pseudo-legal castling moves: the side must not
// currently be in check, the relevant rook must still be home, the squares
// between king and rook must be empty, and the squares the king crosses
// (including its destination) must not be attacked.
func (p *Position) genCastling(dst []Move, us Color) []Move {
	if p.InCheck(us) {
		return dst
	}
	from := p.king[us]
	opp := us.Opponent()

	if us == White {
		if p.gflags.CanCastleShort(White) && p.sq[sqH1] == WRook &&
			p.sq[from+1] == Empty && p.sq[from+2] == Empty &&
			!p.IsAttacked(from+1, opp) && !p.IsAttacked(from+2, opp) {
			dst = append(dst, Move{Kind: CastleShort, From: from, To: from + 2})
		}
		if p.gflags.CanCastleLong(White) && p.sq[sqA1] == WRook &&
			p.sq[from-1] == Empty && p.sq[from-2] == Empty && p.sq[from-3] == Empty &&
			!p.IsAttacked(from-1, opp) && !p.IsAttacked(from-2, opp) {
			dst = append(dst, Move{Kind: CastleLong, From: from, To: from - 2})
		}
		return dst
	}

	if p.gflags.CanCastleShort(Black) && p.sq[sqH8] == BRook &&
		p.sq[from+1] == Empty && p.sq[from+2] == Empty &&
		!p.IsAttacked(from+1, opp) && !p.IsAttacked(from+2, opp) {
		dst = append(dst, Move{Kind: CastleShort, From: from, To: from + 2})
	}
	if p.gflags.CanCastleLong(Black) && p.sq[sqA8] == BRook &&
		p.sq[from-1] == Empty && p.sq[from-2] == Empty && p.sq[from-3] == Empty &&
		!p.IsAttacked(from-1, opp) && !p.IsAttacked(from-2, opp) {
		dst = append(dst, Move{Kind: CastleLong, From: from, To: from - 2})
	}
	return dst
}

// CheckMoveLegality re-validates a move decoded from a compressed
// transposition-table entry against the current position: the TT key
// collision rate is low but nonzero, and a stale or colliding entry can
// otherwise hand back a move that doesn't belong to this position at all.
// En-passant moves are additionally required to actually move a pawn of the
// right color from a file adjacent to the target (SPEC_FULL.md §9 Open
// Question: tightened over a bare "does squares line up" check).
func (p *Position) CheckMoveLegality(m Move) bool {
	if m.IsNull() || !m.From.IsOnBoard() || !m.To.IsOnBoard() {
		return false
	}
	us := p.turn
	mover := p.sq[m.From]
	if !mover.IsPiece() || mover.Color() != us {
		return false
	}
	target := p.sq[m.To]
	if target.IsPiece() && target.Color() == us {
		return false
	}

	switch m.Kind {
	case CastleShort, CastleLong:
		if mover.Type() != King {
			return false
		}
	case Promotion:
		if mover.Type() != Pawn {
			return false
		}
		if m.Promotion < Knight || m.Promotion > Queen {
			return false
		}
	case PawnMove:
		if mover.Type() != Pawn {
			return false
		}
		if target == Empty && m.To == p.epSq && p.epSq != 0 {
			fromFile := m.From.ToSquare().File()
			toFile := m.To.ToSquare().File()
			if abs(int(fromFile)-int(toFile)) != 1 {
				return false
			}
		}
	case PieceMove:
		if mover.Type() == Pawn {
			return false
		}
	}

	var buf [64]Move
	candidates := p.GenerateMoves(buf[:0])
	for _, c := range candidates {
		if c.From == m.From && c.To == m.To && c.Kind == m.Kind && (m.Kind != Promotion || c.Promotion == m.Promotion) {
			return true
		}
	}
	return false
}
