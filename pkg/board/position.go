// Package board implements the 10x12 mailbox board representation, move
// generation, attack detection and incremental Zobrist hashing described in
// SPEC_FULL.md §3-§4.1-4.3.
package board

import (
	"fmt"
	"strings"
)

// Special tags the kind of a played move for fast unmake dispatch, per
// spec.md §3's ply-stack "special" tag.
type Special uint8

const (
	NormalSpecial Special = iota
	CastleSpecial
	PromotionSpecial
	EnPassantSpecial
)

// Placement places a piece on a square, the shape FEN decoding produces.
type Placement struct {
	Square Square
	Color  Color
	Type   PieceType
}

// Castling is the FEN-level castling-rights nibble (K,Q,k,q).
type Castling uint8

const (
	WhiteKingSide Castling = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

// state is one ply-stack entry: everything needed to reverse a single
// make_move, stored explicitly rather than reconstructed by re-traversing
// the piece list (spec.md §9's explicit guidance on the capture-relink Open
// Question).
type state struct {
	move     Move
	special  Special
	hash     ZobristHash
	pawnHash ZobristHash
	epSq     Sq120
	gflags   GFlags
	halfmove int

	capturedSlot       int8 // -1 if no capture
	capturedColor      Color
	capturedKind       Kind
	capturedSq         Sq120
	capturedPrev, capturedNext uint8

	promotedFrom Kind // Empty unless this move was a promotion

	materialDelta int // centipawn swing, White-relative, applied to Position.material
}

// Position is the mutable mailbox board: a 10x12 array of occupants, a
// fixed-size per-color piece arena with an intrusive doubly-linked
// occupancy list, incremental Zobrist/pawn hashes and the ply stack that
// makes Make/Retract exact inverses of each other.
type Position struct {
	sq     [NumSq120]Kind
	occIdx [NumSq120]uint8 // arena slot currently on this square; nilSlot if none

	arena [2][maxPiecesPerSide]pieceSlot
	used  [2]uint8 // number of arena slots in use (allocated at setup, never shrinks)
	head  [2]uint8 // head of the occupancy list = the king's slot
	king  [2]Sq120

	turn     Color
	epSq     Sq120 // 0 (off-board) if none
	gflags   GFlags
	halfmove int // plies since last pawn move or capture
	fullmove int

	material int // White-relative centipawn nominal material balance, kings excluded

	zt       *ZobristTable
	hash     ZobristHash
	pawnHash ZobristHash

	stack []state
}

// New builds a position from a placement list, side to move, castling
// rights, en-passant target and move counters -- the shape board/fen
// decoding feeds it (mirrors the teacher's fen.Decode -> board.Position
// handoff).
func New(zt *ZobristTable, placements []Placement, turn Color, castling Castling, ep Square, epOK bool, halfmove, fullmove int) (*Position, error) {
	p := &Position{zt: zt, turn: turn, halfmove: halfmove, fullmove: fullmove}
	for i := range p.sq {
		p.sq[i] = Fence
		p.occIdx[i] = nilSlot
	}
	for r := Rank1; r <= Rank8; r++ {
		for f := FileA; f <= FileH; f++ {
			p.sq[ToSq120(NewSquare(f, r))] = Empty
		}
	}

	hasKing := [2]bool{}
	for _, pl := range placements {
		c := pl.Color
		if p.used[c] >= maxPiecesPerSide {
			return nil, fmt.Errorf("too many %v pieces", c)
		}
		idx := p.used[c]
		p.used[c]++

		sq120 := ToSq120(pl.Square)
		p.arena[c][idx] = pieceSlot{kind: NewKind(c, pl.Type), sq: sq120, prev: nilSlot, next: nilSlot}
		p.sq[sq120] = p.arena[c][idx].kind
		p.occIdx[sq120] = idx

		if pl.Type == King {
			if hasKing[c] {
				return nil, fmt.Errorf("two %v kings", c)
			}
			hasKing[c] = true
			p.head[c] = idx
			p.king[c] = sq120
		}
		p.material += c.Unit() * nominalValue(pl.Type)
	}
	if !hasKing[White] || !hasKing[Black] {
		return nil, fmt.Errorf("missing king")
	}

	// Link each color's list: head is the king, the rest follow in arena order.
	for c := Color(White); c <= Black; c++ {
		prev := uint8(nilSlot)
		// king first
		order := make([]uint8, 0, p.used[c])
		order = append(order, p.head[c])
		for i := uint8(0); i < p.used[c]; i++ {
			if i != p.head[c] {
				order = append(order, i)
			}
		}
		for _, idx := range order {
			p.arena[c][idx].prev = prev
			if prev != nilSlot {
				p.arena[c][prev].next = idx
			}
			prev = idx
		}
		p.arena[c][prev].next = nilSlot
	}

	if !castlingConsistent(castling) {
		// no-op: any combination is structurally valid, kept for clarity.
		_ = castling
	}
	p.gflags = gflagsFromCastling(castling)

	if epOK {
		p.epSq = ToSq120(ep)
	}

	p.hash = p.computeHash()
	p.pawnHash = p.computePawnHash()

	return p, nil
}

func castlingConsistent(c Castling) bool { return true }

func gflagsFromCastling(c Castling) GFlags {
	var g GFlags
	if c&WhiteKingSide == 0 && c&WhiteQueenSide == 0 {
		g |= WKMoved
	} else {
		if c&WhiteKingSide == 0 {
			g |= WRH1Moved
		}
		if c&WhiteQueenSide == 0 {
			g |= WRA1Moved
		}
	}
	if c&BlackKingSide == 0 && c&BlackQueenSide == 0 {
		g |= BKMoved
	} else {
		if c&BlackKingSide == 0 {
			g |= BRH8Moved
		}
		if c&BlackQueenSide == 0 {
			g |= BRA8Moved
		}
	}
	return g
}

func nominalValue(pt PieceType) int {
	switch pt {
	case Pawn:
		return 100
	case Knight, Bishop:
		return 300
	case Rook:
		return 500
	case Queen:
		return 900
	default:
		return 0
	}
}

// Turn returns the side to move.
func (p *Position) Turn() Color { return p.turn }

// Hash returns the incrementally maintained full Zobrist hash.
func (p *Position) Hash() ZobristHash { return p.hash }

// PawnHash returns the incrementally maintained pawn-structure-only hash.
func (p *Position) PawnHash() ZobristHash { return p.pawnHash }

// GFlags returns the current global status flags.
func (p *Position) GFlags() GFlags { return p.gflags }

// HalfmoveClock returns the number of plies since the last pawn move or capture.
func (p *Position) HalfmoveClock() int { return p.halfmove }

// FullMoveNumber returns the current full-move counter.
func (p *Position) FullMoveNumber() int { return p.fullmove }

// EnPassant returns the current en-passant target square, if any.
func (p *Position) EnPassant() (Square, bool) {
	if p.epSq == 0 {
		return 0, false
	}
	return p.epSq.ToSquare(), true
}

// KingSquare returns the mailbox square of the given color's king.
func (p *Position) KingSquare(c Color) Sq120 { return p.king[c] }

// At returns the occupant kind at a mailbox square.
func (p *Position) At(sq Sq120) Kind { return p.sq[sq] }

// Material returns the White-relative nominal material balance in centipawns,
// kings excluded.
func (p *Position) Material() int { return p.material }

// Ply returns the number of moves played so far (stack depth).
func (p *Position) Ply() int { return len(p.stack) }

func (p *Position) computeHash() ZobristHash {
	var h ZobristHash
	for sq120 := Sq120(21); sq120 <= 98; sq120++ {
		if !sq120.IsOnBoard() {
			continue
		}
		k := p.sq[sq120]
		if k.IsPiece() {
			h ^= p.zt.pieceKey(k, sq120.ToSquare(), false)
		}
	}
	h ^= p.zt.castlingKey(p.gflags)
	if p.epSq != 0 {
		h ^= p.zt.epFile[p.epSq.ToSquare().File()]
	}
	if p.turn == Black {
		h ^= p.zt.turn
	}
	return h
}

func (p *Position) computePawnHash() ZobristHash {
	var h ZobristHash
	for sq120 := Sq120(21); sq120 <= 98; sq120++ {
		if !sq120.IsOnBoard() {
			continue
		}
		k := p.sq[sq120]
		if k.IsPiece() && k.Type() == Pawn {
			h ^= p.zt.pieceKey(k, sq120.ToSquare(), true)
		}
	}
	return h
}

func (p *Position) String() string {
	var sb strings.Builder
	for r := Rank8; ; r-- {
		for f := FileA; f <= FileH; f++ {
			sb.WriteString(p.sq[ToSq120(NewSquare(f, r))].String())
		}
		sb.WriteByte('\n')
		if r == Rank1 {
			break
		}
	}
	fmt.Fprintf(&sb, "turn=%v hash=%x\n", p.turn, p.hash)
	return sb.String()
}
