// Package fen decodes and encodes Forsyth-Edwards Notation strings into and
// out of board.Position values.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/ct800uci/pkg/board"
)

// Initial is the FEN of the standard chess starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceLetters = map[rune]board.PieceType{
	'p': board.Pawn, 'n': board.Knight, 'b': board.Bishop,
	'r': board.Rook, 'q': board.Queen, 'k': board.King,
}

// Decode parses a FEN string into a Position, using zt for its Zobrist
// hashing. Use board.NewZobristTable(board.DefaultZobristSeed) for a shared
// table across positions that must hash comparably (e.g. transposition
// table lookups).
func Decode(zt *board.ZobristTable, s string) (*board.Position, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen: need at least 4 fields, got %d: %q", len(fields), s)
	}

	placements, err := decodeBoard(fields[0])
	if err != nil {
		return nil, fmt.Errorf("fen: %w", err)
	}

	turn := board.White
	switch fields[1] {
	case "w":
		turn = board.White
	case "b":
		turn = board.Black
	default:
		return nil, fmt.Errorf("fen: invalid side to move %q", fields[1])
	}

	var castling board.Castling
	if fields[2] != "-" {
		for _, r := range fields[2] {
			switch r {
			case 'K':
				castling |= board.WhiteKingSide
			case 'Q':
				castling |= board.WhiteQueenSide
			case 'k':
				castling |= board.BlackKingSide
			case 'q':
				castling |= board.BlackQueenSide
			default:
				return nil, fmt.Errorf("fen: invalid castling rights %q", fields[2])
			}
		}
	}

	var ep board.Square
	epOK := false
	if fields[3] != "-" {
		sq, err := board.ParseSquareStr(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid en-passant square %q: %w", fields[3], err)
		}
		ep, epOK = sq, true
	}

	halfmove, fullmove := 0, 1
	if len(fields) >= 5 {
		if halfmove, err = strconv.Atoi(fields[4]); err != nil {
			return nil, fmt.Errorf("fen: invalid halfmove clock %q", fields[4])
		}
	}
	if len(fields) >= 6 {
		if fullmove, err = strconv.Atoi(fields[5]); err != nil {
			return nil, fmt.Errorf("fen: invalid fullmove number %q", fields[5])
		}
	}

	return board.New(zt, placements, turn, castling, ep, epOK, halfmove, fullmove)
}

func decodeBoard(s string) ([]board.Placement, error) {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("need 8 ranks, got %d: %q", len(ranks), s)
	}

	var placements []board.Placement
	for i, rankStr := range ranks {
		r := board.Rank(7 - i) // FEN lists rank 8 first
		f := board.FileA
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				f += board.File(c - '0')
				continue
			}
			pt, ok := pieceLetters[toLower(c)]
			if !ok {
				return nil, fmt.Errorf("invalid piece letter %q", c)
			}
			color := board.Black
			if c >= 'A' && c <= 'Z' {
				color = board.White
			}
			if f > board.FileH {
				return nil, fmt.Errorf("rank %q overflows the board", rankStr)
			}
			placements = append(placements, board.Placement{
				Square: board.NewSquare(f, r),
				Color:  color,
				Type:   pt,
			})
			f++
		}
	}
	return placements, nil
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Encode renders a Position back into FEN. It is the inverse of Decode,
// move-counter fields included, which Position tracks exactly.
func Encode(pos *board.Position) string {
	var sb strings.Builder

	for i := 0; i < 8; i++ {
		r := board.Rank(7 - i)
		run := 0
		for f := board.FileA; f <= board.FileH; f++ {
			sq120 := board.ToSq120(board.NewSquare(f, r))
			k := pos.At(sq120)
			if k == board.Empty {
				run++
				continue
			}
			if run > 0 {
				sb.WriteString(strconv.Itoa(run))
				run = 0
			}
			sb.WriteString(k.String())
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
		if i != 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.Turn().String())

	sb.WriteByte(' ')
	g := pos.GFlags()
	rights := ""
	if !g.Has(board.WKMoved) {
		if !g.Has(board.WRH1Moved) {
			rights += "K"
		}
		if !g.Has(board.WRA1Moved) {
			rights += "Q"
		}
	}
	if !g.Has(board.BKMoved) {
		if !g.Has(board.BRH8Moved) {
			rights += "k"
		}
		if !g.Has(board.BRA8Moved) {
			rights += "q"
		}
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	if epSq, ok := pos.EnPassant(); ok {
		sb.WriteString(epSq.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", pos.HalfmoveClock(), pos.FullMoveNumber())
	return sb.String()
}
