// Package kpk answers King+Pawn vs King win/draw queries. The original
// engine consults a compiled ~24K-entry table generated by backward
// retrograde analysis; reproducing that table is out of scope here (see
// SPEC_FULL.md), so this package exposes the same probe contract backed by
// a rule-of-the-square approximation, good enough to steer search pruning
// even though it is not bitwise-exact on every square.
package kpk

import "github.com/herohde/ct800uci/pkg/board"

// Prober answers whether White, holding the lone pawn, wins a KPK ending
// with side to move.
type Prober interface {
	Probe(side board.Color, wKing, wPawn, bKing board.Square) bool
}

// Stub implements Prober with the rule of the square plus the standard
// "king must stand in front of its own pawn, or the opposing king is too
// far, or it's a rook-pawn draw" heuristics. It assumes White has the
// extra pawn; callers with Black's extra pawn should mirror ranks/files
// before calling and negate the caller-side argument.
type Stub struct{}

// Probe reports whether White, holding the pawn, wins the K+P vs K ending
// with side to move.
func (Stub) Probe(side board.Color, wKing, wPawn, bKing board.Square) bool {
	if wPawn.File() == board.FileA || wPawn.File() == board.FileH {
		return rookPawnWins(wKing, wPawn, bKing)
	}
	return ruleOfTheSquare(side, wPawn, bKing) && kingSupports(wKing, wPawn)
}

// ruleOfTheSquare reports whether the defending king is too far to catch
// the pawn before it queens, counting the side to move's extra tempo.
func ruleOfTheSquare(side board.Color, wPawn, bKing board.Square) bool {
	promoRank := board.Rank8
	distToPromo := int(promoRank) - int(wPawn.Rank())

	kingDist := chebyshev(bKing, board.NewSquare(wPawn.File(), promoRank))
	if side == board.Black {
		kingDist--
	}
	return kingDist > distToPromo
}

// kingSupports reports whether the attacking king is close enough to shield
// and escort the pawn -- a coarse stand-in for the table's exact
// know-how of opposition and key squares.
func kingSupports(wKing, wPawn board.Square) bool {
	return chebyshev(wKing, wPawn) <= 2
}

// rookPawnWins handles the well known a/h-file special case: these are
// drawn whenever the defending king reaches the queening corner, regardless
// of the rule of the square.
func rookPawnWins(wKing, wPawn, bKing board.Square) bool {
	corner := board.NewSquare(wPawn.File(), board.Rank8)
	return chebyshev(bKing, corner) > 1 && kingSupports(wKing, wPawn)
}

func chebyshev(a, b board.Square) int {
	df := int(a.File()) - int(b.File())
	dr := int(a.Rank()) - int(b.Rank())
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}
