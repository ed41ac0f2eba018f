package eval

import (
	"github.com/herohde/ct800uci/pkg/board"
	"github.com/herohde/ct800uci/pkg/tt"
)

// Result is a full static evaluation: the headline score plus the auxiliary
// signals the search uses for endgame-specific pruning and extension
// decisions (draw detection, passed-pawn race extensions).
type Result struct {
	Score Score // from the perspective of the side to move

	// MaterialEnough is a monotone-increasing ordinal of the side to move's
	// own non-king material (minor=1, rook=2, queen=4 per piece), zeroed out
	// for the dead-draw shapes (bare kings, K+N vs K, K+B vs K) that can
	// never force checkmate. The search allows null-move pruning only when
	// this value clears NullMovePieces, and reverse futility pruning only
	// when it is nonzero.
	MaterialEnough int32

	// EndGame reports whether both sides are below the "opening/middlegame"
	// non-pawn-material threshold, selecting the endgame PSQT tables and
	// enabling the passed-pawn race extension.
	EndGame bool

	// WhitePassedFiles/BlackPassedFiles are file bitmasks (bit 0 = a-file)
	// of each side's passed pawns, feeding the search's passed-pawn race
	// extension.
	WhitePassedFiles, BlackPassedFiles uint8
}

// NullMovePieces is the MaterialEnough threshold a side must clear before
// null-move pruning is allowed on its behalf (the original's NULL_PIECES).
const NullMovePieces = 6

// Evaluator is a static position evaluator. pawnTT and rooks may be nil, in
// which case implementations fall back to computing pawn structure and rook
// file status on every call.
type Evaluator interface {
	Evaluate(pos *board.Position, pawnTT *tt.PawnTable, rooks *tt.RookFileCache) Result
}

// NominalValue is a piece's material value in centipawns. The king is given
// an arbitrary large value so it never factors into material comparisons.
func NominalValue(pt board.PieceType) int32 {
	switch pt {
	case board.Pawn:
		return 100
	case board.Knight, board.Bishop:
		return 300
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 10000
	default:
		return 0
	}
}

// endGameMaterialThreshold is the non-pawn material (in centipawns, one
// side) below which the endgame PSQT tables apply -- roughly a rook and a
// minor piece or less.
const endGameMaterialThreshold = 800

// Material is a bare material-difference evaluator, useful for fast
// move-ordering heuristics and as a sanity baseline.
type Material struct{}

func (Material) Evaluate(pos *board.Position, _ *tt.PawnTable, _ *tt.RookFileCache) Result {
	cp := int32(pos.Turn().Unit()) * int32(pos.Material())
	return Result{Score: HeuristicScore(cp)}
}

// Classic combines material, piece-square tables and a light passed-pawn
// bonus, grounded on the phase-scaled PSQT shape common to simple
// alpha-beta engines (interpolating between opening and endgame tables by
// remaining non-pawn material).
type Classic struct {
	KPK Prober
}

// Prober answers "is this King+Pawn vs King position a win or a draw"
// queries, delegated to the eval/kpk package.
type Prober interface {
	Probe(side board.Color, wKing, wPawn, bKing board.Square) (win bool)
}

// pieceWeight is the MaterialEnough contribution of one piece. With
// NullMovePieces at 6, a queen plus a rook, a queen plus two minors or two
// rooks plus two minors clear it, while a lone queen, a lone rook or a pair
// of minors does not.
func pieceWeight(pt board.PieceType) int32 {
	switch pt {
	case board.Knight, board.Bishop:
		return 1
	case board.Rook:
		return 2
	case board.Queen:
		return 4
	default:
		return 0
	}
}

func (c Classic) Evaluate(pos *board.Position, pawnTT *tt.PawnTable, rooks *tt.RookFileCache) Result {
	us := pos.Turn()

	nonPawn := [2]int32{}
	psqt := [2]int32{}
	ordinal := [2]int32{}
	pawnCount := [2]int{}
	var lonePawnSq board.Square

	fileStatus := fileStatusFor(pos, rooks)

	for color := board.White; color <= board.Black; color++ {
		for sq120 := board.Sq120(21); sq120 <= 98; sq120++ {
			if !sq120.IsOnBoard() {
				continue
			}
			k := pos.At(sq120)
			if !k.IsPiece() || k.Color() != color {
				continue
			}
			pt := k.Type()
			sq := sq120.ToSquare()

			if pt == board.Pawn {
				pawnCount[color]++
				lonePawnSq = sq
				continue // pawn PST and passed-file masks come from the cached pawn structure below
			}

			if pt == board.King {
				continue // king PST needs the final endgame verdict, added below
			}
			nonPawn[color] += NominalValue(pt)
			ordinal[color] += pieceWeight(pt)

			psqt[color] += pieceSquareValue(pt, sq, color, nonPawn[color] <= endGameMaterialThreshold)

			if pt == board.Rook {
				psqt[color] += rookFileBonus(fileStatus[color][sq.File()])
			}
		}
	}

	pawnScore, wPassed, bPassed := pawnStructureFor(pos, pawnTT)

	endgame := nonPawn[board.White] <= endGameMaterialThreshold && nonPawn[board.Black] <= endGameMaterialThreshold
	for color := board.White; color <= board.Black; color++ {
		psqt[color] += pieceSquareValue(board.King, pos.KingSquare(color).ToSquare(), color, endgame)
	}

	cp := int32(pos.Material()) + psqt[board.White] - psqt[board.Black] + pawnScore
	cp *= int32(us.Unit())

	// KPK: exactly one pawn and no other non-king material on the board is
	// the one shape simple enough for a cheap probe to settle outright,
	// overriding the material/PSQT estimate with a hard win/draw verdict.
	if c.KPK != nil && nonPawn[board.White] == 0 && nonPawn[board.Black] == 0 {
		if pawnCount[board.White] == 1 && pawnCount[board.Black] == 0 {
			cp = kpkScore(c.KPK, board.White, us, pos.KingSquare(board.White).ToSquare(), lonePawnSq, pos.KingSquare(board.Black).ToSquare())
		} else if pawnCount[board.Black] == 1 && pawnCount[board.White] == 0 {
			cp = kpkScore(c.KPK, board.Black, us, pos.KingSquare(board.Black).ToSquare(), lonePawnSq, pos.KingSquare(board.White).ToSquare())
		}
	}

	materialEnough := ordinal[us]
	if pawnCount[board.White] == 0 && pawnCount[board.Black] == 0 && ordinal[board.White]+ordinal[board.Black] <= 1 {
		// Bare kings, K+N vs K or K+B vs K: no pawns left to promote and not
		// enough material for either side to force mate.
		materialEnough = 0
	}

	return Result{
		Score:            HeuristicScore(cp),
		MaterialEnough:   materialEnough,
		EndGame:          endgame,
		WhitePassedFiles: wPassed,
		BlackPassedFiles: bPassed,
	}
}

// rookOpenFileBonus/rookSemiOpenFileBonus reward rooks on open files (no
// pawns of either color) or semi-open files (no pawn of the rook's own
// color), the standard cheap proxy for rook activity used by simple
// alpha-beta evaluators.
const (
	rookOpenFileBonus     = 20
	rookSemiOpenFileBonus = 10
)

func rookFileBonus(s tt.FileStatus) int32 {
	switch s {
	case tt.Open:
		return rookOpenFileBonus
	case tt.SemiOpen:
		return rookSemiOpenFileBonus
	default:
		return 0
	}
}

// fileStatusFor returns each file's open/semi-open/closed status for both
// colors, consulting rooks (keyed by the position's pawn hash) before
// falling back to a full recompute.
func fileStatusFor(pos *board.Position, rooks *tt.RookFileCache) [2][8]tt.FileStatus {
	hash := pos.PawnHash()
	if rooks != nil {
		if v, ok := rooks.Get(hash); ok {
			return v
		}
	}

	v := computeFileStatus(pos)
	if rooks != nil {
		rooks.Put(hash, v)
	}
	return v
}

// computeFileStatus scans pawns once to classify every file for both colors.
func computeFileStatus(pos *board.Position) [2][8]tt.FileStatus {
	var hasPawn [2][8]bool

	for sq120 := board.Sq120(21); sq120 <= 98; sq120++ {
		if !sq120.IsOnBoard() {
			continue
		}
		k := pos.At(sq120)
		if !k.IsPiece() || k.Type() != board.Pawn {
			continue
		}
		sq := sq120.ToSquare()
		hasPawn[k.Color()][sq.File()] = true
	}

	var out [2][8]tt.FileStatus
	for f := board.FileA; f <= board.FileH; f++ {
		switch {
		case !hasPawn[board.White][f] && !hasPawn[board.Black][f]:
			out[board.White][f] = tt.Open
			out[board.Black][f] = tt.Open
		default:
			for _, color := range [2]board.Color{board.White, board.Black} {
				if !hasPawn[color][f] {
					out[color][f] = tt.SemiOpen
				} else {
					out[color][f] = tt.Closed
				}
			}
		}
	}
	return out
}

// pawnStructureFor returns the white-relative pawn PST sum and both sides'
// passed-pawn file masks, consulting pawnTT (keyed by Position.PawnHash)
// before falling back to a full recompute.
func pawnStructureFor(pos *board.Position, pawnTT *tt.PawnTable) (int32, uint8, uint8) {
	hash := pos.PawnHash()
	if pawnTT != nil {
		if e, ok := pawnTT.Probe(hash); ok {
			return e.Score, e.WhitePassedFiles, e.BlackPassedFiles
		}
	}

	score, wPassed, bPassed := computePawnStructure(pos)
	if pawnTT != nil {
		pawnTT.Store(tt.PawnEntry{Hash: hash, Score: score, WhitePassedFiles: wPassed, BlackPassedFiles: bPassed})
	}
	return score, wPassed, bPassed
}

// computePawnStructure scans every pawn once, summing the white-relative PST
// value and recording each side's passed-pawn files.
func computePawnStructure(pos *board.Position) (int32, uint8, uint8) {
	var score int32
	wPassed, bPassed := uint8(0), uint8(0)

	for sq120 := board.Sq120(21); sq120 <= 98; sq120++ {
		if !sq120.IsOnBoard() {
			continue
		}
		k := pos.At(sq120)
		if !k.IsPiece() || k.Type() != board.Pawn {
			continue
		}
		color := k.Color()
		sq := sq120.ToSquare()

		v := pieceSquareValue(board.Pawn, sq, color, false)
		if color == board.White {
			score += v
		} else {
			score -= v
		}

		if isPassed(pos, sq, color) {
			file := uint8(1) << uint(sq.File())
			if color == board.White {
				wPassed |= file
			} else {
				bPassed |= file
			}
		}
	}

	return score, wPassed, bPassed
}

// kpkNominal is the pawn-promotion-race bonus/malus applied when the KPK
// prober has the final word: much larger than any PSQT term so it
// dominates, but well short of a real material value so it never looks
// like a queen appeared.
const kpkNominal = 500

// kpkScore asks the prober whether pawnColor wins the King+Pawn vs King
// ending, returning a score from the perspective of us (the side to move).
// Prober assumes White holds the pawn, so a Black-pawn ending is mirrored
// top-to-bottom (rank r -> 7-r) before probing, per its documented contract.
func kpkScore(prober Prober, pawnColor, us board.Color, king, pawn, enemyKing board.Square) int32 {
	side := us // side to move in the mirrored frame, from the pawn side's perspective
	wKing, wPawn, bKing := king, pawn, enemyKing
	if pawnColor == board.Black {
		side = side.Opponent()
		wKing, wPawn, bKing = mirror(king), mirror(pawn), mirror(enemyKing)
	}
	win := prober.Probe(side, wKing, wPawn, bKing)

	cp := int32(10) // a bare, undefended pawn is a small plus even when drawn
	if win {
		cp = kpkNominal
	}
	if pawnColor != us {
		cp = -cp
	}
	return cp
}

// mirror flips a square top-to-bottom (rank r -> 7-r, file unchanged), used
// to reuse the White-pawn-only KPK prober for Black-pawn endings.
func mirror(sq board.Square) board.Square {
	return board.NewSquare(sq.File(), board.Rank(int(board.Rank8)-int(sq.Rank())))
}

// isPassed reports whether the pawn on sq for color has no enemy pawn able
// to stop it: no opposing pawn on its file or the two adjacent files,
// ahead of its rank.
func isPassed(pos *board.Position, sq board.Square, color board.Color) bool {
	file := sq.File()
	rank := sq.Rank()
	enemy := board.NewKind(color.Opponent(), board.Pawn)

	lo, hi := file, file
	if lo > board.FileA {
		lo--
	}
	if hi < board.FileH {
		hi++
	}

	for f := lo; f <= hi; f++ {
		for r := board.Rank1; r <= board.Rank8; r++ {
			ahead := r > rank
			if color == board.Black {
				ahead = r < rank
			}
			if !ahead {
				continue
			}
			if pos.At(board.ToSq120(board.NewSquare(f, r))) == enemy {
				return false
			}
		}
	}
	return true
}
