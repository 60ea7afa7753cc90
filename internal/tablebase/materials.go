package tablebase

import (
	"strings"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

// pieceLetter is the uppercase FEN-style letter for a board.PieceType,
// used to build the "KQvKR"-style table names the original encodes into
// its filenames (spec.md §6).
var pieceLetter = [...]byte{
	board.Pawn:   'P',
	board.Knight: 'N',
	board.Bishop: 'B',
	board.Rook:   'R',
	board.Queen:  'Q',
	board.King:   'K',
}

// materialName builds the "KvK", "KQvKR", "KPPvKN" style name a table file
// is stored under: each side's pieces in descending value order, joined by
// "v", kings always first.
func materialName(counts [2][6]int) string {
	var b strings.Builder
	for side := 0; side < 2; side++ {
		if side == 1 {
			b.WriteByte('v')
		}
		b.WriteByte('K')
		for _, pt := range materialTypes {
			for i := 0; i < counts[side][pt]; i++ {
				b.WriteByte(pieceLetter[pt])
			}
		}
	}
	return b.String()
}

// nonKingCaps bounds how many of each piece type a side may hold while
// enumerating material combinations, matching what can legally occur with
// a full 16-man start (8 pawns, 2 of each minor/rook, 1 queen).
var nonKingCaps = [...]int{board.Pawn: 8, board.Knight: 2, board.Bishop: 2, board.Rook: 2, board.Queen: 1}

// materialTypes is the fill order used by enumerateSide: queen down to
// pawn, matching the descending-value order materialName prints in.
var materialTypes = []board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight, board.Pawn}

// enumerateMaterialCombinations registers every WDL-relevant material key
// with 2..TBPieces total pieces (spec.md §6 "local tables cover up to six
// men"): every way to split each non-king piece count between the two
// sides' type slots.
func enumerateMaterialCombinations(reg *registry) {
	var counts [2][6]int
	counts[0][board.King] = 1
	counts[1][board.King] = 1

	for total := 0; total <= TBPieces-2; total++ {
		for whiteNonKing := 0; whiteNonKing <= total; whiteNonKing++ {
			blackNonKing := total - whiteNonKing
			enumerateSide(reg, counts, 0, 0, whiteNonKing, blackNonKing)
		}
	}
}

// enumerateSide recursively assigns materialTypes[ti:] counts to side,
// then (once side 0 is fully assigned) recurses into side 1 with
// nextRemaining, and finally registers the completed combination.
func enumerateSide(reg *registry, counts [2][6]int, side, ti, remaining, nextRemaining int) {
	if ti == len(materialTypes) {
		if remaining != 0 {
			return
		}
		if side == 0 {
			enumerateSide(reg, counts, 1, 0, nextRemaining, 0)
			return
		}
		registerCombination(reg, counts)
		return
	}

	pt := materialTypes[ti]
	maxN := nonKingCaps[pt]
	if maxN > remaining {
		maxN = remaining
	}
	for n := 0; n <= maxN; n++ {
		counts[side][pt] = n
		enumerateSide(reg, counts, side, ti+1, remaining-n, nextRemaining)
	}
}

func registerCombination(reg *registry, counts [2][6]int) {
	hasPawns := counts[0][board.Pawn] > 0 || counts[1][board.Pawn] > 0
	name := materialName(counts)
	reg.addWDL(name, counts, hasPawns)
}
