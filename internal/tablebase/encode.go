package tablebase

import (
	"sort"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

// pieceSquare pairs a canonicalized square with the table piece identifier
// (1..6 white P..K, 9..14 black p..k) it must match, mirroring the
// flattened piece list the original walks during encode_piece/encode_pawn.
type pieceSquare struct {
	sq    int
	piece int
}

// encodeContext carries everything encodeIndex needs about the table
// bucket being probed: its expected piece order, norm/factor, whether it
// covers pawns, and (for pawnless tables) whether every non-king piece is
// of a distinct type — this selects baseIndex's unique-piece branch the
// same way entry->hasUniquePieces does in the original.
type encodeContext struct {
	pd              *pairsData
	hasPawns        bool
	symmetric       bool
	pieceCnt        int
	hasUniquePieces bool
}

// encodeIndex implements spec.md §4.4: canonicalize the position against
// the table's expected material and piece order, then fold it down to a
// single combinatorial index. stm is the position's side to move; tableKey
// is the material key the table was registered under (white's view).
func encodeIndex(pos *board.Position, ctx *encodeContext, tableKey uint64) (idx uint64, status probeStatus) {
	stm := int(pos.SideToMove)
	flipColor, flipSquares := 0, 0

	if ctx.symmetric {
		if stm == 1 {
			flipColor, flipSquares = 8, 0o70
		}
		stm = 0
	} else if pos.MaterialKey() != tableKey {
		flipColor, flipSquares = 8, 0o70
		stm = 1 - stm
	}

	squares := collectPieces(pos, flipColor, flipSquares)

	leadPawnsCnt := 0
	if ctx.hasPawns {
		leadPawnsCnt = ctx.pd.norm[0]
		orderLeadPawns(squares, leadPawnsCnt)
		if file0 := squares[0].sq % 8; file0 > 3 {
			flipHorizontal(squares)
		}
	}

	reorderToTableSequence(squares, ctx.pd.pieces[:ctx.pieceCnt], leadPawnsCnt)

	if !ctx.hasPawns {
		if squares[0].sq%8 > 3 {
			flipHorizontal(squares)
		}
		if squares[0].sq/8 > 3 {
			flipVertical(squares)
		}
		canonicalizeDiagonal(squares, ctx.hasUniquePieces)
	}

	var next int
	idx, next = baseIndex(squares, ctx, leadPawnsCnt)
	idx = combinatorialEncode(squares, ctx, next, idx)

	return idx, statusOK
}

// collectPieces walks every piece on the board, applies the color/square
// flips chosen by the symmetry-reduction step, and returns them as
// (square, table-piece-id) pairs.
func collectPieces(pos *board.Position, flipColor, flipSquares int) []pieceSquare {
	var out []pieceSquare
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.LSB()
				bb &^= board.SquareBB(sq)

				flippedSq := int(sq) ^ flipSquares
				id := int(pt) + 1
				flippedColor := int(c)
				if flipColor != 0 {
					flippedColor = 1 - flippedColor
				}
				if flippedColor == 1 {
					id += 8
				}
				out = append(out, pieceSquare{sq: flippedSq, piece: id})
			}
		}
	}
	return out
}

// orderLeadPawns sorts the leading pawn group (the first leadCnt entries
// are assumed, by construction of collectPieces plus the table's piece
// order, to be that color's pawns once reordered) by ascending Flap value.
func orderLeadPawns(squares []pieceSquare, leadCnt int) {
	if leadCnt == 0 || leadCnt > len(squares) {
		return
	}
	group := squares[:leadCnt]
	side := 0
	if leadCnt > 0 && group[0].piece > 8 {
		side = 1
	}
	sort.Slice(group, func(i, j int) bool {
		return Flap[side][group[i].sq] < Flap[side][group[j].sq]
	})
}

func flipHorizontal(squares []pieceSquare) {
	for i := range squares {
		squares[i].sq ^= 0o07
	}
}

func flipVertical(squares []pieceSquare) {
	for i := range squares {
		squares[i].sq ^= 0o70
	}
}

// offA1H8 is the original's off_A1H8: rank - file, zero on the main
// diagonal, positive above it, negative below.
func offA1H8(sq int) int {
	return sq/8 - sq%8
}

// canonicalizeDiagonal finds the first square (scanning the whole piece
// list) not on the a1-h8 diagonal and, if it lies above the diagonal and
// its index is within the leading group (3 squares when every non-king
// piece is of a distinct type, 2 otherwise), flips it and every square
// after it across the diagonal so the leading group ends up below it.
func canonicalizeDiagonal(squares []pieceSquare, hasUniquePieces bool) {
	bound := 2
	if hasUniquePieces {
		bound = 3
	}
	for i := range squares {
		d := offA1H8(squares[i].sq)
		if d == 0 {
			continue
		}
		if d > 0 && i < bound {
			flipDiagonalFrom(squares, i)
		}
		break
	}
}

func flipDiagonalFrom(squares []pieceSquare, from int) {
	for j := from; j < len(squares); j++ {
		sq := squares[j].sq
		squares[j].sq = ((sq >> 3) | (sq << 3)) & 63
	}
}

// reorderToTableSequence aligns squares with the table's expected piece
// order: for each table slot past the lead-pawn group, swap in the first
// still-unplaced matching piece (spec.md §4.4 step 5).
func reorderToTableSequence(squares []pieceSquare, tablePieces []int, start int) {
	for i := start; i < len(tablePieces) && i < len(squares); i++ {
		want := tablePieces[i]
		for j := i; j < len(squares); j++ {
			if squares[j].piece == want {
				squares[i], squares[j] = squares[j], squares[i]
				break
			}
		}
	}
}

// baseIndex computes the leading-group contribution (spec.md §4.4 step 7)
// and reports how many squares it consumed, so combinatorialEncode knows
// where the next group starts. Pawn tables use Pawnidx plus a Ptwist-ranked
// sum over the remaining lead pawns. Pawnless tables whose non-king pieces
// repeat a type just fold the king pair through MapA1D1D4/KKIdx; when every
// non-king piece is of a distinct type, the king pair and the third piece
// are encoded together via one of four piecewise formulas keyed on how
// many of the first three squares sit on the a1-h8 diagonal (the original
// branches on this because MapA1D1D4/MapB1H1H7 only cover one side of the
// diagonal each).
func baseIndex(squares []pieceSquare, ctx *encodeContext, leadPawnsCnt int) (uint64, int) {
	if ctx.hasPawns {
		idx := uint64(Pawnidx[leadPawnsCnt-1][Flap[0][squares[0].sq]])
		for i := 1; i < leadPawnsCnt; i++ {
			idx += uint64(Binomial[i][Ptwist[0][squares[i].sq]])
		}
		return idx, leadPawnsCnt
	}

	if !ctx.hasUniquePieces {
		return uint64(KKIdx[MapA1D1D4[squares[0].sq]][squares[1].sq]), 2
	}

	sq0, sq1, sq2 := squares[0].sq, squares[1].sq, squares[2].sq
	adjust1 := boolToInt(sq1 > sq0)
	adjust2 := boolToInt(sq2 > sq0) + boolToInt(sq2 > sq1)

	var idx int
	switch {
	case offA1H8(sq0) != 0:
		// First piece below the diagonal: MapA1D1D4 folds it into the
		// b1-d1-d3 triangle, leaving 63 squares for the second piece and
		// 62 (adjusted) squares for the third.
		idx = MapA1D1D4[sq0]*63*62 + (sq1-adjust1)*62 + (sq2 - adjust2)
	case offA1H8(sq1) != 0:
		// First piece on the diagonal, second below it: the first
		// piece's rank (0..3) picks one of 4 cells, MapB1H1H7 folds the
		// second into the b1-h1-h7 triangle.
		idx = 6*63*62 + sq0/8*28*62 + MapB1H1H7[sq1]*62 + (sq2 - adjust2)
	case offA1H8(sq2) != 0:
		// First two pieces on the diagonal, third below it.
		idx = 6*63*62 + 4*28*62 + sq0/8*7*28 + (sq1/8-adjust1)*28 + MapB1H1H7[sq2]
	default:
		// All three pieces on the a1-h8 diagonal.
		idx = 6*63*62 + 4*28*62 + 4*7*28 + sq0/8*7*6 + (sq1/8-adjust1)*6 + (sq2/8 - adjust2)
	}

	return uint64(idx), 3
}

// combinatorialEncode implements spec.md §4.4 step 8: multiply the base
// index by factor[0], then for each subsequent run-length group rank that
// group's squares combinatorially and accumulate. next is the table slot
// baseIndex's leading group stopped at (returned alongside its index).
func combinatorialEncode(squares []pieceSquare, ctx *encodeContext, next int, idx uint64) uint64 {
	idx *= ctx.pd.factor[0]

	groupStart := next

	for groupStart < ctx.pieceCnt {
		n := ctx.pd.norm[groupStart]
		if n == 0 {
			break
		}
		group := append([]pieceSquare(nil), squares[groupStart:groupStart+n]...)
		sort.Slice(group, func(i, j int) bool { return group[i].sq < group[j].sq })

		var sum uint64
		for i, ps := range group {
			adjust := 0
			for j := 0; j < groupStart; j++ {
				if ps.sq > squares[j].sq {
					adjust++
				}
			}
			base := ps.sq - adjust
			if ctx.hasPawns {
				base -= 8
			}
			sum += uint64(Binomial[i+1][base])
		}

		idx += sum * ctx.pd.factor[groupStart]
		groupStart += n
	}

	return idx
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
