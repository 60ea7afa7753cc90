package board

// Material key tables and computation.
//
// Unlike the Zobrist hash in zobrist.go, which is sensitive to square
// placement, the material key only depends on how many pieces of each
// type and color are on the board. Two positions with the same pieces
// on different squares share the same material key; this is exactly the
// property the tablebase registry needs to find the table file for a
// given endgame regardless of where the pieces actually stand.
//
// The table is built the same way zobristPiece is: a fixed-seed PRNG run
// once at init time so keys are reproducible across processes.

// MaxPieceCount bounds the per-(color,type) count levels keyed below.
// Eight of any non-king piece type never occurs in practice, but pawns
// can have up to eight, so this sizes the table for the worst case.
const MaxPieceCount = 8

var materialKeys [2][6][MaxPieceCount]uint64

func init() {
	initMaterialKeys()
}

func initMaterialKeys() {
	rng := newPRNG(0x5A17C0DE5A17C0DE)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for n := 0; n < MaxPieceCount; n++ {
				materialKeys[c][pt][n] = rng.next()
			}
		}
	}
}

// MaterialKey returns a 64-bit signature of the position's piece multiset
// by color. It is invariant to square placement and to any game-state
// field (castling rights, en passant, side to move): only piece counts
// matter. Two positions with mirrored material (e.g. KQvKR and KRvKQ)
// get different keys; a position and its color-flipped mirror with
// identical piece sets on both sides get the same key.
func (p *Position) MaterialKey() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			n := p.Pieces[c][pt].PopCount()
			for i := 0; i < n; i++ {
				key ^= materialKeys[c][pt][i]
			}
		}
	}
	return key
}

// MaterialKeyForCounts computes the material key for a hypothetical piece
// count table without needing a real Position. The registry uses this to
// derive both the white-to-move and black-to-move keys for a material
// combination (e.g. "KQPvKRP") while enumerating tables at init time.
func MaterialKeyForCounts(counts [2][6]int) uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for i := 0; i < counts[c][pt]; i++ {
				key ^= materialKeys[c][pt][i]
			}
		}
	}
	return key
}
