package tablebase

import "sync"

// Static combinatorial tables, built once per process (spec.md §2 "Static
// tables and init"). Binomial[k][n] = C(n, k). Flap/Ptwist/Invflap fold the
// board's 8-fold symmetry away from leading-pawn squares. MapA1D1D4 folds
// king positions into the 10-cell A1-D1-D4 triangle; MapB1H1H7 folds a
// second piece's square into the 28-cell B1-H1-H7 triangle for the
// unique-piece branch of the encoder. KKIdx enumerates every legal
// (non-adjacent) king pair once per triangle cell.

const (
	numKKCells = 10 // squares in the folded A1-D1-D4 triangle
)

var (
	Binomial  [6][64]int
	Flap      [2][64]int
	Ptwist    [2][64]int
	Invflap   [2][24]int
	MapA1D1D4 [64]int
	MapB1H1H7 [64]int
	KKIdx     [numKKCells][64]int
	Pawnidx   [6][24]int    // [leadPawnsCnt-1][Flap value]
	Pfactor   [6][4]int     // [norm0-1][file]

	tablesOnce sync.Once
)

// invTriangle maps a triangle cell (0..9) back to its canonical square, the
// inverse of MapA1D1D4 restricted to the triangle's representative squares.
var invTriangle = [numKKCells]int{0, 1, 2, 3, 9, 10, 11, 18, 19, 27}

// flapTable and its pawn-vs-pawnless variants, piece/pawn ordering tables
// from the file format (spec.md §9 Flap/Ptwist/Invflap).
var flapTable = [2][64]int{
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 6, 12, 18, 18, 12, 6, 0,
		1, 7, 13, 19, 19, 13, 7, 1,
		2, 8, 14, 20, 20, 14, 8, 2,
		3, 9, 15, 21, 21, 15, 9, 3,
		4, 10, 16, 22, 22, 16, 10, 4,
		5, 11, 17, 23, 23, 17, 11, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 1, 2, 3, 3, 2, 1, 0,
		4, 5, 6, 7, 7, 6, 5, 4,
		8, 9, 10, 11, 11, 10, 9, 8,
		12, 13, 14, 15, 15, 14, 13, 12,
		16, 17, 18, 19, 19, 18, 17, 16,
		20, 21, 22, 23, 23, 22, 21, 20,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
}

var ptwistTable = [2][64]int{
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		47, 35, 23, 11, 10, 22, 34, 46,
		45, 33, 21, 9, 8, 20, 32, 44,
		43, 31, 19, 7, 6, 18, 30, 42,
		41, 29, 17, 5, 4, 16, 28, 40,
		39, 27, 15, 3, 2, 14, 26, 38,
		37, 25, 13, 1, 0, 12, 24, 36,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		47, 45, 43, 41, 40, 42, 44, 46,
		39, 37, 35, 33, 32, 34, 36, 38,
		31, 29, 27, 25, 24, 26, 28, 30,
		23, 21, 19, 17, 16, 18, 20, 22,
		15, 13, 11, 9, 8, 10, 12, 14,
		7, 5, 3, 1, 0, 2, 4, 6,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
}

var invflapTable = [2][24]int{
	{
		8, 16, 24, 32, 40, 48,
		9, 17, 25, 33, 41, 49,
		10, 18, 26, 34, 42, 50,
		11, 19, 27, 35, 43, 51,
	},
	{
		1, 2, 3, 4, 9, 10, 11, 12,
		17, 18, 19, 20, 25, 26, 27, 28,
		33, 34, 35, 36, 41, 42, 43, 44,
	},
}

func initTables() {
	tablesOnce.Do(func() {
		initBinomial()
		Flap = flapTable
		Ptwist = ptwistTable
		Invflap = invflapTable
		initTriangles()
		initKKIdx()
		initPawnTables()
	})
}

func initBinomial() {
	for k := 0; k < 6; k++ {
		for n := 0; n < 64; n++ {
			Binomial[k][n] = binomialCoeff(n, k)
		}
	}
}

func binomialCoeff(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// initTriangles folds the board into the A1-D1-D4 triangle (10 cells, used
// for the first king) and the B1-H1-H7 triangle (28 cells, used for the
// unique-piece adjustment branch). Squares outside each triangle fold in by
// the board's diagonal/vertical/horizontal symmetries before lookup — the
// encoder (encode.go) is responsible for applying those flips first, so
// MapA1D1D4/MapB1H1H7 only need to cover the folded region itself plus a
// direct identity elsewhere in the remaining combinatorial computation.
func initTriangles() {
	for sq := 0; sq < 64; sq++ {
		MapA1D1D4[sq] = -1
		MapB1H1H7[sq] = -1
	}

	// A1-D1-D4 triangle: rank in [0,3], rank <= file <= 3, numbered rank by
	// rank in the same order as invTriangle.
	cell := 0
	for rank := 0; rank < 4; rank++ {
		for file := rank; file < 4; file++ {
			MapA1D1D4[rank*8+file] = cell
			cell++
		}
	}

	// B1-H1-H7 triangle: file in [1,7], rank in [0,6], file >= rank+1,
	// i.e. strictly below the main diagonal in the B..H / 1..7 quadrant.
	cell = 0
	for rank := 0; rank < 7; rank++ {
		for file := 1; file < 8; file++ {
			if file > rank {
				MapB1H1H7[rank*8+file] = cell
				cell++
			}
		}
	}
}

// initKKIdx builds the legal-king-pair index: for each of the 10 triangle
// cells (the first king's folded square) and every square of the second
// king, assigns a sequential index, skipping squares where the two kings
// would be adjacent or coincide.
func initKKIdx() {
	for cell := 0; cell < numKKCells; cell++ {
		for sq := 0; sq < 64; sq++ {
			KKIdx[cell][sq] = -1
		}
	}

	for cell := 0; cell < numKKCells; cell++ {
		king0 := invTriangle[cell]
		idx := 0
		for king1 := 0; king1 < 64; king1++ {
			if king1 == king0 || kingsAdjacent(king0, king1) {
				continue
			}
			KKIdx[cell][king1] = idx
			idx++
		}
	}
}

func kingsAdjacent(a, b int) bool {
	fa, ra := a%8, a/8
	fb, rb := b%8, b/8
	df, dr := fa-fb, ra-rb
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	return df <= 1 && dr <= 1
}

// initPawnTables builds Pawnidx (the base index contributed by the leading
// pawn group, keyed by how many lead pawns and the lead square's Flap
// value) and Pfactor (the multiplier for the leading pawn group in a pawn
// table's factor[] array, keyed by its run-length and file).
func initPawnTables() {
	for leadCount := 1; leadCount <= 6; leadCount++ {
		for f := 0; f < 4; f++ {
			s := 0
			for j := 6 * f; j < 6*f+6; j++ {
				Pawnidx[leadCount-1][j] = s
				s += Binomial[leadCount-1][Ptwist[0][Invflap[0][j]]]
			}
			Pfactor[leadCount-1][f] = s
		}
	}
}
