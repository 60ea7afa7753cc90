package tablebase

import "fmt"

// Header flag bits (spec.md §6 "File format").
const (
	flagSplit    = 1 << 0
	flagHasPawns = 1 << 1
)

// DTZ per-bucket flag bits (spec.md §3 DTZEntry).
const (
	dtzFlagSTM       = 1 << 0
	dtzFlagMapped    = 1 << 1
	dtzFlagWinPlies  = 1 << 2
	dtzFlagLossPlies = 1 << 3
)

// cursor walks a byte slice, matching the original's raw-pointer-advance
// style while staying bounds-checked.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) byte() byte {
	b := c.data[c.pos]
	c.pos++
	return b
}

func (c *cursor) take(n int) []byte {
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) align(n int) {
	if r := c.pos % n; r != 0 {
		c.pos += n - r
	}
}

func (c *cursor) u16le() uint16 {
	return readUint16LE(c.take(2))
}

func (c *cursor) u32le() uint32 {
	return readUint32LE(c.take(4))
}

// pieceFromByte returns a header piece nibble as a table piece identifier;
// the nibble already is one. Values 1..6 are white P..K, 9..14 are black
// p..k, their positions in pieceToChar.
func pieceFromByte(nibble byte) int {
	return int(nibble)
}

// parseOrder reads the one or two order bytes that name the leading piece
// group (and, for "pawns on both sides" tables, the second pawn group).
func parseOrder(c *cursor, hasPawns bool, bothSidesPawns bool) (order0, order1 int) {
	b := c.byte()
	order0 = int(b & 0x0F)
	order1 = int(b >> 4)
	if !hasPawns || !bothSidesPawns {
		order1 = 0x0F
	}
	return
}

// readPieces reads pieceCount piece bytes. In the split case, each byte's
// low nibble names the white-side-bucket piece and the high nibble the
// black-side-bucket piece; otherwise only the low nibble is used.
func readPieces(c *cursor, pieceCount int, split bool) (side0, side1 []int) {
	side0 = make([]int, pieceCount)
	side1 = make([]int, pieceCount)
	for i := 0; i < pieceCount; i++ {
		b := c.byte()
		side0[i] = pieceFromByte(b & 0x0F)
		if split {
			side1[i] = pieceFromByte(b >> 4)
		} else {
			side1[i] = side0[i]
		}
	}
	return
}

// computeNorm fills norm[] (spec.md §4.3): run-lengths honoring the pawn
// groups first, then maximal runs of identical remaining pieces. pieces[]
// holds piece identifiers (1..6 white, 9..14 black, modulo 8 for type).
func computeNorm(d *pairsData, pieceCount, leadPawnsCnt, pawnGroup2 int) {
	for i := range d.norm {
		d.norm[i] = 0
	}

	i := 0
	if leadPawnsCnt > 0 {
		d.norm[0] = leadPawnsCnt
		i = leadPawnsCnt
		if pawnGroup2 > 0 {
			d.norm[i] = pawnGroup2
			i += pawnGroup2
		}
	}

	for ; i < pieceCount; i += d.norm[i] {
		j := i
		for j < pieceCount && d.pieces[j]&7 == d.pieces[i]&7 {
			j++
		}
		d.norm[i] = j - i
	}
}

// computeFactor fills factor[] per spec.md §4.3: the leading group gets
// pfactor (a pawnless unique-piece constant or Pfactor[norm0-1][file] for
// pawn tables); the secondary pawn group gets Binomial[norm[lead]][48-lead];
// every later group gets Binomial[norm[i]][n] for the remaining free
// squares n.
func computeFactor(d *pairsData, pieceCount int, hasPawns bool, hasUniquePieces bool, file int) {
	const boardSquares = 64

	i := 0
	n := boardSquares
	var pfactor uint64

	if hasPawns {
		lead := d.norm[0]
		pfactor = uint64(Pfactor[lead-1][file])
		i = lead
		n -= lead
		if d.norm[i] > 0 {
			d.factor[i] = uint64(Binomial[d.norm[i]][48-lead])
			n -= d.norm[i]
			i += d.norm[i]
		}
	} else if hasUniquePieces {
		pfactor = 31332
		i = d.norm[0]
		n -= d.norm[0]
	} else {
		pfactor = 462
		i = d.norm[0]
		n -= d.norm[0]
	}
	d.factor[0] = pfactor

	for i < pieceCount {
		d.factor[i] = uint64(Binomial[d.norm[i]][n])
		n -= d.norm[i]
		i += d.norm[i]
	}
}

// setSizes parses the compressed-stream header for one bucket: block size,
// index-bit width, block counts, min/max code length, the offset table,
// the sympat dictionary, and derives base[]/symlen[] per spec.md §3's
// invariant and §4.3's "word-align, then set_sizes" step.
func setSizes(c *cursor, d *pairsData) error {
	c.align(2)

	d.blockSize = c.byte()
	d.idxBits = c.byte()

	realNumBlocks := c.u32le()
	d.realNumBlocks = realNumBlocks
	d.numBlocks = realNumBlocks + uint32(c.byte())

	d.maxLen = int(c.byte())
	d.minLen = int(c.byte())

	numLens := d.maxLen - d.minLen + 1
	if numLens < 1 {
		return fmt.Errorf("tablebase: invalid code length range [%d,%d]", d.minLen, d.maxLen)
	}
	d.offset = c.take(numLens * 2)

	maxSym := int(d.offsetAt(d.maxLen)) // offset table's last entry bounds symbol count
	numSyms := maxSym + 1
	sympatLen := c.u16le()
	d.sympat = c.take(int(sympatLen))
	if numSyms*3 > len(d.sympat) {
		numSyms = len(d.sympat) / 3
	}

	d.symlen = make([]uint8, numSyms)
	tmp := make([]bool, numSyms)
	for sym := 0; sym < numSyms; sym++ {
		calcSymlen(d, sym, tmp)
	}

	d.base = make([]uint64, numLens)
	d.base[numLens-1] = 0
	for l := numLens - 2; l >= 0; l-- {
		o0 := uint64(d.offsetAt(l + d.minLen))
		o1 := uint64(d.offsetAt(l + 1 + d.minLen))
		d.base[l] = (d.base[l+1] + o0 - o1) / 2
	}
	for l := 0; l < numLens; l++ {
		d.base[l] <<= uint(64 - d.minLen - l)
	}

	if sympatLen%2 != 0 {
		c.byte() // padding to even
	}

	// numIndices depends on the bucket's total position count, which the
	// caller derives from factor[0]*norm[0]'s combinatorial size; the
	// registry sets it via setNumIndices once that size is known.
	return nil
}

// setNumIndices records how many macro-index rows cover tbSize positions.
func setNumIndices(d *pairsData, tbSize uint64) {
	d.numIndices = (tbSize + (uint64(1)<<d.idxBits) - 1) >> d.idxBits
}
