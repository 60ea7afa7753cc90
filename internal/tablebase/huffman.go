package tablebase

// pairsData is the Go analogue of the original's PairsData: everything
// needed to decompress one canonical-Huffman/pair-dictionary stream. Fields
// that point into the mapped file are byte-slice views; base[] and symlen[]
// are owned slices computed once during header parsing (header.go).
type pairsData struct {
	blockSize    uint8 // log2(bytes per block)
	idxBits      uint8
	numIndices   uint64
	numBlocks    uint32
	realNumBlocks uint32
	minLen       int
	maxLen       int

	offset     []byte // u16 LE per code length, [maxLen-minLen+1] entries
	sympat     []byte // 3 bytes per symbol pair
	symlen     []uint8
	base       []uint64 // one per code length in [minLen..maxLen]
	indexTable []byte   // 6 bytes per macro-index
	sizeTable  []byte   // 2 bytes per block
	data       []byte   // 64-byte-aligned compressed blocks

	pieces [TBPieces]int
	factor [TBPieces]uint64
	norm   [TBPieces]int
}

func (d *pairsData) offsetAt(l int) uint16 {
	i := (l - d.minLen) * 2
	return readUint16LE(d.offset[i : i+2])
}

func (d *pairsData) sizeTableAt(block uint32) uint16 {
	return readUint16LE(d.sizeTable[block*2 : block*2+2])
}

func (d *pairsData) indexTableRow(blockidx uint64) (block uint32, litidxCorrection int16) {
	row := d.indexTable[blockidx*6 : blockidx*6+6]
	raw := read48LE(row)
	block = uint32(raw & 0xFFFFFFFF)
	litidxCorrection = int16(raw >> 32)
	return
}

// decompressPairs decodes the byte stored at index idx within d, following
// spec.md §4.2 step by step: split the index into a block and a litidx,
// normalize litidx against the block's size table, decode one
// canonical-Huffman symbol from the block's big-endian code-word stream,
// then expand the symbol's pair dictionary entry until the target leaf is
// reached.
func (d *pairsData) decompressPairs(idx uint64) byte {
	if d.idxBits == 0 {
		// No splitting: the whole stream is block 0.
		return d.decodeLeaf(0, int64(idx))
	}

	blockidx := idx >> d.idxBits
	litidx := int64(idx&((uint64(1)<<d.idxBits)-1)) - int64(1)<<(d.idxBits-1)

	block, correction := d.indexTableRow(blockidx)
	litidx += int64(correction)

	for litidx < 0 {
		block--
		litidx += int64(d.sizeTableAt(block)) + 1
	}
	for litidx > int64(d.sizeTableAt(block)) {
		litidx -= int64(d.sizeTableAt(block)) + 1
		block++
	}

	return d.decodeLeaf(block, litidx)
}

// decodeLeaf walks the code-word stream of the given block until it finds
// the symbol covering litidx, then expands that symbol's pair-dictionary
// entry down to the requested leaf byte.
func (d *pairsData) decodeLeaf(block uint32, litidx int64) byte {
	ptr := uint64(block) << d.blockSize
	code := readUint64BE(d.data[ptr : ptr+8])
	ptr += 8
	bitcnt := 0

	var sym int
	for {
		l := d.minLen
		for l < d.maxLen && code < d.base[l-d.minLen] {
			l++
		}
		sym = int(d.offsetAt(l)) + int((code-d.base[l-d.minLen])>>(64-uint(l)))

		if litidx < int64(d.symlen[sym])+1 {
			break
		}
		litidx -= int64(d.symlen[sym]) + 1
		code <<= uint(l)
		bitcnt += l
		if bitcnt >= 32 {
			bitcnt -= 32
			word := readUint32BE(d.data[ptr : ptr+4])
			ptr += 4
			code |= uint64(word) << uint(bitcnt)
		}
	}

	for d.symlen[sym] != 0 {
		s1, s2 := d.sympatPair(sym)
		if int64(d.symlen[s1]) >= litidx {
			sym = s1
		} else {
			litidx -= int64(d.symlen[s1]) + 1
			sym = s2
		}
	}

	return d.sympat[3*sym]
}

// sympatPair returns the two child symbols packed into the 3 bytes at
// sympat[3*sym:3*sym+3]: s1 is the low 12 bits, s2 the high 12 bits of that
// 24-bit field (byte0 | byte1<<8 | byte2<<16, split at bit 12).
func (d *pairsData) sympatPair(sym int) (s1, s2 int) {
	base := 3 * sym
	b0, b1, b2 := d.sympat[base], d.sympat[base+1], d.sympat[base+2]
	s1 = int(b0) | (int(b1&0x0F) << 8)
	s2 = int(b1>>4) | (int(b2) << 4)
	return
}

// calcSymlen recursively computes symlen[sym] = 0 when the pair's second
// child sentinel is 0xFFF (a leaf), else symlen[s1]+symlen[s2]+1. tmp
// guards against revisiting a symbol mid-recursion (there are no cycles in
// a well-formed file, but corrupt input must not loop forever).
func calcSymlen(d *pairsData, sym int, tmp []bool) {
	if tmp[sym] {
		return
	}
	tmp[sym] = true

	s1, s2 := d.sympatPair(sym)
	if s2 == 0xFFF {
		d.symlen[sym] = 0
		return
	}
	calcSymlen(d, s1, tmp)
	calcSymlen(d, s2, tmp)
	d.symlen[sym] = d.symlen[s1] + d.symlen[s2] + 1
}
