package tablebase

import "testing"

func TestCursorTakeAndAlign(t *testing.T) {
	c := &cursor{data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	if b := c.byte(); b != 1 {
		t.Fatalf("byte() = %d, want 1", b)
	}
	chunk := c.take(2)
	if len(chunk) != 2 || chunk[0] != 2 || chunk[1] != 3 {
		t.Fatalf("take(2) = %v, want [2 3]", chunk)
	}
	c.align(4)
	if c.pos != 4 {
		t.Fatalf("pos after align(4) = %d, want 4", c.pos)
	}
}

func TestCursorU16LEU32LE(t *testing.T) {
	c := &cursor{data: []byte{0x34, 0x12, 0x78, 0x56, 0x34, 0x12}}
	if got := c.u16le(); got != 0x1234 {
		t.Fatalf("u16le() = %#x, want 0x1234", got)
	}
	if got := c.u32le(); got != 0x12345678 {
		t.Fatalf("u32le() = %#x, want 0x12345678", got)
	}
}

func TestParseOrderPawnless(t *testing.T) {
	c := &cursor{data: []byte{0x3A}}
	order0, order1 := parseOrder(c, false, false)
	if order0 != 0x0A {
		t.Errorf("order0 = %d, want 10", order0)
	}
	if order1 != 0x0F {
		t.Errorf("order1 should be the unused sentinel 0xF for a non-pawn table, got %d", order1)
	}
}

func TestReadPiecesSplit(t *testing.T) {
	c := &cursor{data: []byte{0x91, 0x82}}
	side0, side1 := readPieces(c, 2, true)
	if side0[0] != 1 || side1[0] != 9 {
		t.Errorf("byte 0 split: side0=%d side1=%d, want 1,9", side0[0], side1[0])
	}
	if side0[1] != 2 || side1[1] != 8 {
		t.Errorf("byte 1 split: side0=%d side1=%d, want 2,8", side0[1], side1[1])
	}
}

func TestReadPiecesUnsplit(t *testing.T) {
	c := &cursor{data: []byte{0x05}}
	side0, side1 := readPieces(c, 1, false)
	if side0[0] != 5 || side1[0] != 5 {
		t.Errorf("unsplit read: side0=%d side1=%d, want 5,5", side0[0], side1[0])
	}
}

func TestComputeNormPawnlessKingsGroupTogether(t *testing.T) {
	d := &pairsData{}
	// white K, black K, white Q, white R: pieces 6,14,5,4 (kings lead, same type code)
	copy(d.pieces[:], []int{6, 14, 5, 4})
	computeNorm(d, 4, 0, 0)
	if d.norm[0] != 2 {
		t.Errorf("norm[0] (king pair) = %d, want 2", d.norm[0])
	}
	if d.norm[2] != 1 || d.norm[3] != 1 {
		t.Errorf("norm[2:4] = %v, want [1 1] for the two distinct remaining piece types", d.norm[2:4])
	}
}

func TestComputeNormGroupsDuplicatePieceType(t *testing.T) {
	d := &pairsData{}
	// white K, black K, white R, white R: pieces 6,14,4,4
	copy(d.pieces[:], []int{6, 14, 4, 4})
	computeNorm(d, 4, 0, 0)
	if d.norm[0] != 2 {
		t.Errorf("norm[0] (king pair) = %d, want 2", d.norm[0])
	}
	if d.norm[2] != 2 {
		t.Errorf("norm[2] (rook pair) = %d, want 2", d.norm[2])
	}
}

func TestComputeNormLeadPawns(t *testing.T) {
	d := &pairsData{}
	copy(d.pieces[:], []int{1, 1, 6, 14})
	computeNorm(d, 4, 2, 0)
	if d.norm[0] != 2 {
		t.Errorf("norm[0] (lead pawns) = %d, want 2", d.norm[0])
	}
}

func TestComputeFactorPawnlessUniquePieces(t *testing.T) {
	initTables()
	d := &pairsData{norm: [TBPieces]int{2, 0, 1, 1}}
	computeFactor(d, 4, false, true, 0)
	if d.factor[0] != 31332 {
		t.Errorf("factor[0] = %d, want 31332 for unique non-king pieces", d.factor[0])
	}
	if d.factor[2] == 0 {
		t.Errorf("factor[2] should be assigned a nonzero Binomial multiplier")
	}
}

func TestComputeFactorPawnlessDuplicatePieces(t *testing.T) {
	initTables()
	d := &pairsData{norm: [TBPieces]int{2, 0, 2}}
	computeFactor(d, 4, false, false, 0)
	if d.factor[0] != 462 {
		t.Errorf("factor[0] = %d, want 462 when non-king pieces repeat a type", d.factor[0])
	}
}

func TestSetNumIndices(t *testing.T) {
	d := &pairsData{idxBits: 6}
	setNumIndices(d, 200)
	want := uint64((200 + 63) / 64)
	if d.numIndices != want {
		t.Errorf("numIndices = %d, want %d", d.numIndices, want)
	}
}
