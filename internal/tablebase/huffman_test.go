package tablebase

import "testing"

func TestSympatPairLeaf(t *testing.T) {
	d := &pairsData{sympat: []byte{0x42, 0xF0, 0xFF}}
	s1, s2 := d.sympatPair(0)
	if s1 != 0x42 {
		t.Errorf("s1 = %#x, want 0x42", s1)
	}
	if s2 != 0xFFF {
		t.Errorf("s2 = %#x, want 0xfff (leaf sentinel)", s2)
	}
}

func TestSympatPairInternal(t *testing.T) {
	// s1 = 0x123, s2 = 0x456 packed as byte0=0x23, byte1=(0x6<<4)|0x1, byte2=0x45
	d := &pairsData{sympat: []byte{0x23, 0x61, 0x45}}
	s1, s2 := d.sympatPair(0)
	if s1 != 0x123 {
		t.Errorf("s1 = %#x, want 0x123", s1)
	}
	if s2 != 0x456 {
		t.Errorf("s2 = %#x, want 0x456", s2)
	}
}

func TestCalcSymlenLeaf(t *testing.T) {
	d := &pairsData{sympat: []byte{0x00, 0xF0, 0xFF}}
	d.symlen = make([]uint8, 1)
	tmp := make([]bool, 1)
	calcSymlen(d, 0, tmp)
	if d.symlen[0] != 0 {
		t.Errorf("leaf symlen = %d, want 0", d.symlen[0])
	}
}

func TestCalcSymlenInternal(t *testing.T) {
	// sym 0 -> (sym 1, sym 2), both leaves
	d := &pairsData{sympat: []byte{
		0x01, 0x20, 0x00, // sym0: s1=1, s2=2
		0x00, 0xF0, 0xFF, // sym1: leaf
		0x00, 0xF0, 0xFF, // sym2: leaf
	}}
	d.symlen = make([]uint8, 3)
	tmp := make([]bool, 3)
	calcSymlen(d, 0, tmp)
	if d.symlen[0] != 1 {
		t.Errorf("internal symlen = %d, want 1 (symlen[1]+symlen[2]+1)", d.symlen[0])
	}
}

func TestOffsetAtAndSizeTableAt(t *testing.T) {
	d := &pairsData{
		minLen:    1,
		offset:    []byte{0x00, 0x00, 0x05, 0x00},
		sizeTable: []byte{0x10, 0x00, 0x20, 0x00},
	}
	if got := d.offsetAt(1); got != 0 {
		t.Errorf("offsetAt(1) = %d, want 0", got)
	}
	if got := d.offsetAt(2); got != 5 {
		t.Errorf("offsetAt(2) = %d, want 5", got)
	}
	if got := d.sizeTableAt(1); got != 0x20 {
		t.Errorf("sizeTableAt(1) = %d, want 0x20", got)
	}
}

func TestIndexTableRow(t *testing.T) {
	d := &pairsData{indexTable: []byte{0x78, 0x56, 0x34, 0x12, 0x02, 0x00}}
	block, correction := d.indexTableRow(0)
	if block != 0x12345678 {
		t.Errorf("block = %#x, want 0x12345678", block)
	}
	if correction != 2 {
		t.Errorf("correction = %d, want 2", correction)
	}
}
