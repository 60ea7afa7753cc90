package board

import "testing"

func TestMaterialKeyIgnoresSquarePlacement(t *testing.T) {
	a, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseFEN("k7/8/8/8/4R3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if a.MaterialKey() != b.MaterialKey() {
		t.Error("positions with the same piece multiset on different squares should share a material key")
	}
}

func TestMaterialKeyDiffersOnPieceCount(t *testing.T) {
	a, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseFEN("4k3/8/8/8/8/8/8/RR2K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if a.MaterialKey() == b.MaterialKey() {
		t.Error("KRvK and KRRvK should not share a material key")
	}
}

func TestMaterialKeyForCountsMatchesPosition(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var counts [2][6]int
	counts[White][King] = 1
	counts[White][Rook] = 1
	counts[Black][King] = 1

	if got := MaterialKeyForCounts(counts); got != pos.MaterialKey() {
		t.Errorf("MaterialKeyForCounts(KRvK) = %#x, want %#x", got, pos.MaterialKey())
	}
}

func TestMaterialKeyMirroredSidesDiffer(t *testing.T) {
	var krvk, kvkr [2][6]int
	krvk[White][King], krvk[White][Rook], krvk[Black][King] = 1, 1, 1
	kvkr[White][King], kvkr[Black][King], kvkr[Black][Rook] = 1, 1, 1

	if MaterialKeyForCounts(krvk) == MaterialKeyForCounts(kvkr) {
		t.Error("KRvK and KvKR should have different material keys")
	}
}
