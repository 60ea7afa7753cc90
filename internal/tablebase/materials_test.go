package tablebase

import (
	"testing"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

func TestMaterialNameKvK(t *testing.T) {
	var counts [2][6]int
	counts[0][board.King] = 1
	counts[1][board.King] = 1
	if got := materialName(counts); got != "KvK" {
		t.Errorf("materialName(KvK) = %q, want %q", got, "KvK")
	}
}

func TestMaterialNameKQvKR(t *testing.T) {
	var counts [2][6]int
	counts[0][board.King] = 1
	counts[0][board.Queen] = 1
	counts[1][board.King] = 1
	counts[1][board.Rook] = 1
	if got := materialName(counts); got != "KQvKR" {
		t.Errorf("materialName(KQvKR) = %q, want %q", got, "KQvKR")
	}
}

func TestEnumerateMaterialCombinationsRegistersKvK(t *testing.T) {
	reg := newRegistry()
	enumerateMaterialCombinations(reg)

	var counts [2][6]int
	counts[0][board.King] = 1
	counts[1][board.King] = 1
	key := board.MaterialKeyForCounts(counts)

	e, ok := reg.wdlByKey[key]
	if !ok {
		t.Fatal("KvK material key not registered")
	}
	if e.pieceCount != 2 {
		t.Errorf("KvK pieceCount = %d, want 2", e.pieceCount)
	}
}

func TestEnumerateMaterialCombinationsRespectsCardinality(t *testing.T) {
	reg := newRegistry()
	enumerateMaterialCombinations(reg)

	for _, e := range reg.wdlByKey {
		if e.pieceCount > TBPieces {
			t.Errorf("registered entry with pieceCount %d > TBPieces %d", e.pieceCount, TBPieces)
		}
	}
	if reg.maxCard != TBPieces {
		t.Errorf("maxCard = %d, want %d", reg.maxCard, TBPieces)
	}
}
