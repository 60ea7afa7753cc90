package tablebase

import (
	"testing"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

func TestAddWDLRegistersBothKeysForAsymmetricMaterial(t *testing.T) {
	reg := newRegistry()
	var counts [2][6]int
	counts[board.White][board.King] = 1
	counts[board.White][board.Rook] = 1
	counts[board.Black][board.King] = 1
	reg.addWDL("KRvK", counts, false)

	if len(reg.wdlByKey) != 2 {
		t.Fatalf("expected 2 registered keys for asymmetric material, got %d", len(reg.wdlByKey))
	}
}

func TestAddWDLSymmetricMaterialRegistersOnce(t *testing.T) {
	reg := newRegistry()
	var counts [2][6]int
	counts[board.White][board.King] = 1
	counts[board.White][board.Rook] = 1
	counts[board.Black][board.King] = 1
	counts[board.Black][board.Rook] = 1
	reg.addWDL("KRvKR", counts, false)

	if len(reg.wdlByKey) != 1 {
		t.Fatalf("expected 1 registered key for symmetric material, got %d", len(reg.wdlByKey))
	}
	for _, e := range reg.wdlByKey {
		if !e.symmetric {
			t.Error("KRvKR should be flagged symmetric")
		}
	}
}

func TestWDLBucketAccessor(t *testing.T) {
	e := &wdlEntry{hasPawns: false}
	e.piece[0].pd.factor[0] = 1
	e.piece[1].pd.factor[0] = 2
	if e.bucket(0, 0).pd.factor[0] != 1 {
		t.Error("bucket(0,_) should return piece[0]")
	}
	if e.bucket(1, 0).pd.factor[0] != 2 {
		t.Error("bucket(1,_) should return piece[1]")
	}

	pe := &wdlEntry{hasPawns: true}
	pe.pawn[1][2].pd.factor[0] = 9
	if pe.bucket(1, 2).pd.factor[0] != 9 {
		t.Error("bucket(stm,file) should index pawn[stm][file] when hasPawns")
	}
}

func TestMRUPromoteEvictsBeyondCap(t *testing.T) {
	r := newRegistry()
	var entries []*dtzEntry
	for i := 0; i < dtzMRUCap+1; i++ {
		e := &dtzEntry{key: uint64(i)}
		entries = append(entries, e)
		r.dtzByKey[e.key] = e
		r.mruPromote(e)
	}

	if len(r.dtzMRU) != dtzMRUCap {
		t.Fatalf("MRU list length = %d, want cap %d", len(r.dtzMRU), dtzMRUCap)
	}
	if _, ok := r.dtzByKey[entries[0].key]; ok {
		t.Error("oldest entry should have been evicted from dtzByKey")
	}
	if r.dtzMRU[0] != entries[len(entries)-1] {
		t.Error("most recently added entry should be at the front of the MRU list")
	}
}

func TestMRUPromoteSpliceToFront(t *testing.T) {
	r := newRegistry()
	a := &dtzEntry{key: 1}
	b := &dtzEntry{key: 2}
	r.mruPromote(a)
	r.mruPromote(b)
	r.mruPromote(a)

	if r.dtzMRU[0] != a {
		t.Error("re-promoting a should move it back to the front")
	}
	if len(r.dtzMRU) != 2 {
		t.Errorf("MRU list length = %d, want 2 (no duplicate entries)", len(r.dtzMRU))
	}
}

func TestEnsureWDLReadyMissingFileIsNotAnError(t *testing.T) {
	r := newRegistry()
	r.searchPath = []string{t.TempDir()}
	e := &wdlEntry{name: "KQvKR", pieceCount: 4}

	if err := r.ensureWDLReady(e); err != nil {
		t.Fatalf("missing table file should not be a hard error, got %v", err)
	}
	if e.mapping != nil {
		t.Error("mapping should remain nil when no file is found")
	}
}
