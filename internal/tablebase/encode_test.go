package tablebase

import (
	"testing"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

func kqvkContext() (*encodeContext, uint64) {
	var counts [2][6]int
	counts[board.White][board.King] = 1
	counts[board.White][board.Queen] = 1
	counts[board.Black][board.King] = 1
	key := board.MaterialKeyForCounts(counts)

	pd := &pairsData{pieces: [TBPieces]int{6, 14, 5}}
	computeNorm(pd, 3, 0, 0)
	unique := hasUniqueNonKingPieces([]int{5})
	computeFactor(pd, 3, false, unique, 0)

	return &encodeContext{pd: pd, hasPawns: false, symmetric: false, pieceCnt: 3, hasUniquePieces: unique}, key
}

func TestEncodeIndexIsDeterministic(t *testing.T) {
	initTables()
	ctx, key := kqvkContext()

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/3Q4/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	idx1, status1 := encodeIndex(pos, ctx, key)
	idx2, status2 := encodeIndex(pos, ctx, key)

	if status1 != statusOK || status2 != statusOK {
		t.Fatalf("encodeIndex status = %v, %v, want statusOK both times", status1, status2)
	}
	if idx1 != idx2 {
		t.Errorf("encodeIndex is not deterministic: %d != %d", idx1, idx2)
	}
}

func TestEncodeIndexWithinCombinatorialSize(t *testing.T) {
	initTables()
	ctx, key := kqvkContext()

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	idx, status := encodeIndex(pos, ctx, key)
	if status != statusOK {
		t.Fatalf("encodeIndex status = %v, want statusOK", status)
	}

	bound := combinatorialSize(ctx.pd, ctx.pieceCnt)
	if idx >= bound {
		t.Errorf("encoded index %d exceeds the table's combinatorial size %d", idx, bound)
	}
}

func TestBaseIndexNextTracksUniquePieceBranch(t *testing.T) {
	initTables()

	squares := []pieceSquare{{sq: 0, piece: 6}, {sq: 2, piece: 14}, {sq: 40, piece: 5}}
	ctx := &encodeContext{hasPawns: false, hasUniquePieces: true, pieceCnt: 3}
	if _, next := baseIndex(squares, ctx, 0); next != 3 {
		t.Errorf("next = %d, want 3 when the unique-piece branch runs", next)
	}

	squares = []pieceSquare{{sq: 0, piece: 6}, {sq: 2, piece: 14}}
	ctx = &encodeContext{hasPawns: false, hasUniquePieces: false, pieceCnt: 2}
	if _, next := baseIndex(squares, ctx, 0); next != 2 {
		t.Errorf("next = %d, want 2 without a unique third piece", next)
	}
}

func TestCombinatorialEncodeUsesThreadedNext(t *testing.T) {
	initTables()

	// KQRvK: with a unique queen and rook, baseIndex consumes both kings
	// and the queen (next=3), leaving only the rook (index 3) for
	// combinatorialEncode's group loop.
	pd := &pairsData{pieces: [TBPieces]int{6, 14, 5, 4}}
	computeNorm(pd, 4, 0, 0)
	computeFactor(pd, 4, false, true, 0)

	squares := []pieceSquare{{sq: 0, piece: 6}, {sq: 2, piece: 14}, {sq: 40, piece: 5}, {sq: 20, piece: 4}}
	ctx := &encodeContext{pd: pd, hasPawns: false, hasUniquePieces: true, pieceCnt: 4}

	base, next := baseIndex(squares, ctx, 0)
	if next != 3 {
		t.Fatalf("next = %d, want 3", next)
	}

	idx := combinatorialEncode(squares, ctx, next, base)
	// A hardcoded groupStart of 2 (the pre-fix behavior) would fold the
	// queen's square into the group loop a second time instead of
	// starting at the rook.
	wrongIdx := combinatorialEncode(squares, ctx, 2, base)
	if idx == wrongIdx {
		t.Error("combinatorialEncode produced the same index for next=2 and next=3; the threaded next value has no effect")
	}
}

func TestCanonicalizeDiagonalFlipsFromOffDiagonalIndexOnward(t *testing.T) {
	initTables()

	squares := []pieceSquare{{sq: 0}, {sq: 17}, {sq: 4}}
	canonicalizeDiagonal(squares, false)

	wantSq1 := ((17 >> 3) | (17 << 3)) & 63
	wantSq2 := ((4 >> 3) | (4 << 3)) & 63
	if squares[1].sq != wantSq1 {
		t.Errorf("squares[1].sq = %d, want %d (flipped)", squares[1].sq, wantSq1)
	}
	if squares[2].sq != wantSq2 {
		t.Errorf("squares[2].sq = %d, want %d (flipped along with squares[1])", squares[2].sq, wantSq2)
	}
}

func TestCanonicalizeDiagonalRespectsTheLeadingGroupBound(t *testing.T) {
	initTables()

	// squares[0], squares[1] sit on the diagonal (skipped); the first
	// off-diagonal square is squares[2], whose index (2) is not below the
	// 2-square bound for a non-unique-piece table, so it must stay put
	// even though it's above the diagonal.
	squares := []pieceSquare{{sq: 0}, {sq: 9}, {sq: 17}}
	orig := squares[2].sq
	canonicalizeDiagonal(squares, false)
	if squares[2].sq != orig {
		t.Errorf("squares[2].sq changed to %d, want unchanged %d (index 2 is outside the bound)", squares[2].sq, orig)
	}
}
