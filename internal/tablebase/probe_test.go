package tablebase

import (
	"testing"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

func TestHasRepeatedDetectsSameHashTwoPliesBack(t *testing.T) {
	history := []uint64{0x1, 0x2, 0x1}
	if !hasRepeated(history, 10, 3) {
		t.Error("hasRepeated should find the repeated hash 2 plies back")
	}
}

func TestHasRepeatedNoRepetition(t *testing.T) {
	history := []uint64{0x1, 0x2, 0x3}
	if hasRepeated(history, 10, 3) {
		t.Error("hasRepeated should not fire when no hash repeats")
	}
}

func TestHasRepeatedRespectsRule50Bound(t *testing.T) {
	history := []uint64{0x1, 0x2, 0x1}
	if hasRepeated(history, 1, 3) {
		t.Error("hasRepeated should not look past the rule50 bound")
	}
}

func TestDtzSignToWDL(t *testing.T) {
	cases := []struct {
		v    int
		want WDL
	}{
		{150, WDLCursedWin},
		{10, WDLWin},
		{0, WDLDraw},
		{-10, WDLLoss},
		{-150, WDLBlessedLoss},
	}
	for _, c := range cases {
		if got := dtzSignToWDL(c.v); got != c.want {
			t.Errorf("dtzSignToWDL(%d) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestAbs(t *testing.T) {
	if abs(-5) != 5 {
		t.Error("abs(-5) should be 5")
	}
	if abs(5) != 5 {
		t.Error("abs(5) should be 5")
	}
	if abs(0) != 0 {
		t.Error("abs(0) should be 0")
	}
}

func TestRemapDTZUnmappedDoublesPlies(t *testing.T) {
	b := &dtzBucket{flags: 0}
	got := remapDTZ(b, 4, 1) // cursed win: always doubled
	if got != 8 {
		t.Errorf("remapDTZ(unmapped, raw=4, cursed win) = %d, want 8", got)
	}
}

func TestRemapDTZWinPliesBitSkipsDoubling(t *testing.T) {
	b := &dtzBucket{flags: dtzFlagWinPlies}
	got := remapDTZ(b, 4, 2) // plain win, WinPlies set: stored value is already plies
	if got != 4 {
		t.Errorf("remapDTZ(WinPlies set, raw=4, win) = %d, want 4", got)
	}
}

func TestInitAndMaxCardinality(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init(\"\") failed: %v", err)
	}
	if MaxCardinality() != TBPieces {
		t.Errorf("MaxCardinality() = %d, want %d", MaxCardinality(), TBPieces)
	}
}

func TestProbeWDLUnavailableWithoutInit(t *testing.T) {
	global.mu.Lock()
	global.reg = nil
	global.mu.Unlock()

	pos := board.NewPosition()
	_, status := ProbeWDL(pos)
	if status != statusUnavailable {
		t.Errorf("ProbeWDL with no registry = %v, want statusUnavailable", status)
	}
}

func TestReconstructWinningDTZShortCircuitsOnUnavailableRegistry(t *testing.T) {
	global.mu.Lock()
	global.reg = nil
	global.mu.Unlock()

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/3QK3/8 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	_, status := reconstructWinningDTZ(pos)
	if status != statusUnavailable {
		t.Errorf("reconstructWinningDTZ with no registry = %v, want statusUnavailable", status)
	}
}

func TestReconstructLosingDTZShortCircuitsOnUnavailableRegistry(t *testing.T) {
	global.mu.Lock()
	global.reg = nil
	global.mu.Unlock()

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/3QK3/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	_, status := reconstructLosingDTZ(pos, -2)
	if status != statusUnavailable {
		t.Errorf("reconstructLosingDTZ with no registry = %v, want statusUnavailable", status)
	}
}
