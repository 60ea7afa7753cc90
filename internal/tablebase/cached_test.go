package tablebase

import (
	"testing"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

func TestCachedProberHitRate(t *testing.T) {
	inner := &fixedProber{result: ProbeResult{Found: true, WDL: WDLDraw}}
	cp := NewCachedProber(inner, 1000)

	pos := board.NewPosition()
	cp.Probe(pos) // miss
	cp.Probe(pos) // hit
	cp.Probe(pos) // hit

	if inner.calls != 1 {
		t.Errorf("inner.calls = %d, want 1 (subsequent probes should hit the cache)", inner.calls)
	}
	if rate := cp.HitRate(); rate < 60 {
		t.Errorf("HitRate() = %.1f, want >= 60 after 2 hits of 3 probes", rate)
	}
}

func TestCachedProberClear(t *testing.T) {
	inner := &fixedProber{result: ProbeResult{Found: true, WDL: WDLDraw}}
	cp := NewCachedProber(inner, 1000)
	pos := board.NewPosition()

	cp.Probe(pos)
	cp.Clear()
	cp.Probe(pos)

	if inner.calls != 2 {
		t.Errorf("inner.calls = %d, want 2 (Clear should drop the cached entry)", inner.calls)
	}
}

func TestCachedProberDelegatesMaxPiecesAndAvailable(t *testing.T) {
	inner := &fixedProber{}
	cp := NewCachedProber(inner, 1000)

	if cp.MaxPieces() != inner.MaxPieces() {
		t.Errorf("MaxPieces() = %d, want %d", cp.MaxPieces(), inner.MaxPieces())
	}
	if cp.Available() != inner.Available() {
		t.Error("Available() should delegate to the inner prober")
	}
}
