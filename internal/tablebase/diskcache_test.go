package tablebase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maithanhduyan/tbprobe/internal/board"
	"github.com/maithanhduyan/tbprobe/internal/storage"
)

type fixedProber struct {
	result ProbeResult
	calls  int
}

func (f *fixedProber) Probe(pos *board.Position) ProbeResult {
	f.calls++
	return f.result
}
func (f *fixedProber) ProbeRoot(pos *board.Position) RootResult { return RootResult{} }
func (f *fixedProber) MaxPieces() int                           { return 6 }
func (f *fixedProber) Available() bool                          { return true }

func TestDiskCachedProberHitsDiskOnSecondProbe(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tbprobe-diskcache-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	cache, err := storage.OpenProbeCacheAt(filepath.Join(tmpDir, "db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	inner := &fixedProber{result: ProbeResult{Found: true, WDL: WDLWin, DTZ: 5}}
	dp := NewDiskCachedProber(inner, cache)

	pos := board.NewPosition()

	r1 := dp.Probe(pos)
	if !r1.Found || r1.WDL != WDLWin || r1.DTZ != 5 {
		t.Fatalf("first probe = %+v, want Found=true WDL=Win DTZ=5", r1)
	}
	if inner.calls != 1 {
		t.Fatalf("inner.calls after first probe = %d, want 1", inner.calls)
	}

	r2 := dp.Probe(pos)
	if r2 != r1 {
		t.Errorf("second probe = %+v, want %+v (served from disk cache)", r2, r1)
	}
	if inner.calls != 1 {
		t.Errorf("inner.calls after second probe = %d, want 1 (cache hit should skip inner probe)", inner.calls)
	}
}

func TestDiskCachedProberDoesNotCacheMisses(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tbprobe-diskcache-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	cache, err := storage.OpenProbeCacheAt(filepath.Join(tmpDir, "db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	inner := &fixedProber{result: ProbeResult{Found: false}}
	dp := NewDiskCachedProber(inner, cache)
	pos := board.NewPosition()

	dp.Probe(pos)
	dp.Probe(pos)

	if inner.calls != 2 {
		t.Errorf("inner.calls = %d, want 2 (a not-found result should not be cached)", inner.calls)
	}
}
