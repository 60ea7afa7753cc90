package tablebase

import (
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

// CachedProber wraps another prober with a frequency-aware admission cache.
// This reduces calls to a slow backend (network round-trip or disk I/O) for
// frequently probed positions, and unlike a plain map it admits/evicts by
// estimated access frequency rather than insertion order.
type CachedProber struct {
	inner Prober
	cache *ristretto.Cache[uint64, ProbeResult]

	hits, misses atomic.Uint64
}

func (cp *CachedProber) Probe(pos *board.Position) ProbeResult {
	key := cacheKey(pos)

	if result, ok := cp.cache.Get(key); ok {
		cp.hits.Add(1)
		return result
	}
	cp.misses.Add(1)

	result := cp.inner.Probe(pos)
	cp.cache.Set(key, result, 1)
	cp.cache.Wait() // admission runs on a background buffer; wait so the next Get sees it
	return result
}

func (cp *CachedProber) ProbeRoot(pos *board.Position) RootResult {
	// Root probing is not cached: it carries a board.Move, whose legality
	// is tied to the exact position, not just its Zobrist hash.
	return cp.inner.ProbeRoot(pos)
}

func (cp *CachedProber) MaxPieces() int {
	return cp.inner.MaxPieces()
}

func (cp *CachedProber) Available() bool {
	return cp.inner.Available()
}

// HitRate returns the cache hit rate as a percentage.
func (cp *CachedProber) HitRate() float64 {
	hits := cp.hits.Load()
	misses := cp.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Clear drops every cached entry.
func (cp *CachedProber) Clear() {
	cp.cache.Clear()
}

// NewCachedProber creates a cached prober wrapping the given prober.
// cacheSize bounds the number of ProbeResult entries ristretto will admit.
func NewCachedProber(inner Prober, cacheSize int) *CachedProber {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, ProbeResult]{
		NumCounters: int64(cacheSize) * 10,
		MaxCost:     int64(cacheSize),
		BufferItems: 64,
	})
	if err != nil {
		// Config above is static and valid; a failure here means ristretto's
		// invariants changed underneath us, which is a programmer error.
		panic("tablebase: building probe cache: " + err.Error())
	}
	return &CachedProber{inner: inner, cache: cache}
}

// NewCachedLichessProber creates a cached Lichess prober with a default
// cache size large enough to cover a typical search's probe traffic.
func NewCachedLichessProber() *CachedProber {
	return NewCachedProber(NewLichessProber(), 100000)
}

// cacheKey folds the position's Zobrist hash and side to move into a single
// xxhash digest, matching the key scheme internal/storage.ProbeCache uses
// for its on-disk counterpart.
func cacheKey(pos *board.Position) uint64 {
	var buf [9]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(pos.Hash >> (8 * i))
	}
	buf[8] = byte(pos.SideToMove)
	return xxhash.Sum64(buf[:])
}
