package tablebase

import (
	"encoding/json"

	"github.com/maithanhduyan/tbprobe/internal/board"
	"github.com/maithanhduyan/tbprobe/internal/storage"
)

// DiskCachedProber wraps another prober with a persistent, disk-backed
// cache so that a probe performed once (typically a Lichess API round-trip)
// survives process restarts. It is meant to sit below CachedProber's
// in-memory layer: memory cache absorbs repeated probes within a search,
// disk cache absorbs repeated probes across runs.
type DiskCachedProber struct {
	inner Prober
	cache *storage.ProbeCache
}

// NewDiskCachedProber wraps inner with the given disk cache. Ownership of
// cache (including Close) stays with the caller.
func NewDiskCachedProber(inner Prober, cache *storage.ProbeCache) *DiskCachedProber {
	return &DiskCachedProber{inner: inner, cache: cache}
}

type cachedProbeResult struct {
	Found bool `json:"found"`
	WDL   WDL  `json:"wdl"`
	DTZ   int  `json:"dtz"`
}

func (dp *DiskCachedProber) Probe(pos *board.Position) ProbeResult {
	key := cacheKey(pos)

	if raw, found, err := dp.cache.Get(key); err == nil && found {
		var cached cachedProbeResult
		if json.Unmarshal(raw, &cached) == nil {
			return ProbeResult{Found: cached.Found, WDL: cached.WDL, DTZ: cached.DTZ}
		}
	}

	result := dp.inner.Probe(pos)
	if result.Found {
		if raw, err := json.Marshal(cachedProbeResult{Found: result.Found, WDL: result.WDL, DTZ: result.DTZ}); err == nil {
			_ = dp.cache.Put(key, raw)
		}
	}
	return result
}

func (dp *DiskCachedProber) ProbeRoot(pos *board.Position) RootResult {
	return dp.inner.ProbeRoot(pos)
}

func (dp *DiskCachedProber) MaxPieces() int {
	return dp.inner.MaxPieces()
}

func (dp *DiskCachedProber) Available() bool {
	return dp.inner.Available()
}
