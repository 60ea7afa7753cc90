package tablebase

import (
	"sync"
	"sync/atomic"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

// ready-flag states (spec.md §9 "Lazy init with publication").
const (
	stateUninit uint32 = 0
	stateLoading uint32 = 1
	stateReady   uint32 = 2
)

// wdlBucket is one (side-to-move, pawn-file) PairsData slot. Pawnless
// tables use bucket[0] (and bucket[1] if not symmetric); pawn tables use
// all four files.
type wdlBucket struct {
	pd              pairsData
	hasUniquePieces bool
}

// wdlEntry is the Go analogue of WDLEntry (spec.md §3): tagged by hasPawns
// instead of an anonymous union, with two parallel bucket layouts.
type wdlEntry struct {
	mapping   *fileMapping
	key       uint64
	keySwap   uint64
	pieceCount int
	symmetric bool
	hasPawns  bool

	state uint32 // atomic: stateUninit or stateReady (stateLoading is never stored)
	mu    sync.Mutex
	err   error

	// Pawnless: piece[stm]. Pawn: pawn[stm][file].
	piece [2]wdlBucket
	pawn  [2][4]wdlBucket

	name string // e.g. "KQvKR", used to build the filename
}

func (e *wdlEntry) bucket(stm, file int) *wdlBucket {
	if e.hasPawns {
		return &e.pawn[stm][file]
	}
	return &e.piece[stm]
}

// dtzEntry is the Go analogue of DTZEntry: one-sided, with per-bucket flags
// and map[] remap tables (spec.md §3, §4.5).
type dtzEntry struct {
	mapping    *fileMapping
	key        uint64
	pieceCount int
	symmetric  bool
	hasPawns   bool

	state uint32
	mu    sync.Mutex
	err   error

	piece dtzBucket
	pawn  [4]dtzBucket

	name string
}

type dtzBucket struct {
	pd              pairsData
	flags           byte
	mapIdx          [4]uint32
	mapData         []byte
	hasUniquePieces bool
}

func (e *dtzEntry) bucket(file int) *dtzBucket {
	if e.hasPawns {
		return &e.pawn[file]
	}
	return &e.piece
}

// registry holds the process-wide table state. A fresh one is built by
// Init, matching spec.md §9's "process-wide state wrapped in a context
// object, with the global form a single instance created by init."
type registry struct {
	mu          sync.Mutex
	searchPath  []string
	wdlByKey    map[uint64]*wdlEntry
	dtzByKey    map[uint64]*dtzEntry
	dtzMRU      []*dtzEntry // front = most recently used
	maxCard     int
}

const dtzMRUCap = 64

func newRegistry() *registry {
	return &registry{
		wdlByKey: make(map[uint64]*wdlEntry),
		dtzByKey: make(map[uint64]*dtzEntry),
	}
}

// addWDL registers a material combination's WDL entry under both the
// white-to-move and black-to-move material keys (spec.md §3: "two keys per
// table... equal keys indicate symmetric material").
func (r *registry) addWDL(name string, counts [2][6]int, hasPawns bool) {
	var mirrored [2][6]int
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			mirrored[1-c][pt] = counts[c][pt]
		}
	}
	key := board.MaterialKeyForCounts(counts)
	keySwap := board.MaterialKeyForCounts(mirrored)

	e := &wdlEntry{
		key:       key,
		keySwap:   keySwap,
		symmetric: key == keySwap,
		hasPawns:  hasPawns,
		name:      name,
	}
	for pt := board.Pawn; pt <= board.King; pt++ {
		e.pieceCount += counts[0][pt] + counts[1][pt]
	}

	r.wdlByKey[key] = e
	if keySwap != key {
		r.wdlByKey[keySwap] = e
	}
	if e.pieceCount > r.maxCard {
		r.maxCard = e.pieceCount
	}
}

// ensureWDLReady performs (or waits out) lazy init for e, following
// spec.md §5's ordering contract: losers of the mutex race re-check state
// before re-attempting init.
func (r *registry) ensureWDLReady(e *wdlEntry) error {
	if atomic.LoadUint32(&e.state) == stateReady {
		return e.err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if atomic.LoadUint32(&e.state) == stateReady {
		return e.err
	}

	e.err = initWDLEntry(e, r.searchPath)
	atomic.StoreUint32(&e.state, stateReady)
	return e.err
}

// ensureDTZReady mirrors ensureWDLReady for DTZ entries and maintains the
// MRU list: a failed init still promotes the entry to the front with a nil
// mapping (spec.md §9 open question), so later probes for the same
// material short-circuit instead of repeatedly hitting the filesystem.
func (r *registry) ensureDTZReady(key uint64, name string, counts [2][6]int, hasPawns bool) *dtzEntry {
	r.mu.Lock()
	e, ok := r.dtzByKey[key]
	if !ok {
		e = &dtzEntry{key: key, hasPawns: hasPawns, name: name}
		for pt := board.Pawn; pt <= board.King; pt++ {
			e.pieceCount += counts[0][pt] + counts[1][pt]
		}
		r.dtzByKey[key] = e
	}
	r.mruPromote(e)
	r.mu.Unlock()

	if atomic.LoadUint32(&e.state) == stateReady {
		return e
	}

	e.mu.Lock()
	if atomic.LoadUint32(&e.state) != stateReady {
		e.err = initDTZEntry(e, r.searchPath)
		atomic.StoreUint32(&e.state, stateReady)
	}
	e.mu.Unlock()

	return e
}

// mruPromote splices e to the front of the MRU list, evicting the
// least-recently-used entry once the list exceeds dtzMRUCap (spec.md §5,
// §8 "MRU bound").
func (r *registry) mruPromote(e *dtzEntry) {
	for i, cur := range r.dtzMRU {
		if cur == e {
			copy(r.dtzMRU[1:i+1], r.dtzMRU[:i])
			r.dtzMRU[0] = e
			return
		}
	}

	r.dtzMRU = append([]*dtzEntry{e}, r.dtzMRU...)
	if len(r.dtzMRU) > dtzMRUCap {
		evicted := r.dtzMRU[dtzMRUCap]
		r.dtzMRU = r.dtzMRU[:dtzMRUCap]
		if evicted.mapping != nil {
			evicted.mapping.Close()
			evicted.mapping = nil
			atomic.StoreUint32(&evicted.state, stateUninit)
		}
		delete(r.dtzByKey, evicted.key)
	}
}
