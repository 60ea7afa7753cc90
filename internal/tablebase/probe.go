package tablebase

import (
	"sync"

	"github.com/maithanhduyan/tbprobe/internal/board"
)

// engine is the process-wide probing context (spec.md §9 "process-wide
// state... wrapped in a context object owned by the probe API"). A single
// instance is created by Init and reused by every exported function.
type engine struct {
	mu  sync.RWMutex
	reg *registry
}

var global engine

// Init (re)builds the combinatorial tables and registers every material
// combination up to TBPieces, following spec.md §6: idempotent, clears any
// previous registry, and treats an empty path list as "probing disabled."
func Init(paths string) error {
	initTables()

	reg := newRegistry()
	reg.searchPath = splitSearchPath(paths)
	enumerateMaterialCombinations(reg)

	global.mu.Lock()
	global.reg = reg
	global.mu.Unlock()
	return nil
}

// MaxCardinality returns the maximum piece count for which any material
// combination was registered (not necessarily found on disk — lazy init
// happens on first probe).
func MaxCardinality() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	if global.reg == nil {
		return 0
	}
	return global.reg.maxCard
}

func currentRegistry() *registry {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.reg
}

// ProbeWDL returns the WDL verdict for pos from the side-to-move's
// perspective, and the probe's success status (spec.md §7).
func ProbeWDL(pos *board.Position) (WDL, probeStatus) {
	reg := currentRegistry()
	if reg == nil {
		return WDLDraw, statusUnavailable
	}
	return probeWDLTable(reg, pos)
}

func probeWDLTable(reg *registry, pos *board.Position) (WDL, probeStatus) {
	key := pos.MaterialKey()
	e, ok := reg.wdlByKey[key]
	if !ok {
		return WDLDraw, statusUnavailable
	}
	if err := reg.ensureWDLReady(e); err != nil || e.mapping == nil {
		return WDLDraw, statusUnavailable
	}

	stm := int(pos.SideToMove)
	file := 0
	if e.hasPawns {
		file = leadPawnFile(pos)
	}
	bucketStm := stm
	if e.symmetric {
		bucketStm = 0
	}
	b := e.bucket(bucketStm, file)
	ctx := &encodeContext{hasPawns: e.hasPawns, symmetric: e.symmetric, pieceCnt: e.pieceCount, hasUniquePieces: b.hasUniquePieces}
	ctx.pd = &b.pd

	idx, status := encodeIndex(pos, ctx, e.key)
	if status == statusUnavailable {
		return WDLDraw, statusUnavailable
	}

	raw := b.pd.decompressPairs(idx)
	return WDL(int(raw) - 2), statusOK
}

// leadPawnFile picks the A..D file bucket a pawn table uses, per spec.md
// §4.4 step 2: the leading color's pawns sorted by Flap, file of the first.
func leadPawnFile(pos *board.Position) int {
	white := pos.Pieces[board.White][board.Pawn].PopCount()
	black := pos.Pieces[board.Black][board.Pawn].PopCount()
	side := board.White
	if black < white {
		side = board.Black
	}
	bb := pos.Pieces[side][board.Pawn]
	best := -1
	for bb != 0 {
		sq := bb.LSB()
		bb &^= board.SquareBB(sq)
		f := Flap[0][sq]
		if best < 0 || f < best {
			best = f
		}
	}
	if best < 0 {
		return 0
	}
	file := best / 6
	if file > 3 {
		file = 7 - file
	}
	return file
}

// probeAB implements spec.md §4.6 probe_ab: alpha-beta over captures only,
// recursing into the opponent's WDL to find the position's value. Move
// generation uses the host board's legal-move generator directly (no
// separate pinned-piece legality call is needed — see SPEC_FULL.md §4.6).
func probeAB(pos *board.Position, alpha, beta int) (int, probeStatus) {
	moves := pos.GenerateCaptures()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsEnPassant() {
			continue
		}

		undo := pos.MakeMove(m)
		v, status := probeAB(pos, -beta, -alpha)
		pos.UnmakeMove(m, undo)
		if status == statusUnavailable {
			return 0, statusUnavailable
		}
		v = -v
		if v > alpha {
			if v >= beta {
				return v, statusZeroing
			}
			alpha = v
		}
	}

	reg := currentRegistry()
	if reg == nil {
		return 0, statusUnavailable
	}
	wdl, status := probeWDLTable(reg, pos)
	if status == statusUnavailable {
		return 0, statusUnavailable
	}
	v := int(wdl)
	if alpha >= v {
		if alpha > 0 {
			return alpha, statusZeroing
		}
		return alpha, statusOK
	}
	return v, statusOK
}

// ProbeDTZ returns the distance-to-zero ply count for pos per spec.md §6,
// composing the en-passant-aware orchestration of §4.6.
func ProbeDTZ(pos *board.Position) (int, probeStatus) {
	v, status := probeDTZNoEP(pos)
	if status == statusUnavailable {
		return 0, statusUnavailable
	}

	epSq := pos.EnPassant
	if epSq == board.NoSquare {
		return v, status
	}

	moves := pos.GenerateLegalMoves()
	var epMove board.Move
	hasEP := false
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.IsEnPassant() {
			epMove = m
			hasEP = true
			break
		}
	}
	if !hasEP {
		return v, status
	}

	undo := pos.MakeMove(epMove)
	v1raw, status1 := probeWDLTableWrapped(pos)
	pos.UnmakeMove(epMove, undo)

	if status1 == statusUnavailable {
		return v, status
	}
	v1 := -int(v1raw)
	if abs(v1) > abs(v) || moves.Len() == 1 {
		return v1, status1
	}
	return v, status
}

func probeWDLTableWrapped(pos *board.Position) (WDL, probeStatus) {
	reg := currentRegistry()
	if reg == nil {
		return WDLDraw, statusUnavailable
	}
	return probeWDLTable(reg, pos)
}

// probeDTZNoEP implements spec.md §4.6 probe_dtz_no_ep, ignoring
// en-passant captures (ProbeDTZ composes those in separately). When the
// DTZ table itself can't resolve the position — missing file, or present
// but covering only the other side to move — it reconstructs the distance
// by recursing over legal moves instead of giving up (tbprobe.cpp
// probe_dtz_no_ep's fallback, lines 1329-1423).
func probeDTZNoEP(pos *board.Position) (int, probeStatus) {
	wdl, status := probeAB(pos, -2, 2)
	if status == statusUnavailable {
		return 0, statusUnavailable
	}
	if wdl == 0 {
		return 0, statusOK
	}
	if status == statusZeroing {
		if wdl > 0 {
			return 1, statusOK
		}
		return -1, statusOK
	}

	if wdl > 0 {
		v, zstatus, found := probeWinningPawnZeroing(pos, wdl)
		if zstatus == statusUnavailable {
			return 0, statusUnavailable
		}
		if found {
			return v, statusOK
		}
	}

	dtz, tblStatus := probeDTZTableValue(pos, wdl)
	switch tblStatus {
	case statusOK:
		if wdl&1 != 0 { // cursed win / blessed loss: draw under the 50-move rule
			dtz += 100
		}
		if wdl >= 0 {
			return dtz, statusOK
		}
		return -dtz, statusOK
	case statusUnavailable:
		return 0, statusUnavailable
	}

	if wdl > 0 {
		return reconstructWinningDTZ(pos)
	}
	return reconstructLosingDTZ(pos, wdl)
}

// probeDTZTableValue probes the position's own DTZ table. It returns
// statusWrongSide (not statusUnavailable) when the table is missing or
// covers only the other side to move, signalling probeDTZNoEP's caller to
// fall back to the reconstruction search rather than fail outright.
func probeDTZTableValue(pos *board.Position, wdl int) (int, probeStatus) {
	reg := currentRegistry()
	if reg == nil {
		return 0, statusUnavailable
	}
	key := pos.MaterialKey()
	counts := countsFromPosition(pos)
	e := reg.ensureDTZReady(key, materialName(counts), counts, hasAnyPawns(counts))
	if e.mapping == nil {
		return 0, statusWrongSide
	}

	stm := int(pos.SideToMove)
	if !e.hasPawns && (e.bucket(0).flags&dtzFlagSTM != 0) != (stm == 1) && !e.symmetric {
		return 0, statusWrongSide
	}

	file := 0
	if e.hasPawns {
		file = leadPawnFile(pos)
	}
	b := e.bucket(file)
	ctx := &encodeContext{hasPawns: e.hasPawns, symmetric: e.symmetric, pieceCnt: e.pieceCount, hasUniquePieces: b.hasUniquePieces}
	ctx.pd = &b.pd

	idx, encStatus := encodeIndex(pos, ctx, e.key)
	if encStatus == statusUnavailable {
		return 0, statusUnavailable
	}

	raw := b.pd.decompressPairs(idx)
	return remapDTZ(b, raw, wdl) + 1, statusOK
}

// probeWinningPawnZeroing searches pawn non-captures (spec.md §4.6) for a
// move that reaches the same WDL score by a zeroing continuation, letting
// a winning side skip the DTZ table entirely when one exists.
func probeWinningPawnZeroing(pos *board.Position, wdl int) (int, probeStatus, bool) {
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsCapture(pos) || pos.PieceAt(m.From()).Type() != board.Pawn {
			continue
		}

		undo := pos.MakeMove(m)
		v, status := probeAB(pos, -2, -wdl+1)
		pos.UnmakeMove(m, undo)
		if status == statusUnavailable {
			return 0, statusUnavailable, false
		}
		if -v == wdl {
			return 1, statusOK, true
		}
	}
	return 0, statusOK, false
}

// reconstructWinningDTZ recurses over legal non-capturing, non-pawn moves
// and takes the continuation with the smallest positive distance, per
// tbprobe.cpp:1364-1385.
func reconstructWinningDTZ(pos *board.Position) (int, probeStatus) {
	moves := pos.GenerateLegalMoves()
	best := 0
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsCapture(pos) || pos.PieceAt(m.From()).Type() == board.Pawn {
			continue
		}

		undo := pos.MakeMove(m)
		child, status := ProbeDTZ(pos)
		pos.UnmakeMove(m, undo)
		if status == statusUnavailable {
			return 0, statusUnavailable
		}

		v := -child
		if v > 0 && (best == 0 || v+1 < best) {
			best = v + 1
		}
	}
	return best, statusOK
}

// reconstructLosingDTZ recurses over every legal move and takes the
// continuation that delays the loss longest, considering zeroing
// (capturing or pawn) moves directly rather than recursing through them,
// per tbprobe.cpp:1386-1423.
func reconstructLosingDTZ(pos *board.Position, wdl int) (int, probeStatus) {
	moves := pos.GenerateLegalMoves()
	best := 0
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)

		undo := pos.MakeMove(m)
		var v int
		if pos.HalfMoveClock == 0 {
			if wdl == -2 {
				v = -1
			} else {
				opp, status := probeWDLTableWrapped(pos)
				if status == statusUnavailable {
					pos.UnmakeMove(m, undo)
					return 0, statusUnavailable
				}
				if opp == 2 {
					v = 0
				} else {
					v = -101
				}
			}
		} else {
			child, status := ProbeDTZ(pos)
			if status == statusUnavailable {
				pos.UnmakeMove(m, undo)
				return 0, statusUnavailable
			}
			v = -child - 1
		}
		pos.UnmakeMove(m, undo)

		if best == 0 || v < best {
			best = v
		}
	}
	return best, statusOK
}

// remapDTZ applies spec.md §4.5: if the bucket's flags mark the stream
// Mapped, translate raw through map[] (the entry raw places past the offset
// for this WDL category), then double the result unless the matching *Plies
// bit says the stored unit is already plies; cursed wins and blessed losses
// are always doubled.
func remapDTZ(b *dtzBucket, raw byte, wdl int) int {
	value := int(raw)
	wdlMap := [5]int{1, 3, 0, 2, 0}
	if b.flags&dtzFlagMapped != 0 {
		catIdx := wdlMap[wdl+2]
		if i := int(b.mapIdx[catIdx]) + value; i < len(b.mapData) {
			value = int(b.mapData[i])
		}
	}

	cursed := wdl == 1 || wdl == -1
	isWin := wdl > 0
	pliesBit := dtzFlagLossPlies
	if isWin {
		pliesBit = dtzFlagWinPlies
	}
	if cursed || b.flags&byte(pliesBit) == 0 {
		value *= 2
	}
	return value
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func countsFromPosition(pos *board.Position) [2][6]int {
	var counts [2][6]int
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			counts[c][pt] = pos.Pieces[c][pt].PopCount()
		}
	}
	return counts
}

func hasAnyPawns(counts [2][6]int) bool {
	return counts[0][board.Pawn] > 0 || counts[1][board.Pawn] > 0
}

// hasRepeated is a pure predicate over the search stack's hash history,
// independent of any StateInfo linked-list chain: it takes the history as a
// plain slice and the two counters as ints.
func hasRepeated(history []uint64, rule50, pliesFromNull int) bool {
	end := pliesFromNull
	if end > rule50 {
		end = rule50
	}
	if len(history) < 2 || end < 2 {
		return false
	}
	cur := history[len(history)-1]
	for p := 2; p <= end; p += 2 {
		i := len(history) - 1 - p
		if i < 0 {
			break
		}
		if history[i] == cur {
			return true
		}
	}
	return false
}

// RootProbe fills in each root move's DTZ-derived score, per spec.md §4.6.
// It returns false if the DTZ tables could not resolve the position (the
// caller should fall back to RootProbeWDL).
func RootProbe(pos *board.Position, moves []board.Move, history []uint64, rule50 int) ([]RootResult, bool) {
	results := make([]RootResult, 0, len(moves))
	rep := hasRepeated(history, rule50, len(history))

	for _, m := range moves {
		undo := pos.MakeMove(m)
		v, status := probeDTZNoEP(pos)
		pos.UnmakeMove(m, undo)

		if status == statusUnavailable {
			return nil, false
		}
		v = -v
		if v > 0 {
			v++
		} else if v < 0 {
			v--
		}

		results = append(results, RootResult{Found: true, Move: m, DTZ: v, WDL: dtzSignToWDL(v)})
	}

	cnt50 := rule50
	maxDTZ := 100
	if !rep {
		maxDTZ = 99 - cnt50
	}
	filtered := results[:0]
	for _, r := range results {
		if abs(r.DTZ) <= maxDTZ {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		filtered = results
	}
	return filtered, true
}

// RootProbeWDL is the WDL-only fallback root filter used when DTZ tables
// are absent (spec.md §4.6).
func RootProbeWDL(pos *board.Position, moves []board.Move) []RootResult {
	results := make([]RootResult, 0, len(moves))
	for _, m := range moves {
		undo := pos.MakeMove(m)
		wdl, status := probeWDLTableWrapped(pos)
		pos.UnmakeMove(m, undo)

		found := status != statusUnavailable
		results = append(results, RootResult{Found: found, Move: m, WDL: -wdl})
	}
	return results
}

func dtzSignToWDL(v int) WDL {
	switch {
	case v > 100:
		return WDLCursedWin
	case v > 0:
		return WDLWin
	case v == 0:
		return WDLDraw
	case v > -100:
		return WDLLoss
	default:
		return WDLBlessedLoss
	}
}
