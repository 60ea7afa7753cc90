package tablebase

import "fmt"

// initWDLEntry memory-maps e's .rtbw file and parses its header into each
// bucket's pairsData, following spec.md §4.3. A missing file is not an
// error here — probeWDLTable treats a nil mapping as "not available"
// (spec.md §7 NotAvailable) rather than surfacing it as a fatal error,
// since a sparse local tablebase directory is an expected deployment.
func initWDLEntry(e *wdlEntry, searchPath []string) error {
	m, err := findAndMap(searchPath, e.name+".rtbw", wdlMagic)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return fmt.Errorf("tablebase: init %s.rtbw: %w", e.name, err)
	}

	c := &cursor{data: m.Payload()}
	flags := c.byte()
	split := flags&flagSplit != 0
	hasPawns := flags&flagHasPawns != 0
	if hasPawns != e.hasPawns {
		m.Close()
		return fmt.Errorf("tablebase: %s.rtbw header disagrees with material key on pawns", e.name)
	}

	if !hasPawns {
		if err := initPawnlessWDL(e, c, split); err != nil {
			m.Close()
			return err
		}
	} else {
		if err := initPawnWDL(e, c, split); err != nil {
			m.Close()
			return err
		}
	}

	e.mapping = m
	return nil
}

func initPawnlessWDL(e *wdlEntry, c *cursor, split bool) error {
	pieceCount := e.pieceCount
	order0, _ := parseOrder(c, false, false)
	side0, side1 := readPieces(c, pieceCount, split)

	buckets := []*wdlBucket{&e.piece[0]}
	if split {
		buckets = append(buckets, &e.piece[1])
	}
	piecesBySide := [][]int{side0, side1}

	for i, b := range buckets {
		copy(b.pd.pieces[:], piecesBySide[i])
		computeNorm(&b.pd, pieceCount, 0, 0)
		b.hasUniquePieces = hasUniqueNonKingPieces(piecesBySide[i][1:pieceCount])
		_ = order0
		computeFactor(&b.pd, pieceCount, false, b.hasUniquePieces, 0)
	}

	for _, b := range buckets {
		if err := setSizes(c, &b.pd); err != nil {
			return err
		}
	}

	return finishTableLayout(c, buckets, pieceCount)
}

func initPawnWDL(e *wdlEntry, c *cursor, split bool) error {
	pieceCount := e.pieceCount
	order0, order1 := parseOrder(c, true, split)
	side0, side1 := readPieces(c, pieceCount, split)
	_ = order0
	_ = order1

	var buckets []*wdlBucket
	piecesBySide := [][]int{side0}
	if split {
		piecesBySide = append(piecesBySide, side1)
	}

	for i := range piecesBySide {
		for file := 0; file < 4; file++ {
			b := &e.pawn[i][file]
			copy(b.pd.pieces[:], piecesBySide[i])
			leadCount := countLeadPawns(piecesBySide[i])
			computeNorm(&b.pd, pieceCount, leadCount, 0)
			computeFactor(&b.pd, pieceCount, true, false, file)
			buckets = append(buckets, b)
		}
	}

	for _, b := range buckets {
		if err := setSizes(c, &b.pd); err != nil {
			return err
		}
	}

	return finishTableLayout(c, buckets, pieceCount)
}

// finishTableLayout reads the shared index_table/size_table/data region
// that follows every bucket's set_sizes header (spec.md §6 file layout).
func finishTableLayout(c *cursor, buckets []*wdlBucket, pieceCount int) error {
	for _, b := range buckets {
		tbSize := combinatorialSize(&b.pd, pieceCount)
		setNumIndices(&b.pd, tbSize)
		b.pd.indexTable = c.take(int(b.pd.numIndices) * 6)
	}
	for _, b := range buckets {
		b.pd.sizeTable = c.take(int(b.pd.numBlocks) * 2)
	}
	c.align(64)
	for _, b := range buckets {
		blockBytes := (1 << b.pd.blockSize) * int(b.pd.realNumBlocks)
		b.pd.data = c.take(blockBytes)
	}
	return nil
}

// combinatorialSize is the total number of encoded positions a bucket
// covers: factor[0] times the leading group's run-length span, matching
// the quantity the encoder (encode.go) produces as its maximum index + 1.
func combinatorialSize(d *pairsData, pieceCount int) uint64 {
	if d.norm[0] == 0 {
		return d.factor[0]
	}
	lead := d.norm[0]
	return d.factor[0] * uint64(Binomial[lead][64-lead])
}

// hasUniqueNonKingPieces reports whether every remaining (non-king, for
// pawnless tables after the first two kings) piece type appears only once,
// which selects the pfactor constant in computeFactor (spec.md §4.3).
func hasUniqueNonKingPieces(pieces []int) bool {
	seen := map[int]bool{}
	for _, p := range pieces {
		t := p & 7
		if seen[t] {
			return false
		}
		seen[t] = true
	}
	return true
}

// countLeadPawns returns how many of pieces are pawns of the leading
// color (the color of pieces[0], which a pawn table lists first), used to
// size the first combinatorial group in a pawn table.
func countLeadPawns(pieces []int) int {
	n := 0
	for _, p := range pieces {
		if p&7 == 1 && p == pieces[0] { // Pawn of the leading color
			n++
		}
	}
	return n
}

// initDTZEntry mirrors initWDLEntry for .rtbz files, additionally parsing
// the per-bucket flags byte and map[] remap table (spec.md §4.3, §4.5).
func initDTZEntry(e *dtzEntry, searchPath []string) error {
	m, err := findAndMap(searchPath, e.name+".rtbz", dtzMagic)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return fmt.Errorf("tablebase: init %s.rtbz: %w", e.name, err)
	}

	c := &cursor{data: m.Payload()}
	headerFlags := c.byte()
	split := headerFlags&flagSplit != 0
	hasPawns := headerFlags&flagHasPawns != 0
	if hasPawns != e.hasPawns {
		m.Close()
		return fmt.Errorf("tablebase: %s.rtbz header disagrees with material key on pawns", e.name)
	}

	pieceCount := e.pieceCount
	var buckets []*dtzBucket

	if !hasPawns {
		parseOrder(c, false, false)
		side0, _ := readPieces(c, pieceCount, false)
		b := &e.piece
		copy(b.pd.pieces[:], side0)
		b.flags = c.byte()
		computeNorm(&b.pd, pieceCount, 0, 0)
		b.hasUniquePieces = hasUniqueNonKingPieces(side0[1:pieceCount])
		computeFactor(&b.pd, pieceCount, false, b.hasUniquePieces, 0)
		buckets = []*dtzBucket{b}
	} else {
		parseOrder(c, true, split)
		side0, _ := readPieces(c, pieceCount, false)
		for file := 0; file < 4; file++ {
			b := &e.pawn[file]
			copy(b.pd.pieces[:], side0)
			b.flags = c.byte()
			leadCount := countLeadPawns(side0)
			computeNorm(&b.pd, pieceCount, leadCount, 0)
			computeFactor(&b.pd, pieceCount, true, false, file)
			buckets = append(buckets, b)
		}
	}

	for _, b := range buckets {
		if err := setSizes(c, &b.pd); err != nil {
			m.Close()
			return err
		}
	}

	for _, b := range buckets {
		if b.flags&dtzFlagMapped != 0 {
			for i := range b.mapIdx {
				b.mapIdx[i] = uint32(c.pos)
				b.mapData = append(b.mapData, c.byte())
			}
		}
	}
	c.align(2)

	pdBuckets := make([]*wdlBucket, len(buckets))
	for i, b := range buckets {
		pdBuckets[i] = &wdlBucket{pd: b.pd}
	}
	if err := finishTableLayout(c, pdBuckets, pieceCount); err != nil {
		m.Close()
		return err
	}
	for i, b := range buckets {
		b.pd = pdBuckets[i].pd
	}

	e.mapping = m
	return nil
}
