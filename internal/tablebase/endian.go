package tablebase

// Typed reads of the multi-byte fields the Syzygy file format uses. Per
// spec.md's endianness note: base[] and code words are big-endian; offset,
// index-table, and size-table entries are little-endian. The format never
// guarantees alignment, so every read here is byte-by-byte rather than a
// cast through a pointer of the target width.

func readUint16LE(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func readUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func readUint64BE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func readUint32BE(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// read48LE reads a 6-byte little-endian value (used for index_table rows:
// the low 4 bytes are a block number, the high 2 bytes a litidx correction,
// but both halves are read as one 48-bit little-endian field first).
func read48LE(b []byte) uint64 {
	var v uint64
	for i := 5; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
