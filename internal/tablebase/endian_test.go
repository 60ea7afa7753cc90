package tablebase

import "testing"

func TestReadUint16LE(t *testing.T) {
	got := readUint16LE([]byte{0x34, 0x12})
	if got != 0x1234 {
		t.Errorf("readUint16LE = %#x, want 0x1234", got)
	}
}

func TestReadUint32LE(t *testing.T) {
	got := readUint32LE([]byte{0x78, 0x56, 0x34, 0x12})
	if got != 0x12345678 {
		t.Errorf("readUint32LE = %#x, want 0x12345678", got)
	}
}

func TestReadUint64BE(t *testing.T) {
	got := readUint64BE([]byte{0, 0, 0, 0, 0, 0, 0x12, 0x34})
	if got != 0x1234 {
		t.Errorf("readUint64BE = %#x, want 0x1234", got)
	}
}

func TestReadUint32BE(t *testing.T) {
	got := readUint32BE([]byte{0x12, 0x34, 0x56, 0x78})
	if got != 0x12345678 {
		t.Errorf("readUint32BE = %#x, want 0x12345678", got)
	}
}

func TestRead48LE(t *testing.T) {
	// low 32 bits = 0x12345678, high 16 bits = 0x9ABC
	got := read48LE([]byte{0x78, 0x56, 0x34, 0x12, 0xBC, 0x9A})
	if got != 0x9ABC12345678 {
		t.Errorf("read48LE = %#x, want 0x9abc12345678", got)
	}
}
