package tablebase

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no directory on the search path contains the
// requested table file.
var ErrNotFound = errors.New("tablebase: file not found on search path")

// ErrCorrupt is returned when a table file exists but its magic bytes do
// not match the expected format.
var ErrCorrupt = errors.New("tablebase: file has wrong magic bytes")

var (
	wdlMagic = [4]byte{0x71, 0xE8, 0x23, 0x5D}
	dtzMagic = [4]byte{0xD7, 0x66, 0x0C, 0xA5}
)

// fileMapping owns a memory-mapped table file. data includes the 4-byte
// magic; Payload() is everything after it. The mapping must not be closed
// while any PairsData derived from it is still reachable — the registry
// holds WDL mappings for the process lifetime once opened, and closes a DTZ
// mapping when its entry is evicted from the MRU list.
type fileMapping struct {
	data    []byte
	closeFn func() error
}

// Payload returns the mapped bytes past the magic header.
func (m *fileMapping) Payload() []byte {
	return m.data[4:]
}

func (m *fileMapping) Close() error {
	if m.closeFn == nil {
		return nil
	}
	return m.closeFn()
}

// splitSearchPath splits a `:`- or `;`-separated (per filepath.ListSeparator)
// tablebase directory list, dropping empty entries.
func splitSearchPath(paths string) []string {
	if paths == "" {
		return nil
	}
	var dirs []string
	start := 0
	for i := 0; i < len(paths); i++ {
		if paths[i] == filepath.ListSeparator {
			if i > start {
				dirs = append(dirs, paths[start:i])
			}
			start = i + 1
		}
	}
	if start < len(paths) {
		dirs = append(dirs, paths[start:])
	}
	return dirs
}

// findAndMap searches dirs in order for name, memory-maps the first match,
// and validates its magic bytes.
func findAndMap(dirs []string, name string, magic [4]byte) (*fileMapping, error) {
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		m, err := mmapOpen(path)
		if err != nil {
			continue
		}
		if len(m.data) < 4 || [4]byte(m.data[:4]) != magic {
			m.Close()
			return nil, ErrCorrupt
		}
		return m, nil
	}
	return nil, ErrNotFound
}
