//go:build windows

package tablebase

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mmapOpen memory-maps path read-only on Windows, mirroring the original's
// CreateFileMapping/MapViewOfFile path under #ifdef _WIN32.
func mmapOpen(path string) (*fileMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, ErrCorrupt
	}

	h := windows.Handle(f.Fd())
	mapping, err := windows.CreateFileMapping(h, nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, err
	}

	addr, err := windows.MapViewOfFile(mapping, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))

	return &fileMapping{
		data: data,
		closeFn: func() error {
			err := windows.UnmapViewOfFile(addr)
			windows.CloseHandle(mapping)
			return err
		},
	}, nil
}
