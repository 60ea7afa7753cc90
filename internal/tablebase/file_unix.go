//go:build !windows

package tablebase

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapOpen memory-maps path read-only on POSIX systems, mirroring the
// original's mmap/close pair guarded by #ifndef _WIN32.
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

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &fileMapping{
		data: data,
		closeFn: func() error {
			return unix.Munmap(data)
		},
	}, nil
}
