package overlaystat

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// mmapBackend adalah tampilan read-only dari sebuah file melalui unix.Mmap.
// Dipakai untuk membaca file backup saat migrasi tanpa syscall per slot.
type mmapBackend struct {
	file *os.File
	data []byte // nil bila file kosong
}

func openMmapBackend(path string) (*mmapBackend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	b := &mmapBackend{file: f}
	if fi.Size() > 0 {
		data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("mmap %s: %w", path, err)
		}
		b.data = data
	}
	return b, nil
}

func (b *mmapBackend) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *mmapBackend) WriteAt([]byte, int64) (int, error) { return 0, ErrReadOnly }
func (b *mmapBackend) Size() (int64, error)               { return int64(len(b.data)), nil }
func (b *mmapBackend) Sync() error                        { return nil }

func (b *mmapBackend) Close() error {
	var firstErr error
	if b.data != nil {
		if err := unix.Munmap(b.data); err != nil {
			firstErr = fmt.Errorf("munmap: %w", err)
		}
		b.data = nil
	}
	if err := b.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
