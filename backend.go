package overlaystat

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var errNegativeOffset = errors.New("negative offset")

// backend is the byte stream behind a Store: a file, a memory buffer, or a
// read-only mapping of a file.
type backend interface {
	io.ReaderAt
	io.WriterAt
	Size() (int64, error)
	Sync() error
	Close() error
}

// fileBackend stores slots in a regular file.
type fileBackend struct {
	file *os.File
}

func (b *fileBackend) ReadAt(p []byte, off int64) (int, error)  { return b.file.ReadAt(p, off) }
func (b *fileBackend) WriteAt(p []byte, off int64) (int, error) { return b.file.WriteAt(p, off) }

func (b *fileBackend) Size() (int64, error) {
	fi, err := b.file.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Sync pushes file data (not metadata) to stable storage.
func (b *fileBackend) Sync() error { return unix.Fdatasync(int(b.file.Fd())) }

func (b *fileBackend) Close() error { return b.file.Close() }

// memBackend backs a transient store. It grows on write like a file does.
type memBackend struct {
	buf []byte
}

func (b *memBackend) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if off >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *memBackend) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if end := off + int64(len(p)); end > int64(len(b.buf)) {
		if end > int64(cap(b.buf)) {
			grown := make([]byte, end, max(end, 2*int64(cap(b.buf))))
			copy(grown, b.buf)
			b.buf = grown
		} else {
			b.buf = b.buf[:end]
		}
	}
	return copy(b.buf[off:], p), nil
}

func (b *memBackend) Size() (int64, error) { return int64(len(b.buf)), nil }
func (b *memBackend) Sync() error          { return nil }

func (b *memBackend) Close() error {
	b.buf = nil
	return nil
}
