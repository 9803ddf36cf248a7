package overlaystat

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store menyimpan hasil alignment overlay per frame dalam slot berukuran tetap.
//
// Slot untuk frame N dimulai pada offset 1 + N*SlotSize; byte pertama file
// adalah versi skema. Semua operasi pada satu Store diserialisasi oleh satu
// mutex dan aman untuk goroutine. Tidak ada koordinasi antar proses.
type Store struct {
	mu       sync.Mutex
	path     string  // "" untuk store transient
	data     backend // file, memori, atau mmap read-only
	codec    codec
	options  Options
	log      *slog.Logger
	readOnly bool
	closed   bool
	bufPool  *sync.Pool // Pool untuk reuse buffer slot

	migratedFrom byte // versi header sebelum migrasi terakhir (0 = tidak ada)

	statHits       uint64
	statMisses     uint64
	statMigrations uint64
}

// Open membuka (atau membuat) stat file dengan opsi default dan versi terbaru.
// Path kosong menghasilkan store transient di memori.
func Open(path string, source, overlay Size) (*Store, error) {
	opts := DefaultOptions()
	opts.SourceSize = source
	opts.OverlaySize = overlay
	return OpenWithOptions(path, opts)
}

// OpenWithOptions membuka store dengan opsi kustom. Header divalidasi segera,
// sehingga file versi lama dimigrasi di sini dan file versi lebih baru
// menghasilkan ErrUnsupportedVersion.
func OpenWithOptions(path string, opts Options) (*Store, error) {
	if opts.Version == 0 {
		opts.Version = LatestVersion
	}
	c, err := newCodec(opts.Version)
	if err != nil {
		return nil, err
	}

	var data backend
	if path == "" {
		data = &memBackend{}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("gagal membuat direktori: %w", err)
		}
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
		if err != nil {
			return nil, fmt.Errorf("open stat file: %w", err)
		}
		data = &fileBackend{file: f}
	}

	s := newStore(path, data, c, opts)
	s.mu.Lock()
	err = s.checkHeader(false)
	s.mu.Unlock()
	if err != nil {
		s.data.Close()
		return nil, err
	}
	return s, nil
}

// OpenReadOnly membuka stat file yang sudah ada tanpa izin tulis, misalnya
// file backup hasil migrasi. opts.Version harus sama dengan header file;
// store read-only tidak pernah memigrasi.
func OpenReadOnly(path string, opts Options) (*Store, error) {
	if opts.Version == 0 {
		opts.Version = LatestVersion
	}
	c, err := newCodec(opts.Version)
	if err != nil {
		return nil, err
	}

	var data backend
	if opts.UseMmap {
		data, err = openMmapBackend(path)
	} else {
		var f *os.File
		f, err = os.Open(path)
		data = &fileBackend{file: f}
	}
	if err != nil {
		return nil, fmt.Errorf("open stat file read-only: %w", err)
	}

	s := newStore(path, data, c, opts)
	s.readOnly = true
	s.mu.Lock()
	err = s.checkHeader(false)
	s.mu.Unlock()
	if err != nil {
		s.data.Close()
		return nil, err
	}
	return s, nil
}

func newStore(path string, data backend, c codec, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Buffer pool
	var pool *sync.Pool
	if opts.BufferPoolSize > 0 {
		size := c.size
		pool = &sync.Pool{New: func() any { return make([]byte, size) }}
	}

	return &Store{
		path:    path,
		data:    data,
		codec:   c,
		options: opts,
		log:     logger.With("stat_file", path, "version", c.version),
		bufPool: pool,
	}
}
