package overlaystat

import "log/slog"

// Options menyediakan opsi konfigurasi untuk Store.
//
//   - SourceSize / OverlaySize: dimensi yang dicap ulang ke setiap record saat migrasi
//   - Version:        versi skema yang ditulis (0 = LatestVersion)
//   - UseMmap:        baca file backup migrasi melalui memory-mapping
//   - SyncWrites:     fdatasync setelah setiap Set / SaveBatch
//   - BufferPoolSize: aktifkan pool buffer slot (0 = nonaktif)
//
// Dimensi tidak divalidasi terhadap isi record yang tersimpan.
type Options struct {
	SourceSize     Size
	OverlaySize    Size
	Version        byte
	UseMmap        bool
	SyncWrites     bool
	BufferPoolSize int
	Logger         *slog.Logger // nil = buang semua log
}

// DefaultOptions mengembalikan konfigurasi default yang digunakan Open.
func DefaultOptions() Options {
	return Options{
		Version:        LatestVersion,
		UseMmap:        true,
		BufferPoolSize: 16,
	}
}
