package overlaystat

import "sync/atomic"

// Stats menyimpan statistik hit/miss Get dan jumlah migrasi.
// HitRatio dalam persentase (0-100).
type Stats struct {
	Hits       uint64
	Misses     uint64
	HitRatio   float64
	Migrations uint64
}

// GetStats mengambil snapshot statistik tanpa lock berat.
func (s *Store) GetStats() Stats {
	hits := atomic.LoadUint64(&s.statHits)
	misses := atomic.LoadUint64(&s.statMisses)
	total := hits + misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(hits) / float64(total) * 100.0
	}
	return Stats{
		Hits:       hits,
		Misses:     misses,
		HitRatio:   ratio,
		Migrations: atomic.LoadUint64(&s.statMigrations),
	}
}

// ResetStats mengatur ulang penghitung hit/miss.
func (s *Store) ResetStats() {
	atomic.StoreUint64(&s.statHits, 0)
	atomic.StoreUint64(&s.statMisses, 0)
}

// Version mengembalikan versi skema yang ditulis store.
func (s *Store) Version() byte { return s.codec.version }

// SlotSize mengembalikan ukuran satu slot (byte).
func (s *Store) SlotSize() int { return s.codec.size }

// Path mengembalikan path file; kosong untuk store transient.
func (s *Store) Path() string { return s.path }

// Transient melaporkan apakah store hanya hidup di memori.
func (s *Store) Transient() bool { return s.path == "" }

// MigratedFrom mengembalikan versi file sebelum migrasi terakhir, atau 0 bila
// store ini belum pernah memigrasi.
func (s *Store) MigratedFrom() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.migratedFrom
}
