package overlaystat

import (
	"errors"
	"fmt"
)

// Flush memaksa semua data tersimpan ke disk.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.data.Sync(); err != nil {
		return fmt.Errorf("gagal sync stat file: %w", err)
	}
	return nil
}

// Close melakukan flush lalu menutup file milik store. Panggilan kedua
// mengembalikan ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	var syncErr error
	if !s.readOnly {
		syncErr = s.data.Sync()
	}
	if err := errors.Join(syncErr, s.data.Close()); err != nil {
		s.log.Warn("close stat file", "err", err)
		return fmt.Errorf("gagal menutup stat file: %w", err)
	}
	return nil
}
