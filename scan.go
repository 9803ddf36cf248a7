package overlaystat

import (
	"fmt"
	"iter"
)

// All returns a lazy, restartable iterator over every stored record in
// ascending frame order. Empty slots are skipped.
//
// Each iteration validates the header once and snapshots the stream length.
// Every slot is then read under its own lock acquisition and the lock is
// released before the record is yielded, so the loop body may call back into
// the Store. Writes made during iteration may be observed for frames not yet
// visited; a single slot is never seen half-written. On error the iterator
// yields one zero Record with the error and stops.
func (s *Store) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		size, err := s.beginScan()
		if err != nil {
			yield(Record{}, err)
			return
		}
		for frame := 0; slotOffset(frame, s.codec.size) < size; frame++ {
			rec, ok, err := s.scanSlot(frame, size)
			if err != nil {
				yield(Record{}, err)
				return
			}
			if ok && !yield(rec, nil) {
				return
			}
		}
	}
}

// Records collects every stored record in ascending frame order. Unlike All,
// the whole scan runs under a single lock acquisition.
func (s *Store) Records() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	size, err := s.beginScanLocked()
	if err != nil {
		return nil, err
	}
	var recs []Record
	for frame := 0; slotOffset(frame, s.codec.size) < size; frame++ {
		rec, ok, err := s.readSlotLocked(frame, size)
		if err != nil {
			return recs, err
		}
		if ok {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (s *Store) beginScan() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginScanLocked()
}

func (s *Store) beginScanLocked() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.checkHeader(false); err != nil {
		return 0, err
	}
	size, err := s.data.Size()
	if err != nil {
		return 0, fmt.Errorf("stat size: %w", err)
	}
	return size, nil
}

func (s *Store) scanSlot(frame int, size int64) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Record{}, false, ErrClosed
	}
	return s.readSlotLocked(frame, size)
}
