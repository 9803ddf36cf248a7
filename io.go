package overlaystat

import (
	"fmt"
	"math"
	"sync/atomic"
)

// maxFrame is the largest frame whose slot end still fits in an int64 offset.
func maxFrame(size int) int64 {
	return (math.MaxInt64-headerSize)/int64(size) - 1
}

func (s *Store) checkFrame(frame int) error {
	if frame < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeFrame, frame)
	}
	if int64(frame) > maxFrame(s.codec.size) {
		return fmt.Errorf("%w: %d (max %d)", ErrFrameRange, frame, maxFrame(s.codec.size))
	}
	return nil
}

// Get mengambil record untuk frame tertentu. ok bernilai false bila slot
// kosong atau berada di luar panjang file; file tidak diperpanjang.
func (s *Store) Get(frame int) (rec Record, ok bool, err error) {
	if err := s.checkFrame(frame); err != nil {
		return Record{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Record{}, false, ErrClosed
	}
	if err := s.checkHeader(false); err != nil {
		return Record{}, false, err
	}
	size, err := s.data.Size()
	if err != nil {
		return Record{}, false, fmt.Errorf("stat size: %w", err)
	}

	rec, ok, err = s.readSlotLocked(frame, size)
	if err != nil {
		return Record{}, false, err
	}
	if ok {
		atomic.AddUint64(&s.statHits, 1)
	} else {
		atomic.AddUint64(&s.statMisses, 1)
	}
	return rec, ok, nil
}

// Set menulis record ke slot frame. Nomor frame dicap pada salinan record;
// nilai milik pemanggil tidak diubah.
func (s *Store) Set(frame int, rec Record) error {
	if err := s.checkFrame(frame); err != nil {
		return err
	}
	rec = rec.WithFrame(frame)
	return s.write(func(buf []byte) error {
		return s.writeSlotLocked(buf, frame, &rec)
	})
}

// Clear menulis penanda kosong ke slot frame. File tidak dipotong.
func (s *Store) Clear(frame int) error {
	if err := s.checkFrame(frame); err != nil {
		return err
	}
	return s.write(func(buf []byte) error {
		return s.writeSlotLocked(buf, frame, nil)
	})
}

// SaveBatch menulis banyak record dengan satu lock dan satu flush. Slot setiap
// record ditentukan oleh FrameNumber-nya; urutan bebas.
func (s *Store) SaveBatch(recs ...Record) error {
	if len(recs) == 0 {
		return nil
	}
	for i := range recs {
		if err := s.checkFrame(recs[i].FrameNumber); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return s.write(func(buf []byte) error {
		return writeSlots(s.data, s.codec, buf, recs)
	})
}

// write runs fn under the lock after the header has been validated (and
// stamped on an empty stream).
func (s *Store) write(fn func(buf []byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.readOnly {
		return ErrReadOnly
	}
	if err := s.checkHeader(true); err != nil {
		return err
	}

	buf := s.getBufFromPool()
	defer s.returnBufToPool(buf)
	if err := fn(buf); err != nil {
		return err
	}
	if s.options.SyncWrites {
		return s.data.Sync()
	}
	return nil
}

// readSlotLocked decodes the slot for frame given the stream size. Slots that
// end past size are Absent.
func (s *Store) readSlotLocked(frame int, size int64) (Record, bool, error) {
	off := slotOffset(frame, s.codec.size)
	if off+int64(s.codec.size) > size {
		return Record{}, false, nil
	}

	buf := s.getBufFromPool()
	defer s.returnBufToPool(buf)
	if _, err := s.data.ReadAt(buf, off); err != nil {
		return Record{}, false, fmt.Errorf("read frame %d: %w", frame, err)
	}
	rec, ok := s.codec.decode(buf, frame)
	return rec, ok, nil
}

func (s *Store) writeSlotLocked(buf []byte, frame int, rec *Record) error {
	s.codec.encode(buf, rec)
	if _, err := s.data.WriteAt(buf, slotOffset(frame, s.codec.size)); err != nil {
		return fmt.Errorf("write frame %d: %w", frame, err)
	}
	return nil
}

// writeSlots encodes recs into w at the slots named by their frame numbers.
func writeSlots(w backend, c codec, buf []byte, recs []Record) error {
	for i := range recs {
		c.encode(buf, &recs[i])
		if _, err := w.WriteAt(buf, slotOffset(recs[i].FrameNumber, c.size)); err != nil {
			return fmt.Errorf("write frame %d: %w", recs[i].FrameNumber, err)
		}
	}
	return nil
}
