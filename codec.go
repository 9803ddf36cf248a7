package overlaystat

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Slot layout (little-endian), version by version:
//
//	v1 (36): marker u32 | diff f64 | x y overW overH baseW baseH i32
//	v2 (56): v1 | angle f32 | cropL cropT cropR cropB i32
//	v3 (64): v2 | comparison f64
//
// The marker is a dedicated presence field: 0 means Absent, anything else
// means a record follows. Dimensions and offsets are stored as int32.
const (
	// LatestVersion is the schema version written by default.
	LatestVersion byte = 3

	headerSize  = 1
	markerSize  = 4
	slotPresent = uint32(1)
)

var slotSizes = [...]int{1: 36, 2: 56, 3: 64}

// SlotSize returns the byte width of one record under the given version.
func SlotSize(version byte) (int, error) {
	if version == 0 || int(version) >= len(slotSizes) {
		return 0, fmt.Errorf("%w: %d (latest %d)", ErrUnsupportedVersion, version, LatestVersion)
	}
	return slotSizes[version], nil
}

// slotOffset returns where the slot for frame starts.
func slotOffset(frame, size int) int64 {
	return headerSize + int64(frame)*int64(size)
}

// codec encodes and decodes one slot for a fixed schema version.
type codec struct {
	version byte
	size    int
}

func newCodec(version byte) (codec, error) {
	size, err := SlotSize(version)
	if err != nil {
		return codec{}, err
	}
	return codec{version: version, size: size}, nil
}

// encode writes rec into buf, which must be exactly c.size bytes. A nil rec
// clears the slot.
func (c codec) encode(buf []byte, rec *Record) {
	clear(buf)
	if rec == nil {
		return
	}
	w := slotCursor{buf: buf}
	w.putUint32(slotPresent)
	w.putFloat64(rec.Diff)
	w.putInt(rec.X)
	w.putInt(rec.Y)
	w.putInt(rec.OverlayWidth)
	w.putInt(rec.OverlayHeight)
	w.putInt(rec.BaseWidth)
	w.putInt(rec.BaseHeight)
	if c.version < 2 {
		return
	}
	w.putFloat32(rec.Angle)
	w.putInt(rec.CropLeft)
	w.putInt(rec.CropTop)
	w.putInt(rec.CropRight)
	w.putInt(rec.CropBottom)
	if c.version < 3 {
		return
	}
	w.putFloat64(rec.Comparison)
}

// decode reads one slot. It reports false for an empty slot and for a slot
// cut short by the end of the stream.
func (c codec) decode(buf []byte, frame int) (Record, bool) {
	if len(buf) < c.size {
		return Record{}, false
	}
	r := slotCursor{buf: buf}
	if r.u32() == 0 {
		return Record{}, false
	}
	rec := Record{FrameNumber: frame}
	rec.Diff = r.f64()
	rec.X = r.i32()
	rec.Y = r.i32()
	rec.OverlayWidth = r.i32()
	rec.OverlayHeight = r.i32()
	rec.BaseWidth = r.i32()
	rec.BaseHeight = r.i32()
	if c.version < 2 {
		return rec, true
	}
	rec.Angle = r.f32()
	rec.CropLeft = r.i32()
	rec.CropTop = r.i32()
	rec.CropRight = r.i32()
	rec.CropBottom = r.i32()
	if c.version < 3 {
		return rec, true
	}
	rec.Comparison = r.f64()
	return rec, true
}

// slotCursor walks a slot buffer field by field.
type slotCursor struct {
	buf []byte
	off int
}

func (s *slotCursor) putUint32(v uint32) {
	binary.LittleEndian.PutUint32(s.buf[s.off:], v)
	s.off += 4
}

func (s *slotCursor) putInt(v int)         { s.putUint32(uint32(int32(v))) }
func (s *slotCursor) putFloat32(v float32) { s.putUint32(math.Float32bits(v)) }
func (s *slotCursor) putFloat64(v float64) {
	binary.LittleEndian.PutUint64(s.buf[s.off:], math.Float64bits(v))
	s.off += 8
}

func (s *slotCursor) u32() uint32 {
	v := binary.LittleEndian.Uint32(s.buf[s.off:])
	s.off += 4
	return v
}

func (s *slotCursor) i32() int     { return int(int32(s.u32())) }
func (s *slotCursor) f32() float32 { return math.Float32frombits(s.u32()) }
func (s *slotCursor) f64() float64 {
	v := binary.LittleEndian.Uint64(s.buf[s.off:])
	s.off += 8
	return math.Float64frombits(v)
}
