package overlaystat

import "fmt"

// Size adalah dimensi gambar dalam piksel.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// ParseSize parses "WxH".
func ParseSize(v string) (Size, error) {
	var s Size
	if _, err := fmt.Sscanf(v, "%dx%d", &s.Width, &s.Height); err != nil {
		return Size{}, fmt.Errorf("invalid size %q (want WxH): %w", v, err)
	}
	if s.Width < 0 || s.Height < 0 {
		return Size{}, fmt.Errorf("invalid size %q: negative dimension", v)
	}
	return s, nil
}

// Record is the cached overlay alignment of one frame.
//
// Base is the source image the overlay is placed onto. Record is a plain value;
// the store never mutates a Record passed to it.
type Record struct {
	FrameNumber int `json:"frame"`

	BaseWidth     int `json:"base_width"`
	BaseHeight    int `json:"base_height"`
	OverlayWidth  int `json:"overlay_width"`
	OverlayHeight int `json:"overlay_height"`

	X     int     `json:"x"`
	Y     int     `json:"y"`
	Angle float32 `json:"angle"`

	CropLeft   int `json:"crop_left"`
	CropTop    int `json:"crop_top"`
	CropRight  int `json:"crop_right"`
	CropBottom int `json:"crop_bottom"`

	Diff       float64 `json:"diff"`
	Comparison float64 `json:"comparison"`
}

// Base returns the base (source) image size.
func (r Record) Base() Size { return Size{Width: r.BaseWidth, Height: r.BaseHeight} }

// Overlay returns the overlay image size.
func (r Record) Overlay() Size { return Size{Width: r.OverlayWidth, Height: r.OverlayHeight} }

// WithFrame returns a copy of r tagged with frame.
func (r Record) WithFrame(frame int) Record {
	r.FrameNumber = frame
	return r
}

// WithSizes returns a copy of r with its base and overlay dimensions replaced.
func (r Record) WithSizes(base, overlay Size) Record {
	r.BaseWidth, r.BaseHeight = base.Width, base.Height
	r.OverlayWidth, r.OverlayHeight = overlay.Width, overlay.Height
	return r
}
