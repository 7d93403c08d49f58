// Package compositing implements the cover compositing engine: color-key
// segmentation of a template, fitting of the user photo, and the final merge.
// All functions are pure; they never touch storage.
package compositing

import (
	"errors"
	"fmt"

	"phone-cover-backend/internal/raster"
)

var (
	ErrInvalidImage      = errors.New("invalid image")
	ErrInvalidKeyRange   = errors.New("invalid key color range")
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// HSV is a color in the 8-bit HSV encoding (hue 0-179).
type HSV struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// KeyColorRange is a closed HSV box; a pixel matches when every channel lies
// within [Lower, Upper].
type KeyColorRange struct {
	Lower HSV `json:"lower"`
	Upper HSV `json:"upper"`
}

// DefaultKeyColorRange selects the green fill region of a template.
var DefaultKeyColorRange = KeyColorRange{
	Lower: HSV{H: 35, S: 100, V: 100},
	Upper: HSV{H: 85, S: 255, V: 255},
}

// Validate checks the bounds are ordered and the hue stays in the 8-bit range.
func (r KeyColorRange) Validate() error {
	if r.Upper.H > raster.MaxHue {
		return fmt.Errorf("%w: upper hue %d exceeds %d", ErrInvalidKeyRange, r.Upper.H, raster.MaxHue)
	}
	if r.Lower.H > r.Upper.H || r.Lower.S > r.Upper.S || r.Lower.V > r.Upper.V {
		return fmt.Errorf("%w: lower bound %v above upper bound %v", ErrInvalidKeyRange, r.Lower, r.Upper)
	}
	return nil
}

// Contains reports whether the HSV triple lies inside the range.
func (r KeyColorRange) Contains(h, s, v uint8) bool {
	return h >= r.Lower.H && h <= r.Upper.H &&
		s >= r.Lower.S && s <= r.Upper.S &&
		v >= r.Lower.V && v <= r.Upper.V
}

// Mask is a single-channel binary selector. Set pixels hold 255, others 0.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

func newMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// IsSet reports whether pixel (x, y) is selected.
func (m *Mask) IsSet(x, y int) bool {
	return m.Pix[y*m.Width+x] != 0
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, p := range m.Pix {
		if p != 0 {
			n++
		}
	}
	return n
}

// Invert returns the logical complement.
func (m *Mask) Invert() *Mask {
	out := newMask(m.Width, m.Height)
	for i, p := range m.Pix {
		if p == 0 {
			out.Pix[i] = 0xff
		}
	}
	return out
}

func (m *Mask) valid() bool {
	return m != nil && m.Width > 0 && m.Height > 0 && len(m.Pix) == m.Width*m.Height
}

// Segment classifies every template pixel against keyRange and returns the
// key-color mask together with its complement.
func Segment(template *raster.Image, keyRange KeyColorRange) (*Mask, *Mask, error) {
	if template.Empty() {
		return nil, nil, fmt.Errorf("segment: %w: empty template", ErrInvalidImage)
	}
	if template.Space != raster.RGB {
		return nil, nil, fmt.Errorf("segment: %w: template is %s, want rgb", ErrInvalidImage, template.Space)
	}
	if err := keyRange.Validate(); err != nil {
		return nil, nil, fmt.Errorf("segment: %w", err)
	}

	hsv, err := template.ToHSV()
	if err != nil {
		return nil, nil, fmt.Errorf("segment: %w", err)
	}

	mask := newMask(template.Width, template.Height)
	for i := range mask.Pix {
		p := hsv.Pix[i*3 : i*3+3]
		if keyRange.Contains(p[0], p[1], p[2]) {
			mask.Pix[i] = 0xff
		}
	}
	return mask, mask.Invert(), nil
}
