package compositing

import (
	"fmt"
	"image"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"phone-cover-backend/internal/raster"
)

// Region summarizes a key-color mask.
type Region struct {
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Pixels   int             `json:"pixels"`
	Coverage float64         `json:"coverage"`
	Bounds   image.Rectangle `json:"bounds"`
}

// Describe reports how much of the image the mask covers and the smallest
// rectangle enclosing every set pixel. Bounds is empty when nothing is set.
func (m *Mask) Describe() Region {
	r := Region{Width: m.Width, Height: m.Height}
	minX, minY, maxX, maxY := m.Width, m.Height, -1, -1
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.IsSet(x, y) {
				continue
			}
			r.Pixels++
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if total := m.Width * m.Height; total > 0 {
		r.Coverage = float64(r.Pixels) / float64(total)
	}
	if r.Pixels > 0 {
		r.Bounds = image.Rect(minX, minY, maxX+1, maxY+1)
	}
	return r
}

// Swatch is one entry of a template palette.
type Swatch struct {
	Hex    string  `json:"hex"`
	Weight float64 `json:"weight"`
}

// Inspection is the operator-facing summary of a template.
type Inspection struct {
	KeyRange KeyColorRange `json:"key_range"`
	Region   Region        `json:"region"`
	Palette  []Swatch      `json:"palette"`
}

// Inspect segments the template and extracts up to paletteSize dominant colors.
func Inspect(template *raster.Image, keyRange KeyColorRange, paletteSize int) (*Inspection, error) {
	mask, _, err := Segment(template, keyRange)
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}

	out := &Inspection{KeyRange: keyRange, Region: mask.Describe()}
	if paletteSize <= 0 {
		return out, nil
	}

	img, err := template.ToNRGBA()
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}
	for _, c := range dominantcolor.FindWeight(img, paletteSize) {
		col, _ := colorful.MakeColor(c.RGBA)
		out.Palette = append(out.Palette, Swatch{Hex: col.Hex(), Weight: c.Weight})
	}
	return out, nil
}
