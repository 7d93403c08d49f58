package compositing

import (
	"fmt"

	"phone-cover-backend/internal/raster"
)

// Composite keeps the template where inverse is set, the photo where mask is
// set, and adds the two with per-channel saturation.
func Composite(template *raster.Image, mask, inverse *Mask, photo *raster.Image) (*raster.Image, error) {
	if template.Empty() || photo.Empty() {
		return nil, fmt.Errorf("composite: %w: empty input", ErrInvalidImage)
	}
	if template.Space != raster.RGB || photo.Space != raster.RGB {
		return nil, fmt.Errorf("composite: %w: inputs must be rgb", ErrInvalidImage)
	}
	if !mask.valid() || !inverse.valid() {
		return nil, fmt.Errorf("composite: %w: malformed mask", ErrInvalidImage)
	}

	w, h := template.Width, template.Height
	if photo.Width != w || photo.Height != h ||
		mask.Width != w || mask.Height != h ||
		inverse.Width != w || inverse.Height != h {
		return nil, fmt.Errorf("composite: %w: template %dx%d, photo %dx%d, mask %dx%d, inverse %dx%d",
			ErrDimensionMismatch, w, h, photo.Width, photo.Height,
			mask.Width, mask.Height, inverse.Width, inverse.Height)
	}

	out := raster.New(w, h, raster.RGB)
	for i := 0; i < w*h; i++ {
		keepBg := inverse.Pix[i] != 0
		keepFg := mask.Pix[i] != 0
		for c := 0; c < 3; c++ {
			var bg, fg uint8
			if keepBg {
				bg = template.Pix[i*3+c]
			}
			if keepFg {
				fg = photo.Pix[i*3+c]
			}
			out.Pix[i*3+c] = addSaturating(bg, fg)
		}
	}
	return out, nil
}

func addSaturating(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}
