package compositing

import (
	"fmt"

	"github.com/disintegration/imaging"
	"phone-cover-backend/internal/raster"
)

// DefaultBrightness is the value-channel gain applied to user photos.
const DefaultBrightness = 1.2

// Fit resizes photo to exactly width x height and scales its HSV value
// channel by brightness, clamping to 255.
func Fit(photo *raster.Image, width, height int, brightness float64) (*raster.Image, error) {
	if photo.Empty() {
		return nil, fmt.Errorf("fit: %w: empty photo", ErrInvalidImage)
	}
	if photo.Space != raster.RGB {
		return nil, fmt.Errorf("fit: %w: photo is %s, want rgb", ErrInvalidImage, photo.Space)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("fit: %w: target %dx%d", ErrInvalidImage, width, height)
	}
	if brightness <= 0 {
		return nil, fmt.Errorf("fit: %w: brightness factor %v", ErrInvalidImage, brightness)
	}

	src, err := photo.ToNRGBA()
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	// Linear keeps edges free of the ringing Lanczos would add.
	resized := raster.FromImage(imaging.Resize(src, width, height, imaging.Linear))

	hsv, err := resized.ToHSV()
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	for i := 2; i < len(hsv.Pix); i += 3 {
		hsv.Pix[i] = scaleValue(hsv.Pix[i], brightness)
	}

	out, err := hsv.ToRGB()
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	return out, nil
}

// scaleValue multiplies v by factor, clamps to [0, 255] and truncates.
func scaleValue(v uint8, factor float64) uint8 {
	f := float64(v) * factor
	if f >= 255 {
		return 255
	}
	if f <= 0 {
		return 0
	}
	return uint8(f)
}
