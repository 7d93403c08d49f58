package raster_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"phone-cover-backend/internal/raster"
)

func TestRGBToHSV_Primaries(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"white", 255, 255, 255, 0, 0, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"dark green", 0, 128, 0, 60, 255, 128},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, s, v := raster.RGBToHSV(tc.r, tc.g, tc.b)
			assert.Equal(t, tc.h, h)
			assert.Equal(t, tc.s, s)
			assert.Equal(t, tc.v, v)
		})
	}
}

func TestHSVToRGB_RoundTripPrimaries(t *testing.T) {
	for _, c := range [][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 255}, {0, 0, 0}} {
		h, s, v := raster.RGBToHSV(c[0], c[1], c[2])
		r, g, b := raster.HSVToRGB(h, s, v)
		assert.Equal(t, c, [3]uint8{r, g, b})
	}
}

func TestHueNeverExceedsMax(t *testing.T) {
	// hue just below 360 degrees rounds onto 180 and must wrap to 0
	h, _, _ := raster.RGBToHSV(255, 0, 1)
	assert.LessOrEqual(t, int(h), raster.MaxHue)
}

func TestFromImage_DropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 0})

	img := raster.FromImage(src)
	require.NotNil(t, img)
	assert.Equal(t, raster.RGB, img.Space)
	assert.Equal(t, 3, img.Channels())
	assert.Equal(t, []uint8{10, 20, 30, 40, 50, 60}, img.Pix)
}

func TestEmpty(t *testing.T) {
	var nilImg *raster.Image
	assert.True(t, nilImg.Empty())
	assert.True(t, raster.New(0, 3, raster.RGB).Empty())
	assert.True(t, (&raster.Image{Width: 2, Height: 2, Space: raster.RGB, Pix: make([]uint8, 3)}).Empty())
	assert.False(t, raster.New(2, 2, raster.RGB).Empty())
}

func TestConversionsRejectWrongSpace(t *testing.T) {
	hsv := raster.New(1, 1, raster.HSV)
	_, err := hsv.ToHSV()
	assert.ErrorIs(t, err, raster.ErrColorSpace)
	_, err = hsv.ToNRGBA()
	assert.ErrorIs(t, err, raster.ErrColorSpace)

	rgb := raster.New(1, 1, raster.RGB)
	_, err = rgb.ToRGB()
	assert.ErrorIs(t, err, raster.ErrColorSpace)
}

func TestToNRGBA_Opaque(t *testing.T) {
	img := raster.New(1, 1, raster.RGB)
	copy(img.Pix, []uint8{1, 2, 3})
	out, err := img.ToNRGBA()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, out.NRGBAAt(0, 0))
}
