// Package raster provides the typed 8-bit pixel buffers the compositing
// engine works on. Every buffer carries its color space, so a stage that
// expects RGB input can reject HSV data instead of silently misreading it.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Depth is the bit depth of every channel.
const Depth = 8

// MaxHue is the largest hue value in the 8-bit HSV encoding (degrees / 2).
const MaxHue = 179

// ColorSpace tags the channel layout of an Image.
type ColorSpace uint8

const (
	// RGB stores red, green, blue per pixel.
	RGB ColorSpace = iota + 1
	// HSV stores hue (0-179), saturation (0-255) and value (0-255) per pixel.
	HSV
)

func (s ColorSpace) String() string {
	switch s {
	case RGB:
		return "rgb"
	case HSV:
		return "hsv"
	default:
		return fmt.Sprintf("colorspace(%d)", uint8(s))
	}
}

// Channels returns the number of 8-bit channels per pixel.
func (s ColorSpace) Channels() int {
	switch s {
	case RGB, HSV:
		return 3
	default:
		return 0
	}
}

var ErrColorSpace = errors.New("unexpected color space")

// Image is a row-major, tightly packed 8-bit raster.
type Image struct {
	Width  int
	Height int
	Space  ColorSpace
	Pix    []uint8
}

// New allocates a zeroed image.
func New(width, height int, space ColorSpace) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Space:  space,
		Pix:    make([]uint8, width*height*space.Channels()),
	}
}

// Channels returns the channel count implied by the color space.
func (im *Image) Channels() int {
	return im.Space.Channels()
}

// Empty reports whether the image is nil, has no pixels or an inconsistent buffer.
func (im *Image) Empty() bool {
	if im == nil || im.Width <= 0 || im.Height <= 0 || im.Channels() == 0 {
		return true
	}
	return len(im.Pix) != im.Width*im.Height*im.Channels()
}

// Bounds returns the image rectangle anchored at the origin.
func (im *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, im.Width, im.Height)
}

// Offset returns the index of the first channel of pixel (x, y).
func (im *Image) Offset(x, y int) int {
	return (y*im.Width + x) * im.Channels()
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{Width: im.Width, Height: im.Height, Space: im.Space, Pix: make([]uint8, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// FromImage converts any decoded image into an RGB raster. Alpha is dropped
// and the stored (non-premultiplied) color channels are kept as-is.
func FromImage(img image.Image) *Image {
	if img == nil {
		return nil
	}
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := New(w, h, RGB)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			i := out.Offset(x, y)
			out.Pix[i] = row[x*4]
			out.Pix[i+1] = row[x*4+1]
			out.Pix[i+2] = row[x*4+2]
		}
	}
	return out
}

// ToNRGBA converts an RGB raster to an opaque image.NRGBA.
func (im *Image) ToNRGBA() (*image.NRGBA, error) {
	if im.Space != RGB {
		return nil, fmt.Errorf("to nrgba: %w: %s", ErrColorSpace, im.Space)
	}
	out := image.NewNRGBA(im.Bounds())
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			i := im.Offset(x, y)
			out.SetNRGBA(x, y, color.NRGBA{R: im.Pix[i], G: im.Pix[i+1], B: im.Pix[i+2], A: 0xff})
		}
	}
	return out, nil
}

// ToHSV converts an RGB raster to 8-bit HSV.
func (im *Image) ToHSV() (*Image, error) {
	if im.Space != RGB {
		return nil, fmt.Errorf("to hsv: %w: %s", ErrColorSpace, im.Space)
	}
	out := New(im.Width, im.Height, HSV)
	for i := 0; i+2 < len(im.Pix); i += 3 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = RGBToHSV(im.Pix[i], im.Pix[i+1], im.Pix[i+2])
	}
	return out, nil
}

// ToRGB converts an 8-bit HSV raster back to RGB.
func (im *Image) ToRGB() (*Image, error) {
	if im.Space != HSV {
		return nil, fmt.Errorf("to rgb: %w: %s", ErrColorSpace, im.Space)
	}
	out := New(im.Width, im.Height, RGB)
	for i := 0; i+2 < len(im.Pix); i += 3 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = HSVToRGB(im.Pix[i], im.Pix[i+1], im.Pix[i+2])
	}
	return out, nil
}

// RGBToHSV maps an RGB triple to the 8-bit HSV encoding: hue in degrees/2
// (0-179), saturation and value scaled to 0-255.
func RGBToHSV(r, g, b uint8) (h, s, v uint8) {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	hf, sf, vf := c.Hsv()
	hq := int(math.Round(hf / 2))
	if hq > MaxHue {
		hq -= MaxHue + 1
	}
	return uint8(hq), uint8(math.Round(sf * 255)), uint8(math.Round(vf * 255))
}

// HSVToRGB is the inverse of RGBToHSV.
func HSVToRGB(h, s, v uint8) (r, g, b uint8) {
	c := colorful.Hsv(float64(h)*2, float64(s)/255, float64(v)/255)
	return c.Clamped().RGB255()
}
