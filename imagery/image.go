// Package imagery provides the float32 pixel grid exchanged between
// generators, the inversion loss, and the rendering helpers.
//
// Pixel values are nominally in [0,1]; conversion to byte-oriented
// image types clamps out-of-range values produced by optimization
// intermediates.
package imagery

import (
	"fmt"
	"image"
	"image/color"
)

// Image is a dense H×W×C pixel grid with float32 channel values.
// Channels is 3 (RGB) or 4 (RGBA); only the first three participate in
// loss computation.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []float32 // row-major, interleaved channels
}

// ErrChannelCount indicates an unsupported channel layout.
type ErrChannelCount struct {
	Channels int
}

func (e *ErrChannelCount) Error() string {
	return fmt.Sprintf("unsupported channel count: %d (want 3 or 4)", e.Channels)
}

// New allocates a zeroed image with the given geometry.
func New(width, height, channels int) Image {
	return Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float32, width*height*channels),
	}
}

// At returns the channel value at pixel (x, y).
func (m Image) At(x, y, c int) float32 {
	return m.Pix[(y*m.Width+x)*m.Channels+c]
}

// Set writes the channel value at pixel (x, y).
func (m Image) Set(x, y, c int, v float32) {
	m.Pix[(y*m.Width+x)*m.Channels+c] = v
}

// Clone returns an independent copy of the image.
func (m Image) Clone() Image {
	out := m
	out.Pix = make([]float32, len(m.Pix))
	copy(out.Pix, m.Pix)
	return out
}

// RGB returns the image restricted to its first three channels.
// A 3-channel image is returned as an independent copy.
func (m Image) RGB() (Image, error) {
	switch m.Channels {
	case 3:
		return m.Clone(), nil
	case 4:
		out := New(m.Width, m.Height, 3)
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				for c := 0; c < 3; c++ {
					out.Set(x, y, c, m.At(x, y, c))
				}
			}
		}
		return out, nil
	default:
		return Image{}, &ErrChannelCount{Channels: m.Channels}
	}
}

// ToImage converts the grid into an 8-bit RGBA image, clamping values
// to [0,1] before scaling to bytes. Missing alpha is treated as opaque.
func (m Image) ToImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			px := color.RGBA{A: 0xff}

			px.R = toByte(m.At(x, y, 0))
			px.G = toByte(m.At(x, y, 1))
			px.B = toByte(m.At(x, y, 2))
			if m.Channels >= 4 {
				px.A = toByte(m.At(x, y, 3))
			}

			out.SetRGBA(x, y, px)
		}
	}

	return out
}

// FromImage converts a standard image into a float32 grid. Images with
// transparency keep their alpha channel; opaque images become 3-channel.
func FromImage(img image.Image) Image {
	b := img.Bounds()

	channels := 4
	if op, ok := img.(interface{ Opaque() bool }); ok && op.Opaque() {
		channels = 3
	}

	out := New(b.Dx(), b.Dy(), channels)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, b16, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()

			out.Set(x, y, 0, float32(r)/0xffff)
			out.Set(x, y, 1, float32(g)/0xffff)
			out.Set(x, y, 2, float32(b16)/0xffff)
			if channels == 4 {
				out.Set(x, y, 3, float32(a)/0xffff)
			}
		}
	}

	return out
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
