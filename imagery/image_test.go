package imagery

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndSet(t *testing.T) {
	m := New(2, 2, 3)

	assert.Len(t, m.Pix, 12)

	m.Set(1, 0, 2, 0.5)
	assert.Equal(t, float32(0.5), m.At(1, 0, 2))
	assert.Equal(t, float32(0), m.At(0, 0, 2))
}

func TestRGBDropsAlpha(t *testing.T) {
	m := New(2, 1, 4)
	m.Set(0, 0, 0, 0.25)
	m.Set(0, 0, 3, 0.9)
	m.Set(1, 0, 1, 0.75)

	rgb, err := m.RGB()
	require.NoError(t, err)

	assert.Equal(t, 3, rgb.Channels)
	assert.Equal(t, float32(0.25), rgb.At(0, 0, 0))
	assert.Equal(t, float32(0.75), rgb.At(1, 0, 1))
	assert.Len(t, rgb.Pix, 6)
}

func TestRGBInvalidChannels(t *testing.T) {
	m := New(1, 1, 2)

	_, err := m.RGB()

	var ecc *ErrChannelCount
	require.ErrorAs(t, err, &ecc)
	assert.Equal(t, 2, ecc.Channels)
}

func TestToImageClamps(t *testing.T) {
	m := New(1, 1, 3)
	m.Set(0, 0, 0, -0.5) // below range
	m.Set(0, 0, 1, 1.5)  // above range
	m.Set(0, 0, 2, 0.5)

	img := m.ToImage()
	px := img.RGBAAt(0, 0)

	assert.Equal(t, uint8(0), px.R)
	assert.Equal(t, uint8(255), px.G)
	assert.Equal(t, uint8(128), px.B)
	assert.Equal(t, uint8(255), px.A)
}

func TestFromImageOpaque(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 255, G: 128, B: 0, A: 255})
	src.SetRGBA(1, 0, color.RGBA{R: 64, G: 64, B: 64, A: 255})
	src.SetRGBA(0, 1, color.RGBA{R: 32, G: 32, B: 32, A: 255})
	src.SetRGBA(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	m := FromImage(src)

	assert.Equal(t, 3, m.Channels)
	assert.InDelta(t, 1.0, m.At(0, 0, 0), 1e-2)
	assert.InDelta(t, 0.5, m.At(0, 0, 1), 1e-2)
	assert.InDelta(t, 1.0, m.At(1, 1, 2), 1e-2)
}

func TestFromImageKeepsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})

	m := FromImage(src)

	assert.Equal(t, 4, m.Channels)
	assert.InDelta(t, 0.5, m.At(0, 0, 3), 1e-2)
}

func TestDecode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(2, 1, color.RGBA{G: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	m, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.InDelta(t, 1.0, m.At(2, 1, 1), 1e-2)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestResize(t *testing.T) {
	m := New(4, 4, 3)
	for i := range m.Pix {
		m.Pix[i] = 0.5
	}

	out := Resize(m, 128, 128)

	assert.Equal(t, 128, out.Width)
	assert.Equal(t, 128, out.Height)
	assert.Equal(t, 3, out.Channels)
	assert.InDelta(t, 0.5, out.At(64, 64, 0), 1e-2)
}

func TestResizeNoop(t *testing.T) {
	m := New(8, 8, 4)
	m.Set(3, 3, 3, 1)

	out := Resize(m, 8, 8)

	assert.Equal(t, 4, out.Channels)
	assert.Equal(t, float32(1), out.At(3, 3, 3))

	// Result is a copy, not a view.
	out.Set(0, 0, 0, 1)
	assert.Equal(t, float32(0), m.At(0, 0, 0))
}
