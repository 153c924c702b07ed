package imagery

import (
	"image"
	"io"

	// Register the formats commonly used for target images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
)

// Decode reads an encoded image (PNG, JPEG or GIF) into a float32 grid.
func Decode(r io.Reader) (Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Image{}, err
	}

	return FromImage(img), nil
}

// Resize scales the image to the given geometry with bilinear
// filtering. Pixel values are clamped to [0,1] during conversion.
func Resize(m Image, width, height int) Image {
	if m.Width == width && m.Height == height {
		return m.Clone()
	}

	resized := transform.Resize(m.ToImage(), width, height, transform.Linear)
	out := FromImage(resized)

	// transform.Resize returns RGBA; restore a 3-channel layout for
	// sources that had no alpha.
	if m.Channels == 3 && out.Channels == 4 {
		rgb, err := out.RGB()
		if err == nil {
			return rgb
		}
	}

	return out
}
