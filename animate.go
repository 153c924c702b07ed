package latentgo

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/hupe1980/latentgo/imagery"
)

// DefaultFrameDelay is the per-frame delay for animations, in
// hundredths of a second.
const DefaultFrameDelay = 10

// WriteGIF encodes the images as an animated GIF that loops forever.
// delay is per frame in hundredths of a second; zero selects
// DefaultFrameDelay.
func WriteGIF(w io.Writer, images []imagery.Image, delay int) error {
	if len(images) == 0 {
		return fmt.Errorf("animate: no frames")
	}
	if delay <= 0 {
		delay = DefaultFrameDelay
	}

	anim := &gif.GIF{
		LoopCount: 0,
	}

	for _, img := range images {
		rgba := img.ToImage()

		frame := image.NewPaletted(rgba.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(frame, rgba.Bounds(), rgba, image.Point{})

		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	return gif.EncodeAll(w, anim)
}

// SaveGIF writes the images as an animated GIF file.
func SaveGIF(filename string, images []imagery.Image, delay int) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := WriteGIF(f, images, delay); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ContactSheet arranges the images in a grid of perRow columns with an
// optional caption under each cell. captions may be nil or shorter
// than images; missing captions leave the strip empty.
func ContactSheet(images []imagery.Image, captions []string, perRow int) (image.Image, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("animate: no images")
	}
	if perRow <= 0 {
		perRow = 5
	}

	cellW := images[0].Width
	cellH := images[0].Height
	for _, img := range images {
		if img.Width != cellW || img.Height != cellH {
			return nil, fmt.Errorf("animate: mixed image sizes %dx%d and %dx%d",
				cellW, cellH, img.Width, img.Height)
		}
	}

	const captionH = 16

	cols := perRow
	if len(images) < cols {
		cols = len(images)
	}
	rows := (len(images) + perRow - 1) / perRow

	dc := gg.NewContext(cols*cellW, rows*(cellH+captionH))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for i, img := range images {
		col := i % perRow
		row := i / perRow

		x := col * cellW
		y := row * (cellH + captionH)

		dc.DrawImage(img.ToImage(), x, y)

		if i < len(captions) && captions[i] != "" {
			dc.SetRGB(0, 0, 0)
			dc.DrawString(captions[i], float64(x)+2, float64(y+cellH)+11)
		}
	}

	return dc.Image(), nil
}

// SaveContactSheet writes the grid as a PNG file.
func SaveContactSheet(filename string, images []imagery.Image, captions []string, perRow int) error {
	sheet, err := ContactSheet(images, captions, perRow)
	if err != nil {
		return err
	}
	return gg.SavePNG(filename, sheet)
}

// ContactSheet renders the inversion trace as a captioned grid, five
// cells per row, with the loss of each step under its image.
func (inv *Inversion) ContactSheet() (image.Image, error) {
	captions := make([]string, len(inv.Steps))
	for i, s := range inv.Steps {
		captions[i] = fmt.Sprintf("Loss: %.2f", s.Loss)
	}
	return ContactSheet(inv.Images(), captions, 5)
}

// SaveContactSheet writes the inversion trace grid as a PNG file.
func (inv *Inversion) SaveContactSheet(filename string) error {
	sheet, err := inv.ContactSheet()
	if err != nil {
		return err
	}
	return gg.SavePNG(filename, sheet)
}
