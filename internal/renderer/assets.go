package renderer

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	boldFont    = sync.OnceValues(func() (*truetype.Font, error) { return truetype.Parse(gobold.TTF) })
	regularFont = sync.OnceValues(func() (*truetype.Font, error) { return truetype.Parse(goregular.TTF) })
)

// LoadFont returns a face of the embedded Go font at size points
func LoadFont(size float64, bold bool) (font.Face, error) {
	load := regularFont
	if bold {
		load = boldFont
	}
	f, err := load()
	if err != nil {
		return nil, err
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return face, nil
}

// DrawText draws text with its baseline starting at (x, y)
func DrawText(img *image.RGBA, face font.Face, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  freetype.Pt(x, y),
	}
	d.DrawString(text)
}

// DrawCenterText draws text centred horizontally on img with its baseline at y
func DrawCenterText(img *image.RGBA, face font.Face, text string, y int, c color.Color) {
	d := &font.Drawer{Face: face}
	bounds, _ := d.BoundString(text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	x := img.Bounds().Min.X + (img.Bounds().Dx()-textWidth)/2
	DrawText(img, face, text, x, y, c)
}
