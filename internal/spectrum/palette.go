package spectrum

import (
	"image/color"

	"github.com/linuxmatters/sonogram/internal/config"
)

// Palette maps an intensity to its colour: black through red, then towards
// white as green and blue rise above the knee.
type Palette [config.PaletteSize]color.RGBA

// BuildPalette returns the 256-entry intensity palette.
// Channel values are truncated toward zero.
func BuildPalette() *Palette {
	var p Palette
	for i := range p {
		var gb uint8
		if i > config.PaletteKnee {
			gb = uint8(float64(i-config.PaletteKnee) / config.PaletteSpan * 255)
		}
		p[i] = color.RGBA{R: uint8(i), G: gb, B: gb, A: 255}
	}
	return &p
}

// At returns the colour for intensity v
func (p *Palette) At(v uint8) color.RGBA {
	return p[v]
}

// ColorPalette returns the palette as a color.Palette, index i holding the
// colour for intensity i, for use with image.Paletted.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}
