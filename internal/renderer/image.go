package renderer

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/linuxmatters/sonogram/internal/spectrum"
)

// Image rasterises grid as a paletted image using the grid's palette.
// The image spans grid.CanvasWidth columns, with the unanalysed tail left at
// intensity 0 (black); with trim it spans only the analysed grid.Width.
func Image(grid *spectrum.Grid, trim bool) *image.Paletted {
	width := grid.CanvasWidth
	if trim || width < grid.Width {
		width = grid.Width
	}

	palette := grid.Palette
	if palette == nil {
		palette = spectrum.BuildPalette()
	}

	img := image.NewPaletted(image.Rect(0, 0, width, grid.Height), palette.ColorPalette())
	for x := 0; x < grid.Width; x++ {
		for y, v := range grid.Column(x) {
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

// EncodePNG writes img as PNG, favouring speed over size
func EncodePNG(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return fmt.Errorf("cannot encode empty %dx%d image", b.Dx(), b.Dy())
	}
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}

// SavePNG writes img to outputPath
func SavePNG(img image.Image, outputPath string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	if err := EncodePNG(outFile, img); err != nil {
		outFile.Close()
		return fmt.Errorf("failed to encode %s: %w", outputPath, err)
	}
	return outFile.Close()
}
