package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/linuxmatters/sonogram/internal/config"
	"github.com/linuxmatters/sonogram/internal/spectrum"
)

// PreviewConfig holds configuration for the spectrogram preview
type PreviewConfig struct {
	Width  int // Width in terminal cells, one recent column per cell
	Height int // Height in terminal cells
}

// DefaultPreviewConfig returns a sensible default preview size
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Width:  64,
		Height: 16,
	}
}

var previewPalette = spectrum.BuildPalette().ColorPalette()

// historyImage lays recently rendered columns side by side as a paletted
// image, oldest on the left
func historyImage(history [][]uint8) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, len(history), config.ImageHeight), previewPalette)
	for x, col := range history {
		for y := 0; y < len(col) && y < config.ImageHeight; y++ {
			img.Pix[y*img.Stride+x] = col[y]
		}
	}
	return img
}

// DownsampleFrame reduces an image to preview size. Each terminal cell
// averages the rectangular region of the source it covers.
func DownsampleFrame(frame image.Image, cfg PreviewConfig) [][]color.RGBA {
	bounds := frame.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()
	if srcWidth == 0 || srcHeight == 0 || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil
	}

	cols := min(cfg.Width, srcWidth)
	rows := min(cfg.Height, srcHeight)

	preview := make([][]color.RGBA, rows)
	for row := 0; row < rows; row++ {
		preview[row] = make([]color.RGBA, cols)
		y0, y1 := row*srcHeight/rows, (row+1)*srcHeight/rows
		for col := 0; col < cols; col++ {
			x0, x1 := col*srcWidth/cols, (col+1)*srcWidth/cols

			var sumR, sumG, sumB uint32
			pixelCount := uint32(0)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					r, g, b, _ := frame.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
					sumR += r >> 8
					sumG += g >> 8
					sumB += b >> 8
					pixelCount++
				}
			}

			if pixelCount > 0 {
				preview[row][col] = color.RGBA{
					R: uint8(sumR / pixelCount),
					G: uint8(sumG / pixelCount),
					B: uint8(sumB / pixelCount),
					A: 255,
				}
			}
		}
	}

	return preview
}

// RenderPreview converts a preview grid to a string using ANSI 24-bit
// background colours, one space per cell
func RenderPreview(preview [][]color.RGBA) string {
	if len(preview) == 0 {
		return ""
	}

	var result strings.Builder
	border := strings.Repeat("─", len(preview[0]))

	result.WriteString("  Spectrogram Preview:\n")
	result.WriteString("  ┌" + border + "┐\n")
	for _, row := range preview {
		result.WriteString("  │")
		for _, pixel := range row {
			fmt.Fprintf(&result, "\x1b[48;2;%d;%d;%dm \x1b[0m", pixel.R, pixel.G, pixel.B)
		}
		result.WriteString("│\n")
	}
	result.WriteString("  └" + border + "┘\n")

	return result.String()
}
