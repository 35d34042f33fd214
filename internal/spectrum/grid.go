package spectrum

import "fmt"

// Grid is the rendered spectrogram: one column of intensities per
// processed frame. Column x, row y holds the palette index for that pixel.
type Grid struct {
	Width  int // Processed frames
	Height int // Rows per column

	// CanvasWidth is ceil(samples/hop), the full image width. Columns in
	// [Width, CanvasWidth) were never analysed.
	CanvasWidth int

	// Palette resolves intensities to colours
	Palette *Palette

	pix []uint8 // column-major, Width*Height
}

// NewGrid allocates a zeroed grid
func NewGrid(width, height, canvasWidth int, palette *Palette) *Grid {
	return &Grid{
		Width:       width,
		Height:      height,
		CanvasWidth: canvasWidth,
		Palette:     palette,
		pix:         make([]uint8, width*height),
	}
}

// Column returns column x for reading or writing. It aliases the grid.
func (g *Grid) Column(x int) []uint8 {
	off := x * g.Height
	return g.pix[off : off+g.Height : off+g.Height]
}

// SetColumn copies col into column x
func (g *Grid) SetColumn(x int, col []uint8) error {
	if x < 0 || x >= g.Width {
		return fmt.Errorf("column %d outside grid width %d", x, g.Width)
	}
	if len(col) != g.Height {
		return fmt.Errorf("column length %d, grid height %d", len(col), g.Height)
	}
	copy(g.Column(x), col)
	return nil
}

// At returns the intensity at (x, y). Points outside the processed columns
// read as 0.
func (g *Grid) At(x, y int) uint8 {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return 0
	}
	return g.pix[x*g.Height+y]
}
