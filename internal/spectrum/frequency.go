package spectrum

import (
	"fmt"
	"sync"

	"github.com/linuxmatters/sonogram/internal/config"
	"gonum.org/v1/gonum/dsp/fourier"
)

var binFFT = sync.OnceValue(func() *fourier.FFT {
	return fourier.NewFFT(config.FrameSize)
})

// BinFrequency returns the centre frequency in Hz of FFT bin for a
// config.FrameSize transform at sampleRate. Bins run 0 to FrameSize/2.
func BinFrequency(bin, sampleRate int) (float64, error) {
	if bin < 0 || bin > config.FrameSize/2 {
		return 0, fmt.Errorf("bin %d outside [0, %d]", bin, config.FrameSize/2)
	}
	return binFFT().Freq(bin) * float64(sampleRate), nil
}

// RowFrequency returns the frequency in Hz drawn at grid row y. Row
// ImageHeight-1 is bin 1; row 0 would be bin ImageHeight and is never written.
func RowFrequency(y, sampleRate int) (float64, error) {
	if y < 0 || y >= config.ImageHeight {
		return 0, fmt.Errorf("row %d outside [0, %d)", y, config.ImageHeight)
	}
	return BinFrequency(config.ImageHeight-y, sampleRate)
}

// PeakRow returns the brightest row of col. Ties go to the lower
// frequency, i.e. the larger row. ok is false for a black column.
func PeakRow(col []uint8) (row int, ok bool) {
	var best uint8
	for y := len(col) - 1; y > 0; y-- {
		if col[y] > best {
			best, row = col[y], y
		}
	}
	return row, best > 0
}

// DominantRow returns the row with the largest total intensity over all
// processed columns. ok is false when the grid is black.
func (g *Grid) DominantRow() (row int, ok bool) {
	if g.Width == 0 || g.Height == 0 {
		return 0, false
	}

	totals := make([]int, g.Height)
	for x := 0; x < g.Width; x++ {
		for y, v := range g.Column(x) {
			totals[y] += int(v)
		}
	}

	best := 0
	for y := g.Height - 1; y > 0; y-- {
		if totals[y] > best {
			best, row = totals[y], y
		}
	}
	return row, best > 0
}

// PeakFrequency returns the frequency of the brightest row of col at
// sampleRate. ok is false for a black column.
func PeakFrequency(col []uint8, sampleRate int) (hz float64, ok bool) {
	row, ok := PeakRow(col)
	if !ok || len(col) != config.ImageHeight {
		return 0, false
	}
	hz, err := RowFrequency(row, sampleRate)
	if err != nil {
		return 0, false
	}
	return hz, true
}
