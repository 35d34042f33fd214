package spectrum

import (
	"fmt"
	"math"

	"github.com/linuxmatters/sonogram/internal/config"
)

// Scale converts a magnitude spectrum into pixelHeight intensities with the
// frequency axis inverted: bin j lands at index pixelHeight-j, so index 0 is
// the top of the column. The DC bin is skipped and index 0 stays 0.
//
// Each bin is mapped through
//
//	dB = 10·log10(m·BlockNorm)·DBGain + DBOffset
//
// then clamped to [0, MaxIntensity] and truncated. The constants are visual
// calibration; see internal/config.
func Scale(magnitudes []float64, pixelHeight int) ([]uint8, error) {
	if pixelHeight <= 0 || pixelHeight > len(magnitudes) {
		return nil, fmt.Errorf("scale to %d rows from %d bins: %w", pixelHeight, len(magnitudes), ErrInvalidHeight)
	}
	col := make([]uint8, pixelHeight)
	scaleInto(col, magnitudes)
	return col, nil
}

// ScaleInto is Scale writing into a caller-owned column; len(dst) is the
// pixel height. dst[0] is reset to 0.
func ScaleInto(dst []uint8, magnitudes []float64) error {
	if len(dst) == 0 || len(dst) > len(magnitudes) {
		return fmt.Errorf("scale to %d rows from %d bins: %w", len(dst), len(magnitudes), ErrInvalidHeight)
	}
	scaleInto(dst, magnitudes)
	return nil
}

func scaleInto(dst []uint8, magnitudes []float64) {
	h := len(dst)
	dst[0] = 0
	for j := 1; j < h; j++ {
		dst[h-j] = intensity(magnitudes[j])
	}
}

// intensity maps one magnitude to [0, MaxIntensity]. log10(0) is -Inf and
// saturates to 0, as does NaN.
func intensity(m float64) uint8 {
	db := 10*math.Log10(m*config.BlockNorm)*config.DBGain + config.DBOffset
	switch {
	case math.IsNaN(db) || db <= 0:
		return 0
	case db >= config.MaxIntensity:
		return config.MaxIntensity
	default:
		return uint8(db)
	}
}
