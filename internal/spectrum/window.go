package spectrum

import (
	"fmt"
	"math"
)

// Window returns the cosine-lobe taper 1 - cos(2πi/size) for i in [0, size).
//
// This is a Hann shape without the 0.5 factor, so values run from 0 to 2.
// The dB calibration in Scale depends on that range; do not normalise it.
func Window(size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size %d: %w", size, ErrInvalidSize)
	}

	w := make([]float64, size)
	for i := range w {
		w[i] = 1 - math.Cos(2*math.Pi*float64(i)/float64(size))
	}
	return w, nil
}
