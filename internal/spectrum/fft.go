package spectrum

import (
	"fmt"
	"math"
	"sync"
)

// twiddleTable holds cos/sin(-2πi/n) for i in [0, n/2).
// A table is never modified after it is published to an Engine.
type twiddleTable struct {
	n   int
	cos []float64
	sin []float64
}

func newTwiddleTable(n int) *twiddleTable {
	half := n / 2
	t := &twiddleTable{
		n:   n,
		cos: make([]float64, half),
		sin: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		angle := -2 * math.Pi * float64(i) / float64(n)
		t.cos[i] = math.Cos(angle)
		t.sin[i] = math.Sin(angle)
	}
	return t
}

// Engine computes radix-2 FFTs. It keeps a single twiddle table for the most
// recent top-level length and rebuilds it only when the length changes.
// An Engine is safe for concurrent use.
type Engine struct {
	mu    sync.RWMutex
	table *twiddleTable
}

// NewEngine returns an Engine with an empty twiddle cache
func NewEngine() *Engine {
	return &Engine{}
}

// Prepare builds the twiddle table for length n ahead of use
func (e *Engine) Prepare(n int) error {
	if !isPowerOfTwo(n) {
		return fmt.Errorf("prepare %d: %w", n, ErrNotPowerOfTwo)
	}
	e.twiddles(n)
	return nil
}

// CachedLength reports the length the live twiddle table was built for,
// or 0 when nothing has been built yet.
func (e *Engine) CachedLength() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.table == nil {
		return 0
	}
	return e.table.n
}

// twiddles returns the table for n, building and publishing it if the
// cached one is for a different length.
func (e *Engine) twiddles(n int) *twiddleTable {
	e.mu.RLock()
	t := e.table
	e.mu.RUnlock()
	if t != nil && t.n == n {
		return t
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.table != nil && e.table.n == n {
		return e.table
	}
	t = newTwiddleTable(n)
	e.table = t
	return t
}

// Transform returns the discrete Fourier transform of re + i·im.
// A nil im is treated as all zeros. Inputs are not modified.
func (e *Engine) Transform(re, im []float64) ([]float64, []float64, error) {
	n := len(re)
	if im != nil && len(im) != n {
		return nil, nil, fmt.Errorf("transform: real %d, imaginary %d: %w", n, len(im), ErrLengthMismatch)
	}

	outRe := make([]float64, n)
	outIm := make([]float64, n)
	if err := e.transformInto(outRe, outIm, re, im); err != nil {
		return nil, nil, err
	}
	return outRe, outIm, nil
}

// Magnitude transforms re with zero imaginary input and returns
// sqrt(re²+im²) for every bin.
func (e *Engine) Magnitude(re []float64) ([]float64, error) {
	n := len(re)
	mag := make([]float64, n)
	if err := e.magnitudeInto(mag, re, make([]float64, n), make([]float64, n)); err != nil {
		return nil, err
	}
	return mag, nil
}

// magnitudeInto is Magnitude with caller-owned output and scratch buffers,
// all of len(re).
func (e *Engine) magnitudeInto(dst, re, bufRe, bufIm []float64) error {
	if err := e.transformInto(bufRe, bufIm, re, nil); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Sqrt(bufRe[i]*bufRe[i] + bufIm[i]*bufIm[i])
	}
	return nil
}

func (e *Engine) transformInto(outRe, outIm, re, im []float64) error {
	n := len(re)
	if n < 2 {
		copy(outRe, re)
		if im != nil {
			copy(outIm, im)
		} else {
			clear(outIm)
		}
		return nil
	}
	if !isPowerOfTwo(n) {
		return fmt.Errorf("transform length %d: %w", n, ErrNotPowerOfTwo)
	}

	t := e.twiddles(n)
	t.fft(outRe, outIm, re, im, n, 1)
	return nil
}

// fft is a recursive decimation-in-time transform of the n inputs
// in[0], in[stride], in[2·stride], ... into out[0:n].
// The even half lands in out[:n/2] and the odd half in out[n/2:] before the
// butterflies combine them in place. A nil im reads as zero.
func (t *twiddleTable) fft(outRe, outIm, re, im []float64, n, stride int) {
	if n == 1 {
		outRe[0] = re[0]
		if im != nil {
			outIm[0] = im[0]
		} else {
			outIm[0] = 0
		}
		return
	}

	half := n / 2
	t.fft(outRe[:half], outIm[:half], re, im, half, 2*stride)
	t.fft(outRe[half:n], outIm[half:n], re[stride:], offset(im, stride), half, 2*stride)

	// Sub-length n uses every (t.n/n)-th entry of the top-level table
	step := t.n / n
	for i := 0; i < half; i++ {
		tr := t.cos[i*step]
		ti := t.sin[i*step]

		oddRe, oddIm := outRe[i+half], outIm[i+half]
		pr := tr*oddRe - ti*oddIm
		pi := tr*oddIm + ti*oddRe

		evenRe, evenIm := outRe[i], outIm[i]
		outRe[i] = evenRe + pr
		outIm[i] = evenIm + pi
		outRe[i+half] = evenRe - pr
		outIm[i+half] = evenIm - pi
	}
}

func offset(s []float64, k int) []float64 {
	if s == nil {
		return nil
	}
	return s[k:]
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
