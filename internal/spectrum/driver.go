package spectrum

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/linuxmatters/sonogram/internal/config"
	"golang.org/x/sync/errgroup"
)

// Sample is any PCM sample representation the renderer accepts.
// Float samples that are NaN or ±Inf contribute 0.
type Sample interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// SampleBuffer is a single channel of signed PCM samples. The renderer
// borrows it and never modifies it.
type SampleBuffer struct {
	Samples    []int
	SampleRate int
}

// ProgressFunc is called as columns complete. column is the most recently
// finished column and must not be modified.
type ProgressFunc func(done, total int, column []uint8)

// Option configures a Renderer
type Option func(*Renderer)

// WithWorkers sets how many frames are processed in parallel. Values below
// 2 render on the calling goroutine.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.workers = n
	}
}

// WithProgress registers a progress callback. Calls are serialised and
// throttled to every config.ProgressEveryNCols columns plus the last one.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Renderer) {
		r.progress = fn
	}
}

// Renderer turns sample buffers into spectrogram grids. The window is built
// once and the FFT engine (with its twiddle cache) is shared by every render.
type Renderer struct {
	engine   *Engine
	window   []float64
	workers  int
	progress ProgressFunc
}

// NewRenderer creates a Renderer for config.FrameSize frames
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		engine:  NewEngine(),
		window:  cosineLobe(config.FrameSize),
		workers: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the renderer's FFT engine
func (r *Renderer) Engine() *Engine {
	return r.engine
}

// Render analyses buf into a grid of config.ImageHeight rows
func (r *Renderer) Render(buf SampleBuffer) (*Grid, error) {
	return RenderSamples(r, buf.Samples, buf.SampleRate)
}

// RenderSamples is Render for any sample type.
//
// Frames start at offsets 0, hop, 2·hop, ... where hop = sampleRate/100 and
// each start is the truncated offset. Frames are taken while
// offset < len(samples) - FrameSize - hop, so the trailing frame plus one hop
// of audio is never analysed. The returned grid's CanvasWidth is
// ceil(len(samples)/hop) regardless.
func RenderSamples[S Sample](r *Renderer, samples []S, sampleRate int) (*Grid, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	hop, err := hopSize(sampleRate)
	if err != nil {
		return nil, err
	}

	starts := frameStarts(len(samples), hop)
	palette := BuildPalette()
	grid := NewGrid(len(starts), config.ImageHeight, canvasWidth(len(samples), hop), palette)
	if len(starts) == 0 {
		return grid, nil
	}

	if err := r.engine.Prepare(config.FrameSize); err != nil {
		return nil, err
	}

	report := r.progressReporter(len(starts))

	workers := min(r.workers, len(starts))
	if workers < 2 {
		s := r.newScratch()
		for x, start := range starts {
			if err := renderColumn(r, s, samples[start:start+config.FrameSize], grid.Column(x)); err != nil {
				return nil, fmt.Errorf("column %d: %w", x, err)
			}
			report(grid.Column(x))
		}
		return grid, nil
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			s := r.newScratch()
			for x := w; x < len(starts); x += workers {
				start := starts[x]
				if err := renderColumn(r, s, samples[start:start+config.FrameSize], grid.Column(x)); err != nil {
					return fmt.Errorf("column %d: %w", x, err)
				}
				report(grid.Column(x))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grid, nil
}

// RenderFrame runs a single frame of config.FrameSize samples through the
// window, FFT and dB mapping, returning one column of config.ImageHeight
// intensities.
func (r *Renderer) RenderFrame(frame []float64) ([]uint8, error) {
	if len(frame) != len(r.window) {
		return nil, fmt.Errorf("frame of %d samples, window %d: %w", len(frame), len(r.window), ErrShortFrame)
	}
	col := make([]uint8, config.ImageHeight)
	if err := renderColumn(r, r.newScratch(), frame, col); err != nil {
		return nil, err
	}
	return col, nil
}

// ExpectedColumns returns the number of processed frames and the canvas
// width for n samples at sampleRate, without rendering.
func ExpectedColumns(n, sampleRate int) (columns, canvas int, err error) {
	hop, err := hopSize(sampleRate)
	if err != nil {
		return 0, 0, err
	}
	return len(frameStarts(n, hop)), canvasWidth(n, hop), nil
}

// scratch is the per-goroutine working memory for one frame
type scratch struct {
	frame []float64
	re    []float64
	im    []float64
	mag   []float64
}

func (r *Renderer) newScratch() *scratch {
	n := len(r.window)
	return &scratch{
		frame: make([]float64, n),
		re:    make([]float64, n),
		im:    make([]float64, n),
		mag:   make([]float64, n),
	}
}

func renderColumn[S Sample](r *Renderer, s *scratch, frame []S, dst []uint8) error {
	for j, v := range frame {
		s.frame[j] = numeric(v) * r.window[j]
	}
	if err := r.engine.magnitudeInto(s.mag, s.frame, s.re, s.im); err != nil {
		return err
	}
	return ScaleInto(dst, s.mag)
}

// progressReporter returns a func to call once per finished column. It is
// safe for concurrent use and never reports a lower count after a higher one.
func (r *Renderer) progressReporter(total int) func(column []uint8) {
	if r.progress == nil {
		return func([]uint8) {}
	}

	var (
		done     atomic.Int64
		mu       sync.Mutex
		reported int
	)
	return func(column []uint8) {
		n := int(done.Add(1))
		if n%config.ProgressEveryNCols != 0 && n != total {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if n <= reported {
			return
		}
		reported = n
		r.progress(n, total, column)
	}
}

// numeric converts a sample to float64; NaN and ±Inf become 0
func numeric[S Sample](v S) float64 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func hopSize(sampleRate int) (float64, error) {
	if sampleRate < config.MinSampleRate {
		return 0, fmt.Errorf("%d Hz, need at least %d Hz: %w", sampleRate, config.MinSampleRate, ErrSampleRateTooLow)
	}
	return float64(sampleRate) / config.HopDivisor, nil
}

// frameStarts lists the first sample of every analysed frame. The offset
// accumulates as a float so rates that are not multiples of 100 keep their
// fractional hop.
func frameStarts(n int, hop float64) []int {
	limit := float64(n-config.FrameSize) - hop
	var starts []int
	for off := 0.0; off < limit; off += hop {
		starts = append(starts, int(off))
	}
	return starts
}

func canvasWidth(n int, hop float64) int {
	return int(math.Ceil(float64(n) / hop))
}

func cosineLobe(size int) []float64 {
	w, err := Window(size)
	if err != nil {
		panic(err)
	}
	return w
}
