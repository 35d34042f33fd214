package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/linuxmatters/sonogram/internal/config"
	"github.com/linuxmatters/sonogram/internal/spectrum"
)

// Profile holds level statistics for a recording, computed before rendering
type Profile struct {
	// Source format
	SampleRate  int
	BitDepth    int
	NumChannels int
	NumSamples  int
	Duration    time.Duration

	// Levels relative to full scale (0.0-1.0)
	Peak float64
	RMS  float64

	// Same levels in dBFS, floored at config.SilenceFloorDB
	PeakDB        float64
	RMSDB         float64
	CrestFactorDB float64 // PeakDB - RMSDB

	// ClippedSamples counts samples at either full-scale limit
	ClippedSamples int

	// Envelope is the RMS of each hop-sized block, one per canvas column
	Envelope []float64

	// Spectrogram geometry
	Columns     int // Analysed frames
	CanvasWidth int // Full image width
}

// ProgressCallback is called with progress updates during analysis
type ProgressCallback func(block, totalBlocks int, blockRMS, peak float64, elapsed time.Duration)

// Analyze measures the levels of pcm block by block, one block per
// spectrogram column.
func Analyze(pcm *PCM, progressCb ProgressCallback) (*Profile, error) {
	n := len(pcm.Samples)
	if n == 0 {
		return nil, ErrNoAudio
	}

	columns, canvas, err := spectrum.ExpectedColumns(n, pcm.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to plan spectrogram: %w", err)
	}

	profile := &Profile{
		SampleRate:  pcm.SampleRate,
		BitDepth:    pcm.BitDepth,
		NumChannels: pcm.NumChannels,
		NumSamples:  n,
		Duration:    pcm.Duration(),
		Columns:     columns,
		CanvasWidth: canvas,
		Envelope:    make([]float64, canvas),
	}

	fullScale := pcm.FullScale()
	hop := float64(pcm.SampleRate) / config.HopDivisor
	startTime := time.Now()

	var (
		sumSquares float64
		maxAbs     float64
	)
	for block := 0; block < canvas; block++ {
		start := int(float64(block) * hop)
		end := min(n, int(float64(block+1)*hop))

		var blockSquares float64
		for _, s := range pcm.Samples[start:end] {
			v := float64(s)
			blockSquares += v * v

			a := math.Abs(v)
			if a > maxAbs {
				maxAbs = a
			}
			if a >= fullScale {
				profile.ClippedSamples++
			}
		}
		sumSquares += blockSquares

		if end > start {
			profile.Envelope[block] = math.Sqrt(blockSquares/float64(end-start)) / fullScale
		}

		if progressCb != nil && ((block+1)%config.ProgressEveryNCols == 0 || block == canvas-1) {
			progressCb(block+1, canvas, profile.Envelope[block], maxAbs/fullScale, time.Since(startTime))
		}
	}

	profile.Peak = maxAbs / fullScale
	profile.RMS = math.Sqrt(sumSquares/float64(n)) / fullScale
	profile.PeakDB = toDBFS(profile.Peak)
	profile.RMSDB = toDBFS(profile.RMS)
	profile.CrestFactorDB = profile.PeakDB - profile.RMSDB

	return profile, nil
}

// toDBFS converts a 0.0-1.0 level to dBFS
func toDBFS(level float64) float64 {
	if level <= 0 {
		return config.SilenceFloorDB
	}
	return math.Max(20*math.Log10(level), config.SilenceFloorDB)
}
