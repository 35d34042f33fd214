package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/linuxmatters/sonogram/internal/config"
	"github.com/linuxmatters/sonogram/internal/spectrum"
)

var (
	// ErrInvalidWAV is returned when the input is not a readable RIFF/WAVE file
	ErrInvalidWAV = errors.New("invalid WAV file")
	// ErrNotPCM is returned for WAV files that do not carry integer PCM
	ErrNotPCM = errors.New("WAV is not integer PCM")
	// ErrNoAudio is returned when the data chunk holds no frames
	ErrNoAudio = errors.New("no audio data in file")
)

// PCM is a decoded single-channel recording
type PCM struct {
	Samples     []int // Channel 0, signed
	SampleRate  int
	BitDepth    int
	NumChannels int // Channels in the source file
}

// ReadProgress is called after each decoded chunk
type ReadProgress func(framesRead, totalFrames int64)

// ReadWAV reads channel 0 of a PCM WAV file
func ReadWAV(filename string) (*PCM, error) {
	return ReadWAVWithProgress(filename, nil)
}

// ReadWAVWithProgress is ReadWAV reporting decode progress
func ReadWAVWithProgress(filename string, progressCb ReadProgress) (*PCM, error) {
	d, err := NewWAVDecoder(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer d.Close()

	return ReadAll(d, progressCb)
}

// DecodeWAV reads channel 0 of a PCM WAV stream
func DecodeWAV(r io.ReadSeeker) (*PCM, error) {
	d, err := newWAVDecoder(r, nil)
	if err != nil {
		return nil, err
	}
	return ReadAll(d, nil)
}

// ReadAll drains d into a PCM
func ReadAll(d Decoder, progressCb ReadProgress) (*PCM, error) {
	total := d.NumFrames()
	pcm := &PCM{
		Samples:     make([]int, 0, total),
		SampleRate:  d.SampleRate(),
		BitDepth:    d.BitDepth(),
		NumChannels: d.NumChannels(),
	}

	for {
		chunk, err := d.ReadChunk(config.ReadChunkFrames)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading audio at frame %d: %w", len(pcm.Samples), err)
		}
		pcm.Samples = append(pcm.Samples, chunk...)

		if progressCb != nil {
			progressCb(int64(len(pcm.Samples)), total)
		}
	}

	if len(pcm.Samples) == 0 {
		return nil, ErrNoAudio
	}
	return pcm, nil
}

// Buffer returns the samples in the form the spectrogram renderer consumes.
// The slice is shared, not copied.
func (p *PCM) Buffer() spectrum.SampleBuffer {
	return spectrum.SampleBuffer{
		Samples:    p.Samples,
		SampleRate: p.SampleRate,
	}
}

// Duration returns the playing time of the samples
func (p *PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(p.Samples)) * time.Second / time.Duration(p.SampleRate)
}

// FullScale returns the largest positive sample value for the bit depth
func (p *PCM) FullScale() float64 {
	return float64(audio.IntMaxSignedValue(p.BitDepth))
}
