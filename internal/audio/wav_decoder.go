package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag in the fmt chunk
const wavFormatPCM = 1

// WAVDecoder implements Decoder for integer PCM WAV files
type WAVDecoder struct {
	decoder    *wav.Decoder
	closer     io.Closer
	sampleRate int
	bitDepth   int
	numChans   int
	numFrames  int64
	buf        *audio.IntBuffer
}

// NewWAVDecoder opens filename and positions the decoder at the PCM data
func NewWAVDecoder(filename string) (*WAVDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	d, err := newWAVDecoder(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

func newWAVDecoder(r io.ReadSeeker, closer io.Closer) (*WAVDecoder, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("format tag %#x: %w", decoder.WavAudioFormat, ErrNotPCM)
	}

	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	numChans := int(decoder.NumChans)
	frameBytes := int64(bitDepth/8) * int64(numChans)
	if frameBytes == 0 {
		return nil, fmt.Errorf("%d-bit, %d channels: %w", bitDepth, numChans, ErrInvalidWAV)
	}

	return &WAVDecoder{
		decoder:    decoder,
		closer:     closer,
		sampleRate: int(decoder.SampleRate),
		bitDepth:   bitDepth,
		numChans:   numChans,
		numFrames:  decoder.PCMLen() / frameBytes,
	}, nil
}

// ReadChunk reads up to numFrames frames and returns channel 0.
// 8-bit WAV data is unsigned and is shifted to be centred on zero.
func (d *WAVDecoder) ReadChunk(numFrames int) ([]int, error) {
	// Interleaved data needs numFrames × numChans values
	bufSize := numFrames * d.numChans
	if d.buf == nil || cap(d.buf.Data) < bufSize {
		d.buf = &audio.IntBuffer{
			Data: make([]int, bufSize),
			Format: &audio.Format{
				NumChannels: d.numChans,
				SampleRate:  d.sampleRate,
			},
			SourceBitDepth: d.bitDepth,
		}
	}
	d.buf.Data = d.buf.Data[:bufSize]

	n, err := d.decoder.PCMBuffer(d.buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	frames := n / d.numChans
	if frames == 0 {
		return nil, io.EOF
	}

	samples := make([]int, frames)
	for i := range samples {
		samples[i] = d.buf.Data[i*d.numChans]
	}
	if d.bitDepth == 8 {
		for i := range samples {
			samples[i] -= 128
		}
	}
	return samples, nil
}

// SampleRate returns the sample rate
func (d *WAVDecoder) SampleRate() int {
	return d.sampleRate
}

// BitDepth returns the bits per sample
func (d *WAVDecoder) BitDepth() int {
	return d.bitDepth
}

// NumChannels returns the number of audio channels
func (d *WAVDecoder) NumChannels() int {
	return d.numChans
}

// NumFrames returns the frame count derived from the data chunk length
func (d *WAVDecoder) NumFrames() int64 {
	return d.numFrames
}

// Close closes the decoder and releases resources
func (d *WAVDecoder) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}
