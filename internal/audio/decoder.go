package audio

// Decoder yields single-channel integer PCM frames from an audio source
type Decoder interface {
	// ReadChunk reads up to numFrames frames and returns the first channel.
	// Returns io.EOF when no frames remain.
	ReadChunk(numFrames int) ([]int, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// BitDepth returns the bits per sample of the source
	BitDepth() int

	// NumChannels returns the number of interleaved channels in the source
	NumChannels() int

	// NumFrames returns the total number of frames, or 0 if unknown
	NumFrames() int64

	// Close releases resources
	Close() error
}
