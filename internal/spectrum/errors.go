package spectrum

import "errors"

var (
	// ErrNotPowerOfTwo is returned when a transform input length is not 2^k
	ErrNotPowerOfTwo = errors.New("length is not a power of two")
	// ErrLengthMismatch is returned when real and imaginary inputs differ in length
	ErrLengthMismatch = errors.New("real and imaginary lengths differ")
	// ErrSampleRateTooLow is returned when the hop size would be below one sample
	ErrSampleRateTooLow = errors.New("sample rate too low")
	// ErrShortFrame is returned when a frame does not match the window length
	ErrShortFrame = errors.New("frame length does not match window")
	// ErrInvalidHeight is returned for a pixel height outside (0, len(magnitudes)]
	ErrInvalidHeight = errors.New("invalid pixel height")
	// ErrInvalidSize is returned for a non-positive window size
	ErrInvalidSize = errors.New("invalid window size")
	// ErrNoSamples is returned when the sample buffer is empty
	ErrNoSamples = errors.New("no samples")
)
