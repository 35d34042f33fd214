package config

// Analysis settings
const (
	FrameSize   = 2048 // Samples per analysis frame (FFT length)
	ImageHeight = 1024 // Frequency rows in the output image
	HopDivisor  = 100  // Hop size is SampleRate / HopDivisor, i.e. one column per 10ms

	// MinSampleRate is the lowest rate that still yields a hop of one sample
	MinSampleRate = HopDivisor

	ReadChunkFrames = 1 << 16 // Frames decoded per WAV read
	SilenceFloorDB  = -120.0  // Level reported for digital silence in dBFS
)

// Decibel calibration
// These are visual tuning values, not derived signal-processing constants.
// Changing any of them changes every rendered image.
const (
	BlockNorm    = 0.5 // Magnitude normalisation before log10
	DBGain       = 4.0 // Multiplier applied to the dB value
	DBOffset     = -43 // Offset applied after the gain
	MaxIntensity = 255 // Upper clamp for pixel intensity
)

// Palette settings
const (
	PaletteSize = 256 // One colour per intensity value
	PaletteKnee = 100 // Intensities at or below the knee have no green/blue
	PaletteSpan = 156 // Intensity range above the knee mapped onto 0-255
)

// Thumbnail settings
const (
	ThumbnailWidth  = 1280
	ThumbnailHeight = 720

	// Caption colour (RGB values for thumbnail title text)
	// Pale cyan reads clearly over the red-to-white spectrogram
	TextColorR = 200
	TextColorG = 255
	TextColorB = 255

	ThumbnailMargin              = 30  // Margin in pixels from edges for thumbnail text
	ThumbnailTextRotationDegrees = 3.0 // Rotation angle for thumbnail text (degrees, clockwise)
	ThumbnailMaxFontSize         = 150.0
	ThumbnailMinFontSize         = 10.0
)

// Output settings
const (
	OutputExtension    = ".png"
	ThumbnailSuffix    = "-thumb"
	ProgressEveryNCols = 8 // Progress callbacks are throttled to every N columns
)
