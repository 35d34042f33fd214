package audio

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/linuxmatters/sonogram/internal/config"
	"github.com/linuxmatters/sonogram/internal/spectrum"
)

func sinePCM(n, rate int, freq, level float64) *PCM {
	s := make([]int, n)
	for i := range s {
		s[i] = int(math.Round(level * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))))
	}
	return &PCM{Samples: s, SampleRate: rate, BitDepth: 16, NumChannels: 1}
}

// TestAnalyze_HalfScaleSine checks the dBFS figures of a -6 dB sine:
// peak ≈ -6.02 dBFS, RMS ≈ -9.03 dBFS, crest factor ≈ 3.01 dB.
func TestAnalyze_HalfScaleSine(t *testing.T) {
	pcm := sinePCM(44100, 44100, 1000, 0.5)

	profile, err := Analyze(pcm, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"Peak", profile.Peak, 0.5, 1e-3},
		{"PeakDB", profile.PeakDB, -6.02, 0.02},
		{"RMSDB", profile.RMSDB, -9.03, 0.02},
		{"CrestFactorDB", profile.CrestFactorDB, 3.01, 0.02},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > c.tol {
			t.Errorf("%s = %.4f, want %.4f ± %.3f", c.name, c.got, c.want, c.tol)
		}
	}

	if profile.ClippedSamples != 0 {
		t.Errorf("ClippedSamples = %d, want 0", profile.ClippedSamples)
	}

	t.Logf("Analysis complete:")
	t.Logf("  Duration: %v", profile.Duration)
	t.Logf("  Peak: %.2f dBFS", profile.PeakDB)
	t.Logf("  RMS: %.2f dBFS", profile.RMSDB)
	t.Logf("  Crest factor: %.2f dB", profile.CrestFactorDB)
}

// TestAnalyze_Geometry verifies the profile predicts the spectrogram size
func TestAnalyze_Geometry(t *testing.T) {
	for _, rate := range []int{8000, 22050, 44100, 48000} {
		pcm := sinePCM(rate*2, rate, 440, 0.25)

		profile, err := Analyze(pcm, nil)
		if err != nil {
			t.Fatalf("%d Hz: Analyze failed: %v", rate, err)
		}

		grid, err := spectrum.NewRenderer().Render(pcm.Buffer())
		if err != nil {
			t.Fatalf("%d Hz: Render failed: %v", rate, err)
		}
		if profile.Columns != grid.Width || profile.CanvasWidth != grid.CanvasWidth {
			t.Errorf("%d Hz: profile predicts %d/%d columns, grid has %d/%d",
				rate, profile.Columns, profile.CanvasWidth, grid.Width, grid.CanvasWidth)
		}
		if len(profile.Envelope) != profile.CanvasWidth {
			t.Errorf("%d Hz: envelope has %d blocks, want %d", rate, len(profile.Envelope), profile.CanvasWidth)
		}
	}
}

func TestAnalyze_Envelope(t *testing.T) {
	// First half silent, second half full-scale square wave
	const rate = 8000
	s := make([]int, rate)
	for i := rate / 2; i < rate; i++ {
		if (i/20)%2 == 0 {
			s[i] = 32767
		} else {
			s[i] = -32767
		}
	}
	pcm := &PCM{Samples: s, SampleRate: rate, BitDepth: 16, NumChannels: 1}

	profile, err := Analyze(pcm, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	half := len(profile.Envelope) / 2
	for i, v := range profile.Envelope {
		want := 0.0
		if i >= half {
			want = 1.0
		}
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("envelope[%d] = %.4f, want %.1f", i, v, want)
		}
	}
	if profile.ClippedSamples != rate/2 {
		t.Errorf("ClippedSamples = %d, want %d", profile.ClippedSamples, rate/2)
	}
	if math.Abs(profile.PeakDB) > 1e-9 {
		t.Errorf("PeakDB = %.4f, want 0", profile.PeakDB)
	}
}

func TestAnalyze_Silence(t *testing.T) {
	pcm := &PCM{Samples: make([]int, 4800), SampleRate: 48000, BitDepth: 16, NumChannels: 1}

	profile, err := Analyze(pcm, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if profile.PeakDB != config.SilenceFloorDB || profile.RMSDB != config.SilenceFloorDB {
		t.Errorf("silence levels = %.1f/%.1f dBFS, want floor %.1f",
			profile.PeakDB, profile.RMSDB, config.SilenceFloorDB)
	}
	if profile.CrestFactorDB != 0 {
		t.Errorf("CrestFactorDB = %.2f, want 0", profile.CrestFactorDB)
	}
}

func TestAnalyze_Progress(t *testing.T) {
	pcm := sinePCM(44100, 44100, 220, 0.1)

	var calls, lastBlock, lastTotal int
	_, err := Analyze(pcm, func(block, total int, rms, peak float64, _ time.Duration) {
		calls++
		lastBlock, lastTotal = block, total
		if rms < 0 || peak < 0 || peak > 1 {
			t.Errorf("block %d: rms %.3f peak %.3f out of range", block, rms, peak)
		}
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if lastBlock != lastTotal || lastTotal != 100 {
		t.Errorf("final progress %d/%d, want 100/100", lastBlock, lastTotal)
	}
	if want := 100/config.ProgressEveryNCols + 1; calls != want {
		t.Errorf("%d progress calls, want %d", calls, want)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	if _, err := Analyze(&PCM{SampleRate: 44100, BitDepth: 16}, nil); !errors.Is(err, ErrNoAudio) {
		t.Errorf("empty PCM: error = %v, want ErrNoAudio", err)
	}

	low := &PCM{Samples: make([]int, 100), SampleRate: 50, BitDepth: 16}
	if _, err := Analyze(low, nil); !errors.Is(err, spectrum.ErrSampleRateTooLow) {
		t.Errorf("50 Hz: error = %v, want ErrSampleRateTooLow", err)
	}
}
