package renderer

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/sonogram/internal/spectrum"
)

func testGrid(t *testing.T) *spectrum.Grid {
	t.Helper()
	g := spectrum.NewGrid(3, 4, 5, spectrum.BuildPalette())
	cols := [][]uint8{
		{0, 10, 20, 30},
		{40, 101, 200, 255},
		{5, 6, 7, 8},
	}
	for x, col := range cols {
		if err := g.SetColumn(x, col); err != nil {
			t.Fatalf("SetColumn(%d): %v", x, err)
		}
	}
	return g
}

func TestImage_CanvasWidth(t *testing.T) {
	g := testGrid(t)
	img := Image(g, false)

	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Fatalf("bounds = %v, want 5x4", b)
	}
	for x := 0; x < 5; x++ {
		for y := 0; y < 4; y++ {
			if got, want := img.ColorIndexAt(x, y), g.At(x, y); got != want {
				t.Errorf("index at (%d, %d) = %d, want %d", x, y, got, want)
			}
		}
	}

	// Resolved colours come from the palette
	if got, want := img.At(1, 2), g.Palette.At(200); got != want {
		t.Errorf("colour at (1, 2) = %v, want %v", got, want)
	}
	// Unanalysed columns are black
	if got := img.At(4, 3); got != g.Palette.At(0) {
		t.Errorf("tail colour = %v, want palette[0]", got)
	}
}

func TestImage_Trim(t *testing.T) {
	img := Image(testGrid(t), true)
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 4 {
		t.Fatalf("bounds = %v, want 3x4", b)
	}
	if img.ColorIndexAt(2, 3) != 8 {
		t.Errorf("index at (2, 3) = %d, want 8", img.ColorIndexAt(2, 3))
	}
}

func TestEncodePNG_PalettedRoundTrip(t *testing.T) {
	img := Image(testGrid(t), false)

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	paletted, ok := decoded.(*image.Paletted)
	if !ok {
		t.Fatalf("decoded %T, want *image.Paletted", decoded)
	}
	if len(paletted.Palette) != 256 {
		t.Errorf("decoded palette has %d entries, want 256", len(paletted.Palette))
	}
	for x := 0; x < 5; x++ {
		for y := 0; y < 4; y++ {
			r1, g1, b1, _ := img.At(x, y).RGBA()
			r2, g2, b2, _ := paletted.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 {
				t.Fatalf("pixel (%d, %d) changed in round trip", x, y)
			}
		}
	}
}

func TestEncodePNG_EmptyImage(t *testing.T) {
	g := spectrum.NewGrid(0, 1024, 0, spectrum.BuildPalette())
	if err := EncodePNG(&bytes.Buffer{}, Image(g, true)); err == nil {
		t.Error("expected error encoding a zero-width image")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.png")
	if err := SavePNG(Image(testGrid(t), false), path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output not created: %v", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Width != 5 || cfg.Height != 4 {
		t.Errorf("saved image is %dx%d, want 5x4", cfg.Width, cfg.Height)
	}

	if err := SavePNG(Image(testGrid(t), false), filepath.Join(t.TempDir(), "missing", "grid.png")); err == nil {
		t.Error("expected error saving into a missing directory")
	}
}

// TestImage_EndToEnd renders one second of a 2 kHz tone and checks the
// encoded spectrogram's size and the bright row.
func TestImage_EndToEnd(t *testing.T) {
	const rate = 44100
	samples := make([]int, rate)
	for i := range samples {
		samples[i] = int(12000 * math.Sin(2*math.Pi*2000*float64(i)/rate))
	}

	grid, err := spectrum.NewRenderer().Render(spectrum.SampleBuffer{Samples: samples, SampleRate: rate})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, Image(grid, false)); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 1024 {
		t.Errorf("spectrogram is %dx%d, want 100x1024", cfg.Width, cfg.Height)
	}

	// 2 kHz is bin 92.9 of 2048 at 44.1 kHz
	img := Image(grid, false)
	row := 1024 - 93
	if v := img.ColorIndexAt(10, row); v < 200 {
		t.Errorf("tone row %d intensity %d, want bright", row, v)
	}
	t.Logf("Spectrogram %dx%d, %d bytes PNG", cfg.Width, cfg.Height, buf.Len())
}
