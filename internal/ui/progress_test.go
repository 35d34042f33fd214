package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/sonogram/internal/audio"
)

func testProfile() *audio.Profile {
	return &audio.Profile{
		SampleRate:    44100,
		BitDepth:      16,
		NumChannels:   2,
		NumSamples:    441000,
		Duration:      10 * time.Second,
		PeakDB:        -1.5,
		RMSDB:         -18.2,
		CrestFactorDB: 16.7,
		Columns:       996,
		CanvasWidth:   1000,
	}
}

func send(t *testing.T, m *Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := m.Update(msg)
	if next != m {
		t.Fatalf("Update returned a different model")
	}
	return cmd
}

func TestModel_PhaseTransitions(t *testing.T) {
	m := NewModel(true)
	if m.Phase() != PhaseAnalysis {
		t.Fatalf("initial phase = %v, want PhaseAnalysis", m.Phase())
	}
	if !strings.Contains(m.View(), "Starting analysis") {
		t.Error("initial view missing start message")
	}

	send(t, m, LoadProgress{FramesRead: 50, TotalFrames: 100})
	if !strings.Contains(m.View(), "50%") {
		t.Error("load progress not shown")
	}

	send(t, m, AnalysisProgress{Block: 25, TotalBlocks: 100, BlockRMS: 0.1})
	if !strings.Contains(m.View(), "Block 25 of 100") {
		t.Error("analysis progress not shown")
	}

	send(t, m, AnalysisComplete{Profile: testProfile(), AnalysisTime: 20 * time.Millisecond})
	if m.Phase() != PhaseRendering {
		t.Fatalf("phase after analysis = %v, want PhaseRendering", m.Phase())
	}
	view := m.View()
	if !strings.Contains(view, "Rendering Spectrogram") || !strings.Contains(view, "44100 Hz") {
		t.Errorf("rendering view missing profile:\n%s", view)
	}

	cmd := send(t, m, RenderComplete{
		OutputFile: "out.png",
		Width:      1000,
		Height:     1024,
		FileSize:   2048,
		RenderTime: 300 * time.Millisecond,
		TotalTime:  time.Second,
	})
	if m.Phase() != PhaseComplete {
		t.Fatalf("phase after render = %v, want PhaseComplete", m.Phase())
	}
	if cmd == nil {
		t.Fatal("RenderComplete should schedule the quit timer")
	}

	summary := m.CompletionSummary()
	for _, want := range []string{"Spectrogram Complete", "out.png", "1000x1024", "2.0 KB", "FFT render"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestModel_RenderProgressMonotonic(t *testing.T) {
	m := NewModel(true)
	send(t, m, AnalysisComplete{Profile: testProfile()})

	send(t, m, RenderProgress{Column: 40, TotalColumns: 100, Pixels: make([]uint8, 1024)})
	send(t, m, RenderProgress{Column: 32, TotalColumns: 100, Pixels: make([]uint8, 1024)})
	if m.renderState.Column != 40 {
		t.Errorf("column went backwards to %d", m.renderState.Column)
	}
	if !strings.Contains(m.View(), "Column 40 of 100") {
		t.Error("view does not show the furthest column")
	}
}

func TestModel_HistoryCapped(t *testing.T) {
	m := NewModel(false)
	send(t, m, AnalysisComplete{Profile: testProfile()})

	limit := m.previewConfig.Width
	for i := 0; i < limit+10; i++ {
		col := make([]uint8, 1024)
		col[0] = uint8(i)
		send(t, m, RenderProgress{Column: i + 1, TotalColumns: 1000, Pixels: col})
	}
	if len(m.history) != limit {
		t.Fatalf("history holds %d columns, want %d", len(m.history), limit)
	}
	if got := m.history[0][0]; got != 10 {
		t.Errorf("oldest kept column = %d, want 10", got)
	}

	if !strings.Contains(m.View(), "Spectrogram Preview") {
		t.Error("preview not rendered")
	}
	if m.cachedColumn != limit+10 {
		t.Errorf("preview cached at column %d", m.cachedColumn)
	}
}

func TestModel_NoPreview(t *testing.T) {
	m := NewModel(true)
	send(t, m, AnalysisComplete{Profile: testProfile()})
	send(t, m, RenderProgress{Column: 1, TotalColumns: 10, Pixels: make([]uint8, 1024)})
	if strings.Contains(m.View(), "Spectrogram Preview") {
		t.Error("preview rendered with noPreview set")
	}
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(true)

	if cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Error("ordinary key should not quit while running")
	}

	cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not return tea.Quit")
	}

	cmd = send(t, m, progressQuitMsg{})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit timer did not return tea.Quit")
	}
}

func TestModel_CompletionSummaryBeforeComplete(t *testing.T) {
	if s := NewModel(true).CompletionSummary(); s != "" {
		t.Errorf("summary before completion = %q, want empty", s)
	}
}

func TestRenderBars(t *testing.T) {
	if renderBars(nil, 10) != "" {
		t.Error("empty values should render nothing")
	}

	out := renderBars([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d rows, want 2", len(lines))
	}
	if !strings.Contains(lines[1], "█") {
		t.Error("largest bar should fill the bottom row")
	}
}

func TestFormatHelpers(t *testing.T) {
	durations := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
	}
	for _, tc := range durations {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}

	sizes := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tc := range sizes {
		if got := formatBytes(tc.n); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

// TestModel_PeakReadout checks the rendering view names the frequency of the
// brightest row in the latest column
func TestModel_PeakReadout(t *testing.T) {
	m := NewModel(true)
	send(t, m, AnalysisComplete{Profile: testProfile()})

	send(t, m, RenderProgress{Column: 8, TotalColumns: 100, Pixels: make([]uint8, 1024)})
	if !strings.Contains(m.View(), "silent") {
		t.Error("black column should read as silent")
	}

	// Row 931 is bin 93: 93 × 44100 / 2048 ≈ 2002.6 Hz
	col := make([]uint8, 1024)
	col[931] = 220
	col[500] = 40
	send(t, m, RenderProgress{Column: 16, TotalColumns: 100, Pixels: col})
	if view := m.View(); !strings.Contains(view, "2.00 kHz") {
		t.Errorf("peak readout missing from view:\n%s", view)
	}
}

func TestModel_DominantFrequencySummary(t *testing.T) {
	m := NewModel(true)
	send(t, m, AnalysisComplete{Profile: testProfile()})
	send(t, m, RenderComplete{OutputFile: "a.png", DominantHz: 440, TotalTime: time.Second})
	if !strings.Contains(m.CompletionSummary(), "440 Hz") {
		t.Error("summary missing dominant frequency")
	}

	m = NewModel(true)
	send(t, m, RenderComplete{OutputFile: "b.png", TotalTime: time.Second})
	if strings.Contains(m.CompletionSummary(), "Dominant") {
		t.Error("silent render should not report a dominant frequency")
	}
}

func TestFormatFrequency(t *testing.T) {
	testCases := []struct {
		hz   float64
		want string
	}{
		{21.5, "22 Hz"},
		{440, "440 Hz"},
		{2002.6, "2.00 kHz"},
		{22050, "22.05 kHz"},
	}
	for _, tc := range testCases {
		if got := formatFrequency(tc.hz); got != tc.want {
			t.Errorf("formatFrequency(%v) = %q, want %q", tc.hz, got, tc.want)
		}
	}
}
