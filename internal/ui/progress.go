package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/sonogram/internal/audio"
	"github.com/linuxmatters/sonogram/internal/config"
	"github.com/linuxmatters/sonogram/internal/spectrum"
)

// Spectrogram palette: black through red to white
var (
	heatWhite = lipgloss.Color("#FFFFFF")
	heatPink  = lipgloss.Color("#FF9999")
	heatRed   = lipgloss.Color("#FF0000")
	heatDeep  = lipgloss.Color("#A00000")
	heatEmber = lipgloss.Color("#500000")

	// Accent colours
	coolGray = lipgloss.Color("#8899AA")
)

// Phase represents the current processing phase
type Phase int

const (
	PhaseAnalysis Phase = iota
	PhaseRendering
	PhaseComplete
)

// LoadProgress reports frames decoded from the input file
type LoadProgress struct {
	FramesRead  int64
	TotalFrames int64
}

// AnalysisProgress represents progress updates from the level analysis
type AnalysisProgress struct {
	Block       int
	TotalBlocks int
	BlockRMS    float64
	Peak        float64
	Elapsed     time.Duration
}

// AnalysisComplete signals completion of analysis with the level profile
type AnalysisComplete struct {
	Profile      *audio.Profile
	LoadTime     time.Duration
	AnalysisTime time.Duration
}

// RenderProgress represents progress updates from the spectrogram render
type RenderProgress struct {
	Column       int
	TotalColumns int
	Pixels       []uint8 // Most recently finished column, index 0 at the top
	Elapsed      time.Duration
}

// RenderComplete signals the spectrogram has been written
type RenderComplete struct {
	OutputFile    string
	ThumbnailFile string
	Width         int
	Height        int
	FileSize      int64
	LoadTime      time.Duration
	AnalysisTime  time.Duration
	RenderTime    time.Duration // Window + FFT + dB mapping
	EncodeTime    time.Duration // PNG encoding and write
	ThumbnailTime time.Duration
	TotalTime     time.Duration
	DominantHz    float64 // Frequency of the brightest row overall, 0 if silent
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// Model implements the Bubbletea model for all processing phases
type Model struct {
	progressBar progress.Model
	summaryBar  progress.Model
	phase       Phase

	// Populated after analysis
	profile *audio.Profile

	// Analysis state
	loadState        LoadProgress
	analysisProgress AnalysisProgress
	levels           []float64

	// Render state
	renderState RenderProgress
	history     [][]uint8
	complete    *RenderComplete

	renderStartTime time.Time

	// UI state
	width           int
	height          int
	noPreview       bool
	previewConfig   PreviewConfig
	cachedPreview   string
	cachedColumn    int
	completionDelay time.Duration
	quitting        bool
}

// NewModel creates a new progress UI model
func NewModel(noPreview bool) *Model {
	p := progress.New(
		progress.WithGradient(string(heatDeep), string(heatWhite)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	summaryBar := progress.New(
		progress.WithGradient(string(heatDeep), string(heatWhite)),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:     p,
		summaryBar:      summaryBar,
		phase:           PhaseAnalysis,
		completionDelay: 2 * time.Second,
		noPreview:       noPreview,
		previewConfig:   DefaultPreviewConfig(),
		cachedColumn:    -1,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Phase reports the phase the model is displaying
func (m *Model) Phase() Phase {
	return m.phase
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(msg.Width-30, 50)
		return m, nil

	case LoadProgress:
		m.loadState = msg
		return m, nil

	case AnalysisProgress:
		m.analysisProgress = msg
		m.levels = append(m.levels, msg.BlockRMS)
		return m, nil

	case AnalysisComplete:
		m.profile = msg.Profile
		m.phase = PhaseRendering
		m.renderStartTime = time.Now()
		return m, nil

	case RenderProgress:
		// Workers finish out of order; never move the bar backwards
		if msg.Column < m.renderState.Column {
			msg.Column = m.renderState.Column
		}
		m.renderState = msg
		if len(msg.Pixels) > 0 {
			m.history = append(m.history, msg.Pixels)
			if over := len(m.history) - m.previewConfig.Width; over > 0 {
				m.history = m.history[over:]
			}
		}
		return m, nil

	case RenderComplete:
		m.complete = &msg
		m.phase = PhaseComplete
		m.quitting = true

		return m, tea.Tick(m.completionDelay, func(t time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.phase == PhaseComplete {
		return m.renderComplete()
	}
	return m.renderProgress()
}

// CompletionSummary returns the final completion summary for printing after
// the program exits. Returns empty string if rendering is not complete.
func (m *Model) CompletionSummary() string {
	if m.complete == nil {
		return ""
	}
	return m.renderComplete()
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(heatWhite).Render("Sonogram"))
	s.WriteString("\n")

	phaseLabel := "Analysing Audio"
	if m.phase == PhaseRendering {
		phaseLabel = "Rendering Spectrogram"
	}
	s.WriteString(lipgloss.NewStyle().Foreground(heatRed).Render(phaseLabel))
	s.WriteString("\n\n")

	if m.phase == PhaseAnalysis {
		m.renderAnalysisProgress(&s)
	} else {
		m.renderRenderingProgress(&s)
	}

	s.WriteString("\n")
	m.renderAudioProfile(&s)

	if len(m.levels) > 0 {
		s.WriteString("\n\n")
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Levels:"))
		s.WriteString("\n")
		s.WriteString(renderBars(m.levels, m.barWidth()))
	}

	if m.phase == PhaseRendering && len(m.renderState.Pixels) > 0 {
		s.WriteString("\n")
		m.renderColumnAndPreview(&s)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(heatDeep).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) barWidth() int {
	if m.width > 10 {
		return min(m.width-10, 64)
	}
	return 64
}

func (m *Model) renderAnalysisProgress(s *strings.Builder) {
	switch {
	case m.analysisProgress.TotalBlocks > 0:
		percent := float64(m.analysisProgress.Block) / float64(m.analysisProgress.TotalBlocks)
		s.WriteString("Progress: ")
		s.WriteString(m.progressBar.ViewAs(percent))
		s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
		s.WriteString("\n\n")
		s.WriteString(lipgloss.NewStyle().Faint(true).Render(
			fmt.Sprintf("Block %d of %d  │  Elapsed: %s",
				m.analysisProgress.Block, m.analysisProgress.TotalBlocks,
				formatDuration(m.analysisProgress.Elapsed))))
		s.WriteString("\n")
	case m.loadState.TotalFrames > 0:
		percent := float64(m.loadState.FramesRead) / float64(m.loadState.TotalFrames)
		s.WriteString("Reading:  ")
		s.WriteString(m.progressBar.ViewAs(percent))
		s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
		s.WriteString("\n")
	default:
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Starting analysis...\n"))
	}
}

func (m *Model) renderRenderingProgress(s *strings.Builder) {
	if m.renderState.TotalColumns == 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Starting render...\n"))
		return
	}

	percent := float64(m.renderState.Column) / float64(m.renderState.TotalColumns)
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n\n")

	elapsed := m.renderState.Elapsed
	if elapsed == 0 {
		elapsed = time.Since(m.renderStartTime)
	}

	var estimatedTotal, eta time.Duration
	var speed float64
	if percent > 0 {
		estimatedTotal = time.Duration(float64(elapsed) / percent)
		eta = estimatedTotal - elapsed

		// Each column advances one hop, 1/HopDivisor of a second
		audioSoFar := time.Duration(m.renderState.Column) * time.Second / config.HopDivisor
		if elapsed > 0 {
			speed = float64(audioSoFar) / float64(elapsed)
		}
	}

	s.WriteString(lipgloss.NewStyle().Faint(true).Render(
		fmt.Sprintf("Time: %s / %s  │  Speed: %.1fx realtime  │  ETA: %s",
			formatDuration(elapsed),
			formatDuration(estimatedTotal),
			speed,
			formatDuration(eta))))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render(
		fmt.Sprintf("Column %d of %d", m.renderState.Column, m.renderState.TotalColumns)))
}

func (m *Model) renderAudioProfile(s *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Faint(true)
	headerStyle := lipgloss.NewStyle().Faint(true).Bold(true)

	s.WriteString(headerStyle.Render("Audio"))
	s.WriteString(" │ ")

	if m.profile == nil {
		s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render("Analysing..."))
		return
	}

	fields := []struct{ label, value string }{
		{"", fmt.Sprintf("%.1fs", m.profile.Duration.Seconds())},
		{"Rate:", fmt.Sprintf("%d Hz", m.profile.SampleRate)},
		{"Peak:", fmt.Sprintf("%.1f dB", m.profile.PeakDB)},
		{"RMS:", fmt.Sprintf("%.1f dB", m.profile.RMSDB)},
		{"Crest:", fmt.Sprintf("%.1f dB", m.profile.CrestFactorDB)},
	}
	for i, f := range fields {
		if i > 0 {
			s.WriteString("  ")
		}
		if f.label != "" {
			s.WriteString(labelStyle.Render(f.label))
			s.WriteString(" ")
		}
		s.WriteString(f.value)
	}
}

func (m *Model) renderColumnAndPreview(s *strings.Builder) {
	s.WriteString(lipgloss.NewStyle().Foreground(heatRed).Render("Current Column:"))
	s.WriteString("\n")

	// Bottom row of the column is the lowest frequency; plot low to high
	col := m.renderState.Pixels
	bars := make([]float64, len(col))
	for i, v := range col {
		bars[len(col)-1-i] = float64(v)
	}
	chart := renderBars(bars, m.barWidth())

	var rightCol strings.Builder
	if m.profile != nil {
		labelStyle := lipgloss.NewStyle().Foreground(coolGray)
		valueStyle := lipgloss.NewStyle().Bold(true)
		rightCol.WriteString(labelStyle.Render("Size: "))
		rightCol.WriteString(valueStyle.Render(fmt.Sprintf("%dx%d", m.profile.CanvasWidth, config.ImageHeight)))
		rightCol.WriteString("\n")
		rightCol.WriteString(labelStyle.Render("Clip: "))
		rightCol.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.profile.ClippedSamples)))
		rightCol.WriteString("\n")
		rightCol.WriteString(labelStyle.Render("Peak: "))
		if hz, ok := spectrum.PeakFrequency(col, m.profile.SampleRate); ok {
			rightCol.WriteString(valueStyle.Render(formatFrequency(hz)))
		} else {
			rightCol.WriteString(valueStyle.Render("silent"))
		}
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chart, "  ", rightCol.String()))

	if m.noPreview {
		return
	}
	if m.renderState.Column != m.cachedColumn && len(m.history) > 0 {
		preview := DownsampleFrame(historyImage(m.history), m.previewConfig)
		m.cachedPreview = RenderPreview(preview)
		m.cachedColumn = m.renderState.Column
	}
	if m.cachedPreview != "" {
		s.WriteString("\n")
		s.WriteString(m.cachedPreview)
	}
}

func (m *Model) renderComplete() string {
	var s strings.Builder
	c := m.complete

	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(heatWhite).Render("✓ Spectrogram Complete!"))
	s.WriteString("\n\n")

	dimLabel := lipgloss.NewStyle().Faint(true)
	s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Output:    "), c.OutputFile))
	if c.ThumbnailFile != "" {
		s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Thumbnail: "), c.ThumbnailFile))
	}
	s.WriteString(fmt.Sprintf("%s%dx%d\n", dimLabel.Render("Image:     "), c.Width, c.Height))
	if c.DominantHz > 0 {
		s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Dominant:  "), formatFrequency(c.DominantHz)))
	}
	if m.profile != nil {
		s.WriteString(fmt.Sprintf("%s%.1fs audio in %.1fs\n",
			dimLabel.Render("Duration:  "), m.profile.Duration.Seconds(), c.TotalTime.Seconds()))
	}
	s.WriteString(fmt.Sprintf("%s%s\n\n", dimLabel.Render("Size:      "), formatBytes(c.FileSize)))

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(heatRed)
	labelStyle := lipgloss.NewStyle().Faint(true)
	valueStyle := lipgloss.NewStyle()
	highlightValueStyle := lipgloss.NewStyle().Foreground(heatPink)

	if m.profile != nil {
		p := m.profile
		s.WriteString(headerStyle.Render("Audio Analysis"))
		s.WriteString("\n")
		rows := []struct{ label, value string }{
			{"Format:", fmt.Sprintf("%d Hz, %d-bit, %d ch", p.SampleRate, p.BitDepth, p.NumChannels)},
			{"Peak Level:", fmt.Sprintf("%.1f dB", p.PeakDB)},
			{"RMS Level:", fmt.Sprintf("%.1f dB", p.RMSDB)},
			{"Crest Factor:", fmt.Sprintf("%.1f dB", p.CrestFactorDB)},
			{"Clipped:", fmt.Sprintf("%d samples", p.ClippedSamples)},
		}
		for _, r := range rows {
			s.WriteString(fmt.Sprintf("  %s%s\n", labelStyle.Render(fmt.Sprintf("%-18s", r.label)), valueStyle.Render(r.value)))
		}
		s.WriteString("\n")
	}

	s.WriteString(headerStyle.Render("Performance"))
	s.WriteString("\n")

	totalMs := c.TotalTime.Milliseconds()
	if totalMs == 0 {
		totalMs = 1
	}
	stage := func(label string, d time.Duration) {
		ratio := float64(d.Milliseconds()) / float64(totalMs)
		s.WriteString(fmt.Sprintf("  %s%s (~%2d%%)  %s\n",
			labelStyle.Render(fmt.Sprintf("%-18s", label)),
			valueStyle.Render(fmt.Sprintf("~%-6s", formatDuration(d))),
			int(ratio*100),
			m.summaryBar.ViewAs(min(ratio, 1))))
	}

	stage("Reading:", c.LoadTime)
	stage("Analysis:", c.AnalysisTime)
	stage("FFT render:", c.RenderTime)
	stage("PNG encoding:", c.EncodeTime)
	if c.ThumbnailTime > 0 {
		stage("Thumbnail:", c.ThumbnailTime)
	}

	accounted := c.LoadTime + c.AnalysisTime + c.RenderTime + c.EncodeTime + c.ThumbnailTime
	if other := c.TotalTime - accounted; other > 0 {
		stage("Runtime:", other)
	}

	s.WriteString(fmt.Sprintf("  %s%s", labelStyle.Render(fmt.Sprintf("%-18s", "Total time:")), highlightValueStyle.Render(formatDuration(c.TotalTime))))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(heatRed).
		Padding(1, 1).
		Render(s.String()) + "\n"
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatFrequency(hz float64) string {
	if hz < 1000 {
		return fmt.Sprintf("%.0f Hz", hz)
	}
	return fmt.Sprintf("%.2f kHz", hz/1000)
}

func formatBytes(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}

// renderBars draws values as a two-row block chart, averaging neighbouring
// values down to width and normalising to the largest
func renderBars(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	heatColors := []lipgloss.Color{
		heatEmber,
		heatDeep,
		lipgloss.Color("#D00000"),
		heatRed,
		lipgloss.Color("#FF5050"),
		heatPink,
		lipgloss.Color("#FFCCCC"),
		heatWhite,
	}

	width = min(width, len(values))
	display := make([]float64, width)
	maxHeight := 0.0
	for i := range display {
		lo := i * len(values) / width
		hi := max((i+1)*len(values)/width, lo+1)
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		display[i] = sum / float64(hi-lo)
		maxHeight = max(maxHeight, display[i])
	}
	if maxHeight == 0 {
		maxHeight = 1.0
	}

	colour := func(normalised float64) lipgloss.Color {
		idx := int(normalised * float64(len(heatColors)-1))
		return heatColors[max(0, min(idx, len(heatColors)-1))]
	}

	var result strings.Builder

	// Top row shows the portion above half height
	for i := range display {
		normalised := display[i] / maxHeight
		if normalised <= 0.5 {
			result.WriteString(" ")
			continue
		}
		blockIdx := min(int((normalised-0.5)*2.0*float64(len(blocks)-1)), len(blocks)-1)
		result.WriteString(lipgloss.NewStyle().Foreground(colour(normalised)).Render(string(blocks[blockIdx])))
	}
	result.WriteString("\n")

	for i := range display {
		normalised := display[i] / maxHeight
		blockIdx := len(blocks) - 1
		if normalised < 0.5 {
			blockIdx = min(int(normalised*2.0*float64(len(blocks)-1)), len(blocks)-1)
		}
		result.WriteString(lipgloss.NewStyle().Foreground(colour(normalised)).Render(string(blocks[blockIdx])))
	}

	return result.String()
}
