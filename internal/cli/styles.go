package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(HeatDeep)
	taglineStyle = lipgloss.NewStyle().Foreground(CoolGray).Italic(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(HeatRed).MarginTop(1)
	keyStyle     = lipgloss.NewStyle().Foreground(CoolGray)
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(HeatWhite)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(HeatRed)
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(HeatPink)
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(HeatWhite)
	summaryBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(HeatDeep).
			Padding(1, 2).
			MarginTop(1)
)

// Summary describes a finished render for PrintSummary
type Summary struct {
	Output        string
	Thumbnail     string
	Width, Height int
	Bytes         int64
	AudioDuration time.Duration
	Elapsed       time.Duration
	DominantHz    float64 // 0 when the audio was silent
}

func PrintBanner() {
	fmt.Println(bannerStyle.Render("Sonogram"))
	fmt.Println(taglineStyle.Render("PCM .wav in, spectrogram PNG out."))
}

func PrintVersion(version string) {
	fmt.Printf("%s %s\n", bannerStyle.Render("sonogram"), valueStyle.Render(version))
}

func PrintError(message string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), message)
}

func PrintWarning(message string) {
	fmt.Fprintln(os.Stderr, warnStyle.Render("Warning:"), message)
}

func PrintSuccess(message string) {
	fmt.Println(okStyle.Render("✓"), message)
}

// PrintInfo prints one "key: value" detail line
func PrintInfo(key, value string) {
	fmt.Println(keyStyle.Render(key+":"), valueStyle.Render(value))
}

func PrintSection(title string) {
	fmt.Println(sectionStyle.Render(title))
}

// PrintSummary prints the boxed end-of-run report
func PrintSummary(s Summary) {
	writeSummary(os.Stdout, s)
}

func writeSummary(w io.Writer, s Summary) {
	rows := [][2]string{
		{"Output", s.Output},
		{"Image", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"Size", FormatBytes(s.Bytes)},
		{"Time", FormatDuration(s.Elapsed)},
		{"Speed", FormatSpeed(s.AudioDuration, s.Elapsed)},
	}
	if s.DominantHz > 0 {
		rows = append(rows, [2]string{"Dominant", fmt.Sprintf("%.1f Hz", s.DominantHz)})
	}
	if s.Thumbnail != "" {
		rows = append(rows, [2]string{"Thumbnail", s.Thumbnail})
	}

	lines := []string{okStyle.Render("✓ Spectrogram Complete"), ""}
	for _, r := range rows {
		lines = append(lines, keyStyle.Render(fmt.Sprintf("%-10s", r[0]))+valueStyle.Render(r[1]))
	}
	fmt.Fprintln(w, summaryBox.Render(strings.Join(lines, "\n")))
}

// FormatDuration rounds to milliseconds below a second, tenths above
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSpeed reports how many seconds of audio were rendered per second of
// wall time
func FormatSpeed(audio, elapsed time.Duration) string {
	if audio <= 0 || elapsed <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1fx realtime", audio.Seconds()/elapsed.Seconds())
}

// FormatBytes uses binary units
func FormatBytes(n int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
