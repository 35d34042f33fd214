package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/sonogram/internal/audio"
	"github.com/linuxmatters/sonogram/internal/cli"
	"github.com/linuxmatters/sonogram/internal/config"
	"github.com/linuxmatters/sonogram/internal/renderer"
	"github.com/linuxmatters/sonogram/internal/spectrum"
	"github.com/linuxmatters/sonogram/internal/ui"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Input      string `arg:"" name:"input" help:"Input PCM WAV file" optional:""`
	Output     string `arg:"" name:"output" help:"Output PNG file (default: input with .png extension)" optional:""`
	Trim       bool   `help:"Crop the image to the analysed columns"`
	Workers    int    `help:"FFT worker goroutines, 0 for one per CPU" default:"0"`
	Thumbnail  bool   `help:"Also write a captioned 1280x720 thumbnail"`
	Title      string `help:"Thumbnail title (default: WAV metadata or file name)"`
	TextColor  string `name:"text-color" help:"Thumbnail text colour as hex RRGGBB" placeholder:"RRGGBB"`
	NoProgress bool   `help:"Disable the progress UI"`
	NoPreview  bool   `help:"Disable the spectrogram preview in the progress UI"`
	Verbose    bool   `short:"v" help:"Print audio and timing details"`
	Version    bool   `help:"Show version information"`
}

// job is one validated invocation
type job struct {
	input     string
	output    string
	thumbnail string
	title     string
	trim      bool
	workers   int
	rc        *config.RuntimeConfig
}

func main() {
	kong.Parse(&CLI,
		kong.Name("sonogram"),
		kong.Description("Turn a PCM .wav into a spectrogram PNG."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if CLI.Input == "" {
		cli.PrintError("<input> is required")
		os.Exit(1)
	}

	if _, err := os.Stat(CLI.Input); os.IsNotExist(err) {
		cli.PrintError(fmt.Sprintf("input file does not exist: %s", CLI.Input))
		os.Exit(1)
	}

	j, err := newJob()
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if CLI.NoProgress {
		runPlain(j)
	} else {
		runWithUI(j)
	}
}

func newJob() (*job, error) {
	j := &job{
		input:   CLI.Input,
		output:  CLI.Output,
		trim:    CLI.Trim,
		workers: CLI.Workers,
		rc:      &config.RuntimeConfig{},
	}

	base := strings.TrimSuffix(j.input, filepath.Ext(j.input))
	if j.output == "" {
		j.output = base + config.OutputExtension
	}
	if j.workers <= 0 {
		j.workers = runtime.NumCPU()
	}

	if CLI.TextColor != "" {
		if err := j.rc.SetTextColorHex(CLI.TextColor); err != nil {
			return nil, fmt.Errorf("invalid --text-color: %w", err)
		}
	}

	if CLI.Thumbnail {
		out := strings.TrimSuffix(j.output, filepath.Ext(j.output))
		j.thumbnail = out + config.ThumbnailSuffix + config.OutputExtension
		j.title = CLI.Title
		if j.title == "" {
			j.title = filepath.Base(base)
			if meta, err := audio.ReadMetadata(j.input); err == nil {
				j.title = meta.DisplayTitle(j.title)
			} else if CLI.Verbose {
				cli.PrintWarning(fmt.Sprintf("no WAV metadata: %v", err))
			}
		}
	}

	return j, nil
}

// runWithUI drives the bubbletea progress UI while the work runs on a
// separate goroutine
func runWithUI(j *job) {
	model := ui.NewModel(CLI.NoPreview)
	p := tea.NewProgram(model)

	var workErr error
	go func() {
		summary, err := generateSpectrogram(j, p.Send)
		if err != nil {
			workErr = err
			p.Quit()
			return
		}
		p.Send(summary)
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("running UI: %v", err))
		os.Exit(1)
	}

	if workErr != nil {
		cli.PrintError(workErr.Error())
		os.Exit(1)
	}
	if model.Phase() != ui.PhaseComplete {
		cli.PrintWarning("interrupted")
		os.Exit(1)
	}

	cli.PrintSuccess(fmt.Sprintf("Done! Output: %s", j.output))
}

// runPlain prints styled status lines instead of the TUI
func runPlain(j *job) {
	cli.PrintBanner()

	var profile *audio.Profile
	summary, err := generateSpectrogram(j, func(msg tea.Msg) {
		switch m := msg.(type) {
		case ui.AnalysisComplete:
			profile = m.Profile
			if CLI.Verbose {
				printProfile(m.Profile)
			}
		case ui.RenderProgress:
			if CLI.Verbose && m.Column == m.TotalColumns {
				cli.PrintInfo("Columns", fmt.Sprintf("%d rendered in %s", m.Column, cli.FormatDuration(m.Elapsed)))
			}
		}
	})
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	var audioDuration time.Duration
	if profile != nil {
		audioDuration = profile.Duration
	}
	cli.PrintSummary(cli.Summary{
		Output:        summary.OutputFile,
		Thumbnail:     summary.ThumbnailFile,
		Width:         summary.Width,
		Height:        summary.Height,
		Bytes:         summary.FileSize,
		AudioDuration: audioDuration,
		Elapsed:       summary.TotalTime,
		DominantHz:    summary.DominantHz,
	})
}

func printProfile(p *audio.Profile) {
	cli.PrintSection("Audio")
	cli.PrintInfo("Format", fmt.Sprintf("%d Hz, %d-bit, %d channel(s)", p.SampleRate, p.BitDepth, p.NumChannels))
	cli.PrintInfo("Duration", fmt.Sprintf("%.2fs", p.Duration.Seconds()))
	cli.PrintInfo("Peak", fmt.Sprintf("%.1f dBFS", p.PeakDB))
	cli.PrintInfo("RMS", fmt.Sprintf("%.1f dBFS", p.RMSDB))
	cli.PrintInfo("Spectrogram", fmt.Sprintf("%d columns on a %dx%d canvas", p.Columns, p.CanvasWidth, config.ImageHeight))
	if p.ClippedSamples > 0 {
		cli.PrintWarning(fmt.Sprintf("%d clipped samples", p.ClippedSamples))
	}
}

// generateSpectrogram reads, analyses, renders and saves, reporting
// progress through send
func generateSpectrogram(j *job, send func(tea.Msg)) (ui.RenderComplete, error) {
	var summary ui.RenderComplete
	startTime := time.Now()

	pcm, err := audio.ReadWAVWithProgress(j.input, func(framesRead, totalFrames int64) {
		send(ui.LoadProgress{FramesRead: framesRead, TotalFrames: totalFrames})
	})
	if err != nil {
		return summary, fmt.Errorf("reading %s: %w", j.input, err)
	}
	loadTime := time.Since(startTime)

	analysisStart := time.Now()
	profile, err := audio.Analyze(pcm, func(block, totalBlocks int, blockRMS, peak float64, elapsed time.Duration) {
		send(ui.AnalysisProgress{
			Block:       block,
			TotalBlocks: totalBlocks,
			BlockRMS:    blockRMS,
			Peak:        peak,
			Elapsed:     elapsed,
		})
	})
	if err != nil {
		return summary, fmt.Errorf("analysing audio: %w", err)
	}
	analysisTime := time.Since(analysisStart)
	send(ui.AnalysisComplete{Profile: profile, LoadTime: loadTime, AnalysisTime: analysisTime})

	renderStart := time.Now()
	r := spectrum.NewRenderer(
		spectrum.WithWorkers(j.workers),
		spectrum.WithProgress(func(done, total int, column []uint8) {
			send(ui.RenderProgress{
				Column:       done,
				TotalColumns: total,
				Pixels:       column,
				Elapsed:      time.Since(renderStart),
			})
		}),
	)
	grid, err := r.Render(pcm.Buffer())
	if err != nil {
		return summary, fmt.Errorf("rendering spectrogram: %w", err)
	}
	renderTime := time.Since(renderStart)

	var dominantHz float64
	if row, ok := grid.DominantRow(); ok {
		if hz, err := spectrum.RowFrequency(row, pcm.SampleRate); err == nil {
			dominantHz = hz
		}
	}

	encodeStart := time.Now()
	img := renderer.Image(grid, j.trim)
	if err := renderer.SavePNG(img, j.output); err != nil {
		return summary, err
	}
	encodeTime := time.Since(encodeStart)

	var thumbnailTime time.Duration
	if j.thumbnail != "" {
		thumbStart := time.Now()
		j.rc.Subtitle = fmt.Sprintf("%.1f kHz  %s", float64(profile.SampleRate)/1000, profile.Duration.Round(time.Second))
		if err := renderer.GenerateThumbnail(img, j.thumbnail, j.title, j.rc); err != nil {
			return summary, err
		}
		thumbnailTime = time.Since(thumbStart)
	}

	var fileSize int64
	if info, err := os.Stat(j.output); err == nil {
		fileSize = info.Size()
	}

	b := img.Bounds()
	summary = ui.RenderComplete{
		OutputFile:    j.output,
		ThumbnailFile: j.thumbnail,
		Width:         b.Dx(),
		Height:        b.Dy(),
		FileSize:      fileSize,
		LoadTime:      loadTime,
		AnalysisTime:  analysisTime,
		RenderTime:    renderTime,
		EncodeTime:    encodeTime,
		ThumbnailTime: thumbnailTime,
		TotalTime:     time.Since(startTime),
		DominantHz:    dominantHz,
	}
	return summary, nil
}
