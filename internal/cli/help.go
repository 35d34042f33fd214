package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/sonogram/internal/config"
)

var (
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(HeatWhite)
	helpDescStyle    = lipgloss.NewStyle().Foreground(HeatRed).Italic(true)
	helpSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(HeatRed).MarginTop(1)
	helpTermStyle    = lipgloss.NewStyle().Foreground(HeatWhite).Bold(true)
	helpArgStyle     = lipgloss.NewStyle().Foreground(HeatPink).Bold(true)
	helpNoteStyle    = lipgloss.NewStyle().Foreground(CoolGray).Italic(true)
)

// helpRow is one aligned line of a help section: a term and what it means
type helpRow struct {
	term string
	text string
	note string
}

type helpSection struct {
	title string
	style lipgloss.Style
	rows  []helpRow
}

// StyledHelpPrinter prints the usage, arguments and flags kong knows about,
// followed by the fixed analysis geometry and some example invocations.
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		name := ctx.Model.Name

		var sb strings.Builder
		sb.WriteString(helpTitleStyle.Render("Sonogram"))
		sb.WriteString("\n")
		if ctx.Model.Help != "" {
			sb.WriteString(helpDescStyle.Render(ctx.Model.Help))
			sb.WriteString("\n")
		}

		sections := []helpSection{
			{title: "Usage:", style: helpTermStyle, rows: []helpRow{{term: usageLine(name, ctx.Model.Node)}}},
			{title: "Arguments:", style: helpArgStyle, rows: argumentRows(ctx.Model.Node)},
			{title: "Flags:", style: helpTermStyle, rows: flagRows(ctx.Model.Node)},
			{title: "Analysis:", style: helpArgStyle, rows: analysisRows()},
			{title: "Examples:", style: helpTermStyle, rows: exampleRows(name)},
		}
		for _, sec := range sections {
			writeSection(&sb, sec)
		}

		sb.WriteString("\n")
		_, err := fmt.Fprint(ctx.Stdout, sb.String())
		return err
	}
}

func writeSection(sb *strings.Builder, sec helpSection) {
	if len(sec.rows) == 0 {
		return
	}
	sb.WriteString(helpSectionStyle.Render(sec.title))
	sb.WriteString("\n")

	width := 0
	for _, r := range sec.rows {
		width = max(width, lipgloss.Width(r.term))
	}
	for _, r := range sec.rows {
		sb.WriteString("  ")
		sb.WriteString(sec.style.Render(r.term))
		if r.text != "" {
			sb.WriteString(strings.Repeat(" ", width-lipgloss.Width(r.term)+2))
			sb.WriteString(r.text)
		}
		if r.note != "" {
			sb.WriteString(" ")
			sb.WriteString(helpNoteStyle.Render(r.note))
		}
		sb.WriteString("\n")
	}
}

func usageLine(name string, node *kong.Node) string {
	parts := []string{name}
	for _, p := range node.Positional {
		parts = append(parts, p.Summary())
	}
	return strings.Join(append(parts, "[flags]"), " ")
}

func argumentRows(node *kong.Node) []helpRow {
	rows := make([]helpRow, 0, len(node.Positional))
	for _, p := range node.Positional {
		rows = append(rows, helpRow{term: p.Summary(), text: p.Help})
	}
	return rows
}

// flagRows lists visible flags in declaration order. kong puts its own
// -h/--help first.
func flagRows(node *kong.Node) []helpRow {
	var rows []helpRow
	for _, f := range node.Flags {
		if f.Hidden {
			continue
		}
		term := "--" + f.Name
		if f.Short != 0 {
			term = fmt.Sprintf("-%c, %s", f.Short, term)
		}

		var note string
		if !f.IsBool() {
			placeholder := f.PlaceHolder
			if placeholder == "" {
				placeholder = strings.ToUpper(f.Name)
			}
			term += "=" + placeholder
			if f.HasDefault && f.Default != "" {
				note = "(default: " + f.Default + ")"
			}
		}
		rows = append(rows, helpRow{term: term, text: f.Help, note: note})
	}
	return rows
}

// analysisRows describes the fixed geometry every render uses
func analysisRows() []helpRow {
	return []helpRow{
		{term: "Frame", text: fmt.Sprintf("%d-point FFT, raised-cosine window", config.FrameSize)},
		{term: "Hop", text: fmt.Sprintf("%d ms per column (sample rate / %d)", 1000/config.HopDivisor, config.HopDivisor)},
		{term: "Height", text: fmt.Sprintf("%d rows, lowest frequency at the bottom", config.ImageHeight)},
		{term: "Colour", text: fmt.Sprintf("%d levels, black through red to white", config.PaletteSize)},
		{term: "Thumbnail", text: fmt.Sprintf("%dx%d, written as <output>%s%s", config.ThumbnailWidth, config.ThumbnailHeight, config.ThumbnailSuffix, config.OutputExtension)},
	}
}

func exampleRows(name string) []helpRow {
	return []helpRow{
		{term: name + " talk.wav", text: "writes talk" + config.OutputExtension},
		{term: name + " talk.wav talk.png --trim --workers=4", text: "crop to analysed columns, four FFT workers"},
		{term: name + " talk.wav --thumbnail --text-color=FF8000", text: "add a captioned thumbnail in orange"},
		{term: name + " talk.wav --no-progress -v", text: "plain output with audio details"},
	}
}
