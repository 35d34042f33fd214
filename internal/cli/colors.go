package cli

import "github.com/charmbracelet/lipgloss"

// Heat colour palette, matching the spectrogram's black-red-white ramp.
// Shared by the CLI help and the progress TUI.
var (
	HeatWhite = lipgloss.Color("#FFFFFF")
	HeatPink  = lipgloss.Color("#FF9999")
	HeatRed   = lipgloss.Color("#FF0000")
	HeatDeep  = lipgloss.Color("#A00000")

	// Accent colours
	CoolGray = lipgloss.Color("#8899AA") // Subtle text
)
