package timeline

import "charm.land/lipgloss/v2"

// Palette holds the styles the renderer paints with. Status only ever
// changes which of these a bar uses; geometry is independent of it.
type Palette struct {
	Axis      lipgloss.Style
	AxisLabel lipgloss.Style
	Today     lipgloss.Style

	BarActive    lipgloss.Style
	BarCompleted lipgloss.Style
	BarOverdue   lipgloss.Style
	BarSelected  lipgloss.Style

	BarLabelActive    lipgloss.Style
	BarLabelCompleted lipgloss.Style
	BarLabelOverdue   lipgloss.Style
	BarLabelSelected  lipgloss.Style
}

// DefaultPalette returns the stock neon scheme: cyan for active work,
// green for done, red for late, yellow for the today marker, and an
// inverted cyan block for the selection.
func DefaultPalette() Palette {
	var (
		bgDark    = lipgloss.Color("#0a0a14")
		borderDim = lipgloss.Color("#326464")
		textDim   = lipgloss.Color("#646464")
		cyan      = lipgloss.Color("#00ffff")
		green     = lipgloss.Color("#00ff80")
		yellow    = lipgloss.Color("#ffff00")
		red       = lipgloss.Color("#ff3232")
	)
	return Palette{
		Axis:      lipgloss.NewStyle().Foreground(borderDim),
		AxisLabel: lipgloss.NewStyle().Foreground(textDim),
		Today:     lipgloss.NewStyle().Foreground(yellow),

		BarActive:    lipgloss.NewStyle().Foreground(cyan),
		BarCompleted: lipgloss.NewStyle().Foreground(green),
		BarOverdue:   lipgloss.NewStyle().Foreground(red),
		BarSelected:  lipgloss.NewStyle().Foreground(bgDark).Background(cyan),

		BarLabelActive:    lipgloss.NewStyle().Foreground(bgDark).Background(cyan),
		BarLabelCompleted: lipgloss.NewStyle().Foreground(bgDark).Background(green),
		BarLabelOverdue:   lipgloss.NewStyle().Foreground(bgDark).Background(red),
		BarLabelSelected:  lipgloss.NewStyle().Foreground(cyan).Background(bgDark),
	}
}
