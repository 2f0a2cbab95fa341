// Package main displays the tidvis color system: the dashboard's neon
// palette with its theme-file override keys, the timeline glyphs in
// their bar styles, and the ANSI 256 grid for picking replacements.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/skiva/tidvis/internal/tui"
)

func main() {
	themePath := flag.String("theme", "", "preview a YAML theme file over the stock palette")
	flag.Parse()

	theme := tui.DefaultTheme()
	if *themePath != "" {
		loaded, err := tui.LoadTheme(*themePath, theme)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		theme = loaded
		fmt.Printf("previewing theme overrides from %s\n\n", *themePath)
	}

	fmt.Println("=== DASHBOARD PALETTE ===")
	displayPalette(theme)

	fmt.Println("\n=== TIMELINE GLYPHS ===")
	displayGlyphs(theme)

	fmt.Println("\n=== STATUS EMPHASIS ===")
	displayEmphasis(theme)

	fmt.Println("\n=== ANSI 256 GRID ===")
	display256Grid()
}

// displayPalette tables every theme field with its YAML key, so the
// output doubles as theme-file documentation.
func displayPalette(theme tui.Theme) {
	rows := []struct {
		key  string
		hex  string
		role string
	}{
		{"bg_dark", string(theme.BgDark), "canvas background, bar label ink"},
		{"bg_medium", string(theme.BgMedium), "help overlay fill"},
		{"border", string(theme.Border), "header and panel borders"},
		{"border_dim", string(theme.BorderDim), "log panel border, axis, particles"},
		{"cyan", string(theme.Cyan), "active bars, selection, accents"},
		{"magenta", string(theme.Magenta), "brand title"},
		{"green", string(theme.Green), "completed bars, success log lines"},
		{"yellow", string(theme.Yellow), "today marker, warnings, admin rows"},
		{"red", string(theme.Red), "overdue bars, errors, popup border"},
		{"text", string(theme.Text), "primary text"},
		{"text_dim", string(theme.TextDim), "secondary text"},
		{"popup_bg", string(theme.PopupBg), "error popup fill"},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(string(theme.BorderDim)))).
		Headers("Key", "Hex", "Role", "Sample").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(string(theme.Cyan)))
			}
			return lipgloss.NewStyle()
		})

	for _, r := range rows {
		sample := lipgloss.NewStyle().
			Background(lipgloss.Color(r.hex)).
			Foreground(inkForHex(r.hex)).
			Width(12).
			Align(lipgloss.Center).
			Render(r.hex)
		t.Row(r.key, r.hex, r.role, sample)
	}
	fmt.Println(t.Render())
}

// displayGlyphs prints each timeline glyph in the style the renderer
// would use for it.
func displayGlyphs(theme tui.Theme) {
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	dim := fg(string(theme.TextDim))

	axis := fg(string(theme.BorderDim)).Render("──────┬───────┬──────") +
		fg(string(theme.TextDim)).Render(" Apr 08")
	fmt.Println(axis + dim.Render("   axis with ticks and date labels"))
	fmt.Println(fg(string(theme.Yellow)).Render("│") + dim.Render("                            today marker"))

	bar := func(hex, label string) string {
		ink := lipgloss.NewStyle().
			Foreground(lipgloss.Color(string(theme.BgDark))).
			Background(lipgloss.Color(hex))
		return fg(hex).Render("██") + ink.Render(label) + fg(hex).Render("████████")
	}
	fmt.Println(bar(string(theme.Cyan), "Harbor Migration") + dim.Render("  active bar"))
	fmt.Println(bar(string(theme.Green), "Skylark Rebrand") + dim.Render("   completed bar"))
	fmt.Println(bar(string(theme.Red), "Ledger Cleanup") + dim.Render("    overdue bar"))
	selected := lipgloss.NewStyle().
		Foreground(lipgloss.Color(string(theme.Cyan))).
		Background(lipgloss.Color(string(theme.BgDark))).
		Render(" Atlas Launch ")
	fmt.Println(selected + dim.Render("              selected bar label"))
	fmt.Println(fg(string(theme.Cyan)).Render("◆") + dim.Render("                            single-day milestone"))
}

// displayEmphasis prints one sample per status line emphasis level.
func displayEmphasis(theme tui.Theme) {
	samples := []struct {
		hex  string
		text string
	}{
		{string(theme.Text), "normal: dates and ranges"},
		{string(theme.TextDim), "dim: dividers, placeholders"},
		{string(theme.Cyan), "accent: zoom, active selection"},
		{string(theme.Red), "alert: overdue selection"},
	}
	for _, s := range samples {
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color(s.hex)).Render(s.text))
	}
}

// display256Grid prints the ANSI 256 palette in numbered blocks.
func display256Grid() {
	fmt.Println("Standard 16:")
	displayBand(0, 15, 8)

	fmt.Println("\nColor cube (16-231):")
	for i := 0; i < 6; i++ {
		displayBand(16+i*36, 16+(i+1)*36-1, 6)
		fmt.Println()
	}

	fmt.Println("Grayscale (232-255):")
	displayBand(232, 255, 12)
}

// displayBand renders one numbered run of ANSI colors, perRow cells
// per line.
func displayBand(start, end, perRow int) {
	count := 0
	for i := start; i <= end; i++ {
		cell := lipgloss.NewStyle().
			Background(lipgloss.Color(strconv.Itoa(i))).
			Foreground(inkForANSI(i)).
			Width(6).
			Align(lipgloss.Center).
			Render(fmt.Sprintf("%3d", i))
		fmt.Print(cell)

		count++
		if count%perRow == 0 {
			fmt.Println()
		} else {
			fmt.Print(" ")
		}
	}
	if count%perRow != 0 {
		fmt.Println()
	}
}

// inkForANSI picks black or white text to stay readable on an ANSI
// background color.
func inkForANSI(colorIndex int) lipgloss.Color {
	switch {
	case colorIndex < 16:
		switch colorIndex {
		case 0, 1, 4, 5, 8:
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	case colorIndex >= 232:
		if colorIndex < 244 {
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	default:
		return lipgloss.Color("15")
	}
}

// inkForHex picks black or white text against a #RRGGBB background by
// its approximate luminance.
func inkForHex(hex string) lipgloss.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return lipgloss.Color("15")
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return lipgloss.Color("15")
	}
	luma := (299*r + 587*g + 114*b) / 1000
	if luma > 140 {
		return lipgloss.Color("0")
	}
	return lipgloss.Color("15")
}
