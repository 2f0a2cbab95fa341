package tui

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"charm.land/lipgloss/v2"
	"github.com/skiva/tidvis/internal/timeline"
	"gopkg.in/yaml.v3"
)

// Theme carries the dashboard's colors. Every view derives its styles
// from these at render time, so swapping the theme restyles everything.
type Theme struct {
	BgDark    lipgloss.Color
	BgMedium  lipgloss.Color
	Border    lipgloss.Color
	BorderDim lipgloss.Color
	Cyan      lipgloss.Color
	Magenta   lipgloss.Color
	Green     lipgloss.Color
	Yellow    lipgloss.Color
	Red       lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	PopupBg   lipgloss.Color
}

// DefaultTheme returns the stock neon palette.
func DefaultTheme() Theme {
	return Theme{
		BgDark:    lipgloss.Color("#0a0a14"),
		BgMedium:  lipgloss.Color("#141423"),
		Border:    lipgloss.Color("#00c8c8"),
		BorderDim: lipgloss.Color("#326464"),
		Cyan:      lipgloss.Color("#00ffff"),
		Magenta:   lipgloss.Color("#ff00ff"),
		Green:     lipgloss.Color("#00ff80"),
		Yellow:    lipgloss.Color("#ffff00"),
		Red:       lipgloss.Color("#ff3232"),
		Text:      lipgloss.Color("#c8c8c8"),
		TextDim:   lipgloss.Color("#646464"),
		PopupBg:   lipgloss.Color("#280a0a"),
	}
}

// themeFile is the YAML form of a theme override. Empty fields keep the
// base value.
type themeFile struct {
	BgDark    string `yaml:"bg_dark"`
	BgMedium  string `yaml:"bg_medium"`
	Border    string `yaml:"border"`
	BorderDim string `yaml:"border_dim"`
	Cyan      string `yaml:"cyan"`
	Magenta   string `yaml:"magenta"`
	Green     string `yaml:"green"`
	Yellow    string `yaml:"yellow"`
	Red       string `yaml:"red"`
	Text      string `yaml:"text"`
	TextDim   string `yaml:"text_dim"`
	PopupBg   string `yaml:"popup_bg"`
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadTheme reads a YAML theme file and applies it over the base theme.
// Unknown keys are an error; a field that is not a six-digit hex color
// keeps the base value.
func LoadTheme(path string, base Theme) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read theme: %w", err)
	}

	var file themeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return base, fmt.Errorf("decode theme: %w", err)
	}

	out := base
	applyHex(&out.BgDark, file.BgDark)
	applyHex(&out.BgMedium, file.BgMedium)
	applyHex(&out.Border, file.Border)
	applyHex(&out.BorderDim, file.BorderDim)
	applyHex(&out.Cyan, file.Cyan)
	applyHex(&out.Magenta, file.Magenta)
	applyHex(&out.Green, file.Green)
	applyHex(&out.Yellow, file.Yellow)
	applyHex(&out.Red, file.Red)
	applyHex(&out.Text, file.Text)
	applyHex(&out.TextDim, file.TextDim)
	applyHex(&out.PopupBg, file.PopupBg)
	return out, nil
}

func applyHex(dst *lipgloss.Color, value string) {
	if hexColorPattern.MatchString(value) {
		*dst = lipgloss.Color(value)
	}
}

// palette maps the theme onto the timeline renderer's styles.
func (t Theme) palette() timeline.Palette {
	return timeline.Palette{
		Axis:      lipgloss.NewStyle().Foreground(t.BorderDim),
		AxisLabel: lipgloss.NewStyle().Foreground(t.TextDim),
		Today:     lipgloss.NewStyle().Foreground(t.Yellow),

		BarActive:    lipgloss.NewStyle().Foreground(t.Cyan),
		BarCompleted: lipgloss.NewStyle().Foreground(t.Green),
		BarOverdue:   lipgloss.NewStyle().Foreground(t.Red),
		BarSelected:  lipgloss.NewStyle().Foreground(t.BgDark).Background(t.Cyan),

		BarLabelActive:    lipgloss.NewStyle().Foreground(t.BgDark).Background(t.Cyan),
		BarLabelCompleted: lipgloss.NewStyle().Foreground(t.BgDark).Background(t.Green),
		BarLabelOverdue:   lipgloss.NewStyle().Foreground(t.BgDark).Background(t.Red),
		BarLabelSelected:  lipgloss.NewStyle().Foreground(t.Cyan).Background(t.BgDark),
	}
}

// segmentStyle styles one status line segment by its emphasis.
func (t Theme) segmentStyle(e timeline.Emphasis) lipgloss.Style {
	switch e {
	case timeline.EmphasisDim:
		return lipgloss.NewStyle().Foreground(t.TextDim)
	case timeline.EmphasisAccent:
		return lipgloss.NewStyle().Foreground(t.Cyan)
	case timeline.EmphasisAlert:
		return lipgloss.NewStyle().Foreground(t.Red)
	default:
		return lipgloss.NewStyle().Foreground(t.Text)
	}
}
