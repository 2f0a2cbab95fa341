package timeline

import (
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Bar glyphs. Zero-width intervals render as a single diamond so
// milestones stay visible at any zoom.
const (
	axisRune     = '─'
	tickRune     = '┬'
	todayRune    = '│'
	barRune      = '█'
	mileRune     = '◆'
	labelGapSpan = 4
)

// Renderer paints intervals onto a canvas: axis header on the first
// row, one lane per row below it, the today marker on top.
type Renderer struct {
	palette     Palette
	tickSpacing int
}

// NewRenderer constructs a new value for this package. A tick spacing
// below one falls back to the default.
func NewRenderer(palette Palette, tickSpacing int) *Renderer {
	if tickSpacing < 1 {
		tickSpacing = DefaultTickSpacing
	}
	return &Renderer{palette: palette, tickSpacing: tickSpacing}
}

// Draw renders one frame. lanes must be the assignment for intervals;
// lanes that do not fit below the axis row are dropped rather than
// wrapped. Drawing into an empty canvas is a no-op.
func (r *Renderer) Draw(c *Canvas, intervals []Interval, lanes []int, vp Viewport, today int) {
	width, height := c.Width(), c.Height()
	if width <= 0 || height <= 0 {
		return
	}
	m := NewMapperWithSpacing(vp, r.tickSpacing)

	r.drawAxis(c, m, width)

	for i, iv := range intervals {
		if i >= len(lanes) {
			break
		}
		row := lanes[i] + 1
		if row < 1 || row >= height {
			continue
		}
		r.drawBar(c, m, iv, row, width, today, vp.HasSelection && vp.Selected == i)
	}

	// Today goes on last so it stays visible over any bar.
	todayCol := m.DateToColumn(today)
	if todayCol >= 0 && todayCol < width {
		firstRow := 1
		if height == 1 {
			firstRow = 0
		}
		for y := firstRow; y < height; y++ {
			c.Set(todayCol, y, todayRune, &r.palette.Today)
		}
	}
}

func (r *Renderer) drawAxis(c *Canvas, m Mapper, width int) {
	for x := 0; x < width; x++ {
		c.Set(x, 0, axisRune, &r.palette.Axis)
	}
	ticks := m.AxisTicks(width)
	for _, tick := range ticks {
		c.SetString(tick.Column+1, 0, tick.Label, &r.palette.AxisLabel)
	}
	// Tick marks stamp over label overflow from the previous tick.
	for _, tick := range ticks {
		c.Set(tick.Column, 0, tickRune, &r.palette.Axis)
	}
}

func (r *Renderer) drawBar(c *Canvas, m Mapper, iv Interval, row, width, today int, selected bool) {
	startCol := m.DateToColumn(iv.Start)
	endCol := m.DateToColumn(iv.End)
	if endCol < startCol {
		endCol = startCol
	}
	if endCol < 0 || startCol >= width {
		return
	}

	from, to := startCol, endCol
	if from < 0 {
		from = 0
	}
	if to > width-1 {
		to = width - 1
	}

	style := r.barStyle(iv.Status(today), selected)
	if iv.Start == iv.End {
		c.Set(from, row, mileRune, style)
		return
	}
	for x := from; x <= to; x++ {
		c.Set(x, row, barRune, style)
	}

	span := to - from + 1
	if span >= labelGapSpan && iv.Label != "" {
		label := runewidth.Truncate(iv.Label, span-2, "…")
		c.SetString(from+1, row, label, r.labelStyle(iv.Status(today), selected))
	}
}

func (r *Renderer) barStyle(st Status, selected bool) *lipgloss.Style {
	if selected {
		return &r.palette.BarSelected
	}
	switch st {
	case StatusCompleted:
		return &r.palette.BarCompleted
	case StatusOverdue:
		return &r.palette.BarOverdue
	default:
		return &r.palette.BarActive
	}
}

func (r *Renderer) labelStyle(st Status, selected bool) *lipgloss.Style {
	if selected {
		return &r.palette.BarLabelSelected
	}
	switch st {
	case StatusCompleted:
		return &r.palette.BarLabelCompleted
	case StatusOverdue:
		return &r.palette.BarLabelOverdue
	default:
		return &r.palette.BarLabelActive
	}
}
