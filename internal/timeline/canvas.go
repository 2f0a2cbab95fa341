package timeline

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Cell is one canvas position: a rune and the style it renders with. A
// zero rune marks the continuation column of a wide rune.
type Cell struct {
	Rune  rune
	Style *lipgloss.Style
}

// Canvas is a fixed-size character grid that clips every write to its
// bounds, so callers can paint bars and markers without range checks.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// NewCanvas constructs a new value for this package. Non-positive
// dimensions yield an empty canvas that swallows all writes.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([][]Cell, height)
	for y := range cells {
		row := make([]Cell, width)
		for x := range row {
			row[x] = Cell{Rune: ' '}
		}
		cells[y] = row
	}
	return &Canvas{width: width, height: height, cells: cells}
}

// Width returns the canvas width in columns.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in rows.
func (c *Canvas) Height() int { return c.height }

// Set writes one rune at the given position. Writes outside the grid
// and zero-width runes are dropped. Wide runes occupy two columns; when
// the second column does not fit, a space is written instead so rows
// keep their width.
func (c *Canvas) Set(x, y int, r rune, style *lipgloss.Style) {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	// Overwriting the tail of a wide rune orphans its head; blank it
	// so the row stays aligned.
	if c.cells[y][x].Rune == 0 && x > 0 {
		c.cells[y][x-1].Rune = ' '
	}
	if w == 2 {
		if x+1 >= c.width {
			c.cells[y][x] = Cell{Rune: ' ', Style: style}
			return
		}
		c.cells[y][x] = Cell{Rune: r, Style: style}
		c.cells[y][x+1] = Cell{Rune: 0, Style: style}
		return
	}
	c.cells[y][x] = Cell{Rune: r, Style: style}
}

// SetString writes a string left to right starting at the given
// position, clipping at the right edge.
func (c *Canvas) SetString(x, y int, s string, style *lipgloss.Style) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Set(x, y, r, style)
		x += w
	}
}

// CellAt returns the rune and style at a position, or a zero cell when
// out of bounds.
func (c *Canvas) CellAt(x, y int) (rune, *lipgloss.Style) {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return 0, nil
	}
	cell := c.cells[y][x]
	return cell.Rune, cell.Style
}

// Line renders one row with styles applied, grouping runs that share a
// style to keep escape sequences short.
func (c *Canvas) Line(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	var b strings.Builder
	var run []rune
	var runStyle *lipgloss.Style
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runStyle != nil {
			b.WriteString(runStyle.Render(string(run)))
		} else {
			b.WriteString(string(run))
		}
		run = run[:0]
	}
	for x := 0; x < c.width; x++ {
		cell := c.cells[y][x]
		r := cell.Rune
		if r == 0 {
			// Covered by the wide rune to the left; orphaned tails
			// become spaces so the row width holds.
			if x > 0 && runewidth.RuneWidth(c.cells[y][x-1].Rune) == 2 {
				continue
			}
			r = ' '
		}
		if cell.Style != runStyle {
			flush()
			runStyle = cell.Style
		}
		run = append(run, r)
	}
	flush()
	return b.String()
}

// PlainLine renders one row without styles, for assertions and logs.
func (c *Canvas) PlainLine(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	var b strings.Builder
	for x := 0; x < c.width; x++ {
		r := c.cells[y][x].Rune
		if r == 0 {
			if x > 0 && runewidth.RuneWidth(c.cells[y][x-1].Rune) == 2 {
				continue
			}
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Lines renders all rows with styles applied.
func (c *Canvas) Lines() []string {
	out := make([]string, c.height)
	for y := range out {
		out[y] = c.Line(y)
	}
	return out
}

// String renders the whole canvas joined by newlines.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}
