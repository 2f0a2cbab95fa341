package timeline

import (
	"fmt"
	"time"
)

// DefaultTickSpacing is the minimum column gap aimed for between two
// axis labels.
const DefaultTickSpacing = 8

// Granularity identifies the calendar unit axis ticks snap to.
type Granularity int

// Granularities from finest to coarsest.
const (
	GranularityDay Granularity = iota
	GranularityWeek
	GranularityMonth
	GranularityQuarter
)

// String returns a human readable granularity name.
func (g Granularity) String() string {
	switch g {
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	case GranularityQuarter:
		return "quarter"
	default:
		return "day"
	}
}

// approxDays returns the nominal unit length used for spacing math.
func (g Granularity) approxDays() int {
	switch g {
	case GranularityWeek:
		return 7
	case GranularityMonth:
		return 30
	case GranularityQuarter:
		return 91
	default:
		return 1
	}
}

// Tick is one axis mark: the column it lands on and the label printed
// beside it.
type Tick struct {
	Column      int
	Label       string
	Granularity Granularity
}

// Mapper translates between day indexes and screen columns for one
// viewport snapshot. It is a value type; build a fresh one per frame.
type Mapper struct {
	vp          Viewport
	tickSpacing int
}

// NewMapper constructs a new value for this package.
func NewMapper(vp Viewport) Mapper {
	return Mapper{vp: vp, tickSpacing: DefaultTickSpacing}
}

// NewMapperWithSpacing constructs a mapper with a custom minimum label
// spacing in columns. Values below one fall back to the default.
func NewMapperWithSpacing(vp Viewport, spacing int) Mapper {
	if spacing < 1 {
		spacing = DefaultTickSpacing
	}
	return Mapper{vp: vp, tickSpacing: spacing}
}

// DateToColumn maps a day index to the column covering it. Days left of
// the window map to negative columns; the division floors so the map
// stays consistent across the origin.
func (m Mapper) DateToColumn(day int) int {
	return floorDiv(day-m.vp.ScrollOffset, m.vp.zoom())
}

// ColumnToDate maps a column to the first day it covers. It inverts
// DateToColumn: mapping the returned day back yields the same column.
func (m Mapper) ColumnToDate(col int) int {
	return satAddDays(m.vp.ScrollOffset, col*m.vp.zoom())
}

// VisibleRange returns the inclusive day range covered by a window of
// the given width.
func (m Mapper) VisibleRange(width int) (first, last int) {
	first = m.vp.ScrollOffset
	if width <= 0 {
		return first, first
	}
	return first, satAddDays(first, width*m.vp.zoom()-1)
}

// AxisTicks picks the marks for the axis header of a window of the
// given width. The granularity follows the zoom so one column never
// holds more than one unit: day ticks at one day per column, week ticks
// up to a week per column, then months and quarters. When units sit
// closer together than the minimum label spacing, only every n-th
// boundary gets a tick, anchored at the epoch so the pattern does not
// shimmer while scrolling.
func (m Mapper) AxisTicks(width int) []Tick {
	if width <= 0 {
		return nil
	}
	zoom := m.vp.zoom()
	g := granularityForZoom(zoom)
	stride := (m.spacing()*zoom + g.approxDays() - 1) / g.approxDays()
	if stride < 1 {
		stride = 1
	}

	first, last := m.VisibleRange(width)
	var ticks []Tick
	for day := firstBoundary(g, first); day <= last; {
		if boundaryOrdinal(g, day)%stride == 0 {
			col := m.DateToColumn(day)
			if col >= 0 && col < width {
				ticks = append(ticks, Tick{Column: col, Label: tickLabel(g, day), Granularity: g})
			}
		}
		next := nextBoundary(g, day)
		if next <= day {
			break
		}
		day = next
	}
	return ticks
}

func (m Mapper) spacing() int {
	if m.tickSpacing < 1 {
		return DefaultTickSpacing
	}
	return m.tickSpacing
}

// granularityForZoom picks the finest unit that still spans at least
// one column at the given zoom.
func granularityForZoom(zoom int) Granularity {
	switch {
	case zoom <= 1:
		return GranularityDay
	case zoom <= 7:
		return GranularityWeek
	case zoom <= 31:
		return GranularityMonth
	default:
		return GranularityQuarter
	}
}

// mondayEpochOffset is the day index of the first Monday on or after
// the epoch, 1970-01-05.
const mondayEpochOffset = 4

// firstBoundary returns the first unit boundary on or after the given
// day: the day itself, the next Monday, or the next first-of-period.
func firstBoundary(g Granularity, day int) int {
	switch g {
	case GranularityWeek:
		rem := day - mondayEpochOffset - 7*floorDiv(day-mondayEpochOffset, 7)
		if rem == 0 {
			return day
		}
		return satAddDays(day, 7-rem)
	case GranularityMonth:
		t := DayDate(day)
		if t.Day() == 1 {
			return day
		}
		return DayIndex(time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC))
	case GranularityQuarter:
		t := DayDate(day)
		if t.Day() == 1 && isQuarterMonth(t.Month()) {
			return day
		}
		y, mo := t.Year(), int(t.Month())
		next := ((mo-1)/3+1)*3 + 1
		return DayIndex(time.Date(y, time.Month(next), 1, 0, 0, 0, 0, time.UTC))
	default:
		return day
	}
}

// nextBoundary returns the boundary after the given one.
func nextBoundary(g Granularity, day int) int {
	switch g {
	case GranularityWeek:
		return satAddDays(day, 7)
	case GranularityMonth:
		t := DayDate(day)
		return DayIndex(time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC))
	case GranularityQuarter:
		t := DayDate(day)
		return DayIndex(time.Date(t.Year(), t.Month()+3, 1, 0, 0, 0, 0, time.UTC))
	default:
		return satAddDays(day, 1)
	}
}

// boundaryOrdinal numbers boundaries of a unit consecutively from a
// fixed origin, for stable stride filtering.
func boundaryOrdinal(g Granularity, day int) int {
	switch g {
	case GranularityWeek:
		return floorDiv(day-mondayEpochOffset, 7)
	case GranularityMonth:
		t := DayDate(day)
		return t.Year()*12 + int(t.Month()) - 1
	case GranularityQuarter:
		t := DayDate(day)
		return t.Year()*4 + (int(t.Month())-1)/3
	default:
		return day
	}
}

func tickLabel(g Granularity, day int) string {
	t := DayDate(day)
	switch g {
	case GranularityWeek:
		return t.Format("Jan 02")
	case GranularityMonth:
		return t.Format("Jan 06")
	case GranularityQuarter:
		return fmt.Sprintf("Q%d %s", (int(t.Month())-1)/3+1, t.Format("06"))
	default:
		return t.Format("02")
	}
}

func isQuarterMonth(m time.Month) bool {
	switch m {
	case time.January, time.April, time.July, time.October:
		return true
	}
	return false
}
