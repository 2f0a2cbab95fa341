package timeline

import (
	"testing"
	"time"
)

func TestNewViewportCentersToday(t *testing.T) {
	today := day(2024, time.June, 1)
	vp := NewViewport(today, 80)
	m := NewMapper(vp)
	if got := m.DateToColumn(today); got != 40 {
		t.Fatalf("expected today at the center column 40, got %d", got)
	}
	if vp.HasSelection {
		t.Fatalf("a fresh viewport must not carry a selection")
	}
}

func TestScrollMovesByColumns(t *testing.T) {
	vp := NewViewport(0, 0)
	vp.Zoom = 7
	vp.ScrollOffset = 100

	vp.Scroll(3)
	if vp.ScrollOffset != 121 {
		t.Fatalf("expected offset 121 after three columns at zoom 7, got %d", vp.ScrollOffset)
	}
	vp.Scroll(-3)
	if vp.ScrollOffset != 100 {
		t.Fatalf("expected offset back at 100, got %d", vp.ScrollOffset)
	}
}

func TestScrollSaturates(t *testing.T) {
	vp := NewViewport(0, 0)
	vp.ScrollOffset = maxDay - 1
	vp.Scroll(1000)
	if vp.ScrollOffset != maxDay {
		t.Fatalf("expected saturation at maxDay, got %d", vp.ScrollOffset)
	}

	vp.ScrollOffset = minDay + 1
	vp.Scroll(-1000)
	if vp.ScrollOffset != minDay {
		t.Fatalf("expected saturation at minDay, got %d", vp.ScrollOffset)
	}
}

func TestZoomClampsAtBounds(t *testing.T) {
	vp := NewViewport(0, 80)
	vp.Zoom = ZoomMin
	vp.ZoomIn(80)
	if vp.Zoom != ZoomMin {
		t.Fatalf("expected zoom to stay at %d, got %d", ZoomMin, vp.Zoom)
	}

	vp.Zoom = ZoomMax
	vp.ZoomOut(80)
	if vp.Zoom != ZoomMax {
		t.Fatalf("expected zoom to stay at %d, got %d", ZoomMax, vp.Zoom)
	}
}

func TestZoomKeepsCenterDate(t *testing.T) {
	const width = 80
	today := day(2024, time.June, 1)
	vp := NewViewport(today, width)
	vp.Zoom = 4
	vp.CenterOnToday(today, width)

	center := NewMapper(vp).ColumnToDate(width / 2)

	vp.ZoomOut(width)
	if got := NewMapper(vp).DateToColumn(center); got != width/2 {
		t.Fatalf("zoom out moved the center date to column %d", got)
	}

	vp.ZoomIn(width)
	if got := NewMapper(vp).DateToColumn(center); got != width/2 {
		t.Fatalf("zoom in moved the center date to column %d", got)
	}
}

func TestZoomWithZeroWidthKeepsOffset(t *testing.T) {
	vp := NewViewport(0, 0)
	vp.Zoom = 5
	vp.ScrollOffset = 42
	vp.ZoomOut(0)
	if vp.ScrollOffset != 42 {
		t.Fatalf("zero width zoom must not move the offset, got %d", vp.ScrollOffset)
	}
	if vp.Zoom != 6 {
		t.Fatalf("expected zoom 6, got %d", vp.Zoom)
	}
}

func TestCustomZoomBounds(t *testing.T) {
	vp := NewViewport(0, 0)
	vp.MinZoom = 2
	vp.MaxZoom = 10
	vp.Zoom = 2
	vp.ZoomIn(0)
	if vp.Zoom != 2 {
		t.Fatalf("expected custom floor 2, got %d", vp.Zoom)
	}
	vp.Zoom = 10
	vp.ZoomOut(0)
	if vp.Zoom != 10 {
		t.Fatalf("expected custom ceiling 10, got %d", vp.Zoom)
	}
}

func TestSelectionWrapsAround(t *testing.T) {
	vp := NewViewport(0, 0)

	vp.SelectNext(3)
	if idx, ok := vp.Selection(); !ok || idx != 0 {
		t.Fatalf("expected first selection 0, got %d/%v", idx, ok)
	}
	vp.SelectNext(3)
	vp.SelectNext(3)
	vp.SelectNext(3)
	if idx, _ := vp.Selection(); idx != 0 {
		t.Fatalf("expected wraparound to 0, got %d", idx)
	}

	vp.SelectPrevious(3)
	if idx, _ := vp.Selection(); idx != 2 {
		t.Fatalf("expected wraparound back to 2, got %d", idx)
	}
}

func TestSelectPreviousStartsAtEnd(t *testing.T) {
	vp := NewViewport(0, 0)
	vp.SelectPrevious(4)
	if idx, ok := vp.Selection(); !ok || idx != 3 {
		t.Fatalf("expected last interval selected, got %d/%v", idx, ok)
	}
}

func TestSelectionOnEmptyList(t *testing.T) {
	vp := NewViewport(0, 0)
	vp.SelectNext(0)
	if _, ok := vp.Selection(); ok {
		t.Fatalf("selection must stay absent with no intervals")
	}

	vp.SelectNext(2)
	vp.ClampSelection(0)
	if _, ok := vp.Selection(); ok {
		t.Fatalf("clamping against an empty list must clear the selection")
	}
}

func TestClampSelectionAfterShrink(t *testing.T) {
	vp := NewViewport(0, 0)
	vp.SelectNext(10)
	for i := 0; i < 7; i++ {
		vp.SelectNext(10)
	}
	vp.ClampSelection(3)
	if idx, ok := vp.Selection(); !ok || idx != 2 {
		t.Fatalf("expected clamp to last index 2, got %d/%v", idx, ok)
	}
}

func TestCenterOnToday(t *testing.T) {
	vp := NewViewport(0, 0)
	vp.Zoom = 7
	today := day(2025, time.March, 3)
	vp.CenterOnToday(today, 30)
	if got := NewMapper(vp).DateToColumn(today); got != 15 {
		t.Fatalf("expected today at column 15, got %d", got)
	}
}

func TestJumpToStart(t *testing.T) {
	vp := NewViewport(day(2030, time.May, 5), 100)
	vp.JumpToStart()
	if vp.ScrollOffset != 0 {
		t.Fatalf("expected offset 0, got %d", vp.ScrollOffset)
	}
}
