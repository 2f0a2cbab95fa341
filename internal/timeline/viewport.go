package timeline

// Zoom bounds in days per column. One day per column is the finest
// grid; thirty days per column is the coarsest.
const (
	ZoomMin     = 1
	ZoomMax     = 30
	DefaultZoom = 1
)

// Viewport represents the navigable window over the timeline: how many
// days one column covers, which day sits at column zero, and which
// interval is selected. The zero value is not ready to use; construct
// one with NewViewport.
type Viewport struct {
	// Zoom is the number of days covered by one column.
	Zoom int
	// ScrollOffset is the day index shown at column zero. It may be
	// negative; all adjustments saturate instead of wrapping.
	ScrollOffset int
	// Selected is the selected interval index, meaningful only while
	// HasSelection is set.
	Selected     int
	HasSelection bool

	// MinZoom and MaxZoom override the default zoom bounds when both
	// are set to sane values. Zero values fall back to the defaults.
	MinZoom int
	MaxZoom int
}

// NewViewport constructs a viewport at the default zoom, centered on
// the given day for the given width in columns.
func NewViewport(today, width int) Viewport {
	v := Viewport{Zoom: DefaultZoom}
	v.CenterOnToday(today, width)
	return v
}

// Scroll moves the window by whole columns, negative meaning further
// into the past. The day offset saturates at the representable range.
func (v *Viewport) Scroll(columns int) {
	v.ScrollOffset = satAddDays(v.ScrollOffset, columns*v.zoom())
}

// ZoomIn narrows to fewer days per column. The day at the window's
// horizontal center keeps its column, so zooming does not lose the
// user's place. Width is the current window width in columns.
func (v *Viewport) ZoomIn(width int) {
	v.setZoom(v.zoom()-1, width)
}

// ZoomOut widens to more days per column, keeping the center day at
// its column like ZoomIn.
func (v *Viewport) ZoomOut(width int) {
	v.setZoom(v.zoom()+1, width)
}

// setZoom applies a clamped zoom change, recomputing the scroll offset
// so the day at the center column stays at the center column.
func (v *Viewport) setZoom(zoom, width int) {
	zoom = v.clampZoom(zoom)
	if zoom == v.zoom() {
		v.Zoom = zoom
		return
	}
	center := 0
	if width > 0 {
		center = width / 2
	}
	centerDay := satAddDays(v.ScrollOffset, center*v.zoom())
	v.Zoom = zoom
	v.ScrollOffset = satAddDays(centerDay, -center*zoom)
}

// SelectNext advances the selection, wrapping past the end. With no
// prior selection the first interval is selected. A total of zero
// clears the selection.
func (v *Viewport) SelectNext(total int) {
	if total <= 0 {
		v.clearSelection()
		return
	}
	if !v.HasSelection {
		v.Selected = 0
		v.HasSelection = true
		return
	}
	v.Selected = (v.Selected + 1) % total
}

// SelectPrevious retreats the selection, wrapping past the start. With
// no prior selection the last interval is selected.
func (v *Viewport) SelectPrevious(total int) {
	if total <= 0 {
		v.clearSelection()
		return
	}
	if !v.HasSelection {
		v.Selected = total - 1
		v.HasSelection = true
		return
	}
	v.Selected = (v.Selected - 1 + total) % total
}

// ClampSelection forces the selection back into range after the
// underlying list changed, clearing it when the list is empty.
func (v *Viewport) ClampSelection(total int) {
	if total <= 0 {
		v.clearSelection()
		return
	}
	if v.Selected < 0 {
		v.Selected = 0
	}
	if v.Selected >= total {
		v.Selected = total - 1
	}
}

// Selection returns the selected index and whether one exists.
func (v Viewport) Selection() (int, bool) {
	return v.Selected, v.HasSelection
}

// CenterOnToday scrolls so the given day lands at the center column of
// a window of the given width.
func (v *Viewport) CenterOnToday(today, width int) {
	center := 0
	if width > 0 {
		center = width / 2
	}
	v.ScrollOffset = satAddDays(today, -center*v.zoom())
}

// JumpToStart scrolls back to the engine origin, placing day zero at
// column zero.
func (v *Viewport) JumpToStart() {
	v.ScrollOffset = 0
}

func (v *Viewport) clearSelection() {
	v.Selected = 0
	v.HasSelection = false
}

// zoom returns the zoom with zero and out-of-range values repaired, so
// a mis-built viewport still behaves.
func (v Viewport) zoom() int {
	return v.clampZoom(v.Zoom)
}

func (v Viewport) clampZoom(zoom int) int {
	lo, hi := ZoomMin, ZoomMax
	if v.MinZoom >= 1 {
		lo = v.MinZoom
	}
	if v.MaxZoom >= lo {
		hi = v.MaxZoom
	}
	if zoom < lo {
		return lo
	}
	if zoom > hi {
		return hi
	}
	return zoom
}
