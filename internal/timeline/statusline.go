package timeline

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Emphasis classifies a status line segment so the caller can pick a
// style for it without this package knowing about themes.
type Emphasis int

// Emphasis values for status line segments.
const (
	EmphasisNormal Emphasis = iota
	EmphasisDim
	EmphasisAccent
	EmphasisAlert
)

// Segment is one run of status line text sharing an emphasis.
type Segment struct {
	Text     string
	Emphasis Emphasis
}

const segmentDivider = " │ "

// StatusSegments builds the status line for the current viewport: the
// zoom as days per column, the date at column zero, and the selected
// interval's label and range, or a placeholder when nothing is
// selected.
func StatusSegments(vp Viewport, intervals []Interval, today int) []Segment {
	zoom := vp.zoom()
	zoomText := fmt.Sprintf("%d days/column", zoom)
	if zoom == 1 {
		zoomText = "1 day/column"
	}

	segs := []Segment{
		{Text: zoomText, Emphasis: EmphasisAccent},
		{Text: segmentDivider, Emphasis: EmphasisDim},
		{Text: DayDate(vp.ScrollOffset).Format("2006-01-02"), Emphasis: EmphasisNormal},
		{Text: segmentDivider, Emphasis: EmphasisDim},
	}

	idx, ok := vp.Selection()
	if !ok || idx < 0 || idx >= len(intervals) {
		return append(segs, Segment{Text: "no selection", Emphasis: EmphasisDim})
	}

	iv := intervals[idx]
	emphasis := EmphasisAccent
	switch iv.Status(today) {
	case StatusCompleted:
		emphasis = EmphasisNormal
	case StatusOverdue:
		emphasis = EmphasisAlert
	}
	return append(segs,
		Segment{Text: fmt.Sprintf("%d/%d ", idx+1, len(intervals)), Emphasis: EmphasisDim},
		Segment{Text: iv.Label, Emphasis: emphasis},
		Segment{
			Text:     fmt.Sprintf("  %s → %s", DayDate(iv.Start).Format("2006-01-02"), DayDate(iv.End).Format("2006-01-02")),
			Emphasis: EmphasisNormal,
		},
	)
}

// StatusLine renders the status segments as plain text fitted to the
// given width.
func StatusLine(vp Viewport, intervals []Interval, today, width int) string {
	var text string
	for _, seg := range StatusSegments(vp, intervals, today) {
		text += seg.Text
	}
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}
