// Package main renders offline timeline previews for the tidvis
// dashboard: one fixture portfolio drawn at several zoom levels, so
// renderer changes can be eyeballed without a live upstream.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/skiva/tidvis/internal/domain"
	"github.com/skiva/tidvis/internal/timeline"
)

// defaultPreviewWidth defines the default render width for previews.
const defaultPreviewWidth = 108

// minPreviewWidth defines the minimum supported preview width.
const minPreviewWidth = 60

// maxPreviewWidth defines the maximum supported preview width.
const maxPreviewWidth = 160

// sampleToday is the reference date the fixture portfolio is built
// around: two projects completed, one overdue, one milestone ahead.
const sampleToday = "2024-04-18"

// zoomSweep lists the zoom levels one sheet renders by default.
var zoomSweep = []int{1, 2, 7, 14, 30}

// main runs the timeline preview playground.
func main() {
	width := flag.Int("width", defaultPreviewWidth, "preview width")
	zoom := flag.Int("zoom", 0, "render a single zoom level instead of the sweep")
	todayArg := flag.String("today", sampleToday, "reference date (YYYY-MM-DD)")
	selected := flag.Int("select", -1, "interval index to render as selected")
	flag.Parse()

	refDate, err := time.Parse("2006-01-02", *todayArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -today %q: %v\n", *todayArg, err)
		os.Exit(2)
	}
	intervals, err := samplePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	renderWidth := clamp(*width, minPreviewWidth, maxPreviewWidth)
	zooms := zoomSweep
	if *zoom > 0 {
		zooms = []int{clamp(*zoom, 1, 30)}
	}
	fmt.Println(renderSheet(intervals, zooms, renderWidth, timeline.DayIndex(refDate), *selected))
}

// samplePortfolio builds the fixture projects the playground renders.
// The mix covers every bar style: completed, active, overdue, a
// future start, and a single-day milestone.
func samplePortfolio() ([]timeline.Interval, error) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	ref := func(t time.Time) *time.Time { return &t }

	specs := []struct {
		id, client, name string
		start, planned   time.Time
		actual           *time.Time
	}{
		{"p-quill", "c-atelier", "Quill CMS", day(2024, 2, 12), day(2024, 3, 22), ref(day(2024, 3, 20))},
		{"p-skylark", "c-atelier", "Skylark Rebrand", day(2024, 3, 4), day(2024, 4, 5), ref(day(2024, 4, 3))},
		{"p-harbor", "c-dockside", "Harbor Migration", day(2024, 3, 18), day(2024, 4, 26), nil},
		{"p-ledger", "c-dockside", "Ledger Cleanup", day(2024, 3, 25), day(2024, 4, 12), nil},
		{"p-atlas", "c-meridian", "Atlas Launch", day(2024, 4, 8), day(2024, 5, 17), nil},
		{"p-beacon", "c-meridian", "Beacon Audit", day(2024, 4, 15), day(2024, 4, 29), nil},
		{"p-moss", "c-atelier", "Moss Garden Site", day(2024, 4, 22), day(2024, 5, 10), nil},
		{"p-relay", "c-dockside", "Relay Cutover", day(2024, 4, 25), day(2024, 4, 25), nil},
	}

	projects := make([]domain.Project, 0, len(specs))
	for _, s := range specs {
		p, err := domain.NewProject(s.id, s.client, "u-lead", s.name, s.start, s.planned, s.actual)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", s.id, err)
		}
		projects = append(projects, p)
	}
	return timeline.FromProjects(projects), nil
}

// previewPalette mirrors the dashboard's stock neon palette.
func previewPalette() timeline.Palette {
	bgDark := lipgloss.Color("#0a0a14")
	cyan := lipgloss.Color("#00ffff")
	green := lipgloss.Color("#00ff80")
	red := lipgloss.Color("#ff3232")
	return timeline.Palette{
		Axis:      lipgloss.NewStyle().Foreground(lipgloss.Color("#326464")),
		AxisLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("#646464")),
		Today:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff00")),

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

// renderSheet renders every requested zoom level into one
// terminal-friendly output.
func renderSheet(intervals []timeline.Interval, zooms []int, width, today, selected int) string {
	var layout timeline.Layout
	lanes := layout.LanesFor(intervals)
	renderer := timeline.NewRenderer(previewPalette(), timeline.DefaultTickSpacing)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff")).
		Render("tidvis timeline playground")
	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#646464")).
		Render(fmt.Sprintf("width=%d  today=%s  %d projects in %d lanes",
			width, timeline.DayDate(today).Format("2006-01-02"), len(intervals), timeline.LaneCount(lanes)))

	sections := []string{title, subtitle}
	for _, zoom := range zooms {
		sections = append(sections, renderCard(renderer, intervals, lanes, zoom, width, today, selected))
	}
	return strings.Join(sections, "\n\n")
}

// renderCard renders one bordered preview card for a single zoom level.
func renderCard(renderer *timeline.Renderer, intervals []timeline.Interval, lanes []int, zoom, width, today, selected int) string {
	innerWidth := max(24, width-4)

	vp := timeline.Viewport{Zoom: zoom}
	if selected >= 0 && selected < len(intervals) {
		vp.Selected = selected
		vp.HasSelection = true
	}
	vp.CenterOnToday(today, innerWidth)

	canvas := timeline.NewCanvas(innerWidth, 1+timeline.LaneCount(lanes))
	renderer.Draw(canvas, intervals, lanes, vp, today)

	label := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff")).
		Render(zoomLabel(zoom))
	status := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#646464")).
		Render(timeline.StatusLine(vp, intervals, today, innerWidth))
	body := strings.Join([]string{label, "", canvas.String(), status}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#326464")).
		Padding(0, 1).
		Width(width).
		Render(body)
}

// zoomLabel describes one zoom level in plain words.
func zoomLabel(zoom int) string {
	if zoom == 1 {
		return "zoom 1: every column is one day"
	}
	return fmt.Sprintf("zoom %d: %d days per column", zoom, zoom)
}

// clamp constrains one integer between lower and upper bounds.
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
