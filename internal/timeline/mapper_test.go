package timeline

import (
	"strings"
	"testing"
	"time"
)

func TestDateToColumnAtDayZoom(t *testing.T) {
	vp := Viewport{Zoom: 1, ScrollOffset: day(2024, time.January, 1)}
	m := NewMapper(vp)
	if got := m.DateToColumn(day(2024, time.January, 5)); got != 4 {
		t.Fatalf("expected column 4, got %d", got)
	}
	if got := m.DateToColumn(day(2024, time.January, 1)); got != 0 {
		t.Fatalf("expected column 0, got %d", got)
	}
}

func TestDateToColumnFloorsLeftOfOrigin(t *testing.T) {
	vp := Viewport{Zoom: 7, ScrollOffset: day(2024, time.January, 1)}
	m := NewMapper(vp)
	if got := m.DateToColumn(day(2023, time.December, 31)); got != -1 {
		t.Fatalf("expected the day before the origin in column -1, got %d", got)
	}
	if got := m.DateToColumn(day(2023, time.December, 25)); got != -1 {
		t.Fatalf("expected seven days back in column -1, got %d", got)
	}
	if got := m.DateToColumn(day(2023, time.December, 24)); got != -2 {
		t.Fatalf("expected eight days back in column -2, got %d", got)
	}
}

func TestColumnRoundTrip(t *testing.T) {
	for _, zoom := range []int{1, 3, 7, 30} {
		vp := Viewport{Zoom: zoom, ScrollOffset: day(2024, time.March, 1)}
		m := NewMapper(vp)
		for col := -10; col <= 200; col++ {
			if got := m.DateToColumn(m.ColumnToDate(col)); got != col {
				t.Fatalf("zoom %d: column %d round tripped to %d", zoom, col, got)
			}
		}
	}
}

func TestColumnToDateSpansZoomDays(t *testing.T) {
	vp := Viewport{Zoom: 7, ScrollOffset: day(2024, time.January, 1)}
	m := NewMapper(vp)
	if got := m.ColumnToDate(1); got != day(2024, time.January, 8) {
		t.Fatalf("expected column 1 to start on Jan 8, got %s", DayDate(got).Format("2006-01-02"))
	}
	first, last := m.VisibleRange(10)
	if first != day(2024, time.January, 1) || last != day(2024, time.March, 10) {
		t.Fatalf("unexpected visible range %s..%s",
			DayDate(first).Format("2006-01-02"), DayDate(last).Format("2006-01-02"))
	}
}

func TestGranularityForZoom(t *testing.T) {
	cases := []struct {
		zoom int
		want Granularity
	}{
		{1, GranularityDay},
		{2, GranularityWeek},
		{7, GranularityWeek},
		{8, GranularityMonth},
		{31, GranularityMonth},
		{32, GranularityQuarter},
	}
	for _, tc := range cases {
		if got := granularityForZoom(tc.zoom); got != tc.want {
			t.Fatalf("zoom %d: expected %v, got %v", tc.zoom, tc.want, got)
		}
	}
}

func TestAxisTicksWeekGranularity(t *testing.T) {
	vp := Viewport{Zoom: 7, ScrollOffset: day(2024, time.January, 1)}
	ticks := NewMapper(vp).AxisTicks(60)
	if len(ticks) == 0 {
		t.Fatalf("expected ticks across a 60 column window")
	}
	for _, tick := range ticks {
		if tick.Granularity != GranularityWeek {
			t.Fatalf("expected week granularity at zoom 7, got %v", tick.Granularity)
		}
		if wd := DayDate(NewMapper(vp).ColumnToDate(tick.Column)).Weekday(); wd != time.Monday {
			t.Fatalf("expected ticks on Mondays, got %v", wd)
		}
		if len(tick.Label) <= 2 {
			t.Fatalf("expected a month qualified label, got %q", tick.Label)
		}
	}
}

func TestAxisTicksRespectSpacing(t *testing.T) {
	vp := Viewport{Zoom: 7, ScrollOffset: day(2024, time.January, 1)}
	m := NewMapperWithSpacing(vp, 8)
	ticks := m.AxisTicks(120)
	for i := 1; i < len(ticks); i++ {
		if gap := ticks[i].Column - ticks[i-1].Column; gap < 8 {
			t.Fatalf("ticks %d and %d only %d columns apart", i-1, i, gap)
		}
	}
}

func TestAxisTicksStableWhileScrolling(t *testing.T) {
	vp := Viewport{Zoom: 7, ScrollOffset: day(2024, time.January, 1)}
	before := NewMapper(vp).AxisTicks(120)

	vp.Scroll(1)
	after := NewMapper(vp).AxisTicks(120)

	labels := make(map[string]bool)
	for _, tick := range before {
		labels[tick.Label] = true
	}
	shared := 0
	for _, tick := range after {
		if labels[tick.Label] {
			shared++
		}
	}
	if shared == 0 {
		t.Fatalf("scrolling one column must keep most tick labels, shared none")
	}
}

func TestAxisTicksDayGranularityLabels(t *testing.T) {
	vp := Viewport{Zoom: 1, ScrollOffset: day(2024, time.January, 1)}
	ticks := NewMapper(vp).AxisTicks(40)
	if len(ticks) == 0 {
		t.Fatalf("expected day ticks at zoom 1")
	}
	for _, tick := range ticks {
		if tick.Granularity != GranularityDay {
			t.Fatalf("expected day granularity at zoom 1, got %v", tick.Granularity)
		}
		if len(tick.Label) != 2 {
			t.Fatalf("expected a two digit day label, got %q", tick.Label)
		}
	}
}

func TestAxisTicksQuarterLabels(t *testing.T) {
	vp := Viewport{Zoom: 91, ScrollOffset: day(2024, time.January, 1), MaxZoom: 120}
	ticks := NewMapper(vp).AxisTicks(40)
	for _, tick := range ticks {
		if tick.Granularity != GranularityQuarter {
			t.Fatalf("expected quarter granularity, got %v", tick.Granularity)
		}
		if !strings.HasPrefix(tick.Label, "Q") {
			t.Fatalf("expected quarter label, got %q", tick.Label)
		}
	}
	if len(ticks) == 0 {
		t.Fatalf("expected quarter ticks across a multi-year window")
	}
}

func TestAxisTicksEmptyWindow(t *testing.T) {
	vp := Viewport{Zoom: 7, ScrollOffset: 0}
	if got := NewMapper(vp).AxisTicks(0); got != nil {
		t.Fatalf("expected no ticks for a zero width window, got %v", got)
	}
}

func TestAxisTicksColumnsInRange(t *testing.T) {
	vp := Viewport{Zoom: 3, ScrollOffset: day(2024, time.May, 17)}
	const width = 50
	for _, tick := range NewMapper(vp).AxisTicks(width) {
		if tick.Column < 0 || tick.Column >= width {
			t.Fatalf("tick column %d out of range", tick.Column)
		}
	}
}
