package timeline

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) int {
	return DayIndex(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestDayIndexEpoch(t *testing.T) {
	if got := day(1970, time.January, 1); got != 0 {
		t.Fatalf("expected epoch day 0, got %d", got)
	}
	if got := day(1970, time.January, 2); got != 1 {
		t.Fatalf("expected day 1, got %d", got)
	}
}

func TestDayIndexFloorsWithinDay(t *testing.T) {
	noon := time.Date(2024, time.March, 10, 12, 30, 0, 0, time.UTC)
	midnight := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	if DayIndex(noon) != DayIndex(midnight) {
		t.Fatalf("times within one day must share an index")
	}
}

func TestDayIndexBeforeEpochFloors(t *testing.T) {
	if got := day(1969, time.December, 31); got != -1 {
		t.Fatalf("expected -1 for the day before the epoch, got %d", got)
	}
	evening := time.Date(1969, time.December, 31, 18, 0, 0, 0, time.UTC)
	if got := DayIndex(evening); got != -1 {
		t.Fatalf("expected pre-epoch times to floor to -1, got %d", got)
	}
}

func TestDayDateRoundTrip(t *testing.T) {
	days := []int{-1000, -1, 0, 1, 19723, day(2024, time.June, 15)}
	for _, d := range days {
		back := DayIndex(DayDate(d))
		if back != d {
			t.Fatalf("round trip of day %d returned %d", d, back)
		}
	}
}

func TestDayDateIsUTCMidnight(t *testing.T) {
	d := DayDate(day(2024, time.January, 5))
	if d.Hour() != 0 || d.Minute() != 0 || d.Location() != time.UTC {
		t.Fatalf("expected UTC midnight, got %v", d)
	}
}

func TestSatAddDaysSaturates(t *testing.T) {
	if got := satAddDays(maxDay, 1); got != maxDay {
		t.Fatalf("expected saturation at maxDay, got %d", got)
	}
	if got := satAddDays(minDay, -1); got != minDay {
		t.Fatalf("expected saturation at minDay, got %d", got)
	}
	if got := satAddDays(maxDay-5, 100); got != maxDay {
		t.Fatalf("expected clamp to maxDay, got %d", got)
	}
	if got := satAddDays(10, -20); got != -10 {
		t.Fatalf("expected plain arithmetic inside the range, got %d", got)
	}
}

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{-4, 2, -2},
		{0, 3, 0},
		{-1, 7, -1},
	}
	for _, tc := range cases {
		if got := floorDiv(tc.a, tc.b); got != tc.want {
			t.Fatalf("floorDiv(%d, %d) = %d, expected %d", tc.a, tc.b, got, tc.want)
		}
	}
}
