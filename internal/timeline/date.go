// Package timeline lays out project date ranges on a scrollable,
// zoomable character grid: lane assignment, viewport navigation,
// date/column mapping, and frame rendering.
package timeline

import "time"

const secondsPerDay = 86_400

// minDay and maxDay bound every day index the engine produces. Offsets
// that would leave this range saturate instead of wrapping, so viewport
// arithmetic stays total under extreme scroll and zoom values.
const (
	minDay = -3_000_000
	maxDay = 3_000_000
)

// DayIndex converts a timestamp to whole days since the Unix epoch,
// flooring so times before the epoch land in the day they fall within.
func DayIndex(t time.Time) int {
	secs := t.Unix()
	day := secs / secondsPerDay
	if secs%secondsPerDay != 0 && secs < 0 {
		day--
	}
	return clampDay(int(day))
}

// DayDate converts a day index back to the UTC midnight starting that day.
func DayDate(day int) time.Time {
	return time.Unix(int64(clampDay(day))*secondsPerDay, 0).UTC()
}

// clampDay clamps a day index to the representable range.
func clampDay(day int) int {
	if day < minDay {
		return minDay
	}
	if day > maxDay {
		return maxDay
	}
	return day
}

// satAddDays adds a day delta with saturation at the representable range.
func satAddDays(day, delta int) int {
	return clampDay(clampDay(day) + clampDay(delta))
}

// floorDiv divides truncating toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
