package timeline

import "slices"

// AssignLanes packs intervals into horizontal lanes so that no two
// intervals in one lane overlap. Candidates are considered by start day
// (ties keep input order) and each takes the lowest-numbered lane that
// is free, where free means the lane's last occupant ends strictly
// before the candidate starts. Ranges are inclusive on both ends, so
// bars that merely touch still land in different lanes.
//
// The returned slice is parallel to the input: lanes[i] is the lane of
// intervals[i]. An empty input yields no lanes.
func AssignLanes(intervals []Interval) []int {
	if len(intervals) == 0 {
		return nil
	}

	order := make([]int, len(intervals))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if intervals[a].Start != intervals[b].Start {
			return intervals[a].Start - intervals[b].Start
		}
		return a - b
	})

	lanes := make([]int, len(intervals))
	var laneEnds []int
	for _, idx := range order {
		start := intervals[idx].Start
		end := intervals[idx].End
		if end < start {
			end = start
		}

		assigned := -1
		for lane, laneEnd := range laneEnds {
			if laneEnd < start {
				assigned = lane
				break
			}
		}
		if assigned < 0 {
			laneEnds = append(laneEnds, end)
			lanes[idx] = len(laneEnds) - 1
			continue
		}
		laneEnds[assigned] = end
		lanes[idx] = assigned
	}
	return lanes
}

// LaneCount returns the number of lanes a lane assignment occupies.
func LaneCount(lanes []int) int {
	count := 0
	for _, lane := range lanes {
		if lane+1 > count {
			count = lane + 1
		}
	}
	return count
}

// Layout caches one lane assignment and recomputes it only when the
// interval slice it was computed from changes, so render loops can ask
// for lanes every frame without resorting each time.
type Layout struct {
	source []Interval
	lanes  []int
	valid  bool
}

// LanesFor returns the lane assignment for the given intervals, reusing
// the cached result while the same slice is passed again. Passing a
// slice with a different backing array or length invalidates the cache.
func (l *Layout) LanesFor(intervals []Interval) []int {
	if l.valid && sameSlice(l.source, intervals) {
		return l.lanes
	}
	l.source = intervals
	l.lanes = AssignLanes(intervals)
	l.valid = true
	return l.lanes
}

// Lanes returns the most recent assignment without recomputing.
func (l *Layout) Lanes() []int {
	return l.lanes
}

// LaneCount returns the lane count of the most recent assignment.
func (l *Layout) LaneCount() int {
	return LaneCount(l.lanes)
}

// Invalidate drops the cached assignment.
func (l *Layout) Invalidate() {
	l.source = nil
	l.lanes = nil
	l.valid = false
}

// sameSlice reports whether two slices share identity: same length and,
// when non-empty, the same backing array start.
func sameSlice(a, b []Interval) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
