package timegrid

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Candidate blocks start every StepMinutes from DayStart through LastStart
// inclusive, and always span BlockMinutes.
const (
	DayStart     = 8 * 60
	LastStart    = 16*60 + 10
	BlockMinutes = 100
	StepMinutes  = 5
)

var clockRe = regexp.MustCompile(`^(2[0-3]|1\d|0\d):([0-5]\d)$`)

// Starts returns every candidate block start in ascending order.
func Starts() []int {
	starts := make([]int, 0, (LastStart-DayStart)/StepMinutes+1)
	for m := DayStart; m <= LastStart; m += StepMinutes {
		starts = append(starts, m)
	}
	return starts
}

// Overlaps reports whether the half-open minute intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. A shared endpoint is not an overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	return lo < hi
}

// Interval is a busy span within one day, in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Merge collapses overlapping or touching intervals into a minimal sorted
// disjoint set.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start > last.End {
			merged = append(merged, iv)
			continue
		}
		if iv.End > last.End {
			last.End = iv.End
		}
	}
	return merged
}

// FreeStarts returns the candidate starts whose block overlaps none of the
// busy intervals.
func FreeStarts(busy []Interval) []int {
	merged := Merge(busy)
	var free []int
	for _, start := range Starts() {
		end := start + BlockMinutes
		hit := false
		for _, iv := range merged {
			if Overlaps(start, end, iv.Start, iv.End) {
				hit = true
				break
			}
		}
		if !hit {
			free = append(free, start)
		}
	}
	return free
}

// ParseClock converts a 24-hour "HH:MM" string (leading zeros required) into
// minutes from midnight.
func ParseClock(raw string) (int, error) {
	m := clockRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return hour*60 + minute, nil
}

// FormatMinutes renders minutes from midnight as "HH:MM".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatStartSpan renders a run of candidate starts as a single time or an
// inclusive span.
func FormatStartSpan(first, last int) string {
	if first == last {
		return FormatMinutes(first)
	}
	return fmt.Sprintf("%s–%s (every %d min)", FormatMinutes(first), FormatMinutes(last), StepMinutes)
}
