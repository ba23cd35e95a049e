package models

import (
	"strings"

	"github.com/zlp-tools/window-planner/internal/timegrid"
)

// DayLetters enumerates the weekday codes in grid order.
const DayLetters = "MTWRF"

// DayNames maps a weekday letter to its display name.
var DayNames = map[string]string{
	"M": "Monday",
	"T": "Tuesday",
	"W": "Wednesday",
	"R": "Thursday",
	"F": "Friday",
}

// DayIndex returns the position of a weekday letter in grid order, or -1 for
// anything else.
func DayIndex(day string) int {
	return strings.Index(DayLetters, day)
}

// Meeting is one scheduled occurrence: the same time span on every listed day.
type Meeting struct {
	Days     string `json:"days"`
	Start    int    `json:"start"`
	Duration int    `json:"duration"`
	Label    string `json:"label"`
}

// End returns the minute the meeting ends.
func (m Meeting) End() int {
	return m.Start + m.Duration
}

// OccursOn reports whether the meeting takes place on the given weekday.
func (m Meeting) OccursOn(day string) bool {
	return strings.Contains(m.Days, day)
}

// Option is one selectable way to take a course. Its meetings are an
// inseparable bundle: choosing the option commits to all of them at once.
type Option struct {
	Course   string    `json:"course"`
	Meetings []Meeting `json:"meetings"`
}

// OverlapsBlock reports whether any bundled meeting occupies the given day
// and intersects the block interval. An option with no meeting on the day
// never overlaps, whatever its other days hold.
func (o Option) OverlapsBlock(day string, blockStart, blockEnd int) bool {
	for _, m := range o.Meetings {
		if m.OccursOn(day) && timegrid.Overlaps(m.Start, m.End(), blockStart, blockEnd) {
			return true
		}
	}
	return false
}
