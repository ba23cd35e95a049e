package dto

// RankedWindow is one selected range annotated for display, in final rank
// order.
type RankedWindow struct {
	Rank            int    `json:"rank"`
	Day             string `json:"day"`
	StartRange      string `json:"startRange"`
	EndRange        string `json:"endRange"`
	RangeLength     int    `json:"rangeLength"`
	Score           int    `json:"score"`
	ConflictCourses string `json:"conflictCourses"`
	BlockedCount    int    `json:"blockedCount"`
	BlockedCourses  string `json:"blockedCourses"`
}

// HeatmapMatrix is the full day-by-start score matrix for workbook
// rendering. Scores is indexed [time][day], matching Times and Days.
type HeatmapMatrix struct {
	Times  []string `json:"times"`
	Days   []string `json:"days"`
	Scores [][]int  `json:"scores"`
}

// DayFreeSummary counts the candidate starts on one day that clear every
// meeting of every option, with the leading clear run formatted for display.
type DayFreeSummary struct {
	Day         string `json:"day"`
	ClearStarts int    `json:"clearStarts"`
	FirstSpan   string `json:"firstSpan,omitempty"`
}
