package models

// WindowResult is the evaluator's verdict for one candidate block. Conflicts
// holds courses whose every option overlaps the block on this day; Blocked
// holds courses that stay schedulable only by giving up some option. The two
// sets are disjoint and both sorted.
type WindowResult struct {
	Day       string   `json:"day"`
	Start     int      `json:"start"`
	Score     int      `json:"score"`
	Conflicts []string `json:"conflicts"`
	Blocked   []string `json:"blocked"`
}

// Range is a maximal run of contiguous same-score starts on one day. The
// conflict and blocked detail is taken from the range's first start and
// stands in for the whole run.
type Range struct {
	Day        string   `json:"day"`
	Score      int      `json:"score"`
	FirstStart int      `json:"firstStart"`
	LastStart  int      `json:"lastStart"`
	Count      int      `json:"count"`
	Conflicts  []string `json:"conflicts"`
	Blocked    []string `json:"blocked"`
}
