package service

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/zlp-tools/window-planner/internal/dto"
	"github.com/zlp-tools/window-planner/internal/models"
	"github.com/zlp-tools/window-planner/internal/timegrid"
)

// WindowConfig governs range selection.
type WindowConfig struct {
	ScoreCeiling int
	MinRanges    int
}

// WindowService scores every candidate meeting block against the catalog.
// The catalog is a read-only snapshot; every method is a pure computation
// over it.
type WindowService struct {
	catalog *models.Catalog
	cfg     WindowConfig
	logger  *zap.Logger
}

// NewWindowService wires the evaluator onto a loaded catalog.
func NewWindowService(catalog *models.Catalog, cfg WindowConfig, logger *zap.Logger) *WindowService {
	if cfg.ScoreCeiling <= 0 {
		cfg.ScoreCeiling = 2
	}
	if cfg.MinRanges <= 0 {
		cfg.MinRanges = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WindowService{catalog: catalog, cfg: cfg, logger: logger}
}

func gridDays() []string {
	return strings.Split(models.DayLetters, "")
}

// EvaluateBlock scores one candidate block, re-picking each course's option
// independently. A course whose every option overlaps the block is an
// unavoidable conflict; one that keeps a clear option but loses at least one
// other is blocked.
func (s *WindowService) EvaluateBlock(day string, start int) models.WindowResult {
	blockEnd := start + timegrid.BlockMinutes
	var conflicts, blocked []string

	for _, course := range s.catalog.Courses() {
		anyOverlap := false
		anyClear := false
		for _, opt := range s.catalog.OptionsFor(course) {
			if opt.OverlapsBlock(day, start, blockEnd) {
				anyOverlap = true
			} else {
				anyClear = true
			}
		}
		if !anyClear {
			conflicts = append(conflicts, course)
		} else if anyOverlap {
			blocked = append(blocked, course)
		}
	}

	sort.Strings(conflicts)
	sort.Strings(blocked)
	return models.WindowResult{
		Day:       day,
		Start:     start,
		Score:     len(conflicts),
		Conflicts: conflicts,
		Blocked:   blocked,
	}
}

// ScoreDay evaluates every grid start on one day, in grid order.
func (s *WindowService) ScoreDay(day string) []models.WindowResult {
	starts := timegrid.Starts()
	results := make([]models.WindowResult, 0, len(starts))
	for _, start := range starts {
		results = append(results, s.EvaluateBlock(day, start))
	}
	return results
}

// Heatmap produces the full day-by-start score matrix.
func (s *WindowService) Heatmap() dto.HeatmapMatrix {
	starts := timegrid.Starts()
	days := gridDays()

	times := make([]string, len(starts))
	for i, start := range starts {
		times[i] = timegrid.FormatMinutes(start)
	}
	scores := make([][]int, len(starts))
	for i := range scores {
		scores[i] = make([]int, len(days))
	}
	for j, day := range days {
		for i, res := range s.ScoreDay(day) {
			scores[i][j] = res.Score
		}
	}
	return dto.HeatmapMatrix{Times: times, Days: days, Scores: scores}
}

// Ranges groups each day's grid into maximal runs of contiguous equal-score
// starts. The first start's conflict and blocked detail represents the run.
func (s *WindowService) Ranges() []models.Range {
	var ranges []models.Range
	for _, day := range gridDays() {
		results := s.ScoreDay(day)
		if len(results) == 0 {
			continue
		}
		current := newRange(results[0])
		for _, res := range results[1:] {
			if res.Score == current.Score {
				current.LastStart = res.Start
				current.Count++
				continue
			}
			ranges = append(ranges, current)
			current = newRange(res)
		}
		ranges = append(ranges, current)
	}
	return ranges
}

func newRange(res models.WindowResult) models.Range {
	return models.Range{
		Day:        res.Day,
		Score:      res.Score,
		FirstStart: res.Start,
		LastStart:  res.Start,
		Count:      1,
		Conflicts:  res.Conflicts,
		Blocked:    res.Blocked,
	}
}

// SelectTop ranks ranges by (score, blocked count, first start, day order)
// and keeps every range at or under the score ceiling, topping up with the
// next best ones until the minimum count is reached.
func (s *WindowService) SelectTop(ranges []models.Range) []dto.RankedWindow {
	ordered := make([]models.Range, len(ranges))
	copy(ordered, ranges)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if len(a.Blocked) != len(b.Blocked) {
			return len(a.Blocked) < len(b.Blocked)
		}
		if a.FirstStart != b.FirstStart {
			return a.FirstStart < b.FirstStart
		}
		return models.DayIndex(a.Day) < models.DayIndex(b.Day)
	})

	selected := make([]models.Range, 0, len(ordered))
	for _, r := range ordered {
		if r.Score <= s.cfg.ScoreCeiling {
			selected = append(selected, r)
		}
	}
	if len(selected) < s.cfg.MinRanges {
		for _, r := range ordered {
			if r.Score > s.cfg.ScoreCeiling {
				selected = append(selected, r)
				if len(selected) == s.cfg.MinRanges {
					break
				}
			}
		}
	}

	windows := make([]dto.RankedWindow, 0, len(selected))
	for i, r := range selected {
		windows = append(windows, dto.RankedWindow{
			Rank:            i + 1,
			Day:             models.DayNames[r.Day],
			StartRange:      renderSpan(r.FirstStart, r.LastStart),
			EndRange:        renderSpan(r.FirstStart+timegrid.BlockMinutes, r.LastStart+timegrid.BlockMinutes),
			RangeLength:     r.Count,
			Score:           r.Score,
			ConflictCourses: strings.Join(r.Conflicts, ", "),
			BlockedCount:    len(r.Blocked),
			BlockedCourses:  strings.Join(r.Blocked, ", "),
		})
	}
	s.logger.Sugar().Debugw("ranges ranked", "total", len(ranges), "selected", len(windows))
	return windows
}

func renderSpan(first, last int) string {
	if first == last {
		return timegrid.FormatMinutes(first)
	}
	return timegrid.FormatMinutes(first) + "–" + timegrid.FormatMinutes(last)
}

// FreeTime summarises, per day, the starts whose block clears every meeting
// of every option at once.
func (s *WindowService) FreeTime() []dto.DayFreeSummary {
	summaries := make([]dto.DayFreeSummary, 0, len(models.DayLetters))
	for _, day := range gridDays() {
		var busy []timegrid.Interval
		for _, course := range s.catalog.Courses() {
			for _, opt := range s.catalog.OptionsFor(course) {
				for _, m := range opt.Meetings {
					if m.OccursOn(day) {
						busy = append(busy, timegrid.Interval{Start: m.Start, End: m.End()})
					}
				}
			}
		}
		free := timegrid.FreeStarts(busy)
		span := "(none)"
		if len(free) > 0 {
			last := free[0]
			for _, start := range free[1:] {
				if start != last+timegrid.StepMinutes {
					break
				}
				last = start
			}
			span = timegrid.FormatStartSpan(free[0], last)
		}
		summaries = append(summaries, dto.DayFreeSummary{
			Day:         models.DayNames[day],
			ClearStarts: len(free),
			FirstSpan:   span,
		})
	}
	return summaries
}
