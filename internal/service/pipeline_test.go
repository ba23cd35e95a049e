package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zlp-tools/window-planner/internal/repository"
)

// Runs the whole pipeline on a small catalog: MEEN 221 meets MWF 09:10-10:00,
// CSCE 121 meets TR 12:45-14:00 with a Wednesday lab 15:00-16:50. Every day
// splits into two or three score runs, 13 ranges total, all within the score
// ceiling.
func TestPlannerPipelineWritesWorkbook(t *testing.T) {
	input := filepath.Join(t.TempDir(), "sections.csv")
	fixture := "Subject,Number,Days,Start,Duration,Lab,Lab_Days,Lab_Start,Lab_Duration\n" +
		"MEEN,221,MWF,09:10,50,,,,\n" +
		"CSCE,121,TR,12:45,75,Y,W,15:00,110\n"
	require.NoError(t, os.WriteFile(input, []byte(fixture), 0o644))

	catalogSvc := NewCatalogService(repository.NewSectionFileRepository(), nil, nil)
	catalog, result, err := catalogSvc.Load(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, 2, result.Accepted)
	require.Empty(t, result.Issues)

	windowSvc := NewWindowService(catalog, WindowConfig{}, nil)
	windows := windowSvc.SelectTop(windowSvc.Ranges())
	require.Len(t, windows, 13)

	first := windows[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "Tuesday", first.Day)
	assert.Equal(t, "08:00–11:05", first.StartRange)
	assert.Equal(t, "09:40–12:45", first.EndRange)
	assert.Equal(t, 38, first.RangeLength)
	assert.Equal(t, 0, first.Score)
	assert.Empty(t, first.ConflictCourses)

	data := ReportData{
		Windows:  windows,
		Heatmap:  windowSvc.Heatmap(),
		FreeTime: windowSvc.FreeTime(),
	}

	h := newReportHarnessForTest(t, nil, ReportConfig{Formats: []string{"xlsx"}})
	summary, err := h.service.WriteAll(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, summary.Files, 1)

	book, err := excelize.OpenFile(summary.Files[0])
	require.NoError(t, err)
	defer book.Close()

	corner, err := book.GetCellValue("ScheduleData", "A1")
	require.NoError(t, err)
	assert.Equal(t, "StartTime", corner)
	monday, err := book.GetCellValue("ScheduleData", "B1")
	require.NoError(t, err)
	assert.Equal(t, "M (Monday)", monday)
	friday, err := book.GetCellValue("ScheduleData", "F1")
	require.NoError(t, err)
	assert.Equal(t, "F (Friday)", friday)

	firstTime, err := book.GetCellValue("ScheduleData", "A2")
	require.NoError(t, err)
	assert.Equal(t, "08:00", firstTime)
	lastTime, err := book.GetCellValue("ScheduleData", "A100")
	require.NoError(t, err)
	assert.Equal(t, "16:10", lastTime)

	// Monday 09:55 is the last start colliding with MEEN 221; 10:00 clears it.
	colliding, err := book.GetCellValue("ScheduleData", "B25")
	require.NoError(t, err)
	assert.Equal(t, "1", colliding)
	cleared, err := book.GetCellValue("ScheduleData", "B26")
	require.NoError(t, err)
	assert.Equal(t, "0", cleared)

	rankHeader, err := book.GetCellValue("ScheduleData", "H1")
	require.NoError(t, err)
	assert.Equal(t, "Rank", rankHeader)
	blockedHeader, err := book.GetCellValue("ScheduleData", "P1")
	require.NoError(t, err)
	assert.Equal(t, "Blocked courses", blockedHeader)
	topRank, err := book.GetCellValue("ScheduleData", "H2")
	require.NoError(t, err)
	assert.Equal(t, "1", topRank)
	topDay, err := book.GetCellValue("ScheduleData", "I2")
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", topDay)
}
