package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zlp-tools/window-planner/internal/models"
	appErrors "github.com/zlp-tools/window-planner/pkg/errors"
)

type sectionLoaderStub struct {
	rows []models.SectionRow
	err  error
}

func (s sectionLoaderStub) Load(context.Context, string) ([]models.SectionRow, error) {
	return s.rows, s.err
}

func sectionRow(subject, number, days, start, duration string) models.SectionRow {
	return models.SectionRow{Subject: subject, Number: number, Days: days, Start: start, Duration: duration}
}

func TestCatalogServiceBuildValidRows(t *testing.T) {
	svc := NewCatalogService(nil, nil, nil)
	catalog, result, err := svc.Build([]models.SectionRow{
		sectionRow("MEEN", "221", "MWF", "09:10", "50"),
		sectionRow("MEEN", "221", "TR", "12:45", "75"),
		sectionRow("PHYS", "218", "MW", "08:00", "50"),
	})
	require.NoError(t, err)
	require.NotNil(t, catalog)
	assert.Equal(t, 3, result.Accepted)
	assert.Empty(t, result.Issues)

	require.Equal(t, []string{"MEEN 221", "PHYS 218"}, catalog.Courses())
	options := catalog.OptionsFor("MEEN 221")
	require.Len(t, options, 2)
	require.Len(t, options[0].Meetings, 1)
	assert.Equal(t, "MWF", options[0].Meetings[0].Days)
	assert.Equal(t, 9*60+10, options[0].Meetings[0].Start)
	assert.Equal(t, 50, options[0].Meetings[0].Duration)
	assert.Equal(t, "MEEN 221", options[0].Meetings[0].Label)
}

func TestCatalogServiceBuildBundlesLab(t *testing.T) {
	svc := NewCatalogService(nil, nil, nil)
	row := sectionRow("CSCE", "121", "TR", "12:45", "75")
	row.Lab = "Y"
	row.LabDays = "W"
	row.LabStart = "15:00"
	row.LabDuration = "110"

	catalog, result, err := svc.Build([]models.SectionRow{row})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)

	options := catalog.OptionsFor("CSCE 121")
	require.Len(t, options, 1)
	require.Len(t, options[0].Meetings, 2)
	assert.Equal(t, "CSCE 121", options[0].Meetings[0].Label)
	assert.Equal(t, "CSCE 121 (Lab)", options[0].Meetings[1].Label)
	assert.Equal(t, 15*60, options[0].Meetings[1].Start)
	assert.Equal(t, 110, options[0].Meetings[1].Duration)
}

func TestCatalogServiceBuildRejectsBadRows(t *testing.T) {
	bad := func(mutate func(*models.SectionRow)) models.SectionRow {
		row := sectionRow("MEEN", "221", "MWF", "09:10", "50")
		mutate(&row)
		return row
	}
	cases := []struct {
		name   string
		row    models.SectionRow
		reason string
	}{
		{"subject too short", bad(func(r *models.SectionRow) { r.Subject = "ME" }), "course code malformed (e.g. MEEN 221)"},
		{"subject empty", bad(func(r *models.SectionRow) { r.Subject = "" }), "course code malformed (e.g. MEEN 221)"},
		{"number malformed", bad(func(r *models.SectionRow) { r.Number = "22" }), "course code malformed (e.g. MEEN 221)"},
		{"bad day letter", bad(func(r *models.SectionRow) { r.Days = "MWS" }), "days must be combo of MTWRF"},
		{"start without leading zero", bad(func(r *models.SectionRow) { r.Start = "9:10" }), "start must be HH:MM 24-hour"},
		{"start out of range", bad(func(r *models.SectionRow) { r.Start = "24:00" }), "start must be HH:MM 24-hour"},
		{"start empty", bad(func(r *models.SectionRow) { r.Start = "" }), "start must be HH:MM 24-hour"},
		{"duration zero", bad(func(r *models.SectionRow) { r.Duration = "0" }), "duration must be positive int"},
		{"duration negative", bad(func(r *models.SectionRow) { r.Duration = "-5" }), "duration must be positive int"},
		{"duration not numeric", bad(func(r *models.SectionRow) { r.Duration = "abc" }), "duration must be positive int"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCatalogService(nil, nil, nil)
			valid := sectionRow("PHYS", "218", "MW", "08:00", "50")
			catalog, result, err := svc.Build([]models.SectionRow{tc.row, valid})
			require.NoError(t, err)
			assert.Equal(t, 1, result.Accepted)
			require.Len(t, result.Issues, 1)
			assert.Equal(t, tc.reason, result.Issues[0].Reason)
			assert.Equal(t, []string{"PHYS 218"}, catalog.Courses())
		})
	}
}

func TestCatalogServiceBuildRejectsIncompleteLab(t *testing.T) {
	svc := NewCatalogService(nil, nil, nil)
	labRow := sectionRow("CSCE", "121", "TR", "12:45", "75")
	labRow.Lab = "Y"
	labRow.LabDays = "W"
	labRow.LabDuration = "110"

	catalog, result, err := svc.Build([]models.SectionRow{
		labRow,
		sectionRow("MEEN", "221", "MWF", "09:10", "50"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "CSCE 121", result.Issues[0].Course)
	assert.Equal(t, "Lab=Y but lab fields are missing (Lab_Days/Lab_Start/Lab_Duration)", result.Issues[0].Reason)

	// The lab row contributes nothing, the unrelated course still loads.
	assert.Equal(t, []string{"MEEN 221"}, catalog.Courses())
}

func TestCatalogServiceBuildValidatesLabMeeting(t *testing.T) {
	svc := NewCatalogService(nil, nil, nil)
	labRow := sectionRow("CSCE", "121", "TR", "12:45", "75")
	labRow.Lab = "YES"
	labRow.LabDays = "X"
	labRow.LabStart = "15:00"
	labRow.LabDuration = "110"

	_, result, err := svc.Build([]models.SectionRow{labRow, sectionRow("MEEN", "221", "MWF", "09:10", "50")})
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "days must be combo of MTWRF", result.Issues[0].Reason)
}

func TestCatalogServiceBuildEmptyCatalog(t *testing.T) {
	svc := NewCatalogService(nil, nil, nil)
	catalog, result, err := svc.Build([]models.SectionRow{
		sectionRow("ME", "221", "MWF", "09:10", "50"),
	})
	require.Error(t, err)
	assert.Nil(t, catalog)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, appErrors.ErrEmptyCatalog.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceLoadPropagatesReaderError(t *testing.T) {
	readErr := errors.New("boom")
	svc := NewCatalogService(sectionLoaderStub{err: readErr}, nil, nil)
	_, _, err := svc.Load(context.Background(), "sections.xlsx")
	require.ErrorIs(t, err, readErr)
}

func TestCatalogServiceLoadBuildsFromReader(t *testing.T) {
	svc := NewCatalogService(sectionLoaderStub{rows: []models.SectionRow{
		sectionRow("MEEN", "221", "MWF", "09:10", "50"),
	}}, nil, nil)
	catalog, result, err := svc.Load(context.Background(), "sections.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, []string{"MEEN 221"}, catalog.Courses())
}
