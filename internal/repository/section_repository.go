package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zlp-tools/window-planner/internal/models"
	appErrors "github.com/zlp-tools/window-planner/pkg/errors"
)

// requiredColumns must all appear in the input header row.
var requiredColumns = []string{"Subject", "Number", "Days", "Start", "Duration"}

// labColumns are consumed as a group. A file missing any of them carries no
// lab data at all.
var labColumns = []string{"Lab", "Lab_Days", "Lab_Start", "Lab_Duration"}

// SectionFileRepository reads the section table from a workbook or csv file.
type SectionFileRepository struct{}

// NewSectionFileRepository constructs the repository.
func NewSectionFileRepository() *SectionFileRepository {
	return &SectionFileRepository{}
}

// Load reads the file at path and returns its normalized section rows.
// Supported extensions are .xlsx, .xls, and .csv.
func (r *SectionFileRepository) Load(ctx context.Context, path string) ([]models.SectionRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		records, err = readWorkbook(path)
	case ".csv":
		records, err = readCSV(path)
	default:
		return nil, appErrors.Clone(appErrors.ErrInputSource, "file must be .xlsx, .xls, or .csv")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInputSource.Code, appErrors.ErrInputSource.Exit, fmt.Sprintf("failed to read %s", filepath.Base(path)))
	}

	return buildRows(records)
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read workbook rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func buildRows(records [][]string) ([]models.SectionRow, error) {
	var header []string
	if len(records) > 0 {
		header = records[0]
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrInputSource, "missing columns: "+strings.Join(missing, ", "))
	}

	hasLab := true
	for _, name := range labColumns {
		if _, ok := index[name]; !ok {
			hasLab = false
			break
		}
	}

	cell := func(record []string, name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]models.SectionRow, 0, len(records))
	for _, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		row := models.SectionRow{
			Subject:  strings.ToUpper(cell(record, "Subject")),
			Number:   cell(record, "Number"),
			Days:     strings.ToUpper(cell(record, "Days")),
			Start:    cell(record, "Start"),
			Duration: normalizeDuration(cell(record, "Duration")),
		}
		if hasLab {
			row.Lab = strings.ToUpper(cell(record, "Lab"))
			if row.LabRequested() {
				row.LabDays = strings.ToUpper(cell(record, "Lab_Days"))
				row.LabStart = cell(record, "Lab_Start")
				row.LabDuration = normalizeDuration(cell(record, "Lab_Duration"))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeDuration collapses numeric cells to their integer form, so a
// workbook value stored as 50.0 reads back as "50". Non-numeric cells pass
// through untouched and fail row validation later.
func normalizeDuration(raw string) string {
	if raw == "" {
		return raw
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return strconv.Itoa(int(f))
}
