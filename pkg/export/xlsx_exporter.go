package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// HeatmapSheet describes a score grid with row labels in the first column
// and one score column per heading.
type HeatmapSheet struct {
	IndexHeader   string
	RowLabels     []string
	ColumnHeaders []string
	Values        [][]int
	IndexWidth    float64
	ColumnWidth   float64
}

// Color stops for the score scale, low to high.
const (
	heatColorLow  = "#63BE7B"
	heatColorMid  = "#FFEB84"
	heatColorHigh = "#F8696B"
)

// XLSXExporter renders a heatmap grid plus an adjacent table into a single
// workbook sheet.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces workbook bytes: the heatmap anchored at A1 with a 3-color
// score scale and frozen header panes, then the dataset as a table two
// columns to its right. tableWidths sets table column widths in order.
func (e *XLSXExporter) Render(sheetName string, heat HeatmapSheet, table Dataset, tableWidths []float64) ([]byte, error) {
	if len(heat.RowLabels) == 0 || len(heat.ColumnHeaders) == 0 {
		return nil, fmt.Errorf("xlsx requires a non-empty heatmap grid")
	}
	if len(heat.Values) != len(heat.RowLabels) {
		return nil, fmt.Errorf("xlsx heatmap size mismatch: %d labels, %d value rows", len(heat.RowLabels), len(heat.Values))
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := e.writeHeatmap(f, sheetName, heat, headerStyle); err != nil {
		return nil, err
	}
	tableStart := len(heat.ColumnHeaders) + 3
	if err := e.writeTable(f, sheetName, table, tableStart, tableWidths, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *XLSXExporter) writeHeatmap(f *excelize.File, sheet string, heat HeatmapSheet, headerStyle int) error {
	if err := setCell(f, sheet, 1, 1, heat.IndexHeader); err != nil {
		return fmt.Errorf("write heatmap header: %w", err)
	}
	for j, header := range heat.ColumnHeaders {
		if err := setCell(f, sheet, j+2, 1, header); err != nil {
			return fmt.Errorf("write heatmap header: %w", err)
		}
	}
	for i, label := range heat.RowLabels {
		if err := setCell(f, sheet, 1, i+2, label); err != nil {
			return fmt.Errorf("write heatmap labels: %w", err)
		}
		if len(heat.Values[i]) != len(heat.ColumnHeaders) {
			return fmt.Errorf("xlsx heatmap row %d has %d values, want %d", i, len(heat.Values[i]), len(heat.ColumnHeaders))
		}
		for j, score := range heat.Values[i] {
			if err := setCell(f, sheet, j+2, i+2, score); err != nil {
				return fmt.Errorf("write heatmap scores: %w", err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(heat.ColumnHeaders) + 1)
	if err != nil {
		return fmt.Errorf("locate heatmap columns: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style heatmap header: %w", err)
	}

	scoreRef := fmt.Sprintf("B2:%s%d", lastCol, len(heat.RowLabels)+1)
	if err := f.SetConditionalFormat(sheet, scoreRef, []excelize.ConditionalFormatOptions{{
		Type:     "3_color_scale",
		Criteria: "=",
		MinType:  "num",
		MinValue: "0",
		MinColor: heatColorLow,
		MidType:  "percentile",
		MidValue: "50",
		MidColor: heatColorMid,
		MaxType:  "max",
		MaxColor: heatColorHigh,
	}}); err != nil {
		return fmt.Errorf("apply score color scale: %w", err)
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freeze heatmap panes: %w", err)
	}

	indexWidth := heat.IndexWidth
	if indexWidth <= 0 {
		indexWidth = 10
	}
	columnWidth := heat.ColumnWidth
	if columnWidth <= 0 {
		columnWidth = 14
	}
	if err := f.SetColWidth(sheet, "A", "A", indexWidth); err != nil {
		return fmt.Errorf("size heatmap columns: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", lastCol, columnWidth); err != nil {
		return fmt.Errorf("size heatmap columns: %w", err)
	}
	return nil
}

func (e *XLSXExporter) writeTable(f *excelize.File, sheet string, table Dataset, startCol int, widths []float64, headerStyle int) error {
	if len(table.Headers) == 0 {
		return nil
	}
	for k, header := range table.Headers {
		if err := setCell(f, sheet, startCol+k, 1, header); err != nil {
			return fmt.Errorf("write table header: %w", err)
		}
	}
	firstCol, err := excelize.ColumnNumberToName(startCol)
	if err != nil {
		return fmt.Errorf("locate table columns: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(startCol + len(table.Headers) - 1)
	if err != nil {
		return fmt.Errorf("locate table columns: %w", err)
	}
	if err := f.SetCellStyle(sheet, firstCol+"1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style table header: %w", err)
	}

	for r, row := range table.Rows {
		for k, header := range table.Headers {
			if err := setCell(f, sheet, startCol+k, r+2, cellValue(row[header])); err != nil {
				return fmt.Errorf("write table row: %w", err)
			}
		}
	}

	for k := range table.Headers {
		if k >= len(widths) {
			break
		}
		col, err := excelize.ColumnNumberToName(startCol + k)
		if err != nil {
			return fmt.Errorf("locate table columns: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, widths[k]); err != nil {
			return fmt.Errorf("size table columns: %w", err)
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// cellValue keeps numeric-looking table cells numeric in the workbook.
func cellValue(raw string) interface{} {
	if n, err := strconv.Atoi(raw); err == nil && raw != "" {
		return n
	}
	return raw
}
