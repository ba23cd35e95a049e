package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a landscape tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
// Column widths follow the longest cell per column so wide text columns get
// proportionally more room.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(title)), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	widths := columnWidths(data, 277.0)

	pdf.SetFont("Arial", "B", 9)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, tr(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths spreads the usable page width across columns proportionally
// to their longest cell, clamped so narrow columns stay readable.
func columnWidths(data Dataset, usable float64) []float64 {
	longest := make([]int, len(data.Headers))
	for i, header := range data.Headers {
		longest[i] = len(header)
	}
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			if n := len(row[header]); n > longest[i] {
				longest[i] = n
			}
		}
	}
	total := 0
	for i := range longest {
		if longest[i] < 4 {
			longest[i] = 4
		}
		if longest[i] > 60 {
			longest[i] = 60
		}
		total += longest[i]
	}
	widths := make([]float64, len(longest))
	for i, n := range longest {
		widths[i] = usable * float64(n) / float64(total)
	}
	return widths
}
