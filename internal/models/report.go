package models

import "strings"

// ReportFormat enumerates supported result renditions.
type ReportFormat string

const (
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
)

// ParseReportFormat maps a config token onto a known format.
func ParseReportFormat(raw string) (ReportFormat, bool) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case ReportFormatXLSX, ReportFormatCSV, ReportFormatPDF:
		return f, true
	default:
		return "", false
	}
}
