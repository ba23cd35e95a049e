package models

import "strings"

// SectionRow is one normalized row of the sections table. Lab fields carry
// values only when the lab flag is truthy; otherwise the reader leaves them
// empty.
type SectionRow struct {
	Subject     string `json:"subject" validate:"required"`
	Number      string `json:"number" validate:"required"`
	Days        string `json:"days" validate:"required"`
	Start       string `json:"start" validate:"required"`
	Duration    string `json:"duration" validate:"required"`
	Lab         string `json:"lab,omitempty"`
	LabDays     string `json:"labDays,omitempty"`
	LabStart    string `json:"labStart,omitempty"`
	LabDuration string `json:"labDuration,omitempty"`
}

var labTokens = map[string]bool{"Y": true, "YES": true, "TRUE": true, "1": true}

// LabRequested reports whether the row asks for a bundled lab meeting.
func (r SectionRow) LabRequested() bool {
	return labTokens[strings.ToUpper(strings.TrimSpace(r.Lab))]
}
