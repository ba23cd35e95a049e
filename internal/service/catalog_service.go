package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zlp-tools/window-planner/internal/models"
	"github.com/zlp-tools/window-planner/internal/timegrid"
	appErrors "github.com/zlp-tools/window-planner/pkg/errors"
)

type sectionLoader interface {
	Load(ctx context.Context, path string) ([]models.SectionRow, error)
}

var (
	subjectRe  = regexp.MustCompile(`^[A-Z]{4}$`)
	numberRe   = regexp.MustCompile(`^\d{3}[Ll]?$`)
	daysRe     = regexp.MustCompile(`^[MTWRF]+$`)
	durationRe = regexp.MustCompile(`^\d+$`)
)

// RowIssue records one rejected input row and the reason it was skipped.
type RowIssue struct {
	Course string `json:"course"`
	Reason string `json:"reason"`
}

// LoadResult summarises a catalog build.
type LoadResult struct {
	Accepted int        `json:"accepted"`
	Issues   []RowIssue `json:"issues,omitempty"`
}

// CatalogService turns raw section rows into a catalog of course options.
// Each row becomes one option; a row flagged with a lab bundles the lab
// meeting into that same option.
type CatalogService struct {
	sections  sectionLoader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService wires catalog dependencies.
func NewCatalogService(sections sectionLoader, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{sections: sections, validator: validate, logger: logger}
}

// Load reads the sections file and assembles the catalog.
func (s *CatalogService) Load(ctx context.Context, path string) (*models.Catalog, LoadResult, error) {
	rows, err := s.sections.Load(ctx, path)
	if err != nil {
		return nil, LoadResult{}, err
	}
	return s.Build(rows)
}

// Build validates rows one by one. A bad row is reported and skipped while
// the rest continue; an entirely empty catalog is an error.
func (s *CatalogService) Build(rows []models.SectionRow) (*models.Catalog, LoadResult, error) {
	catalog := models.NewCatalog()
	result := LoadResult{}

	for _, row := range rows {
		code := row.Subject + " " + row.Number
		option, err := s.buildOption(code, row)
		if err != nil {
			result.Issues = append(result.Issues, RowIssue{Course: code, Reason: err.Error()})
			s.logger.Sugar().Warnw("section row rejected", "course", code, "reason", err.Error())
			continue
		}
		catalog.Add(option)
		result.Accepted++
	}

	if catalog.Len() == 0 {
		return nil, result, appErrors.Clone(appErrors.ErrEmptyCatalog, "")
	}
	return catalog, result, nil
}

// buildOption turns one row into one option, bundling the lab meeting when
// the row asks for it.
func (s *CatalogService) buildOption(code string, row models.SectionRow) (models.Option, error) {
	if err := s.validator.Struct(row); err != nil {
		return models.Option{}, rowFieldError(err)
	}
	if !subjectRe.MatchString(row.Subject) || !numberRe.MatchString(row.Number) {
		return models.Option{}, errors.New("course code malformed (e.g. MEEN 221)")
	}

	lecture, err := buildMeeting(row.Days, row.Start, row.Duration, code)
	if err != nil {
		return models.Option{}, err
	}
	meetings := []models.Meeting{lecture}

	if row.LabRequested() {
		labDays := strings.ToUpper(strings.TrimSpace(row.LabDays))
		labStart := strings.TrimSpace(row.LabStart)
		labDuration := strings.TrimSpace(row.LabDuration)
		if labDays == "" || labStart == "" || labDuration == "" {
			return models.Option{}, errors.New("Lab=Y but lab fields are missing (Lab_Days/Lab_Start/Lab_Duration)")
		}
		lab, err := buildMeeting(labDays, labStart, labDuration, code+" (Lab)")
		if err != nil {
			return models.Option{}, err
		}
		meetings = append(meetings, lab)
	}

	return models.Option{Course: code, Meetings: meetings}, nil
}

// buildMeeting validates the day/start/duration triple and produces the
// meeting in grid minutes.
func buildMeeting(days, start, duration, label string) (models.Meeting, error) {
	days = strings.ToUpper(days)
	if !daysRe.MatchString(days) {
		return models.Meeting{}, errors.New("days must be combo of MTWRF")
	}
	startMin, err := timegrid.ParseClock(start)
	if err != nil {
		return models.Meeting{}, errors.New("start must be HH:MM 24-hour")
	}
	if !durationRe.MatchString(duration) {
		return models.Meeting{}, errors.New("duration must be positive int")
	}
	minutes, err := strconv.Atoi(duration)
	if err != nil || minutes <= 0 {
		return models.Meeting{}, errors.New("duration must be positive int")
	}
	return models.Meeting{Days: days, Start: startMin, Duration: minutes, Label: label}, nil
}

// rowFieldError maps a missing required field to the message its value check
// would have produced.
func rowFieldError(err error) error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		switch fields[0].StructField() {
		case "Subject", "Number":
			return errors.New("course code malformed (e.g. MEEN 221)")
		case "Days":
			return errors.New("days must be combo of MTWRF")
		case "Start":
			return errors.New("start must be HH:MM 24-hour")
		case "Duration":
			return errors.New("duration must be positive int")
		}
	}
	return err
}
