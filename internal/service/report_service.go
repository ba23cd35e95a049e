package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zlp-tools/window-planner/internal/dto"
	"github.com/zlp-tools/window-planner/internal/models"
	appErrors "github.com/zlp-tools/window-planner/pkg/errors"
	"github.com/zlp-tools/window-planner/pkg/export"
	"github.com/zlp-tools/window-planner/pkg/jobs"
)

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type resultStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(sheetName string, heat export.HeatmapSheet, table export.Dataset, tableWidths []float64) ([]byte, error)
}

const (
	resultSheetName = "ScheduleData"
	pdfReportTitle  = "Meeting start-time ranges"
)

var rankedHeaders = []string{
	"Rank", "Day", "Start range", "End range",
	"Range length (starts)", "Score (conflicts)",
	"Conflicting courses", "# Blocked Courses", "Blocked courses",
}

var rankedWidths = []float64{6, 12, 16, 16, 20, 16, 35, 16, 120}

// ReportData carries everything the renderers consume.
type ReportData struct {
	Windows  []dto.RankedWindow
	Heatmap  dto.HeatmapMatrix
	FreeTime []dto.DayFreeSummary
}

// ReportConfig governs result files and cleanup.
type ReportConfig struct {
	Basename       string
	Formats        []string
	ResultTTL      time.Duration
	CleanupEnabled bool
}

// WriteSummary lists what a write pass produced.
type WriteSummary struct {
	Files  []string
	Failed []string
}

// ReportService fans report rendering out over the job queue and gathers the
// results.
type ReportService struct {
	storage resultStorage
	queue   jobDispatcher
	logger  *zap.Logger
	cfg     ReportConfig
}

// NewReportService constructs the report orchestrator.
func NewReportService(storage resultStorage, queue jobDispatcher, logger *zap.Logger, cfg ReportConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Basename == "" {
		cfg.Basename = "zlp_results"
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 30 * 24 * time.Hour
	}
	return &ReportService{storage: storage, queue: queue, logger: logger, cfg: cfg}
}

// WriteAll enqueues one export job per configured format and waits for every
// outcome. It fails when any format could not be written.
func (s *ReportService) WriteAll(ctx context.Context, data ReportData) (*WriteSummary, error) {
	formats, err := s.resolveFormats()
	if err != nil {
		return nil, err
	}

	tracker := newExportTracker(len(formats))
	for _, format := range formats {
		filename := s.cfg.Basename + "." + string(format)
		job := jobs.Job{
			ID:      uuid.NewString(),
			Type:    "report_export",
			Payload: &exportTask{Format: format, Filename: filename, Data: data, tracker: tracker},
		}
		if err := s.queue.Enqueue(job); err != nil {
			tracker.complete(exportOutcome{Format: format, Filename: filename, Err: err})
			continue
		}
		s.logger.Sugar().Infow("report job enqueued", "job_id", job.ID, "format", format, "file", filename)
	}

	outcomes, err := tracker.wait(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrReportWrite.Code, appErrors.ErrReportWrite.Exit, "report generation interrupted")
	}

	summary := &WriteSummary{}
	var firstErr error
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			summary.Failed = append(summary.Failed, string(outcome.Format))
			if firstErr == nil {
				firstErr = outcome.Err
			}
			continue
		}
		path := s.storage.Path(outcome.Filename)
		summary.Files = append(summary.Files, path)
		s.logger.Sugar().Infow("report written", "file", path, "format", outcome.Format)
	}
	sort.Strings(summary.Files)
	sort.Strings(summary.Failed)

	if firstErr != nil {
		return summary, appErrors.Wrap(firstErr, appErrors.ErrReportWrite.Code, appErrors.ErrReportWrite.Exit,
			fmt.Sprintf("failed to write formats: %s", strings.Join(summary.Failed, ", ")))
	}

	if s.cfg.CleanupEnabled {
		deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
		if err != nil {
			s.logger.Sugar().Warnw("result cleanup failed", "error", err)
		} else if len(deleted) > 0 {
			s.logger.Sugar().Infow("stale results removed", "count", len(deleted))
		}
	}
	return summary, nil
}

// Print writes the human-readable summary: the ranked ranges, then the
// per-day free time digest.
func (s *ReportService) Print(w io.Writer, data ReportData) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Meeting start-time ranges (contiguous, per-start optimized):")
	fmt.Fprintln(w, "Includes all ranges with score <= 2; if fewer than 10, filled with next best ranges.")
	fmt.Fprintln(w)
	for _, win := range data.Windows {
		fmt.Fprintf(w, "%2d. %-9s   start: %s    score=%d\n", win.Rank, win.Day, win.StartRange, win.Score)
	}

	if len(data.FreeTime) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fully clear starts per day:")
	for _, day := range data.FreeTime {
		fmt.Fprintf(w, "%-9s  %2d clear starts   first: %s\n", day.Day, day.ClearStarts, day.FirstSpan)
	}
}

func (s *ReportService) resolveFormats() ([]models.ReportFormat, error) {
	if len(s.cfg.Formats) == 0 {
		return []models.ReportFormat{models.ReportFormatXLSX}, nil
	}
	seen := make(map[models.ReportFormat]bool, len(s.cfg.Formats))
	formats := make([]models.ReportFormat, 0, len(s.cfg.Formats))
	for _, raw := range s.cfg.Formats {
		format, ok := models.ParseReportFormat(raw)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", raw))
		}
		if seen[format] {
			continue
		}
		seen[format] = true
		formats = append(formats, format)
	}
	return formats, nil
}

// --- Export jobs ---

type exportTask struct {
	Format   models.ReportFormat
	Filename string
	Data     ReportData
	tracker  *exportTracker
}

type exportOutcome struct {
	Format   models.ReportFormat
	Filename string
	Err      error
}

// exportTracker collects one terminal outcome per expected job.
type exportTracker struct {
	mu        sync.Mutex
	remaining int
	outcomes  []exportOutcome
	done      chan struct{}
}

func newExportTracker(expected int) *exportTracker {
	t := &exportTracker{remaining: expected, done: make(chan struct{})}
	if expected == 0 {
		close(t.done)
	}
	return t
}

func (t *exportTracker) complete(outcome exportOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining == 0 {
		return
	}
	t.outcomes = append(t.outcomes, outcome)
	t.remaining--
	if t.remaining == 0 {
		close(t.done)
	}
}

func (t *exportTracker) wait(ctx context.Context) ([]exportOutcome, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.outcomes, nil
	}
}

// ExportWorker renders and stores one report file per queue job.
type ExportWorker struct {
	storage    resultStorage
	xlsx       xlsxRenderer
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
	maxRetries int
}

// NewExportWorker constructs a worker.
func NewExportWorker(storage resultStorage, xlsx xlsxRenderer, csv csvRenderer, pdf pdfRenderer, maxRetries int, logger *zap.Logger) *ExportWorker {
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportWorker{
		storage:    storage,
		xlsx:       xlsx,
		csv:        csv,
		pdf:        pdf,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// Handle processes one export job. A returned error lets the queue retry;
// once attempts are exhausted the failure is recorded as the job's terminal
// outcome.
func (w *ExportWorker) Handle(ctx context.Context, job jobs.Job) error {
	task, ok := job.Payload.(*exportTask)
	if !ok {
		w.logger.Sugar().Errorw("unexpected job payload", "job_id", job.ID, "type", job.Type)
		return nil
	}

	payload, err := w.render(task)
	if err == nil {
		_, err = w.storage.Save(task.Filename, payload)
	}
	if err != nil {
		if job.Attempt >= w.maxRetries {
			task.tracker.complete(exportOutcome{Format: task.Format, Filename: task.Filename, Err: err})
		}
		return err
	}

	task.tracker.complete(exportOutcome{Format: task.Format, Filename: task.Filename})
	return nil
}

func (w *ExportWorker) render(task *exportTask) ([]byte, error) {
	table := rankedDataset(task.Data.Windows)
	switch task.Format {
	case models.ReportFormatXLSX:
		return w.xlsx.Render(resultSheetName, heatmapSheet(task.Data.Heatmap), table, rankedWidths)
	case models.ReportFormatCSV:
		return w.csv.Render(table)
	case models.ReportFormatPDF:
		return w.pdf.Render(table, pdfReportTitle)
	default:
		return nil, fmt.Errorf("unsupported format %s", task.Format)
	}
}

func rankedDataset(windows []dto.RankedWindow) export.Dataset {
	rows := make([]map[string]string, 0, len(windows))
	for _, win := range windows {
		rows = append(rows, map[string]string{
			"Rank":                  strconv.Itoa(win.Rank),
			"Day":                   win.Day,
			"Start range":           win.StartRange,
			"End range":             win.EndRange,
			"Range length (starts)": strconv.Itoa(win.RangeLength),
			"Score (conflicts)":     strconv.Itoa(win.Score),
			"Conflicting courses":   win.ConflictCourses,
			"# Blocked Courses":     strconv.Itoa(win.BlockedCount),
			"Blocked courses":       win.BlockedCourses,
		})
	}
	return export.Dataset{Headers: rankedHeaders, Rows: rows}
}

func heatmapSheet(heat dto.HeatmapMatrix) export.HeatmapSheet {
	headers := make([]string, len(heat.Days))
	for i, day := range heat.Days {
		if name, ok := models.DayNames[day]; ok {
			headers[i] = fmt.Sprintf("%s (%s)", day, name)
		} else {
			headers[i] = day
		}
	}
	return export.HeatmapSheet{
		IndexHeader:   "StartTime",
		RowLabels:     heat.Times,
		ColumnHeaders: headers,
		Values:        heat.Scores,
	}
}
