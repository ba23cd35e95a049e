package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zlp-tools/window-planner/internal/repository"
	"github.com/zlp-tools/window-planner/internal/service"
	"github.com/zlp-tools/window-planner/pkg/config"
	appErrors "github.com/zlp-tools/window-planner/pkg/errors"
	"github.com/zlp-tools/window-planner/pkg/jobs"
	"github.com/zlp-tools/window-planner/pkg/logger"
	"github.com/zlp-tools/window-planner/pkg/storage"
)

var (
	cfg  *config.Config
	logr *zap.Logger
)

var (
	flagInput        string
	flagOutputDir    string
	flagFormats      string
	flagScoreCeiling int
	flagMinRanges    int
)

var rootCmd = &cobra.Command{
	Use:           "window-planner",
	Short:         "Find weekly meeting windows that fit around a course catalog",
	Long:          "window-planner scores every candidate weekly start time against a section table, prints the best contiguous ranges, and writes heatmap reports.",
	RunE:          runPlan,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagInput, "input", "i", "", "sections table (.xlsx, .xls, or .csv); overrides SECTIONS_FILE")
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for result files; overrides RESULTS_DIR")
	rootCmd.Flags().StringVar(&flagFormats, "formats", "", "comma-separated result formats: xlsx,csv,pdf; overrides RESULTS_FORMATS")
	rootCmd.Flags().IntVar(&flagScoreCeiling, "score-ceiling", 0, "include every range scoring at or below this many conflicts")
	rootCmd.Flags().IntVar(&flagMinRanges, "min-ranges", 0, "pad the selection up to this many ranges")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(appErrors.FromError(err).Exit)
	}
}

// boot loads configuration, applies flag overrides, and initialises logging.
func boot(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if flagInput != "" {
		cfg.Input.SectionsFile = flagInput
	}
	if flagOutputDir != "" {
		cfg.Reports.OutputDir = flagOutputDir
	}
	if flagFormats != "" {
		cfg.Reports.Formats = splitFormats(flagFormats)
	}
	if cmd.Flags().Changed("score-ceiling") {
		cfg.Planner.ScoreCeiling = flagScoreCeiling
	}
	if cmd.Flags().Changed("min-ranges") {
		cfg.Planner.MinRanges = flagMinRanges
	}

	logr, err = logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := boot(cmd); err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logr.Sugar().Infow("planner starting",
		"input", cfg.Input.SectionsFile,
		"output_dir", cfg.Reports.OutputDir,
		"formats", cfg.Reports.Formats,
		"env", cfg.Env,
	)

	catalogSvc := service.NewCatalogService(repository.NewSectionFileRepository(), nil, logr)

	catalog, result, err := catalogSvc.Load(ctx, cfg.Input.SectionsFile)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrEmptyCatalog.Code {
			fmt.Println("\nNo valid rows loaded; nothing to compute.")
			return err
		}
		fmt.Printf("[file-load error] %v\n", err)
		return err
	}
	printLoaded(result.Accepted)

	windowSvc := service.NewWindowService(catalog, service.WindowConfig{
		ScoreCeiling: cfg.Planner.ScoreCeiling,
		MinRanges:    cfg.Planner.MinRanges,
	}, logr)

	data := service.ReportData{
		Windows:  windowSvc.SelectTop(windowSvc.Ranges()),
		Heatmap:  windowSvc.Heatmap(),
		FreeTime: windowSvc.FreeTime(),
	}

	store, err := storage.NewLocalStorage(cfg.Reports.OutputDir)
	if err != nil {
		return err
	}

	worker := service.NewExportWorker(store, nil, nil, nil, cfg.Reports.WorkerRetries, logr)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	reportSvc := service.NewReportService(store, queue, logr, service.ReportConfig{
		Basename:       cfg.Reports.Basename,
		Formats:        cfg.Reports.Formats,
		ResultTTL:      cfg.Reports.ResultTTL,
		CleanupEnabled: cfg.Reports.CleanupEnabled,
	})

	reportSvc.Print(os.Stdout, data)

	summary, err := reportSvc.WriteAll(ctx, data)
	if err != nil {
		return err
	}
	if len(summary.Files) > 0 {
		fmt.Println()
	}
	for _, file := range summary.Files {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".xlsx":
			fmt.Printf("Excel report written to: %s\n", file)
		case ".csv":
			fmt.Printf("CSV report written to: %s\n", file)
		case ".pdf":
			fmt.Printf("PDF report written to: %s\n", file)
		}
	}
	return nil
}

func printLoaded(accepted int) {
	fmt.Printf("[spreadsheet] loaded %d section rows successfully from %s\n", accepted, filepath.Base(cfg.Input.SectionsFile))
}

func splitFormats(raw string) []string {
	parts := strings.Split(raw, ",")
	formats := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			formats = append(formats, trimmed)
		}
	}
	return formats
}
