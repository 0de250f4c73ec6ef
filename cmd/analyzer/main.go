package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"costpulse/internal/config"
	"costpulse/internal/exporter"
	"costpulse/internal/files"
	"costpulse/internal/infrastructure"
	"costpulse/internal/reader"
	"costpulse/internal/services"
	"costpulse/internal/validation"
)

func main() {
	inPath := flag.String("in", "", "input spreadsheet (.xlsx, .xlsm or .csv)")
	inDir := flag.String("dir", "", "directory of spreadsheets to analyze as a batch")
	sheetURL := flag.String("sheet", "", "Google Sheets URL or spreadsheet ID to analyze instead of a local file")
	outDir := flag.String("out", "", "output directory for reports (defaults to data/reports relative to executable)")
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	headcount := flag.Int("headcount", 0, "staff headcount for per-head metrics (0 uses the configured default)")
	dateFrom := flag.String("from", "", "start date filter (YYYY-MM-DD)")
	dateTo := flag.String("to", "", "end date filter (YYYY-MM-DD)")
	month := flag.String("month", "", "purchase month filter (YYYY-MM)")
	flag.Parse()

	inputs := 0
	for _, v := range []string{*inPath, *inDir, *sheetURL} {
		if v != "" {
			inputs++
		}
	}
	if inputs == 0 {
		fmt.Fprintln(os.Stderr, "one of -in, -dir or -sheet is required")
		flag.Usage()
		os.Exit(2)
	}
	if inputs > 1 {
		fmt.Fprintln(os.Stderr, "-in, -dir and -sheet are mutually exclusive")
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *outDir == "" {
		*outDir = paths.ReportsDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("Starting cost analysis",
		slog.String("input", *inPath),
		slog.String("input_dir", *inDir),
		slog.String("sheet", *sheetURL),
		slog.String("output_dir", *outDir),
		slog.Int("headcount", *headcount))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Output directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.AnalysisTimeout)
	defer cancel()

	service := services.NewAnalysisServiceWithLogger(cfg, logger)
	opts := services.AnalysisOptions{
		Headcount: *headcount,
		DateFrom:  *dateFrom,
		DateTo:    *dateTo,
		Month:     *month,
	}

	if *inDir != "" {
		if err := runBatch(ctx, service, validator, paths, *inDir, *outDir, opts, logger); err != nil {
			logger.Error("Batch analysis failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	var (
		result *services.AnalysisResult
		source string
	)
	if *sheetURL != "" {
		result, source, err = analyzeSheet(ctx, cfg, paths, service, *sheetURL, opts, logger)
	} else {
		if err := validator.ValidateSpreadsheetFile(*inPath); err != nil {
			logger.Error("Input validation failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		result, source, err = analyzeFile(ctx, service, *inPath, opts, logger)
	}
	if err != nil {
		logger.Error("Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := exportResult(paths, result, source, *outDir, logger); err != nil {
		logger.Error("Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printSummary(result, source)
}

// runBatch analyzes every spreadsheet in a directory concurrently and
// exports one snapshot report per source.
func runBatch(ctx context.Context, service *services.AnalysisService, validator *validation.FileValidator, paths *config.Paths, dir, outDir string, opts services.AnalysisOptions, logger *slog.Logger) error {
	if err := validator.ValidateInputDirectory(dir, "*"); err != nil {
		return err
	}

	discovery := files.NewDiscovery(dir)
	found, err := discovery.FindSpreadsheetFiles(".")
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("no spreadsheets found in %s", dir)
	}

	keywords := service.TransactionHeaderKeywords()
	xlsxReader := reader.NewXLSXReader(logger)
	csvReader := reader.NewCSVReader(logger)

	sources := make([]services.BatchSource, 0, len(found))
	for _, f := range found {
		var sheets []reader.Sheet
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".xlsx", ".xlsm":
			sheets, err = xlsxReader.ReadFile(ctx, f.Path, keywords)
		case ".csv":
			rows, csvErr := csvReader.ReadFile(ctx, f.Path, keywords)
			if csvErr == nil {
				sheets = []reader.Sheet{{Name: f.Name, Records: rows}}
			}
			err = csvErr
		}
		if err != nil {
			logger.Warn("Skipping unreadable source",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			err = nil
			continue
		}
		sources = append(sources, services.BatchSource{Name: f.Name, Sheets: sheets})
	}

	results, err := service.AnalyzeBatch(ctx, sources, opts)
	if err != nil {
		return err
	}

	snapshots := exporter.NewSnapshotExporter(paths)
	date := time.Now().Format("20060102")
	for _, br := range results {
		if br.Error != "" {
			fmt.Printf("\n%s: analysis failed: %s\n", br.Name, br.Error)
			continue
		}

		base := strings.TrimSuffix(br.Name, filepath.Ext(br.Name))
		snapshotPath := filepath.Join(outDir, fmt.Sprintf("costpulse_snapshot_%s_%s.json", base, date))
		report := exporter.SnapshotReport{
			Granularity:    br.Result.Granularity,
			Snapshot:       br.Result.Snapshot,
			Periods:        br.Result.Periods,
			Counterparties: br.Result.Counterparts,
			Vendors:        br.Result.Vendors,
			PriceTrends:    br.Result.PriceTrends,
			Metadata: map[string]any{
				"source":            br.Name,
				"transaction_count": len(br.Result.Transactions),
				"purchase_count":    len(br.Result.Purchases),
			},
		}
		if err := snapshots.Export(report, snapshotPath); err != nil {
			return fmt.Errorf("failed to export snapshot for %s: %w", br.Name, err)
		}

		printSummary(br.Result, br.Name)
	}

	return nil
}

// analyzeFile reads a local spreadsheet and runs the pipeline.
func analyzeFile(ctx context.Context, service *services.AnalysisService, path string, opts services.AnalysisOptions, logger *slog.Logger) (*services.AnalysisResult, string, error) {
	keywords := service.TransactionHeaderKeywords()
	source := filepath.Base(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		sheets, err := reader.NewXLSXReader(logger).ReadFile(ctx, path, keywords)
		if err != nil {
			return nil, source, err
		}
		result, err := service.AnalyzeWorkbook(ctx, sheets, opts)
		return result, source, err

	case ".csv":
		rows, err := reader.NewCSVReader(logger).ReadFile(ctx, path, keywords)
		if err != nil {
			return nil, source, err
		}
		result, err := service.AnalyzeRecords(ctx, rows, nil, opts)
		return result, source, err

	default:
		return nil, source, fmt.Errorf("unsupported input file type: %s", filepath.Ext(path))
	}
}

// analyzeSheet fetches a remote Google Sheets document and runs the
// transaction pipeline on it.
func analyzeSheet(ctx context.Context, cfg *config.Config, paths *config.Paths, service *services.AnalysisService, url string, opts services.AnalysisOptions, logger *slog.Logger) (*services.AnalysisResult, string, error) {
	readerCfg := reader.SheetsReaderConfig{
		APIKey:    cfg.Sheets.APIKey,
		ReadRange: cfg.Sheets.ReadRange,
		Logger:    logger,
	}

	credentialsPath := paths.GetCredentialsPath()
	if config.FileExists(credentialsPath) {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, url, fmt.Errorf("failed to read credentials file: %w", err)
		}
		readerCfg.CredentialsJSON = data
	}

	sheetsReader, err := reader.NewSheetsReader(ctx, readerCfg)
	if err != nil {
		return nil, url, err
	}

	source, err := reader.SpreadsheetID(url)
	if err != nil {
		return nil, url, err
	}

	rows, err := sheetsReader.Read(ctx, url, service.TransactionHeaderKeywords())
	if err != nil {
		return nil, source, err
	}

	result, err := service.AnalyzeRecords(ctx, rows, nil, opts)
	return result, source, err
}

// exportResult writes the ledger CSVs and the snapshot JSON report.
func exportResult(paths *config.Paths, result *services.AnalysisResult, source, outDir string, logger *slog.Logger) error {
	now := time.Now()
	ledger := exporter.NewLedgerExporter(paths)

	txPath := filepath.Join(outDir, filepath.Base(paths.GetTransactionsCSVPath(now)))
	if err := ledger.ExportTransactions(result.Transactions, txPath); err != nil {
		return fmt.Errorf("failed to export transactions: %w", err)
	}
	logger.Info("Transactions exported", slog.String("path", txPath), slog.Int("count", len(result.Transactions)))

	if len(result.Purchases) > 0 {
		purchasePath := filepath.Join(outDir, fmt.Sprintf("costpulse_purchases_%s.csv", now.Format("20060102")))
		if err := ledger.ExportPurchases(result.Purchases, purchasePath); err != nil {
			return fmt.Errorf("failed to export purchases: %w", err)
		}
		logger.Info("Purchases exported", slog.String("path", purchasePath), slog.Int("count", len(result.Purchases)))
	}

	report := exporter.SnapshotReport{
		Granularity:    result.Granularity,
		Snapshot:       result.Snapshot,
		Periods:        result.Periods,
		Counterparties: result.Counterparts,
		Vendors:        result.Vendors,
		PriceTrends:    result.PriceTrends,
		Metadata: map[string]any{
			"source":            source,
			"transaction_count": len(result.Transactions),
			"purchase_count":    len(result.Purchases),
			"available_months":  result.Months,
		},
	}
	snapshotPath := filepath.Join(outDir, filepath.Base(paths.GetSnapshotJSONPath(now)))
	if err := exporter.NewSnapshotExporter(paths).Export(report, snapshotPath); err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}
	logger.Info("Snapshot exported", slog.String("path", snapshotPath))

	return nil
}

// printSummary prints the headline numbers to stdout for interactive use.
func printSummary(result *services.AnalysisResult, source string) {
	s := result.Snapshot

	fmt.Printf("\nAnalysis of %s\n", source)
	fmt.Printf("  Granularity:      %s (%d periods)\n", result.Granularity, len(result.Periods))
	fmt.Printf("  Total revenue:    %.0f\n", s.TotalRevenue)
	fmt.Printf("  Total expense:    %.0f\n", s.TotalExpense)
	fmt.Printf("  Fixed cost:       %.0f\n", s.FixedCost)
	fmt.Printf("  Variable cost:    %.0f\n", s.VariableCost)
	fmt.Printf("  FL ratio:         %.1f%%\n", s.FLRatio)
	fmt.Printf("  Prime cost:       %.0f\n", s.PrimeCost)
	fmt.Printf("  Break-even point: %.0f (reached: %v)\n", s.BreakEvenPoint, s.BreakEvenReached)
	fmt.Printf("  Revenue per head: %.0f\n", s.RevenuePerHead)
	fmt.Printf("  Status:           %s\n", s.Status)
}
