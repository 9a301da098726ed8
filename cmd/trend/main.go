package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"equitycli/internal/config"
	"equitycli/internal/exporter"
	"equitycli/internal/infrastructure"
	"equitycli/internal/tabular"
	"equitycli/internal/trend"
	"equitycli/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	input := flag.String("in", "", "input workbook (.xlsx) or .csv with one series per row")
	sheet := flag.String("sheet", "", "worksheet name (default: first sheet)")
	idColumn := flag.String("id", "", "identifier column (default: CNTRY_NAME)")
	columns := flag.String("columns", "", "comma separated observation columns (default: every other column)")
	output := flag.String("out", "", "output table (.csv or .xlsx)")
	alpha := flag.Float64("alpha", 0, "significance level used to classify trends (default: 0.05)")
	workers := flag.Int("workers", 0, "parallel workers")
	metricsFile := flag.String("metrics", "", "write a Prometheus text snapshot of run metrics to this file")
	spans := flag.Bool("spans", false, "print trace spans to stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Trend.Input = *input
		case "sheet":
			cfg.Trend.Sheet = *sheet
		case "id":
			cfg.Trend.IDColumn = *idColumn
		case "columns":
			cfg.Trend.ValueColumns = splitList(*columns)
		case "out":
			cfg.Trend.Output = *output
		case "alpha":
			cfg.Trend.Alpha = *alpha
		case "workers":
			cfg.Trend.Workers = *workers
		case "metrics":
			cfg.Telemetry.MetricsFile = *metricsFile
		case "spans":
			cfg.Telemetry.ExportSpans = *spans
		}
	})
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx = infrastructure.EnsureTraceID(ctx)

	err = run(ctx, cfg, infrastructure.WithComponent(logger, "trend_cli"))
	stop()
	infrastructure.CloseLogFile()
	if err != nil {
		logger.ErrorContext(ctx, "Trend analysis failed", "error", err)
		os.Exit(1)
	}
}

// run reads the input table, analyses every row and writes the result table
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	tc := cfg.Trend
	if tc.Input == "" {
		return errors.New("no input file: set -in or trend.input")
	}
	if tc.Output == "" {
		return errors.New("no output file: set -out or trend.output")
	}
	fv := validation.NewFileValidator(logger)
	if err := fv.ValidateInputFile(tc.Input); err != nil {
		return err
	}
	if err := fv.ValidateOutputFile(tc.Output); err != nil {
		return err
	}
	start := time.Now()

	tel, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", "error", err)
		}
	}()

	logger.InfoContext(ctx, "Loading series", "path", tc.Input, "sheet", tc.Sheet)
	table, err := tabular.ReadFile(tc.Input, tc.Sheet)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	rows, err := table.Series(tc.IDColumn, tc.ValueColumns)
	if err != nil {
		return fmt.Errorf("failed to select series: %w", err)
	}

	entities := make([]trend.Entity, len(rows))
	for i, r := range rows {
		entities[i] = trend.Entity{ID: r.ID, Series: r.Values}
	}

	analyzer := trend.NewAnalyzer(tc.Alpha, logger)
	analyzer.SetWorkers(tc.Workers)
	analyzer.SetRecorder(tel.Metrics)
	outcomes := analyzer.AnalyzeBatch(ctx, entities)

	files, err := exporter.NewTableWriter("").Write(tc.Output, exporter.TrendSheet(tc.IDColumn, outcomes))
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if cfg.Telemetry.MetricsFile != "" {
		if err := tel.WriteMetrics(cfg.Telemetry.MetricsFile); err != nil {
			return err
		}
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	logger.InfoContext(ctx, "Trend analysis finished",
		"entities", len(outcomes),
		"failed", failed,
		"files", files,
		"duration", time.Since(start))

	return ctx.Err()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
