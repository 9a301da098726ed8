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
	"equitycli/internal/inequality"
	"equitycli/internal/infrastructure"
	"equitycli/internal/tabular"
	"equitycli/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	input := flag.String("in", "", "input workbook (.xlsx) or .csv with one observation per row")
	sheet := flag.String("sheet", "", "worksheet name (default: first sheet)")
	ranking := flag.String("rank", "", "socioeconomic ranking column (default: GDP_per_capita)")
	health := flag.String("health", "", "comma separated health columns (default: every other numeric column)")
	output := flag.String("out", "", "output table (.csv or .xlsx); curves go to a second sheet or file")
	resolution := flag.Int("resolution", 0, "points per smoothed curve (default: 200)")
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
			cfg.Concentration.Input = *input
		case "sheet":
			cfg.Concentration.Sheet = *sheet
		case "rank":
			cfg.Concentration.RankingColumn = *ranking
		case "health":
			cfg.Concentration.HealthColumns = splitList(*health)
		case "out":
			cfg.Concentration.Output = *output
		case "resolution":
			cfg.Concentration.Resolution = *resolution
		case "workers":
			cfg.Concentration.Workers = *workers
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

	err = run(ctx, cfg, infrastructure.WithComponent(logger, "concentration_cli"))
	stop()
	infrastructure.CloseLogFile()
	if err != nil {
		logger.ErrorContext(ctx, "Concentration analysis failed", "error", err)
		os.Exit(1)
	}
}

// run reads the ranking and health columns, analyses each health column and
// writes the summary and curve tables
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	cc := cfg.Concentration
	if cc.Input == "" {
		return errors.New("no input file: set -in or concentration.input")
	}
	if cc.Output == "" {
		return errors.New("no output file: set -out or concentration.output")
	}
	fv := validation.NewFileValidator(logger)
	if err := fv.ValidateInputFile(cc.Input); err != nil {
		return err
	}
	if err := fv.ValidateOutputFile(cc.Output); err != nil {
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

	logger.InfoContext(ctx, "Loading indicators", "path", cc.Input, "sheet", cc.Sheet)
	table, err := tabular.ReadFile(cc.Input, cc.Sheet)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	rankingValues, err := table.FloatColumn(cc.RankingColumn)
	if err != nil {
		return fmt.Errorf("failed to read ranking column: %w", err)
	}

	healthColumns := cc.HealthColumns
	if len(healthColumns) == 0 {
		healthColumns = table.NumericColumns(cc.RankingColumn)
	}
	if len(healthColumns) == 0 {
		return fmt.Errorf("no numeric health columns besides %q in %s", cc.RankingColumn, cc.Input)
	}

	indicators := make([]inequality.Indicator, 0, len(healthColumns))
	for _, name := range healthColumns {
		values, err := table.FloatColumn(name)
		if err != nil {
			return fmt.Errorf("failed to read health column: %w", err)
		}
		indicators = append(indicators, inequality.Indicator{
			Name:   name,
			Sample: inequality.Sample{Health: values, Ranking: rankingValues},
		})
	}

	analyzer := inequality.NewAnalyzer(cc.Resolution, logger)
	analyzer.SetWorkers(cc.Workers)
	analyzer.SetRecorder(tel.Metrics)
	reports := analyzer.AnalyzeBatch(ctx, indicators)

	files, err := exporter.NewTableWriter("").Write(cc.Output,
		exporter.SummarySheet(reports),
		exporter.CurveSheet(reports),
	)
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if cfg.Telemetry.MetricsFile != "" {
		if err := tel.WriteMetrics(cfg.Telemetry.MetricsFile); err != nil {
			return err
		}
	}

	failed := 0
	for _, r := range reports {
		if r.Err() != nil {
			failed++
		}
	}
	logger.InfoContext(ctx, "Concentration analysis finished",
		"indicators", len(reports),
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
