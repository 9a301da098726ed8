package inequality

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const (
	// TracerName identifies spans emitted by this package
	TracerName = "equitycli.inequality"
	// AnalysisName labels recorded metrics
	AnalysisName = "concentration"
	// DefaultWorkers bounds batch parallelism
	DefaultWorkers = 4
)

// Recorder receives one observation per analysed indicator
type Recorder interface {
	RecordEntity(ctx context.Context, analysis string, duration time.Duration, err error)
}

// Analyzer computes concentration reports for one or many indicators
type Analyzer struct {
	smoother *Smoother
	workers  int
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
}

// NewAnalyzer creates an analyzer resampling curves at the given resolution
func NewAnalyzer(resolution int, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if resolution == 0 {
		resolution = DefaultResolution
	}
	return &Analyzer{
		smoother: NewSmoother(resolution, nil),
		workers:  DefaultWorkers,
		logger:   logger.With(slog.String("component", "concentration_analyzer")),
		tracer:   otel.Tracer(TracerName),
	}
}

// SetInterpolator substitutes the curve interpolator
func (a *Analyzer) SetInterpolator(factory InterpolatorFactory) {
	a.smoother = NewSmoother(a.smoother.Resolution(), factory)
}

// SetWorkers sets the batch parallelism; values below 1 mean one worker
func (a *Analyzer) SetWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}
	a.workers = workers
}

// SetRecorder attaches a metrics recorder
func (a *Analyzer) SetRecorder(r Recorder) {
	a.recorder = r
}

// Analyze orders one indicator and computes its index and curve independently
func (a *Analyzer) Analyze(ctx context.Context, ind Indicator) Report {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "inequality.analyze",
		trace.WithAttributes(
			attribute.String("indicator", ind.Name),
			attribute.Int("observations", ind.Sample.Len()),
		),
	)
	defer span.End()

	report := Report{Indicator: ind.Name, N: ind.Sample.Len()}

	sorted, err := Order(ind.Sample.Health, ind.Sample.Ranking)
	if err != nil {
		report.IndexErr = err
		report.CurveErr = err
	} else {
		if len(sorted) > 0 && checkFinite(opIndex, "health", sorted) == nil {
			report.Mean = stat.Mean(sorted, nil)
			report.HasMean = true
		}
		report.Index, report.IndexErr = ConcentrationIndex(sorted)
		report.Curve, report.CurveErr = a.smoother.Smooth(sorted)
	}
	report.Duration = time.Since(start)

	if err := report.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.WarnContext(ctx, "indicator analysis failed",
			"indicator", ind.Name,
			"observations", report.N,
			"error", err,
		)
	} else {
		span.SetAttributes(attribute.Float64("concentration_index", report.Index))
		a.logger.DebugContext(ctx, "indicator analysed",
			"indicator", ind.Name,
			"observations", report.N,
			"concentration_index", report.Index,
			"duration", report.Duration,
		)
	}

	if a.recorder != nil {
		a.recorder.RecordEntity(ctx, AnalysisName, report.Duration, report.Err())
	}
	return report
}

// AnalyzeBatch analyses indicators in parallel. Each indicator's failure is
// kept in its own report; reports come back in input order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, indicators []Indicator) []Report {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "inequality.analyze_batch",
		trace.WithAttributes(attribute.Int("indicators", len(indicators))),
	)
	defer span.End()

	a.logger.InfoContext(ctx, "starting concentration analysis",
		"indicators", len(indicators),
		"workers", a.workers,
		"resolution", a.smoother.Resolution(),
	)

	reports := make([]Report, len(indicators))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, ind := range indicators {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				cancelled := fmt.Errorf("%s: %w", opAnalyzeBatch, err)
				reports[i] = Report{
					Indicator: ind.Name,
					N:         ind.Sample.Len(),
					IndexErr:  cancelled,
					CurveErr:  cancelled,
				}
				return nil
			}
			reports[i] = a.Analyze(gctx, ind)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range reports {
		if r.Err() != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("failed", failed))

	a.logger.InfoContext(ctx, "concentration analysis completed",
		"indicators", len(indicators),
		"failed", failed,
		"duration", time.Since(start),
	)
	return reports
}
