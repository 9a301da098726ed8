package trend

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
)

const (
	// TracerName identifies spans emitted by this package
	TracerName = "equitycli.trend"
	// AnalysisName labels recorded metrics
	AnalysisName = "trend"
	// DefaultAlpha is the significance level used to classify a trend
	DefaultAlpha = 0.05
	// DefaultWorkers bounds batch parallelism
	DefaultWorkers = 4
)

// Direction classifies a series by the sign and significance of its trend
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionNone       Direction = "no trend"
)

// Classify returns the direction for a tau and p-value at level alpha
func Classify(tau, pValue, alpha float64) Direction {
	if !(pValue < alpha) || tau == 0 {
		return DirectionNone
	}
	if tau > 0 {
		return DirectionIncreasing
	}
	return DirectionDecreasing
}

// Result summarises the trend of one series
type Result struct {
	Slope     float64   `json:"theil_sen_slope"`
	Tau       float64   `json:"kendall_tau"`
	PValue    float64   `json:"p_value"`
	Method    string    `json:"p_method"`
	Direction Direction `json:"trend"`
	N         int       `json:"n"`
}

// Entity is one identified series of equally spaced observations
type Entity struct {
	ID     string    `json:"id"`
	Series []float64 `json:"series"`
}

// Outcome is the per-entity result of a batch run. Err is nil on success.
type Outcome struct {
	ID       string        `json:"id"`
	Result   Result        `json:"result"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Recorder receives one observation per analysed entity
type Recorder interface {
	RecordEntity(ctx context.Context, analysis string, duration time.Duration, err error)
}

// Analyzer runs Theil-Sen and rank correlation against the time index
type Analyzer struct {
	alpha       float64
	correlation RankCorrelation
	workers     int
	logger      *slog.Logger
	recorder    Recorder
	tracer      trace.Tracer
}

// NewAnalyzer creates an analyzer classifying trends at level alpha. An alpha
// of zero selects DefaultAlpha.
func NewAnalyzer(alpha float64, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	return &Analyzer{
		alpha:       alpha,
		correlation: KendallTauB{},
		workers:     DefaultWorkers,
		logger:      logger.With(slog.String("component", "trend_analyzer")),
		tracer:      otel.Tracer(TracerName),
	}
}

// SetRankCorrelation substitutes the correlation test
func (a *Analyzer) SetRankCorrelation(rc RankCorrelation) {
	if rc != nil {
		a.correlation = rc
	}
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

// Alpha returns the significance level
func (a *Analyzer) Alpha() float64 {
	return a.alpha
}

// TimeIndex returns 1..n
func TimeIndex(n int) []float64 {
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i + 1)
	}
	return idx
}

// Analyze computes the slope and the rank correlation of series against its
// time index
func (a *Analyzer) Analyze(ctx context.Context, series []float64) (Result, error) {
	slope, err := TheilSenSlope(series)
	if err != nil {
		return Result{}, err
	}
	corr, err := a.correlation.Correlate(TimeIndex(len(series)), series)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Slope:     slope,
		Tau:       corr.Tau,
		PValue:    corr.PValue,
		Method:    corr.Method,
		Direction: Classify(corr.Tau, corr.PValue, a.alpha),
		N:         len(series),
	}, nil
}

func (a *Analyzer) analyzeEntity(ctx context.Context, e Entity) Outcome {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "trend.analyze",
		trace.WithAttributes(
			attribute.String("entity", e.ID),
			attribute.Int("observations", len(e.Series)),
		),
	)
	defer span.End()

	result, err := a.Analyze(ctx, e.Series)
	out := Outcome{ID: e.ID, Result: result, Err: err, Duration: time.Since(start)}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.WarnContext(ctx, "entity trend failed",
			"entity", e.ID,
			"observations", len(e.Series),
			"error", err,
		)
	} else {
		span.SetAttributes(
			attribute.Float64("slope", result.Slope),
			attribute.Float64("p_value", result.PValue),
		)
		a.logger.DebugContext(ctx, "entity trend computed",
			"entity", e.ID,
			"slope", result.Slope,
			"tau", result.Tau,
			"p_value", result.PValue,
			"method", result.Method,
		)
	}

	if a.recorder != nil {
		a.recorder.RecordEntity(ctx, AnalysisName, out.Duration, err)
	}
	return out
}

// AnalyzeBatch analyses entities in parallel. Each failure stays in its own
// outcome; outcomes come back in input order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, entities []Entity) []Outcome {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "trend.analyze_batch",
		trace.WithAttributes(attribute.Int("entities", len(entities))),
	)
	defer span.End()

	a.logger.InfoContext(ctx, "starting trend analysis",
		"entities", len(entities),
		"workers", a.workers,
		"alpha", a.alpha,
	)

	outcomes := make([]Outcome, len(entities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, e := range entities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{ID: e.ID, Err: fmt.Errorf("%s: %w", opAnalyzeBatch, err)}
				return nil
			}
			outcomes[i] = a.analyzeEntity(gctx, e)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("failed", failed))

	a.logger.InfoContext(ctx, "trend analysis completed",
		"entities", len(entities),
		"failed", failed,
		"duration", time.Since(start),
	)
	return outcomes
}
