package inequality

import (
	"errors"
	"fmt"
	"time"

	apperrors "equitycli/internal/errors"
)

const (
	// DefaultResolution is the number of points in a smoothed curve
	DefaultResolution = 200
	// MinCurveObservations is the smallest sample a cubic spline can be fitted to
	// (n observations plus the origin gives n+1 >= 4 knots)
	MinCurveObservations = 3
)

// Sample pairs health values with the ranking covariate used to order them
type Sample struct {
	Health  []float64 `json:"health"`
	Ranking []float64 `json:"ranking"`
}

// Len returns the number of observations
func (s Sample) Len() int {
	return len(s.Health)
}

// Validate checks the pairing invariant
func (s Sample) Validate() error {
	if len(s.Health) != len(s.Ranking) {
		return apperrors.NewDimensionMismatchError(opOrder, len(s.Health), len(s.Ranking))
	}
	return nil
}

// CurvePoint is cumulative population share (X) against cumulative health share (Y)
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ConcentrationCurve holds the raw knots and the resampled spline
type ConcentrationCurve struct {
	Raw      []CurvePoint `json:"raw"`
	Smoothed []CurvePoint `json:"smoothed"`
}

// Indicator is one named health variable to analyse against a ranking
type Indicator struct {
	Name   string `json:"name"`
	Sample Sample `json:"sample"`
}

// Report is the outcome of analysing one indicator. The index and the curve
// are computed independently, so one may fail while the other succeeds.
type Report struct {
	Indicator string              `json:"indicator"`
	N         int                 `json:"n"`
	Mean      float64             `json:"mean"`
	HasMean   bool                `json:"has_mean"`
	Index     float64             `json:"concentration_index"`
	IndexErr  error               `json:"-"`
	Curve     *ConcentrationCurve `json:"curve,omitempty"`
	CurveErr  error               `json:"-"`
	Duration  time.Duration       `json:"duration"`
}

// Err returns the combined failure of the report, or nil
func (r Report) Err() error {
	if r.IndexErr != nil && r.CurveErr == r.IndexErr {
		return r.IndexErr
	}
	return errors.Join(r.IndexErr, r.CurveErr)
}

// Annotation is the label overlaid on the rendered curve
func (r Report) Annotation() string {
	if r.IndexErr != nil {
		return ""
	}
	return fmt.Sprintf("CI = %.4f", r.Index)
}
