package inequality

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	apperrors "equitycli/internal/errors"
)

// CubicInterpolator fits a degree-3 spline through k points and evaluates it
// at arbitrary abscissas. Fit may assume xs is strictly increasing.
type CubicInterpolator interface {
	Fit(xs, ys []float64) error
	Predict(x float64) float64
}

// InterpolatorFactory returns a fresh interpolator for each fit
type InterpolatorFactory func() CubicInterpolator

// NotAKnotInterpolator is the default interpolator: a cubic spline whose third
// derivative is continuous at the first and last interior knots.
func NotAKnotInterpolator() CubicInterpolator {
	return &interp.NotAKnotCubic{}
}

// Smoother builds concentration curves with a substitutable interpolator
type Smoother struct {
	resolution      int
	newInterpolator InterpolatorFactory
}

// NewSmoother creates a smoother. A nil factory selects NotAKnotInterpolator.
func NewSmoother(resolution int, factory InterpolatorFactory) *Smoother {
	if factory == nil {
		factory = NotAKnotInterpolator
	}
	return &Smoother{
		resolution:      resolution,
		newInterpolator: factory,
	}
}

// Resolution returns the number of resampled points
func (s *Smoother) Resolution() int {
	return s.resolution
}

// SmoothCurve builds the curve of ranking-sorted health values with the default interpolator
func SmoothCurve(sorted []float64, resolution int) (*ConcentrationCurve, error) {
	return NewSmoother(resolution, nil).Smooth(sorted)
}

// Smooth builds the raw curve of ranking-sorted health values and resamples a
// cubic spline through it on an equally spaced grid that includes both 0 and 1.
func (s *Smoother) Smooth(sorted []float64) (*ConcentrationCurve, error) {
	xs, ys, err := RawCurve(sorted)
	if err != nil {
		return nil, err
	}
	if s.resolution < 2 {
		return nil, apperrors.NewInvalidArgumentError(opSmoothCurve, "resolution must be at least 2").
			WithContext("resolution", s.resolution)
	}

	spline := s.newInterpolator()
	if err := spline.Fit(xs, ys); err != nil {
		return nil, apperrors.WrapAnalysisError(apperrors.KindUndefinedResult, opSmoothCurve,
			"spline fit failed", err)
	}

	raw := make([]CurvePoint, len(xs))
	for i := range xs {
		raw[i] = CurvePoint{X: xs[i], Y: ys[i]}
	}

	smoothed := make([]CurvePoint, s.resolution)
	step := 1.0 / float64(s.resolution-1)
	for k := range smoothed {
		x := float64(k) * step
		if k == s.resolution-1 {
			x = 1
		}
		smoothed[k] = CurvePoint{X: x, Y: spline.Predict(x)}
	}

	return &ConcentrationCurve{Raw: raw, Smoothed: smoothed}, nil
}

// RawCurve returns the n+1 knots of the concentration curve: the origin
// followed by (i/n, cum_i/total) for i = 1..n.
func RawCurve(sorted []float64) (xs, ys []float64, err error) {
	n := len(sorted)
	if n == 0 {
		return nil, nil, apperrors.NewEmptyInputError(opSmoothCurve)
	}
	if n < MinCurveObservations {
		return nil, nil, apperrors.NewInsufficientDataError(opSmoothCurve, n, MinCurveObservations)
	}
	if err := checkFinite(opSmoothCurve, "health", sorted); err != nil {
		return nil, nil, err
	}

	cum := floats.CumSum(make([]float64, n), sorted)
	total := cum[n-1]
	if total == 0 {
		return nil, nil, apperrors.NewUndefinedResultError(opSmoothCurve, "total health")
	}

	xs = make([]float64, n+1)
	ys = make([]float64, n+1)
	fn := float64(n)
	for i := 1; i <= n; i++ {
		xs[i] = float64(i) / fn
		ys[i] = cum[i-1] / total
	}

	if err := checkStrictlyIncreasing(opSmoothCurve, xs); err != nil {
		return nil, nil, err
	}
	return xs, ys, nil
}
