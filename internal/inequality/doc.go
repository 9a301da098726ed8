// Package inequality measures how a health indicator is distributed across a
// socioeconomic ranking.
//
// # Core Components
//
//  1. Rank ordering: health values are stably sorted by the ranking covariate.
//     Equal ranking values keep their input order; no averaged ranks are used.
//  2. Concentration index: CI = 2/(μ·n) · Σ h_i·R_i − 1 with the fractional
//     midpoint rank R_i = (i − 0.5)/n.
//  3. Concentration curve: cumulative population share against cumulative
//     health share, with the origin prepended, fitted by a cubic interpolating
//     spline and resampled on a fixed grid over [0, 1].
//
// # Architecture
//
//   - types.go: samples, curve points and per-indicator reports
//   - order.go: stable rank ordering
//   - index.go: concentration index
//   - curve.go: raw curve construction and spline smoothing
//   - analyzer.go: per-indicator analysis and batch dispatch
//   - validate.go: input checks shared by the engines
//
// # Usage Example
//
//	sorted, err := inequality.Order(health, gdpPerCapita)
//	if err != nil {
//	    return err
//	}
//	ci, err := inequality.ConcentrationIndex(sorted)
//	if err != nil {
//	    return err
//	}
//	curve, err := inequality.SmoothCurve(sorted, inequality.DefaultResolution)
//
// # Failure Signals
//
// Every engine returns either a finite value or a typed *errors.AnalysisError
// (dimension mismatch, empty input, insufficient data, undefined result,
// duplicate abscissa, invalid argument). NaN and Inf never leak out.
//
// The smoothed curve is not clamped to the unit square and is not made
// monotonic: cubic overshoot between knots is part of the output.
package inequality
