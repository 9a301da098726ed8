package inequality

import (
	"math"

	"gonum.org/v1/gonum/stat"

	apperrors "equitycli/internal/errors"
)

// ConcentrationIndex computes the rank-based concentration index of health
// values already sorted by the ranking covariate. It does not re-sort.
//
//	CI = 2/(μ·n) · Σ h_i·(i − 0.5)/n − 1
func ConcentrationIndex(sorted []float64) (float64, error) {
	n := len(sorted)
	if n == 0 {
		return 0, apperrors.NewEmptyInputError(opIndex)
	}
	if err := checkFinite(opIndex, "health", sorted); err != nil {
		return 0, err
	}

	mu := stat.Mean(sorted, nil)
	if mu == 0 {
		return 0, apperrors.NewUndefinedResultError(opIndex, "mean health")
	}

	fn := float64(n)
	var s float64
	for i, h := range sorted {
		rank := (float64(i+1) - 0.5) / fn
		s += h * rank
	}

	ci := 2.0/(mu*fn)*s - 1.0
	if math.IsNaN(ci) || math.IsInf(ci, 0) {
		return 0, apperrors.NewUndefinedResultError(opIndex, "scaled mean health")
	}
	return ci, nil
}

// Compute orders the sample and returns its concentration index
func Compute(health, ranking []float64) (float64, error) {
	sorted, err := Order(health, ranking)
	if err != nil {
		return 0, err
	}
	return ConcentrationIndex(sorted)
}
