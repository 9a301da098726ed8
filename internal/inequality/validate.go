package inequality

import (
	"fmt"
	"math"

	apperrors "equitycli/internal/errors"
)

const (
	opOrder        = "order"
	opIndex        = "concentration_index"
	opSmoothCurve  = "smooth_curve"
	opAnalyzeBatch = "analyze_batch"
)

// checkFinite rejects NaN and Inf so they cannot propagate into results
func checkFinite(op, name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewInvalidArgumentError(op,
				fmt.Sprintf("%s value at position %d is not finite", name, i)).
				WithContext("index", i)
		}
	}
	return nil
}

// checkStrictlyIncreasing is the precondition of every interpolator
func checkStrictlyIncreasing(op string, xs []float64) error {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return apperrors.NewDuplicateAbscissaError(op, i, xs[i])
		}
	}
	return nil
}
