package trend

import (
	"fmt"
	"math"

	apperrors "equitycli/internal/errors"
)

const (
	opTheilSen     = "theil_sen_slope"
	opKendall      = "kendall_tau_b"
	opAnalyzeBatch = "analyze_batch"
)

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
