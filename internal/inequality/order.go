package inequality

import (
	"sort"

	apperrors "equitycli/internal/errors"
)

// Order returns the health values sorted ascending by ranking. The sort is
// stable: observations with equal ranking keep their input order, which the
// concentration index depends on. Inputs are not modified.
func Order(health, ranking []float64) ([]float64, error) {
	if len(health) != len(ranking) {
		return nil, apperrors.NewDimensionMismatchError(opOrder, len(health), len(ranking))
	}
	if err := checkFinite(opOrder, "ranking", ranking); err != nil {
		return nil, err
	}

	idx := make([]int, len(ranking))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return ranking[idx[a]] < ranking[idx[b]]
	})

	sorted := make([]float64, len(health))
	for i, j := range idx {
		sorted[i] = health[j]
	}
	return sorted, nil
}
