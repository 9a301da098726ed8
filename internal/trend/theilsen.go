package trend

import (
	"sort"

	apperrors "equitycli/internal/errors"
)

// TheilSenSlope returns the median of the pairwise slopes (x_j − x_i)/(j − i)
// over all i < j. An even number of slopes yields the mean of the two middle
// values.
func TheilSenSlope(series []float64) (float64, error) {
	n := len(series)
	if n < 2 {
		return 0, apperrors.NewInsufficientDataError(opTheilSen, n, 2)
	}
	if err := checkFinite(opTheilSen, "series", series); err != nil {
		return 0, err
	}

	slopes := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			slopes = append(slopes, (series[j]-series[i])/float64(j-i))
		}
	}
	return median(slopes), nil
}

// median sorts values in place
func median(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}
